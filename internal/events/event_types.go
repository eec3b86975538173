package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSaleCreated    EventType = "sale_created"
	EventStockAdjusted  EventType = "stock_adjusted"
	EventUserLoggedIn   EventType = "user_logged_in"
	EventUserLoggedOut  EventType = "user_logged_out"
	EventUserRegistered EventType = "user_registered"
)

// Event represents a domain event emitted by services. Events exist only for
// the duration of a publish call; they are never stored or replayed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with an id and emission time.
func New(eventType EventType, subject string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// SaleCreatedPayload payload.
type SaleCreatedPayload struct {
	SaleID int64   `json:"sale_id"`
	Total  float64 `json:"total"`
}

// StockAdjustedPayload payload.
type StockAdjustedPayload struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	NewStock    int    `json:"new_stock"`
}

// PresenceChangedPayload payload shared by login and logout events.
type PresenceChangedPayload struct {
	ActiveUsers int64 `json:"active_users"`
}
