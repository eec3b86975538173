package realtime

import "time"

// Topic names a broadcast channel with zero or more live subscribers.
type Topic string

const (
	TopicUsers     Topic = "users"
	TopicSales     Topic = "sales"
	TopicInventory Topic = "inventory"
)

// NotificationType tags outgoing payloads.
type NotificationType string

const (
	TypeUserConnected    NotificationType = "USER_CONNECTED"
	TypeUserDisconnected NotificationType = "USER_DISCONNECTED"
	TypeNewSale          NotificationType = "NEW_SALE"
	TypeInventoryUpdate  NotificationType = "INVENTORY_UPDATE"
)

// UserNotification announces presence changes on the users topic.
type UserNotification struct {
	Type        NotificationType `json:"type"`
	Username    string           `json:"username"`
	Timestamp   string           `json:"timestamp"`
	ActiveUsers int64            `json:"activeUsers"`
}

// SaleNotification announces a recorded sale on the sales topic.
type SaleNotification struct {
	Type      NotificationType `json:"type"`
	SaleID    int64            `json:"saleId"`
	Username  string           `json:"username"`
	Total     float64          `json:"total"`
	Timestamp string           `json:"timestamp"`
}

// InventoryNotification announces a stock change on the inventory topic.
type InventoryNotification struct {
	Type        NotificationType `json:"type"`
	ProductID   int64            `json:"productId"`
	ProductName string           `json:"productName"`
	NewStock    int              `json:"newStock"`
	Timestamp   string           `json:"timestamp"`
}

// Stamp formats an emission timestamp for the wire.
func Stamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
