package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/events"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/realtime"
)

// RealtimeNotifier bridges domain events onto the broadcast topics. It is
// the only component that knows the wire shape of notifications; services
// publish domain events and never observe delivery outcomes.
type RealtimeNotifier struct {
	dispatcher  events.Dispatcher
	broadcaster *realtime.Broadcaster
	logger      *zap.Logger
}

// NewRealtimeNotifier creates the notifier.
func NewRealtimeNotifier(dispatcher events.Dispatcher, broadcaster *realtime.Broadcaster, logger *zap.Logger) *RealtimeNotifier {
	return &RealtimeNotifier{
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// RegisterHandlers subscribes to the domain events that fan out.
func (n *RealtimeNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserLoggedIn, n.handlePresence(realtime.TypeUserConnected))
	n.dispatcher.Subscribe(events.EventUserLoggedOut, n.handlePresence(realtime.TypeUserDisconnected))
	n.dispatcher.Subscribe(events.EventSaleCreated, n.handleSaleCreated)
	n.dispatcher.Subscribe(events.EventStockAdjusted, n.handleStockAdjusted)
}

func (n *RealtimeNotifier) handlePresence(notificationType realtime.NotificationType) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.PresenceChangedPayload)
		if !ok {
			n.logger.Warn("presence event with unexpected payload", zap.String("event_id", event.ID))
			return nil
		}
		n.broadcaster.Publish(realtime.TopicUsers, realtime.UserNotification{
			Type:        notificationType,
			Username:    event.Subject,
			Timestamp:   realtime.Stamp(event.Timestamp),
			ActiveUsers: payload.ActiveUsers,
		})
		return nil
	}
}

func (n *RealtimeNotifier) handleSaleCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SaleCreatedPayload)
	if !ok {
		n.logger.Warn("sale event with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	n.broadcaster.Publish(realtime.TopicSales, realtime.SaleNotification{
		Type:      realtime.TypeNewSale,
		SaleID:    payload.SaleID,
		Username:  event.Subject,
		Total:     payload.Total,
		Timestamp: realtime.Stamp(event.Timestamp),
	})
	return nil
}

func (n *RealtimeNotifier) handleStockAdjusted(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StockAdjustedPayload)
	if !ok {
		n.logger.Warn("stock event with unexpected payload", zap.String("event_id", event.ID))
		return nil
	}
	n.broadcaster.Publish(realtime.TopicInventory, realtime.InventoryNotification{
		Type:        realtime.TypeInventoryUpdate,
		ProductID:   payload.ProductID,
		ProductName: payload.ProductName,
		NewStock:    payload.NewStock,
		Timestamp:   realtime.Stamp(event.Timestamp),
	})
	return nil
}
