package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/observability"
)

func newTestBroadcaster() (*Broadcaster, *observability.Metrics) {
	metrics := observability.NewMetrics()
	return NewBroadcaster(zap.NewNop(), metrics), metrics
}

func TestPublishWithoutSubscribersIsNoOp(t *testing.T) {
	b, metrics := newTestBroadcaster()

	b.Publish(TopicSales, SaleNotification{Type: TypeNewSale, SaleID: 1})

	assert.Zero(t, metrics.BroadcastCount(string(TopicSales), "delivered"))
	assert.Zero(t, metrics.BroadcastCount(string(TopicSales), "dropped"))
}

func TestPublishFansOutToTopicSubscribers(t *testing.T) {
	b, metrics := newTestBroadcaster()

	first := NewChannelSink(4)
	second := NewChannelSink(4)
	b.Subscribe(TopicUsers, "conn-1", first)
	b.Subscribe(TopicUsers, "conn-2", second)
	require.Equal(t, 2, b.SubscriberCount(TopicUsers))

	b.Publish(TopicUsers, UserNotification{
		Type:        TypeUserConnected,
		Username:    "alice@example.com",
		ActiveUsers: 1,
	})

	for _, sink := range []*ChannelSink{first, second} {
		select {
		case payload := <-sink.C():
			var got UserNotification
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, TypeUserConnected, got.Type)
			assert.Equal(t, "alice@example.com", got.Username)
			assert.EqualValues(t, 1, got.ActiveUsers)
		default:
			t.Fatal("sink did not receive the notification")
		}
	}
	assert.EqualValues(t, 2, metrics.BroadcastCount(string(TopicUsers), "delivered"))
}

func TestPublishPreservesOrderPerSink(t *testing.T) {
	b, _ := newTestBroadcaster()

	sink := NewChannelSink(8)
	b.Subscribe(TopicInventory, "conn-1", sink)

	for stock := 1; stock <= 3; stock++ {
		b.Publish(TopicInventory, InventoryNotification{
			Type:      TypeInventoryUpdate,
			ProductID: 9,
			NewStock:  stock,
		})
	}

	for want := 1; want <= 3; want++ {
		var got InventoryNotification
		require.NoError(t, json.Unmarshal(<-sink.C(), &got))
		assert.Equal(t, want, got.NewStock)
	}
}

func TestFullSinkDropsWithoutBlocking(t *testing.T) {
	b, metrics := newTestBroadcaster()

	sink := NewChannelSink(1)
	b.Subscribe(TopicSales, "conn-1", sink)

	b.Publish(TopicSales, SaleNotification{Type: TypeNewSale, SaleID: 1})
	b.Publish(TopicSales, SaleNotification{Type: TypeNewSale, SaleID: 2})

	assert.EqualValues(t, 1, metrics.BroadcastCount(string(TopicSales), "delivered"))
	assert.EqualValues(t, 1, metrics.BroadcastCount(string(TopicSales), "dropped"))

	var got SaleNotification
	require.NoError(t, json.Unmarshal(<-sink.C(), &got))
	assert.EqualValues(t, 1, got.SaleID)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b, _ := newTestBroadcaster()

	sink := NewChannelSink(4)
	b.Subscribe(TopicUsers, "conn-1", sink)
	b.Unsubscribe(TopicUsers, "conn-1")

	b.Publish(TopicUsers, UserNotification{Type: TypeUserDisconnected})

	select {
	case <-sink.C():
		t.Fatal("unsubscribed sink received a notification")
	default:
	}
}

func TestSendToSubject(t *testing.T) {
	b, _ := newTestBroadcaster()

	sink := NewChannelSink(4)
	b.AttachSubject("alice@example.com", sink)

	b.SendToSubject("alice@example.com", map[string]string{"hello": "alice"})
	b.SendToSubject("bob@example.com", map[string]string{"hello": "bob"})

	select {
	case payload := <-sink.C():
		assert.JSONEq(t, `{"hello":"alice"}`, string(payload))
	default:
		t.Fatal("attached subject did not receive the unicast")
	}

	b.DetachSubject("alice@example.com")
	b.SendToSubject("alice@example.com", map[string]string{"hello": "again"})
	select {
	case <-sink.C():
		t.Fatal("detached subject received a unicast")
	default:
	}
}

func TestNotificationWireFormat(t *testing.T) {
	payload, err := json.Marshal(UserNotification{
		Type:        TypeUserConnected,
		Username:    "alice@example.com",
		Timestamp:   "2026-08-28T10:00:00Z",
		ActiveUsers: 3,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "USER_CONNECTED",
		"username": "alice@example.com",
		"timestamp": "2026-08-28T10:00:00Z",
		"activeUsers": 3
	}`, string(payload))

	payload, err = json.Marshal(SaleNotification{
		Type:      TypeNewSale,
		SaleID:    42,
		Username:  "alice@example.com",
		Total:     99.5,
		Timestamp: "2026-08-28T10:00:00Z",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "NEW_SALE",
		"saleId": 42,
		"username": "alice@example.com",
		"total": 99.5,
		"timestamp": "2026-08-28T10:00:00Z"
	}`, string(payload))

	payload, err = json.Marshal(InventoryNotification{
		Type:        TypeInventoryUpdate,
		ProductID:   7,
		ProductName: "Latte",
		NewStock:    12,
		Timestamp:   "2026-08-28T10:00:00Z",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "INVENTORY_UPDATE",
		"productId": 7,
		"productName": "Latte",
		"newStock": 12,
		"timestamp": "2026-08-28T10:00:00Z"
	}`, string(payload))
}
