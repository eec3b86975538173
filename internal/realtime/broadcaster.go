package realtime

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/observability"
)

// Sink is a live delivery endpoint owned by the transport layer. Deliver
// must not block; a sink that cannot accept the payload returns an error
// and the message is dropped.
type Sink interface {
	Deliver(payload []byte) error
}

// Broadcaster routes serialized notifications to the sinks currently
// subscribed to a topic, and to per-subject channels for unicast. It holds
// no durable state: messages to topics without subscribers are dropped
// silently and are never retried or persisted.
type Broadcaster struct {
	mu       sync.RWMutex
	topics   map[Topic]map[string]Sink
	subjects map[string]Sink
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(logger *zap.Logger, metrics *observability.Metrics) *Broadcaster {
	return &Broadcaster{
		topics:   make(map[Topic]map[string]Sink),
		subjects: make(map[string]Sink),
		logger:   logger,
		metrics:  metrics,
	}
}

// Subscribe attaches a sink to a topic under the given subscriber id.
// Re-subscribing with the same id replaces the previous sink.
func (b *Broadcaster) Subscribe(topic Topic, id string, sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sinks, ok := b.topics[topic]
	if !ok {
		sinks = make(map[string]Sink)
		b.topics[topic] = sinks
	}
	sinks[id] = sink
}

// Unsubscribe detaches a subscriber from a topic. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(topic Topic, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sinks, ok := b.topics[topic]; ok {
		delete(sinks, id)
	}
}

// AttachSubject binds a subject-addressed channel for unicast delivery.
func (b *Broadcaster) AttachSubject(subject string, sink Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subjects[subject] = sink
}

// DetachSubject removes a subject-addressed channel.
func (b *Broadcaster) DetachSubject(subject string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subjects, subject)
}

// SubscriberCount returns how many sinks are attached to a topic.
func (b *Broadcaster) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// Publish serializes the event and hands it to every sink attached to the
// topic. Delivery is at most once: sink failures are counted and logged,
// never surfaced to the caller.
func (b *Broadcaster) Publish(topic Topic, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal notification", zap.String("topic", string(topic)), zap.Error(err))
		return
	}

	b.mu.RLock()
	sinks := make([]Sink, 0, len(b.topics[topic]))
	for _, sink := range b.topics[topic] {
		sinks = append(sinks, sink)
	}
	b.mu.RUnlock()

	delivered, dropped := 0, 0
	for _, sink := range sinks {
		if err := sink.Deliver(payload); err != nil {
			dropped++
			b.logger.Debug("notification dropped",
				zap.String("topic", string(topic)),
				zap.Error(err))
			continue
		}
		delivered++
	}
	b.metrics.RecordBroadcast(string(topic), delivered, dropped)
}

// SendToSubject delivers a payload to a single subject's channel if one is
// attached; otherwise the message is dropped.
func (b *Broadcaster) SendToSubject(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("marshal unicast payload", zap.String("subject", subject), zap.Error(err))
		return
	}

	b.mu.RLock()
	sink, ok := b.subjects[subject]
	b.mu.RUnlock()
	if !ok {
		return
	}
	if err := sink.Deliver(data); err != nil {
		b.logger.Debug("unicast dropped", zap.String("subject", subject), zap.Error(err))
	}
}

// ErrSinkFull reports a channel sink whose buffer is saturated.
var ErrSinkFull = errors.New("sink buffer full")

// ChannelSink adapts a buffered channel into a Sink. Deliver never blocks;
// payloads beyond the buffer are dropped.
type ChannelSink struct {
	ch chan []byte
}

// NewChannelSink allocates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelSink{ch: make(chan []byte, buffer)}
}

// Deliver enqueues the payload or reports a full buffer.
func (s *ChannelSink) Deliver(payload []byte) error {
	select {
	case s.ch <- payload:
		return nil
	default:
		return ErrSinkFull
	}
}

// C exposes the receive side for the transport layer.
func (s *ChannelSink) C() <-chan []byte {
	return s.ch
}
