package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits order events. Publish never blocks the request path on
// the broker; delivery failures are logged.
type Publisher interface {
	Publish(ctx context.Context, ev Envelope)
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers messages in an inbox channel drained by one goroutine
type Producer struct {
	w      messageWriter
	logger *zap.Logger
	inbox  chan kafka.Message
	done   chan struct{}

	// mu guards closed; Publish holds it for reading while it sends
	mu     sync.RWMutex
	closed bool
}

// NewProducer creates a Kafka producer for topic and starts its writer loop
func NewProducer(brokers []string, topic string, buf int, logger *zap.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newProducer(w, buf, logger)
}

func newProducer(w messageWriter, buf int, logger *zap.Logger) *Producer {
	p := &Producer{
		w:      w,
		logger: logger,
		inbox:  make(chan kafka.Message, buf),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Producer) run() {
	defer close(p.done)
	for m := range p.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.w.WriteMessages(ctx, m); err != nil {
			p.logger.Error("Failed to write event",
				zap.String("key", string(m.Key)),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Publish queues ev keyed by its correlation id so that all events of one
// order land on the same partition. A full inbox drops the event.
func (p *Producer) Publish(ctx context.Context, ev Envelope) {
	value, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("Failed to encode event", zap.String("event_type", ev.EventType), zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(ev.CorrelationID),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.EventType)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("Event dropped, producer closed", zap.String("event_id", ev.EventID))
		return
	}

	select {
	case p.inbox <- msg:
	case <-ctx.Done():
		p.logger.Warn("Event dropped, request cancelled", zap.String("event_id", ev.EventID))
	default:
		p.logger.Warn("Event dropped, producer inbox full", zap.String("event_id", ev.EventID))
	}
}

// Close flushes queued messages and closes the writer
func (p *Producer) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()

	<-p.done
	return p.w.Close()
}

// Noop discards events; used when no brokers are configured
type Noop struct{}

func (Noop) Publish(context.Context, Envelope) {}

func (Noop) Close() error { return nil }
