package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	"totaro-checkout/internal/model"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	HeaderEventType   = "event_type"
	HeaderTraceparent = "traceparent"
)

// OrderEvent is emitted whenever an order changes status.
type OrderEvent struct {
	Type       string            `json:"type"`
	OrderID    string            `json:"orderId"`
	PaymentKey string            `json:"paymentKey,omitempty"`
	Status     model.OrderStatus `json:"status"`
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// NewOrderEvent builds the event for an order's current status, e.g. "order.paid".
func NewOrderEvent(order *model.Order) OrderEvent {
	ev := OrderEvent{
		Type:       "order." + strings.ToLower(string(order.Status)),
		OrderID:    order.OrderID,
		Status:     order.Status,
		Amount:     order.Price,
		Currency:   order.Currency,
		OccurredAt: time.Now().UTC(),
	}
	if order.PaymentKey != nil {
		ev.PaymentKey = *order.PaymentKey
	}
	return ev
}

type Publisher interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	w MessageWriter
}

func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(ev.OrderID),
		Value:   body,
		Headers: injectTraceHeaders(ctx, []kafka.Header{{Key: HeaderEventType, Value: []byte(ev.Type)}}),
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for %s: %w", ev.Type, ev.OrderID, err)
	}

	log.WithFields(log.Fields{"type": ev.Type, "orderId": ev.OrderID}).Debug("Order event published")
	return nil
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// New returns the Kafka publisher, or a no-op one when no writer is configured.
func New(w *kafka.Writer) Publisher {
	if w == nil {
		return NoopPublisher{}
	}
	return NewKafkaPublisher(w)
}

// MemoryPublisher keeps published events in order.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (p *MemoryPublisher) Publish(_ context.Context, ev OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *MemoryPublisher) Events() []OrderEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OrderEvent(nil), p.events...)
}
