package events

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

const producerName = "storefront-api"

// Envelope wraps every event written to the orders topic
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type LinePayload struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderPlacedPayload struct {
	OrderID string          `json:"order_id"`
	UserID  string          `json:"user_id"`
	Lines   []LinePayload   `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	Status  string          `json:"status"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// NewEnvelope marshals payload into a version 1 envelope keyed by orderID
func NewEnvelope(eventType, orderID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producerName,
		CorrelationID: orderID,
		Payload:       raw,
	}, nil
}

// OrderPlaced builds the event emitted after an order is stored
func OrderPlaced(order *domain.Order) (Envelope, error) {
	lines := make([]LinePayload, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, LinePayload{
			ProductID: l.ProductID.String(),
			Name:      l.ProductName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return NewEnvelope(EventOrderPlaced, order.ID.String(), OrderPlacedPayload{
		OrderID: order.ID.String(),
		UserID:  order.User.ID.String(),
		Lines:   lines,
		Total:   order.Total,
		Status:  string(order.Status),
	})
}

// OrderStatusChanged builds the event emitted after a status transition
func OrderStatusChanged(orderID uuid.UUID, from, to domain.OrderStatus) (Envelope, error) {
	return NewEnvelope(EventOrderStatusChanged, orderID.String(), OrderStatusChangedPayload{
		OrderID: orderID.String(),
		From:    string(from),
		To:      string(to),
	})
}

// UnwrapPayload decodes the payload of an envelope into T
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
