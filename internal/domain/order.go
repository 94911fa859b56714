package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pendiente"
	OrderStatusCompleted OrderStatus = "Completado"
	OrderStatusCancelled OrderStatus = "Cancelado"
)

var validNextStatus = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:   {OrderStatusCompleted: true, OrderStatusCancelled: true},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := validNextStatus[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNextStatus[from][to]
}

// OrderLine is the frozen copy of a cart line taken when the order is placed.
type OrderLine struct {
	ProductID   uuid.UUID       `json:"idProducto" db:"product_id" validate:"required"`
	ProductName string          `json:"nombreProducto" db:"product_name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"precioUnitario" db:"unit_price" validate:"gte=0"`
	Quantity    int             `json:"cantidad" db:"quantity" validate:"gte=1"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal" validate:"gte=0"`
}

// NewOrderLine snapshots a cart item into an order line.
func NewOrderLine(item CartItem) OrderLine {
	line := OrderLine{
		ProductID: item.ProductID,
		UnitPrice: item.UnitPrice(),
		Quantity:  item.Quantity,
		Subtotal:  item.LineSubtotal(),
	}
	if item.Product != nil {
		line.ProductName = item.Product.Name
		if line.ProductID == uuid.Nil {
			line.ProductID = item.Product.ID
		}
	}
	return line
}

// Consistent reports whether the line subtotal equals price times quantity.
func (l OrderLine) Consistent() bool {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Equal(l.Subtotal)
}

// Order is a placed purchase with its line snapshots.
type Order struct {
	ID        uuid.UUID       `json:"idPedido" db:"id" validate:"required"`
	User      UserRef         `json:"usuario"`
	OrderedAt time.Time       `json:"fechaPedido" db:"ordered_at"`
	Lines     []OrderLine     `json:"productos" validate:"min=1,dive"`
	Total     decimal.Decimal `json:"total" db:"total" validate:"gte=0"`
	Status    OrderStatus     `json:"estado" db:"status" validate:"oneof=Pendiente Completado Cancelado"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty" db:"updated_at"`
}

// LinesTotal sums the line subtotals.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total
}
