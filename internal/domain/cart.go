package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the VAT applied to the cart subtotal.
var TaxRate = decimal.RequireFromString("0.19")

// CartItem is one product/quantity line of a user's in-progress cart.
type CartItem struct {
	ID        uuid.UUID `json:"idItemCarrito" db:"id" validate:"required"`
	UserID    uuid.UUID `json:"idUsuario,omitempty" db:"user_id"`
	ProductID uuid.UUID `json:"idProducto" db:"product_id" validate:"required"`
	Quantity  int       `json:"cantidad" db:"quantity" validate:"gte=1"`
	Product   *Product  `json:"producto" db:"-" validate:"required"`
	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// UnitPrice is the live price of the item's product.
func (i CartItem) UnitPrice() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price
}

// LineSubtotal is unit price times quantity.
func (i CartItem) LineSubtotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotals holds the figures derived from a list of cart items.
type CartTotals struct {
	ItemCount int             `json:"cantidadItems"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"iva"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeCartTotals derives count, subtotal, tax and total from items.
// Tax is rounded to whole units before it is added, so the total is
// subtotal + round(subtotal*rate) and not round(subtotal*(1+rate)).
func ComputeCartTotals(items []CartItem) CartTotals {
	totals := CartTotals{Subtotal: decimal.Zero}
	for _, item := range items {
		totals.ItemCount += item.Quantity
		totals.Subtotal = totals.Subtotal.Add(item.LineSubtotal())
	}
	totals.Tax = RoundTax(totals.Subtotal)
	totals.Total = totals.Subtotal.Add(totals.Tax)
	return totals
}

// RoundTax applies TaxRate to amount and rounds half away from zero to
// whole currency units.
func RoundTax(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(TaxRate).Round(0)
}
