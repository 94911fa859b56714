// Package checkout turns the current cart into a placed order.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/apiclient"
	"storefront/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidUser = errors.New("user must have an id and a name or email")
)

// Cart is the part of the cart store checkout reads and clears
type Cart interface {
	Items() []domain.CartItem
	Clear(ctx context.Context) error
}

// OrderCreator submits orders
type OrderCreator interface {
	CreateOrder(ctx context.Context, in apiclient.OrderRequest) (*domain.Order, error)
}

// Orchestrator runs the checkout flow
type Orchestrator struct {
	cart       Cart
	orders     OrderCreator
	logger     *zap.Logger
	taxOnOrder bool
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithTaxOnOrder adds the cart's rounded tax to the order total. Off by
// default, so the order total is the sum of the line subtotals.
func WithTaxOnOrder(enabled bool) Option {
	return func(o *Orchestrator) { o.taxOnOrder = enabled }
}

// New creates an Orchestrator
func New(cart Cart, orders OrderCreator, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{cart: cart, orders: orders, logger: logger}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Checkout snapshots the cart lines, places one pending order and, only
// once it is accepted, clears the cart. A failed order leaves the cart
// as it was.
func (o *Orchestrator) Checkout(ctx context.Context, user domain.User) (*domain.Order, error) {
	items := o.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if user.ID == uuid.Nil || (user.Name == "" && user.Email == "") {
		return nil, ErrInvalidUser
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.NewOrderLine(item))
	}

	total := domain.LinesTotal(lines)
	if o.taxOnOrder {
		total = total.Add(domain.RoundTax(total))
	}

	if cartTotal := domain.ComputeCartTotals(items).Total; !cartTotal.Equal(total) {
		o.logger.Warn("Order total differs from the cart total shown to the user",
			zap.String("cart_total", cartTotal.String()),
			zap.String("order_total", total.String()),
			zap.Bool("tax_on_order", o.taxOnOrder),
		)
	}

	order, err := o.orders.CreateOrder(ctx, apiclient.OrderRequest{
		User:   user.Ref(),
		Lines:  lines,
		Total:  total,
		Status: domain.OrderStatusPending,
	})
	if err != nil {
		o.logger.Warn("Order submission failed", zap.Error(err))
		return nil, fmt.Errorf("create order: %w", err)
	}

	o.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int("lines", len(lines)),
		zap.String("total", order.Total.String()),
	)

	// the order stands even if the backend cart could not be emptied
	if err := o.cart.Clear(ctx); err != nil {
		o.logger.Warn("Order placed but cart clear failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	return order, nil
}
