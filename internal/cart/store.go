// Package cart is the client-side cart store. The backend owns the items;
// the store mirrors them and derives the money figures on demand.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("product id is required")
)

// Backend is the cart API the store drives
type Backend interface {
	CartItems(ctx context.Context) ([]domain.CartItem, error)
	AddCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID uuid.UUID) error
	ClearCart(ctx context.Context) error
}

// Store holds the current user's cart. Mutations are not sequenced:
// concurrent calls each refetch and the last answer wins.
type Store struct {
	backend Backend
	logger  *zap.Logger

	mu      sync.Mutex
	items   []domain.CartItem
	lastErr error
	pending int
	open    bool
}

// NewStore creates an empty store over backend
func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// FetchItems replaces the local items with the backend's. On failure the
// local items are kept.
func (s *Store) FetchItems(ctx context.Context) error {
	s.begin()
	items, err := s.backend.CartItems(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	if err != nil {
		s.lastErr = fmt.Errorf("fetch cart: %w", err)
		s.logger.Warn("Failed to fetch cart items", zap.Error(err))
		return s.lastErr
	}
	s.items = items
	s.lastErr = nil
	return nil
}

// AddItem adds quantity of a product; the backend sums it with any
// existing line for the same product.
func (s *Store) AddItem(ctx context.Context, productID uuid.UUID, quantity int) error {
	switch {
	case productID == uuid.Nil:
		return s.fail(ErrInvalidProduct)
	case quantity < 1:
		return s.fail(ErrInvalidQuantity)
	}

	if err := s.call(func() error {
		_, err := s.backend.AddCartItem(ctx, productID, quantity)
		return err
	}); err != nil {
		s.logger.Warn("Failed to add cart item",
			zap.String("product_id", productID.String()),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
		return s.fail(fmt.Errorf("add to cart: %w", err))
	}
	return s.FetchItems(ctx)
}

// AddOne adds a single unit of a product
func (s *Store) AddOne(ctx context.Context, productID uuid.UUID) error {
	return s.AddItem(ctx, productID, 1)
}

// UpdateQuantity sets a line's quantity. Below 1 it does nothing: removal
// is RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return nil
	}

	if err := s.call(func() error {
		_, err := s.backend.UpdateCartItem(ctx, itemID, quantity)
		return err
	}); err != nil {
		return s.fail(fmt.Errorf("update cart item: %w", err))
	}
	return s.FetchItems(ctx)
}

// RemoveItem deletes one line
func (s *Store) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.call(func() error {
		return s.backend.RemoveCartItem(ctx, itemID)
	}); err != nil {
		return s.fail(fmt.Errorf("remove cart item: %w", err))
	}
	return s.FetchItems(ctx)
}

// Clear empties the local items, then the backend cart. Local items stay
// empty when the backend call fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	if err := s.call(func() error {
		return s.backend.ClearCart(ctx)
	}); err != nil {
		s.logger.Warn("Failed to clear backend cart", zap.Error(err))
		return s.fail(fmt.Errorf("clear cart: %w", err))
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current items
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items...)
}

// IsEmpty reports whether the cart holds no lines
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Totals derives count, subtotal, tax and total from the current items
func (s *Store) Totals() domain.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ComputeCartTotals(s.items)
}

func (s *Store) ItemCount() int            { return s.Totals().ItemCount }
func (s *Store) Subtotal() decimal.Decimal { return s.Totals().Subtotal }
func (s *Store) Tax() decimal.Decimal      { return s.Totals().Tax }
func (s *Store) Total() decimal.Decimal    { return s.Totals().Total }

// Err returns the error of the last failed operation, nil after a success
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports whether a backend call is in flight
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

func (s *Store) Open() {
	s.mu.Lock()
	s.open = true
	s.mu.Unlock()
}

func (s *Store) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
}

func (s *Store) Toggle() {
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

func (s *Store) begin() {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
}

// call runs one backend request with the loading flag raised
func (s *Store) call(fn func() error) error {
	s.begin()
	err := fn()
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
	return err
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}
