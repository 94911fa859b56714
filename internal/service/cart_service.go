package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = repository.ErrInsufficientStock
)

// CartService manages the authenticated user's cart
type CartService interface {
	Items(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Totals(ctx context.Context, userID uuid.UUID) (domain.CartTotals, error)
}

type cartService struct {
	cart     repository.CartRepository
	products repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cart repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{cart: cart, products: products}
}

func (s *cartService) Items(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	return s.cart.ListByUser(ctx, userID)
}

// Add puts quantity units of a product in the cart. A product already in
// the cart gets its quantity increased; the combined quantity must fit the
// product's stock.
func (s *cartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	inCart := 0
	existing, err := s.cart.FindByProduct(ctx, userID, productID)
	switch {
	case err == nil:
		inCart = existing.Quantity
	case !errors.Is(err, repository.ErrCartItemNotFound):
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}

	if inCart+quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	now := time.Now()
	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cart.Upsert(ctx, item); err != nil {
		return nil, err
	}

	return s.cart.FindItem(ctx, userID, item.ID)
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.cart.FindItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Product != nil && quantity > item.Product.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.cart.SetQuantity(ctx, userID, itemID, quantity, time.Now()); err != nil {
		return nil, err
	}

	item.Quantity = quantity
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.cart.Remove(ctx, userID, itemID)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cart.Clear(ctx, userID)
}

// Totals computes count, subtotal, tax and total from the stored items
func (s *cartService) Totals(ctx context.Context, userID uuid.UUID) (domain.CartTotals, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return domain.CartTotals{}, err
	}
	return domain.ComputeCartTotals(items), nil
}
