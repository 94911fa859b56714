// Package catalog fetches products and categories and filters them on the
// client.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is the backend the reader fetches from
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Reader keeps the last fetched catalog. Returned slices are copies.
type Reader struct {
	src    Source
	logger *zap.Logger

	mu         sync.RWMutex
	products   []domain.Product
	categories []domain.Category
}

// NewReader creates a Reader over src
func NewReader(src Source, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{src: src, logger: logger}
}

// ListProducts fetches the products and caches them
func (r *Reader) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := r.src.ListProducts(ctx)
	if err != nil {
		r.logger.Warn("Failed to fetch products", zap.Error(err))
		return nil, fmt.Errorf("list products: %w", err)
	}

	r.mu.Lock()
	r.products = products
	r.mu.Unlock()

	r.logger.Debug("Fetched products", zap.Int("count", len(products)))
	return clone(products), nil
}

// ListCategories fetches the categories and caches them
func (r *Reader) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := r.src.ListCategories(ctx)
	if err != nil {
		r.logger.Warn("Failed to fetch categories", zap.Error(err))
		return nil, fmt.Errorf("list categories: %w", err)
	}

	r.mu.Lock()
	r.categories = categories
	r.mu.Unlock()

	r.logger.Debug("Fetched categories", zap.Int("count", len(categories)))
	return clone(categories), nil
}

// Load fetches products and categories concurrently
func (r *Reader) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := r.ListProducts(ctx)
		return err
	})
	g.Go(func() error {
		_, err := r.ListCategories(ctx)
		return err
	})
	return g.Wait()
}

// Products returns the cached products
func (r *Reader) Products() []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.products)
}

// Categories returns the cached categories
func (r *Reader) Categories() []domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.categories)
}

// Filtered applies f to the cached products
func (r *Reader) Filtered(f Filter) []domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Apply(r.products, f)
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}
