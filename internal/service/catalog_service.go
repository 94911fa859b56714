package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidProduct       = errors.New("product requires a name, a category, a non-negative price and stock")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// ProductInput is the create/update payload for a product
type ProductInput struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  uuid.UUID
	ImageURL    string
	Stock       int
}

func (in ProductInput) valid() bool {
	return strings.TrimSpace(in.Name) != "" &&
		in.CategoryID != uuid.Nil &&
		!in.Price.IsNegative() &&
		in.Stock >= 0
}

// CategoryInput is the create/update payload for a category
type CategoryInput struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// CatalogService serves products and categories. Reads go through the
// cache; every write invalidates the affected keys.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.Cache
	logger     *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	c cache.Cache,
	logger *zap.Logger,
) CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &catalogService{
		products:   products,
		categories: categories,
		cache:      c,
		logger:     logger,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	if s.cacheGet(ctx, cache.KeyProducts, &products) {
		return products, nil
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cache.KeyProducts, products)
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := cache.KeyProduct(id.String())

	var product domain.Product
	if s.cacheGet(ctx, key, &product) {
		return &product, nil
	}

	found, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, found)
	return found, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if !in.valid() {
		return nil, ErrInvalidProduct
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.KeyProducts)
	return s.products.FindByID(ctx, product.ID)
}

func (s *catalogService) UpdateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if !in.valid() {
		return nil, ErrInvalidProduct
	}

	product, err := s.products.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Price = in.Price
	product.CategoryID = in.CategoryID
	product.ImageURL = in.ImageURL
	product.Stock = in.Stock
	product.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.KeyProducts, cache.KeyProduct(in.ID.String()))
	return s.products.FindByID(ctx, product.ID)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.KeyProducts, cache.KeyProduct(id.String()))
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if s.cacheGet(ctx, cache.KeyCategories, &categories) {
		return categories, nil
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cache.KeyCategories, categories)
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.KeyCategories)
	return category, nil
}

// UpdateCategory also drops the product list since products embed their
// category
func (s *catalogService) UpdateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category, err := s.categories.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = in.Description

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx, cache.KeyCategories, cache.KeyProducts)
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.KeyCategories)
	return nil
}

// cacheGet reports a hit. Cache failures degrade to a miss.
func (s *catalogService) cacheGet(ctx context.Context, key string, dst any) bool {
	hit, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *catalogService) cacheSet(ctx context.Context, key string, value any) {
	if err := s.cache.SetJSON(ctx, key, value); err != nil {
		s.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *catalogService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("Catalog cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
