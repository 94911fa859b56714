package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, ctx context.Context) *domain.User {
	t.Helper()

	role, err := NewRoleRepository(testDB).FindByName(ctx, domain.RoleCustomer)
	require.NoError(t, err)

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Cliente Prueba",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuu",
		Address:      "Calle 1 # 2-3",
		Active:       true,
		RoleID:       role.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepository(testDB).Create(ctx, user))
	return user
}

func createTestProduct(t *testing.T, ctx context.Context, price string, stock int) *domain.Product {
	t.Helper()

	now := time.Now()
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      "Categoria " + uuid.NewString(),
		CreatedAt: now,
	}
	require.NoError(t, NewCategoryRepository(testDB).Create(ctx, category))

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        "Camiseta " + uuid.NewString()[:8],
		Description: "Algodon tallas S M L",
		Price:       decimal.RequireFromString(price),
		CategoryID:  category.ID,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewProductRepository(testDB).Create(ctx, product))
	return product
}
