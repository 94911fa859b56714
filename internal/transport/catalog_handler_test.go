package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalog_PublicReads(t *testing.T) {
	shirt := &domain.Product{ID: uuid.New(), Name: "Camisa", Price: decimal.NewFromInt(50000), Stock: 3}
	router := newTestRouter(NewCatalogHandler(&fakeCatalogService{products: []*domain.Product{shirt}}, zap.NewNop()))

	w := do(t, router, http.MethodGet, "/productos/list", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"precio":50000`)

	w = do(t, router, http.MethodGet, "/productos/list/"+shirt.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/productos/list/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodGet, "/productos/list/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog_ProductWritesNeedAdminOrSeller(t *testing.T) {
	categoryID := uuid.New()
	var got service.ProductInput
	catalog := &fakeCatalogService{
		createProduct: func(ctx context.Context, in service.ProductInput) (*domain.Product, error) {
			got = in
			return &domain.Product{ID: uuid.New(), Name: in.Name, Price: in.Price, CategoryID: in.CategoryID}, nil
		},
	}
	router := newTestRouter(NewCatalogHandler(catalog, zap.NewNop()))

	body := map[string]interface{}{
		"nombre":    "Camisa",
		"precio":    49900.5,
		"stock":     4,
		"categoria": map[string]string{"idCategoria": categoryID.String()},
	}

	w := do(t, router, http.MethodPost, "/productos/new", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/productos/new", body, bearer(t, uuid.New(), domain.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, role := range []string{domain.RoleAdmin, domain.RoleSeller} {
		w = do(t, router, http.MethodPost, "/productos/new", body, bearer(t, uuid.New(), role))
		require.Equal(t, http.StatusCreated, w.Code, role)
	}
	assert.Equal(t, categoryID, got.CategoryID, "nested category id is accepted")
	assert.True(t, decimal.RequireFromString("49900.5").Equal(got.Price))
}

func TestCatalog_CategoryErrors(t *testing.T) {
	inUse := uuid.New()
	catalog := &fakeCatalogService{
		deleteCategory: func(ctx context.Context, id uuid.UUID) error {
			if id == inUse {
				return repository.ErrCategoryInUse
			}
			return repository.ErrCategoryNotFound
		},
	}
	router := newTestRouter(NewCatalogHandler(catalog, zap.NewNop()))
	admin := bearer(t, uuid.New(), domain.RoleAdmin)

	w := do(t, router, http.MethodDelete, "/categorias/delete/"+inUse.String(), nil, bearer(t, uuid.New(), domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodDelete, "/categorias/delete/"+inUse.String(), nil, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, router, http.MethodDelete, "/categorias/delete/"+uuid.NewString(), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, repository.ErrCategoryNotFound.Error(), resp["error"]["message"])
}
