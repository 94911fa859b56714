package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type routes interface {
	RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler)
}

func newTestRouter(h routes) *chi.Mux {
	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.AuthMiddleware(testSecret, zap.NewNop()))
	return r
}

func bearer(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    role,
		"sub":     "test@example.com",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

// do sends body (nil for none) through the router with an optional token
func do(t *testing.T, h http.Handler, method, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp middleware.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error.Message
}

// Fakes embed the service interface; calling a method a test did not stub
// panics on the nil embedded value.

type fakeUserService struct {
	service.UserService
	register func(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	login    func(ctx context.Context, email, password string) (string, *domain.User, error)
	get      func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	create   func(ctx context.Context, in service.UserInput) (*domain.User, error)
	update   func(ctx context.Context, in service.UserInput) (*domain.User, error)
}

func (f *fakeUserService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	return f.register(ctx, in)
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return f.login(ctx, email, password)
}

func (f *fakeUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return f.get(ctx, id)
}

func (f *fakeUserService) CreateUser(ctx context.Context, in service.UserInput) (*domain.User, error) {
	return f.create(ctx, in)
}

func (f *fakeUserService) UpdateUser(ctx context.Context, in service.UserInput) (*domain.User, error) {
	return f.update(ctx, in)
}

type fakeCatalogService struct {
	service.CatalogService
	products       []*domain.Product
	createProduct  func(ctx context.Context, in service.ProductInput) (*domain.Product, error)
	deleteCategory func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeCatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return f.products, nil
}

func (f *fakeCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (f *fakeCatalogService) CreateProduct(ctx context.Context, in service.ProductInput) (*domain.Product, error) {
	return f.createProduct(ctx, in)
}

func (f *fakeCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return f.deleteCategory(ctx, id)
}

type fakeCartService struct {
	service.CartService
	add    func(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	totals func(ctx context.Context, userID uuid.UUID) (domain.CartTotals, error)
	clear  func(ctx context.Context, userID uuid.UUID) error
}

func (f *fakeCartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	return f.add(ctx, userID, productID, quantity)
}

func (f *fakeCartService) Totals(ctx context.Context, userID uuid.UUID) (domain.CartTotals, error) {
	return f.totals(ctx, userID)
}

func (f *fakeCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return f.clear(ctx, userID)
}

type fakeOrderService struct {
	service.OrderService
	create       func(ctx context.Context, userID uuid.UUID, in service.CreateOrderInput) (*domain.Order, error)
	get          func(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*domain.Order, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	stats        func(ctx context.Context, period string) (*domain.OrderStats, error)
}

func (f *fakeOrderService) Create(ctx context.Context, userID uuid.UUID, in service.CreateOrderInput) (*domain.Order, error) {
	return f.create(ctx, userID, in)
}

func (f *fakeOrderService) Get(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*domain.Order, error) {
	return f.get(ctx, id, requesterID, isAdmin)
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	return f.updateStatus(ctx, id, status)
}

func (f *fakeOrderService) Stats(ctx context.Context, period string) (*domain.OrderStats, error) {
	return f.stats(ctx, period)
}
