// Package apitest runs an in-memory storefront API over httptest for
// client-side tests. It serves one shopper and counts every call.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Token is the bearer token the fake accepts
const Token = "apitest-token"

// Server is a fake storefront backend
type Server struct {
	*httptest.Server

	User domain.User

	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category
	cart       []domain.CartItem
	orders     []domain.Order
	calls      map[string]int
	failures   map[string]int
}

// NewServer starts a fake backend closed with the test
func NewServer(t testing.TB) *Server {
	s := &Server{
		User: domain.User{
			ID:     uuid.New(),
			Name:   "Ana Shopper",
			Email:  "ana@example.com",
			Active: true,
			Role:   &domain.Role{ID: uuid.New(), Name: domain.RoleCustomer},
		},
		calls:    make(map[string]int),
		failures: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.count)
	r.Post("/auth/login", s.login)
	r.Get("/productos/list", s.listProducts)
	r.Get("/categorias/list", s.listCategories)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/auth/user-info", s.userInfo)
		r.Get("/carrito/mis-items", s.cartItems)
		r.Post("/carrito/agregar", s.addItem)
		r.Put("/carrito/actualizar/{itemId}", s.updateItem)
		r.Delete("/carrito/eliminar/{itemId}", s.removeItem)
		r.Delete("/carrito/vaciar", s.clearCart)
		r.Post("/pedidos/crear", s.createOrder)
		r.Get("/pedidos/mis-pedidos", s.myOrders)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddCategory seeds a category
func (s *Server) AddCategory(name string) domain.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domain.Category{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	s.categories = append(s.categories, c)
	return c
}

// AddProduct seeds a product priced from a decimal string
func (s *Server) AddProduct(name, price string, stock int, category *domain.Category) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	if category != nil {
		c := *category
		p.CategoryID = c.ID
		p.Category = &c
	}
	s.products = append(s.products, p)
	return p
}

// SetPrice edits a seeded product's price
func (s *Server) SetPrice(productID uuid.UUID, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == productID {
			s.products[i].Price = decimal.RequireFromString(price)
		}
	}
}

// Calls returns how many requests hit route, written as "METHOD /pattern"
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Writes counts every non-GET request
func (s *Server) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for route, c := range s.calls {
		if !strings.HasPrefix(route, http.MethodGet+" ") {
			n += c
		}
	}
	return n
}

// FailNext makes the next request to route answer status
func (s *Server) FailNext(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// CartLen reports how many lines the backend cart holds
func (s *Server) CartLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart)
}

// Orders returns the stored orders
func (s *Server) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		// the route pattern is only known once routing has run
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		s.mu.Lock()
		s.calls[r.Method+" "+pattern]++
		s.mu.Unlock()
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// injected answers a pending FailNext for the current route
func (s *Server) injected(w http.ResponseWriter, r *http.Request) bool {
	route := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
	s.mu.Lock()
	status, ok := s.failures[route]
	delete(s.failures, route)
	s.mu.Unlock()
	if ok {
		writeError(w, status, fmt.Sprintf("injected failure on %s", route))
	}
	return ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"code": http.StatusText(status), "message": message},
	})
}
