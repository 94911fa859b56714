package apitest

import (
	"encoding/json"
	"net/http"
	"time"

	"storefront/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	var body struct {
		Username string `json:"username"`
		Email    string `json:"correo"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	login := body.Email
	if login == "" {
		login = body.Username
	}
	if login != s.User.Email || body.Password == "" {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": Token, "usuario": s.User})
}

func (s *Server) userInfo(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.User)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	s.mu.Lock()
	out := append([]domain.Product{}, s.products...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	s.mu.Lock()
	out := append([]domain.Category{}, s.categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) product(id uuid.UUID) (domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Server) cartItems(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	s.mu.Lock()
	out := make([]domain.CartItem, 0, len(s.cart))
	for _, item := range s.cart {
		// items carry the live product
		if p, ok := s.product(item.ProductID); ok {
			item.Product = &p
		}
		out = append(out, item)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	var body struct {
		ProductID uuid.UUID `json:"productoId"`
		Quantity  int       `json:"cantidad"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.product(body.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	for i := range s.cart {
		if s.cart[i].ProductID == body.ProductID {
			if s.cart[i].Quantity+body.Quantity > p.Stock {
				writeError(w, http.StatusConflict, "insufficient stock")
				return
			}
			s.cart[i].Quantity += body.Quantity
			writeJSON(w, http.StatusOK, s.cart[i])
			return
		}
	}
	if body.Quantity > p.Stock {
		writeError(w, http.StatusConflict, "insufficient stock")
		return
	}
	item := domain.CartItem{
		ID:        uuid.New(),
		UserID:    s.User.ID,
		ProductID: p.ID,
		Quantity:  body.Quantity,
		Product:   &p,
		CreatedAt: time.Now().UTC(),
	}
	s.cart = append(s.cart, item)
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid itemId")
		return
	}
	var body struct {
		Quantity int `json:"cantidad"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == id {
			s.cart[i].Quantity = body.Quantity
			writeJSON(w, http.StatusOK, s.cart[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "cart item not found")
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid itemId")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.cart {
		if s.cart[i].ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "cart item not found")
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	var body struct {
		Lines []domain.OrderLine `json:"productos"`
		Total decimal.Decimal    `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "order must have at least one line")
		return
	}
	for _, line := range body.Lines {
		if !line.Consistent() {
			writeError(w, http.StatusBadRequest, "line subtotal must equal unit price times quantity")
			return
		}
	}

	order := domain.Order{
		ID:        uuid.New(),
		User:      s.User.Ref(),
		OrderedAt: time.Now().UTC(),
		Lines:     body.Lines,
		Total:     body.Total,
		Status:    domain.OrderStatusPending,
	}
	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) myOrders(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, r) {
		return
	}
	s.mu.Lock()
	out := append([]domain.Order{}, s.orders...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}
