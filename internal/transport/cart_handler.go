package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest adds a quantity of a product to the caller's cart
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productoId" validate:"required"`
	Quantity  int       `json:"cantidad" validate:"gte=1"`
}

// UpdateCartItemRequest replaces the quantity of a cart line
type UpdateCartItemRequest struct {
	Quantity int `json:"cantidad" validate:"gte=1"`
}

// CartHandler serves the caller's server-side cart
type CartHandler struct {
	cart   service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

// RegisterRoutes registers the /carrito routes, all authenticated
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/carrito", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/mis-items", h.Items)
		r.Post("/agregar", h.Add)
		r.Put("/actualizar/{itemId}", h.Update)
		r.Delete("/eliminar/{itemId}", h.Remove)
		r.Delete("/vaciar", h.Clear)
		r.Get("/total", h.Total)
	})
}

func (h *CartHandler) Items(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	items, err := h.cart.Items(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Cart listing")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req AddToCartRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	item, err := h.cart.Add(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(w, h.logger, err, "Cart add")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	item, err := h.cart.UpdateQuantity(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		respondServiceError(w, h.logger, err, "Cart update")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	if err := h.cart.Remove(r.Context(), userID, itemID); err != nil {
		respondServiceError(w, h.logger, err, "Cart removal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.cart.Clear(r.Context(), userID); err != nil {
		respondServiceError(w, h.logger, err, "Cart clear")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Total(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	totals, err := h.cart.Totals(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Cart totals")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, totals)
}
