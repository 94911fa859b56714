package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateOrderRequest carries the line snapshots and the client's total.
// Any usuario, fechaPedido or estado sent along is ignored.
type CreateOrderRequest struct {
	Lines []domain.OrderLine `json:"productos" validate:"required,min=1,dive"`
	Total decimal.Decimal    `json:"total"`
}

// UpdateOrderStatusRequest moves an order to a new status
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"estado" validate:"required"`
}

// OrderHandler serves /pedidos
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers the /pedidos routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/pedidos", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/crear", h.Create)
		r.Get("/mis-pedidos", h.ListMine)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.logger))
			r.Get("/list", h.List)
			r.Put("/{id}/estado", h.UpdateStatus)
			r.Get("/estadisticas", h.Stats)
		})
	})
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	order, err := h.orders.Create(r.Context(), userID, service.CreateOrderInput{
		Lines: req.Lines,
		Total: req.Total,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Order creation")
		return
	}
	h.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Total.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	orders, err := h.orders.ListMine(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Order listing")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Order listing")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(r.Context(), id, userID, middleware.IsAdmin(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "Order lookup")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, h.logger, err, "Order status update")
		return
	}
	h.logger.Info("Order status updated",
		zap.String("order_id", id.String()),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context(), r.URL.Query().Get("periodo"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Order statistics")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, stats)
}
