package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleRequest is the role payload
type RoleRequest struct {
	ID   uuid.UUID `json:"idRol"`
	Name string    `json:"nombre" validate:"required"`
}

// RoleHandler serves the /roles routes
type RoleHandler struct {
	roleService service.RoleService
	logger      *zap.Logger
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService service.RoleService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{roleService: roleService, logger: logger}
}

// RegisterRoutes registers the /roles routes, administrators only
func (h *RoleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/roles", func(r chi.Router) {
		r.Use(authMiddleware, middleware.RequireAdmin(h.logger))
		r.Get("/list", h.List)
		r.Get("/list/{id}", h.Get)
		r.Post("/new", h.Create)
		r.Put("/update", h.Update)
		r.Delete("/delete/{id}", h.Delete)
	})
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Role listing")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, roles)
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	role, err := h.roleService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Role lookup")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	role, err := h.roleService.Create(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, h.logger, err, "Role creation")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, role)
}

func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	if req.ID == uuid.Nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "idRol is required")
		return
	}
	role, err := h.roleService.Update(r.Context(), req.ID, req.Name)
	if err != nil {
		respondServiceError(w, h.logger, err, "Role update")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, role)
}

func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.roleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Role deletion")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
