package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type roleRef struct {
	ID uuid.UUID `json:"idRol"`
}

// UserRequest is the administrator's user payload. The role may be given
// flat (idRol) or nested (rol.idRol); a missing estado means active.
type UserRequest struct {
	ID       uuid.UUID `json:"idUsuario"`
	Name     string    `json:"nombre" validate:"required"`
	Email    string    `json:"correo" validate:"required,email"`
	Password string    `json:"password"`
	Address  string    `json:"direccion"`
	Active   *bool     `json:"estado"`
	RoleID   uuid.UUID `json:"idRol"`
	Role     *roleRef  `json:"rol"`
}

func (u UserRequest) input() service.UserInput {
	in := service.UserInput{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Address:  u.Address,
		Active:   u.Active == nil || *u.Active,
		RoleID:   u.RoleID,
	}
	if in.RoleID == uuid.Nil && u.Role != nil {
		in.RoleID = u.Role.ID
	}
	return in
}

// UserHandler serves the administrator's user management routes
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes registers the /usuario routes, administrators only
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/usuario", func(r chi.Router) {
		r.Use(authMiddleware, middleware.RequireAdmin(h.logger))
		r.Get("/list", h.List)
		r.Get("/list/{id}", h.Get)
		r.Post("/new", h.Create)
		r.Put("/update", h.Update)
		r.Delete("/delete/{id}", h.Delete)
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "User listing")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "User lookup")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	user, err := h.userService.CreateUser(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, h.logger, err, "User creation")
		return
	}
	h.logger.Info("User created", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	if req.ID == uuid.Nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "idUsuario is required")
		return
	}
	user, err := h.userService.UpdateUser(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, h.logger, err, "User update")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "User deletion")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
