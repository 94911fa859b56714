package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the sign-up payload
type RegisterRequest struct {
	Name     string `json:"nombre" validate:"required"`
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"direccion"`
}

// LoginRequest accepts the email either as username or as correo
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"correo" validate:"required_without=Username"`
	Password string `json:"password" validate:"required"`
}

func (l LoginRequest) login() string {
	if l.Username != "" {
		return l.Username
	}
	return l.Email
}

// LoginResponse carries the bearer token and the logged-in user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"usuario"`
}

// AuthHandler handles sign-up, login and the current-user lookup
type AuthHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the /auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.With(authMiddleware).Get("/user-info", h.UserInfo)
	})
}

// Register handles customer sign-up
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Registration")
		return
	}

	h.logger.Info("User registered successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	token, user, err := h.userService.Login(r.Context(), req.login(), req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, "Login")
		return
	}

	h.logger.Info("User logged in successfully", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// UserInfo returns the authenticated user
func (h *AuthHandler) UserInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, h.logger, err, "User lookup")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, user)
}
