package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{repository.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrRoleNotFound, http.StatusNotFound},
	{repository.ErrProductNotFound, http.StatusNotFound},
	{repository.ErrCategoryNotFound, http.StatusNotFound},
	{repository.ErrCartItemNotFound, http.StatusNotFound},
	{repository.ErrOrderNotFound, http.StatusNotFound},

	{repository.ErrUserAlreadyExists, http.StatusConflict},
	{repository.ErrRoleAlreadyExists, http.StatusConflict},
	{repository.ErrRoleInUse, http.StatusConflict},
	{repository.ErrCategoryAlreadyExists, http.StatusConflict},
	{repository.ErrCategoryInUse, http.StatusConflict},
	{service.ErrInsufficientStock, http.StatusConflict},
	{service.ErrInvalidTransition, http.StatusConflict},

	{repository.ErrUnknownCategory, http.StatusBadRequest},
	{service.ErrInvalidQuantity, http.StatusBadRequest},
	{service.ErrInvalidProduct, http.StatusBadRequest},
	{service.ErrCategoryNameRequired, http.StatusBadRequest},
	{service.ErrRoleNameRequired, http.StatusBadRequest},
	{service.ErrPasswordRequired, http.StatusBadRequest},
	{service.ErrEmptyOrder, http.StatusBadRequest},
	{service.ErrInconsistentLine, http.StatusBadRequest},
	{service.ErrTotalMismatch, http.StatusBadRequest},
	{service.ErrInvalidStatus, http.StatusBadRequest},
	{domain.ErrInvalidPeriod, http.StatusBadRequest},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrUserInactive, http.StatusUnauthorized},

	{service.ErrForbidden, http.StatusForbidden},
}

// respondServiceError maps a service error to its HTTP status. Unknown
// errors are logged and answered with a generic 500.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			logger.Debug(action+" rejected", zap.Error(err), zap.Int("status", e.status))
			middleware.RespondWithError(w, e.status, err.Error())
			return
		}
	}

	logger.Error(action+" failed", zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
}

// pathID parses a UUID path parameter, answering 400 when malformed
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID returns the authenticated user, answering 401 when absent
func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// decode reads and validates a JSON body, answering 400 on failure
func decode(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return false
	}
	return true
}
