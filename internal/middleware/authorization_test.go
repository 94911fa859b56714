package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/productos/new", nil)
	if role != "" {
		req = req.WithContext(context.WithValue(req.Context(), UserRoleKey, role))
	}
	return req
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), domain.RoleAdmin, domain.RoleSeller)(okHandler())

	cases := map[string]int{
		domain.RoleAdmin:    http.StatusOK,
		domain.RoleSeller:   http.StatusOK,
		domain.RoleCustomer: http.StatusForbidden,
		"":                  http.StatusForbidden,
	}
	for role, want := range cases {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, requestWithRole(role))
		assert.Equal(t, want, w.Code, role)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(zap.NewNop())(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithRole(domain.RoleSeller))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithRole(domain.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.True(t, IsAdmin(requestWithRole(domain.RoleAdmin)))
	assert.False(t, IsAdmin(requestWithRole(domain.RoleCustomer)))
}
