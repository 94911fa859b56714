package main

import (
	"bytes"
	"net/http"
	"path/filepath"
	"testing"

	"storefront/internal/apiclient"
	"storefront/internal/apiclient/apitest"
	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv     *apitest.Server
	session string
	token   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		srv:     apitest.NewServer(t),
		session: filepath.Join(t.TempDir(), "session.json"),
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{Client: config.ClientConfig{BaseURL: h.srv.URL, Token: h.token}}
	cmd := newRootCmd(cfg)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--session", h.session}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestShoppingFlow(t *testing.T) {
	h := newHarness(t)
	shirts := h.srv.AddCategory("Camisas")
	a := h.srv.AddProduct("Camisa Oxford", "50000", 10, &shirts)
	b := h.srv.AddProduct("Gorra", "30000", 10, nil)

	out, err := h.run(t, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ana@example.com")

	out, err = h.run(t, "products", "--category", "Camisas")
	require.NoError(t, err)
	assert.Contains(t, out, "Camisa Oxford")
	assert.NotContains(t, out, "Gorra")
	assert.Contains(t, out, "1 of 2 products, prices up to $50000")

	_, err = h.run(t, "cart", "add", a.ID.String(), "2")
	require.NoError(t, err)
	out, err = h.run(t, "cart", "add", b.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Subtotal: $130000")
	assert.Contains(t, out, "$24700")
	assert.Contains(t, out, "Total:    $154700")

	out, err = h.run(t, "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "Order placed")
	assert.Contains(t, out, "Total: $130000")
	assert.Equal(t, 0, h.srv.CartLen())

	out, err = h.run(t, "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "Pendiente")
}

func TestCheckoutWithTaxOnOrder(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct("Gorra", "100.5", 10, nil)

	_, err := h.run(t, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	_, err = h.run(t, "cart", "add", p.ID.String())
	require.NoError(t, err)

	out, err := h.run(t, "--tax-on-order", "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: $119.50")
}

func TestEmptyCartCheckout(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)

	_, err = h.run(t, "checkout")
	assert.EqualError(t, err, "cart is empty")
	assert.Zero(t, h.srv.Calls("POST /pedidos/crear"))
}

func TestCommandsNeedLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "cart")
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)

	_, err = h.run(t, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	_, err = h.run(t, "logout")
	require.NoError(t, err)

	_, err = h.run(t, "cart")
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestBackendErrorsSurface(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct("Gorra", "10", 1, nil)
	_, err := h.run(t, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)

	_, err = h.run(t, "cart", "add", p.ID.String(), "5")
	assert.Equal(t, http.StatusConflict, apiclient.StatusCode(err))

	_, err = h.run(t, "cart", "add", "not-a-uuid")
	assert.Error(t, err)
}

func TestEnvTokenRefreshesSavedUser(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddProduct("Gorra", "30000", 10, nil)

	_, err := h.run(t, "login", "--email", "ana@example.com", "--password", "secret123")
	require.NoError(t, err)
	_, err = h.run(t, "cart", "add", p.ID.String())
	require.NoError(t, err)

	h.token = apitest.Token
	_, err = h.run(t, "checkout")
	require.NoError(t, err)
	assert.Equal(t, 1, h.srv.Calls("GET /auth/user-info"))
	require.Len(t, h.srv.Orders(), 1)
}
