package checkout

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/apiclient"
	"storefront/internal/apiclient/apitest"
	"storefront/internal/cart"
	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	srv    *apitest.Server
	client *apiclient.Client
	store  *cart.Store
	logs   *observer.ObservedLogs
	logger *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.NewServer(t)
	client := apiclient.New(srv.URL, apiclient.WithTokenSource(apiclient.StaticToken(apitest.Token)))
	core, logs := observer.New(zapcore.InfoLevel)
	return &fixture{
		srv:    srv,
		client: client,
		store:  cart.NewStore(client, zap.NewNop()),
		logs:   logs,
		logger: zap.New(core),
	}
}

// fillTwoLines puts A (50000 x2) and B (30000 x1) in the cart
func (f *fixture) fillTwoLines(t *testing.T) (a, b domain.Product) {
	t.Helper()
	a = f.srv.AddProduct("A", "50000", 10, nil)
	b = f.srv.AddProduct("B", "30000", 10, nil)
	require.NoError(t, f.store.AddItem(context.Background(), a.ID, 2))
	require.NoError(t, f.store.AddOne(context.Background(), b.ID))
	return a, b
}

func TestCheckout_EmptyCartSendsNothing(t *testing.T) {
	f := newFixture(t)
	o := New(f.store, f.client, f.logger)

	order, err := o.Checkout(context.Background(), f.srv.User)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
	assert.Zero(t, f.srv.Writes())
}

func TestCheckout_InvalidUser(t *testing.T) {
	f := newFixture(t)
	f.fillTwoLines(t)
	writes := f.srv.Writes()
	o := New(f.store, f.client, f.logger)

	_, err := o.Checkout(context.Background(), domain.User{Name: "Ana"})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = o.Checkout(context.Background(), domain.User{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrInvalidUser)

	assert.Equal(t, writes, f.srv.Writes())
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	a, _ := f.fillTwoLines(t)
	assert.Equal(t, "154700", f.store.Total().String())

	order, err := New(f.store, f.client, f.logger).Checkout(context.Background(), f.srv.User)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "130000", order.Total.String(), "order total excludes tax by default")
	require.Len(t, order.Lines, 2)
	assert.Equal(t, a.ID, order.Lines[0].ProductID)
	assert.Equal(t, "A", order.Lines[0].ProductName)
	assert.Equal(t, "100000", order.Lines[0].Subtotal.String())

	assert.Equal(t, 1, f.srv.Calls("POST /pedidos/crear"))
	assert.Equal(t, 1, f.srv.Calls("DELETE /carrito/vaciar"))

	require.NoError(t, f.store.FetchItems(context.Background()))
	assert.Empty(t, f.store.Items())

	warnings := f.logs.FilterMessage("Order total differs from the cart total shown to the user").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "154700", warnings[0].ContextMap()["cart_total"])
	assert.Equal(t, "130000", warnings[0].ContextMap()["order_total"])
}

func TestCheckout_WithTaxOnOrder(t *testing.T) {
	f := newFixture(t)
	f.fillTwoLines(t)

	order, err := New(f.store, f.client, f.logger, WithTaxOnOrder(true)).Checkout(context.Background(), f.srv.User)
	require.NoError(t, err)

	assert.Equal(t, "154700", order.Total.String())
	assert.Zero(t, f.logs.FilterMessage("Order total differs from the cart total shown to the user").Len())
}

func TestCheckout_FailedOrderLeavesCartUntouched(t *testing.T) {
	f := newFixture(t)
	f.fillTwoLines(t)
	before := f.store.Items()

	f.srv.FailNext("POST /pedidos/crear", http.StatusInternalServerError)
	order, err := New(f.store, f.client, f.logger).Checkout(context.Background(), f.srv.User)

	assert.Nil(t, order)
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusCode(err))
	assert.Equal(t, before, f.store.Items())
	assert.Equal(t, 2, f.srv.CartLen())
	assert.Zero(t, f.srv.Calls("DELETE /carrito/vaciar"))
}

func TestCheckout_OrderStandsWhenClearFails(t *testing.T) {
	f := newFixture(t)
	f.fillTwoLines(t)

	f.srv.FailNext("DELETE /carrito/vaciar", http.StatusInternalServerError)
	order, err := New(f.store, f.client, f.logger).Checkout(context.Background(), f.srv.User)

	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.True(t, f.store.IsEmpty())
	assert.Error(t, f.store.Err())
	assert.Equal(t, 1, f.logs.FilterMessage("Order placed but cart clear failed").Len())
}

func TestCheckout_SnapshotsSurvivePriceEdits(t *testing.T) {
	f := newFixture(t)
	a, _ := f.fillTwoLines(t)

	_, err := New(f.store, f.client, f.logger).Checkout(context.Background(), f.srv.User)
	require.NoError(t, err)

	f.srv.SetPrice(a.ID, "99999")

	orders, err := f.client.MyOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "50000", orders[0].Lines[0].UnitPrice.String())
	assert.Equal(t, "100000", orders[0].Lines[0].Subtotal.String())
}
