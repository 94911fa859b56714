package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoginResult is the answer to a successful login
type LoginResult struct {
	Token string       `json:"token" validate:"required"`
	User  *domain.User `json:"usuario" validate:"required"`
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Password string `json:"password"`
	Address  string `json:"direccion,omitempty"`
}

// OrderRequest is the order-creation payload
type OrderRequest struct {
	User   domain.UserRef     `json:"usuario"`
	Lines  []domain.OrderLine `json:"productos"`
	Total  decimal.Decimal    `json:"total"`
	Status domain.OrderStatus `json:"estado"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"correo": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserInfo(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/user-info", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/productos/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, "/productos/list/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categorias/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CartItems(ctx context.Context) ([]domain.CartItem, error) {
	var out []domain.CartItem
	if err := c.do(ctx, http.MethodGet, "/carrito/mis-items", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddCartItem(ctx context.Context, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	var out domain.CartItem
	body := map[string]interface{}{"productoId": productID, "cantidad": quantity}
	if err := c.do(ctx, http.MethodPost, "/carrito/agregar", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*domain.CartItem, error) {
	var out domain.CartItem
	body := map[string]int{"cantidad": quantity}
	if err := c.do(ctx, http.MethodPut, "/carrito/actualizar/"+itemID.String(), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/carrito/eliminar/"+itemID.String(), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/carrito/vaciar", nil, nil)
}

func (c *Client) CreateOrder(ctx context.Context, in OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodPost, "/pedidos/crear", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/pedidos/mis-pedidos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/pedidos/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, http.MethodGet, "/pedidos/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	var out domain.Order
	body := map[string]domain.OrderStatus{"estado": status}
	if err := c.do(ctx, http.MethodPut, "/pedidos/"+id.String()+"/estado", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrderStats(ctx context.Context, period string) (*domain.OrderStats, error) {
	var out domain.OrderStats
	path := "/pedidos/estadisticas"
	if period != "" {
		path += "?periodo=" + url.QueryEscape(period)
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
