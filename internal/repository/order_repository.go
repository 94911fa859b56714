package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, at time.Time) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create stores the order header and its lines in one transaction
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, user_name, user_email, ordered_at, total, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		order.ID,
		order.User.ID,
		order.User.Name,
		order.User.Email,
		order.OrderedAt,
		order.Total,
		string(order.Status),
		order.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i, line := range order.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, position, product_id, product_name, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			uuid.New(),
			order.ID,
			i,
			line.ProductID,
			line.ProductName,
			line.UnitPrice,
			line.Quantity,
			line.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("failed to create order line %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

const orderSelect = `
	SELECT o.id, o.user_id, COALESCE(o.user_name, ''), COALESCE(o.user_email, ''),
	       o.ordered_at, o.total, o.status, o.updated_at,
	       oi.product_id, oi.product_name, oi.unit_price, oi.quantity, oi.subtotal
	FROM orders o
	LEFT JOIN order_items oi ON oi.order_id = o.id
`

const orderOrdering = ` ORDER BY o.ordered_at DESC, o.id, oi.position`

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	orders, err := r.query(ctx, orderSelect+` WHERE o.id = $1`+orderOrdering, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

// ListByUser returns the user's orders, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return r.query(ctx, orderSelect+` WHERE o.user_id = $1`+orderOrdering, userID)
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.query(ctx, orderSelect+orderOrdering)
}

// ListSince returns orders placed at or after since
func (r *orderRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.Order, error) {
	return r.query(ctx, orderSelect+` WHERE o.ordered_at >= $1`+orderOrdering, since)
}

// UpdateStatus moves an order from one status to another. The row only
// changes while it still holds from.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check order: %w", err)
	}
	if !exists {
		return ErrOrderNotFound
	}
	return ErrStatusConflict
}

// query folds the header/line join back into orders, keeping row order
func (r *orderRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	byID := map[uuid.UUID]*domain.Order{}
	for rows.Next() {
		var (
			header      domain.Order
			status      string
			productID   uuid.NullUUID
			productName sql.NullString
			unitPrice   decimal.NullDecimal
			quantity    sql.NullInt64
			subtotal    decimal.NullDecimal
		)
		err := rows.Scan(
			&header.ID,
			&header.User.ID,
			&header.User.Name,
			&header.User.Email,
			&header.OrderedAt,
			&header.Total,
			&status,
			&header.UpdatedAt,
			&productID,
			&productName,
			&unitPrice,
			&quantity,
			&subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		order, ok := byID[header.ID]
		if !ok {
			header.Status = domain.OrderStatus(status)
			header.Lines = []domain.OrderLine{}
			order = &header
			byID[header.ID] = order
			orders = append(orders, order)
		}

		if productID.Valid {
			order.Lines = append(order.Lines, domain.OrderLine{
				ProductID:   productID.UUID,
				ProductName: productName.String,
				UnitPrice:   unitPrice.Decimal,
				Quantity:    int(quantity.Int64),
				Subtotal:    subtotal.Decimal,
			})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}
