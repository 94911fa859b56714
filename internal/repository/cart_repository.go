package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartRepository defines the interface for cart data access. Every
// operation is scoped to the owning user.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)
	FindItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error)
	FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error)
	Upsert(ctx context.Context, item *domain.CartItem) error
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int, at time.Time) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

const cartSelect = `
	SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
	       p.id, p.name, COALESCE(p.description, ''), p.price, p.category_id,
	       COALESCE(p.image_url, ''), p.stock, p.created_at, p.updated_at,
	       c.id, c.name, COALESCE(c.description, ''), c.created_at
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	JOIN categories c ON c.id = p.category_id
`

func scanCartItem(row rowScanner) (*domain.CartItem, error) {
	product := &domain.Product{Category: &domain.Category{}}
	item := &domain.CartItem{Product: product}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CategoryID,
		&product.ImageURL,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Category.ID,
		&product.Category.Name,
		&product.Category.Description,
		&product.Category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListByUser returns the user's cart lines in insertion order
func (r *cartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := r.db.QueryContext(ctx, cartSelect+` WHERE ci.user_id = $1 ORDER BY ci.created_at ASC, ci.id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, *item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	return items, nil
}

func (r *cartRepository) FindItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	return r.findOne(ctx, cartSelect+` WHERE ci.user_id = $1 AND ci.id = $2`, userID, itemID)
}

func (r *cartRepository) FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.CartItem, error) {
	return r.findOne(ctx, cartSelect+` WHERE ci.user_id = $1 AND ci.product_id = $2`, userID, productID)
}

func (r *cartRepository) findOne(ctx context.Context, query string, args ...any) (*domain.CartItem, error) {
	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return item, nil
}

// Upsert adds a line or, when the product is already in the cart, adds
// item.Quantity to the existing line. The combined quantity must fit the
// product's stock; the check runs in the same statement as the write.
// item.ID and item.Quantity are refreshed from the stored row.
func (r *cartRepository) Upsert(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		SELECT $1::uuid, $2::uuid, $3::uuid, $4::integer, $5::timestamp, $6::timestamp
		WHERE $4::integer <= (SELECT stock FROM products WHERE id = $3::uuid)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = EXCLUDED.updated_at
		WHERE cart_items.quantity + EXCLUDED.quantity <=
		      (SELECT stock FROM products WHERE id = EXCLUDED.product_id)
		RETURNING id, quantity, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return r.rejectedUpsert(ctx, item.ProductID)
	case isForeignKeyViolation(err):
		return ErrProductNotFound
	default:
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
}

// rejectedUpsert tells a missing product apart from a stock overflow
func (r *cartRepository) rejectedUpsert(ctx context.Context, productID uuid.UUID) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}

func (r *cartRepository) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $3, updated_at = $4 WHERE user_id = $1 AND id = $2`,
		userID, itemID, quantity, at)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return expectOneRow(result, ErrCartItemNotFound)
}

func (r *cartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return expectOneRow(result, ErrCartItemNotFound)
}

// Clear empties the cart. Clearing an empty cart is not an error.
func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
