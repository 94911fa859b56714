package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers on the wire.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a product in the catalog
type Product struct {
	ID          uuid.UUID       `json:"idProducto" db:"id" validate:"required"`
	Name        string          `json:"nombre" db:"name" validate:"required"`
	Description string          `json:"descripcion" db:"description"`
	Price       decimal.Decimal `json:"precio" db:"price" validate:"gte=0"`
	CategoryID  uuid.UUID       `json:"idCategoria" db:"category_id"`
	Category    *Category       `json:"categoria,omitempty" db:"-"`
	ImageURL    string          `json:"imagenUrl" db:"image_url"`
	Stock       int             `json:"stock" db:"stock" validate:"gte=0"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// CategoryName returns the name of the product's category, or "" when the
// category was not loaded.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID `json:"idCategoria" db:"id"`
	Name        string    `json:"nombre" db:"name" validate:"required"`
	Description string    `json:"descripcion,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
