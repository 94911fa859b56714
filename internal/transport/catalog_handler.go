package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type categoryRef struct {
	ID uuid.UUID `json:"idCategoria"`
}

// ProductRequest is the product payload. The category may be given flat
// (idCategoria) or nested (categoria.idCategoria).
type ProductRequest struct {
	ID          uuid.UUID       `json:"idProducto"`
	Name        string          `json:"nombre" validate:"required"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"imagenUrl"`
	CategoryID  uuid.UUID       `json:"idCategoria"`
	Category    *categoryRef    `json:"categoria"`
}

func (p ProductRequest) input() service.ProductInput {
	in := service.ProductInput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
	}
	if in.CategoryID == uuid.Nil && p.Category != nil {
		in.CategoryID = p.Category.ID
	}
	return in
}

// CategoryRequest is the category payload
type CategoryRequest struct {
	ID          uuid.UUID `json:"idCategoria"`
	Name        string    `json:"nombre" validate:"required"`
	Description string    `json:"descripcion"`
}

// CatalogHandler serves /productos and /categorias
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers the catalog routes. Reads are public; product
// writes need an administrator or seller, category writes an administrator.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/productos", func(r chi.Router) {
		r.Get("/list", h.ListProducts)
		r.Get("/list/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middleware.RequireRole(h.logger, domain.RoleAdmin, domain.RoleSeller))
			r.Post("/new", h.CreateProduct)
			r.Put("/update", h.UpdateProduct)
			r.Delete("/delete/{id}", h.DeleteProduct)
		})
	})

	r.Route("/categorias", func(r chi.Router) {
		r.Get("/list", h.ListCategories)
		r.Get("/list/{id}", h.GetCategory)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, middleware.RequireAdmin(h.logger))
			r.Post("/new", h.CreateCategory)
			r.Put("/update", h.UpdateCategory)
			r.Delete("/delete/{id}", h.DeleteCategory)
		})
	})
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Product listing")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Product lookup")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, h.logger, err, "Product creation")
		return
	}
	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	if req.ID == uuid.Nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "idProducto is required")
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, h.logger, err, "Product update")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Product deletion")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Category listing")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Category lookup")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(r.Context(), service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Category creation")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decode(w, r, h.logger, &req) {
		return
	}
	if req.ID == uuid.Nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "idCategoria is required")
		return
	}
	category, err := h.catalog.UpdateCategory(r.Context(), service.CategoryInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "Category update")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Category deletion")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
