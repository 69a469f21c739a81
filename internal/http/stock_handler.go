package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/storefront-cart/internal/domain"
	"github.com/fjod/storefront-cart/internal/inventory"
)

// Catalog is what the stock API serves from.
type Catalog interface {
	inventory.Lookup
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
}

// StockHandler exposes the catalog in the shape inventory.Client consumes.
type StockHandler struct {
	catalog Catalog
}

func NewStockHandler(catalog Catalog) *StockHandler {
	return &StockHandler{catalog: catalog}
}

func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	stock, err := h.catalog.GetStock(r.Context(), productID)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (h *StockHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *StockHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetAllProducts(r.Context())
	if err != nil {
		handleCatalogError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func handleCatalogError(w http.ResponseWriter, err error) {
	if errors.Is(err, inventory.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	log.Printf("catalog error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
