package inventory

import (
	"context"
	"errors"

	"github.com/fjod/storefront-cart/internal/domain"
)

// Lookup answers stock and product metadata questions for a single product.
// Every call goes to the source; implementations must not cache stock.
type Lookup interface {
	GetStock(ctx context.Context, productID int64) (domain.StockInfo, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnavailable     = errors.New("inventory service unavailable")
)
