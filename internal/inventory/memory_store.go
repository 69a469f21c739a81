package inventory

import (
	"context"
	"sync"

	"github.com/fjod/storefront-cart/internal/domain"
)

// MemoryStore implements Lookup with in-memory storage
type MemoryStore struct {
	mu       sync.RWMutex
	stocks   map[int64]int            // productID -> available amount
	products map[int64]domain.Product // productID -> metadata
}

// NewMemoryStore creates a new in-memory inventory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stocks:   make(map[int64]int),
		products: make(map[int64]domain.Product),
	}
}

// GetStock returns stock information for the given product
func (s *MemoryStore) GetStock(_ context.Context, productID int64) (domain.StockInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amount, exists := s.stocks[productID]
	if !exists {
		return domain.StockInfo{}, ErrProductNotFound
	}
	return domain.StockInfo{ProductID: productID, Amount: amount}, nil
}

// GetProduct returns catalog metadata for the given product
func (s *MemoryStore) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[productID]
	if !exists {
		return domain.Product{}, ErrProductNotFound
	}
	return product, nil
}

// SetStock sets the stock level for a product
func (s *MemoryStore) SetStock(productID int64, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stocks[productID] = amount
}

// SetProduct registers product metadata and, if absent, a zero stock entry.
func (s *MemoryStore) SetProduct(product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[product.ID] = product
	if _, exists := s.stocks[product.ID]; !exists {
		s.stocks[product.ID] = 0
	}
}
