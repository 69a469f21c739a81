package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/fjod/storefront-cart/internal/domain"
	"github.com/fjod/storefront-cart/internal/inventory"
	"github.com/fjod/storefront-cart/internal/notify"
	"github.com/fjod/storefront-cart/internal/storage"
)

type mockLookup struct {
	m          sync.Mutex
	stock      map[int64]int
	products   map[int64]domain.Product
	stockErr   error
	productErr error

	stockCalls   int
	productCalls int
}

func newMockLookup() *mockLookup {
	return &mockLookup{
		stock:    make(map[int64]int),
		products: make(map[int64]domain.Product),
	}
}

func (m *mockLookup) GetStock(_ context.Context, productID int64) (domain.StockInfo, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.stockCalls++
	if m.stockErr != nil {
		return domain.StockInfo{}, m.stockErr
	}
	amount, ok := m.stock[productID]
	if !ok {
		return domain.StockInfo{}, inventory.ErrProductNotFound
	}
	return domain.StockInfo{ProductID: productID, Amount: amount}, nil
}

func (m *mockLookup) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.productCalls++
	if m.productErr != nil {
		return domain.Product{}, m.productErr
	}
	p, ok := m.products[productID]
	if !ok {
		return domain.Product{}, inventory.ErrProductNotFound
	}
	return p, nil
}

func (m *mockLookup) setStock(productID int64, amount int) {
	m.m.Lock()
	defer m.m.Unlock()
	m.stock[productID] = amount
}

func (m *mockLookup) calls() (int, int) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.stockCalls, m.productCalls
}

type mockStorage struct {
	m        sync.Mutex
	values   map[string]string
	readErr  error
	writeErr error
	writes   int
}

func newMockStorage() *mockStorage {
	return &mockStorage{values: make(map[string]string)}
}

func (m *mockStorage) Read(_ context.Context, key string) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *mockStorage) Write(_ context.Context, key, value string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.values[key] = value
	return nil
}

func (m *mockStorage) snapshot(key string) (domain.Cart, bool) {
	m.m.Lock()
	defer m.m.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(v), &cart); err != nil {
		return nil, false
	}
	return cart, true
}

func (m *mockStorage) writeCount() int {
	m.m.Lock()
	defer m.m.Unlock()
	return m.writes
}

// ctxStorage fails reads whose context is already done, as network backends do.
type ctxStorage struct {
	*mockStorage
}

func (c *ctxStorage) Read(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.mockStorage.Read(ctx, key)
}

type recordingNotifier struct {
	m     sync.Mutex
	items []notify.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.m.Lock()
	defer r.m.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) messages() []string {
	r.m.Lock()
	defer r.m.Unlock()
	out := make([]string, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Message)
	}
	return out
}
