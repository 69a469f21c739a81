package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/fjod/storefront-cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetStock_And_GetStock(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.SetStock(1, 100)
	store.SetStock(2, 0)

	stock, err := store.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StockInfo{ProductID: 1, Amount: 100}, stock)

	stock, err = store.GetStock(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Amount)

	_, err = store.GetStock(ctx, 3)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_SetProduct(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	shoe := domain.Product{ID: 5, Title: "Shoe", Price: 10, Image: "x"}
	store.SetProduct(shoe)

	got, err := store.GetProduct(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, shoe, got)

	// product without explicit stock is out of stock, not unknown
	stock, err := store.GetStock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Amount)

	store.SetStock(5, 3)
	store.SetProduct(shoe)
	stock, err = store.GetStock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Amount)

	_, err = store.GetProduct(ctx, 6)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			store.SetStock(int64(n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			_, _ = store.GetStock(ctx, int64(n))
		}(i)
	}
	wg.Wait()

	stock, err := store.GetStock(ctx, 19)
	require.NoError(t, err)
	assert.Equal(t, 19, stock.Amount)
}
