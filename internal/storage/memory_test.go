package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage_ReadWrite(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	_, err := store.Read(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Write(ctx, "k", "v1"))
	require.NoError(t, store.Write(ctx, "k", "v2"))

	value, err := store.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestMemoryStorage_ConcurrentWrites(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Write(ctx, fmt.Sprintf("k%d", n), "v")
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		_, err := store.Read(ctx, fmt.Sprintf("k%d", i))
		assert.NoError(t, err)
	}
}
