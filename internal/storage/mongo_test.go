package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestMongo(t *testing.T) (*MongoStorage, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	store := NewMongoStorage(db)
	require.NoError(t, store.CreateIndexes(ctx))

	cleanup := func() {
		_ = db.Client().Disconnect(ctx)
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return store, cleanup
}

func TestMongoRead_NotFound(t *testing.T) {
	store, cleanup := setupTestMongo(t)
	defer cleanup()

	_, err := store.Read(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoWrite_InsertThenUpdate(t *testing.T) {
	store, cleanup := setupTestMongo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "@RocketShoes:cart", "[]"))
	value, err := store.Read(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	snapshot := `[{"id":5,"title":"Shoe","price":10,"image":"x","amount":2}]`
	require.NoError(t, store.Write(ctx, "@RocketShoes:cart", snapshot))
	value, err = store.Read(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.Equal(t, snapshot, value)

	count, err := store.collection.CountDocuments(ctx, map[string]string{"_id": "@RocketShoes:cart"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMongoWrite_KeysAreIsolated(t *testing.T) {
	store, cleanup := setupTestMongo(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "cart:a", "a"))
	require.NoError(t, store.Write(ctx, "cart:b", "b"))

	a, err := store.Read(ctx, "cart:a")
	require.NoError(t, err)
	b, err := store.Read(ctx, "cart:b")
	require.NoError(t, err)
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
}
