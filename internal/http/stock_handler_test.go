package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fjod/storefront-cart/internal/catalog"
	"github.com/fjod/storefront-cart/internal/domain"
	"github.com/fjod/storefront-cart/internal/inventory"
	"github.com/fjod/storefront-cart/internal/notify"
	"github.com/fjod/storefront-cart/internal/service"
	"github.com/fjod/storefront-cart/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *catalog.Repository {
	t.Helper()
	repo, err := catalog.NewRepository(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.RunMigrations())
	return repo
}

func TestStockRouter_GetStock(t *testing.T) {
	router := NewStockRouter(NewStockHandler(newTestCatalog(t)), time.Second)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/stock/1", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"id":1,"amount":3}`, recorder.Body.String())
}

func TestStockRouter_GetProduct(t *testing.T) {
	router := NewStockRouter(NewStockHandler(newTestCatalog(t)), time.Second)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/products/3", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var product domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&product))
	assert.Equal(t, int64(3), product.ID)
	assert.Equal(t, 219.9, product.Price)
}

func TestStockRouter_ListProducts(t *testing.T) {
	router := NewStockRouter(NewStockHandler(newTestCatalog(t)), time.Second)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/products", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var products []domain.Product
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&products))
	assert.Len(t, products, 6)
}

func TestStockRouter_NotFoundAndBadID(t *testing.T) {
	router := NewStockRouter(NewStockHandler(newTestCatalog(t)), time.Second)

	for path, want := range map[string]int{
		"/stock/999":    http.StatusNotFound,
		"/products/999": http.StatusNotFound,
		"/stock/-1":     http.StatusBadRequest,
		"/products/abc": http.StatusBadRequest,
	} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, want, recorder.Code, path)
	}
}

type brokenCatalog struct{}

func (brokenCatalog) GetStock(context.Context, int64) (domain.StockInfo, error) {
	return domain.StockInfo{}, errors.New("disk I/O error")
}

func (brokenCatalog) GetProduct(context.Context, int64) (domain.Product, error) {
	return domain.Product{}, errors.New("disk I/O error")
}

func (brokenCatalog) GetAllProducts(context.Context) ([]domain.Product, error) {
	return nil, errors.New("disk I/O error")
}

func TestStockRouter_InternalError(t *testing.T) {
	router := NewStockRouter(NewStockHandler(brokenCatalog{}), time.Second)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/products", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

// The cart talks to the stock API over HTTP exactly as in production.
func TestCartOverStockAPI(t *testing.T) {
	repo := newTestCatalog(t)
	stockServer := httptest.NewServer(NewStockRouter(NewStockHandler(repo), time.Second))
	defer stockServer.Close()

	client := inventory.NewClient(stockServer.URL, time.Second)
	sessions := service.NewSessions(service.DefaultStorageKey, client, storage.NewMemoryStorage(), notify.ContextInbox{})
	defer sessions.Close()

	api := &cartAPI{handler: NewCartRouter(NewCartHandler(sessions, time.Second), time.Second)}

	// product 4 has a single unit in stock
	_, response := api.do(t, "POST", "/api/v1/cart/items", "s", AddItemRequestDTO{ProductID: 4})
	require.Len(t, response.Items, 1)
	assert.Equal(t, 139.9, response.Items[0].Price)

	_, response = api.do(t, "POST", "/api/v1/cart/items", "s", AddItemRequestDTO{ProductID: 4})
	assert.Equal(t, 1, response.Items[0].Amount)
	require.Len(t, response.Notifications, 1)
	assert.Equal(t, "requested quantity out of stock", response.Notifications[0].Message)

	require.NoError(t, repo.SetStock(context.Background(), 4, 5))
	_, response = api.do(t, "POST", "/api/v1/cart/items", "s", AddItemRequestDTO{ProductID: 4})
	assert.Equal(t, 2, response.Items[0].Amount, "stock is never cached")
	assert.Empty(t, response.Notifications)
}
