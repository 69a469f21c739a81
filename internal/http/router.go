package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func baseRouter(timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", health)
	return r
}

// NewCartRouter mounts the cart API under /api/v1/cart.
func NewCartRouter(cartHandler *CartHandler, timeout time.Duration) http.Handler {
	r := baseRouter(timeout)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(SessionMiddleware)
		r.Get("/", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{product_id}", cartHandler.UpdateAmount)
		r.Delete("/items/{product_id}", cartHandler.RemoveItem)
	})

	return otelhttp.NewHandler(r, "cart-service")
}

// NewStockRouter serves /stock/{id}, /products and /products/{id}.
func NewStockRouter(stockHandler *StockHandler, timeout time.Duration) http.Handler {
	r := baseRouter(timeout)

	r.Get("/stock/{id}", stockHandler.GetStock)
	r.Get("/products", stockHandler.ListProducts)
	r.Get("/products/{id}", stockHandler.GetProduct)

	return otelhttp.NewHandler(r, "stock-service")
}
