package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/storefront-cart/internal/domain"
	"github.com/fjod/storefront-cart/internal/notify"
	"github.com/fjod/storefront-cart/internal/service"
)

type CartHandler struct {
	sessions *service.Sessions
	timeout  time.Duration
}

func NewCartHandler(sessions *service.Sessions, timeout time.Duration) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateAmountRequestDTO struct {
	Amount *int `json:"amount"`
}

// CartResponse carries the cart after the request and any notifications the
// request raised. Cart operations report failures only through notifications.
type CartResponse struct {
	Items         domain.Cart           `json:"items"`
	Notifications []notify.Notification `json:"notifications"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(context.Context, *service.CartStore) {})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	h.withCart(w, r, func(ctx context.Context, cart *service.CartStore) {
		cart.AddProduct(ctx, req.ProductID)
	})
}

func (h *CartHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r, "product_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateAmountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Amount == nil {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount is required")
		return
	}

	h.withCart(w, r, func(ctx context.Context, cart *service.CartStore) {
		cart.UpdateProductAmount(ctx, productID, *req.Amount)
	})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r, "product_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	h.withCart(w, r, func(ctx context.Context, cart *service.CartStore) {
		cart.RemoveProduct(ctx, productID)
	})
}

// withCart runs op against the caller's session cart and responds with the
// resulting cart and the notifications op raised.
func (h *CartHandler) withCart(w http.ResponseWriter, r *http.Request, op func(context.Context, *service.CartStore)) {
	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "missing cart session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ctx = notify.WithSessionID(ctx, sessionID)
	ctx, inbox := notify.WithInbox(ctx)

	cart, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "cart_unavailable", "cart is temporarily unavailable")
		return
	}
	op(ctx, cart)

	respondJSON(w, http.StatusOK, CartResponse{
		Items:         cart.Cart(),
		Notifications: inbox.Drain(),
	})
}
