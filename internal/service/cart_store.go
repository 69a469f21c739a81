package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/fjod/storefront-cart/internal/domain"
	"github.com/fjod/storefront-cart/internal/inventory"
	"github.com/fjod/storefront-cart/internal/notify"
	"github.com/fjod/storefront-cart/internal/storage"
)

// DefaultStorageKey is the snapshot key used by a single-session store.
const DefaultStorageKey = "@RocketShoes:cart"

// CartStore owns one session's cart. The in-memory cart is authoritative; the
// snapshot under key is rewritten after every successful mutation.
//
// Mutations never return errors. A failed mutation leaves the cart untouched
// and raises exactly one error notification.
type CartStore struct {
	opMu sync.Mutex // serializes mutations, held across lookups

	mu   sync.RWMutex
	cart domain.Cart

	key       string
	inventory inventory.Lookup
	storage   storage.Storage
	notifier  notify.Notifier
}

// NewCartStore loads the snapshot stored under key. A missing or undecodable
// snapshot yields an empty cart. Any other read failure is returned wrapping
// ErrSnapshotUnavailable and no store is built.
func NewCartStore(
	ctx context.Context,
	key string,
	lookup inventory.Lookup,
	store storage.Storage,
	notifier notify.Notifier) (*CartStore, error) {

	if notifier == nil {
		notifier = notify.Logger{}
	}

	cart, err := loadCart(ctx, store, key)
	if err != nil {
		return nil, err
	}

	return &CartStore{
		cart:      cart,
		key:       key,
		inventory: lookup,
		storage:   store,
		notifier:  notifier,
	}, nil
}

func loadCart(ctx context.Context, store storage.Storage, key string) (domain.Cart, error) {
	raw, err := store.Read(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSnapshotUnavailable, key, err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		log.Printf("cart snapshot decode error: %v \n", err)
		return domain.Cart{}, nil
	}

	return cart.Sanitize(), nil
}

// Cart returns a copy of the current cart.
func (s *CartStore) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// AddProduct adds one unit of productID, appending it when not yet in the cart.
func (s *CartStore) AddProduct(ctx context.Context, productID int64) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.report(ctx, s.addProduct(ctx, productID))
}

// RemoveProduct drops productID from the cart.
func (s *CartStore) RemoveProduct(ctx context.Context, productID int64) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.report(ctx, s.removeProduct(ctx, productID))
}

// UpdateProductAmount sets the amount of productID, checked against current stock.
func (s *CartStore) UpdateProductAmount(ctx context.Context, productID int64, amount int) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.report(ctx, s.updateProductAmount(ctx, productID, amount))
}

func (s *CartStore) addProduct(ctx context.Context, productID int64) error {
	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return opError(OpAddProduct, productID, ErrLookupFailure, err)
	}
	if stock.Amount <= 0 {
		return opError(OpAddProduct, productID, ErrOutOfStock, nil)
	}

	cart := s.Cart()
	if i := cart.Find(productID); i >= 0 {
		return s.updateProductAmount(ctx, productID, cart[i].Amount+1)
	}

	product, err := s.inventory.GetProduct(ctx, productID)
	if err != nil {
		return opError(OpAddProduct, productID, ErrLookupFailure, err)
	}
	product.ID = productID

	return s.commit(ctx, OpAddProduct, productID, append(cart, product.NewLineItem(1)))
}

func (s *CartStore) removeProduct(ctx context.Context, productID int64) error {
	cart := s.Cart()
	i := cart.Find(productID)
	if i < 0 {
		return opError(OpRemoveProduct, productID, ErrItemNotFound, nil)
	}

	return s.commit(ctx, OpRemoveProduct, productID, slices.Delete(cart, i, i+1))
}

func (s *CartStore) updateProductAmount(ctx context.Context, productID int64, amount int) error {
	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return opError(OpUpdateAmount, productID, ErrLookupFailure, err)
	}
	if amount < 1 {
		return opError(OpUpdateAmount, productID, ErrInvalidQuantity, nil)
	}
	if amount > stock.Amount {
		return opError(OpUpdateAmount, productID, ErrOutOfStock, nil)
	}

	// An item missing from the cart leaves it unchanged; the write still happens.
	cart := s.Cart()
	if i := cart.Find(productID); i >= 0 {
		cart[i].Amount = amount
	}

	return s.commit(ctx, OpUpdateAmount, productID, cart)
}

// commit writes the snapshot first and only then replaces the in-memory cart,
// so a failed write changes nothing.
func (s *CartStore) commit(ctx context.Context, op Operation, productID int64, next domain.Cart) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return opError(op, productID, ErrPersistFailure, err)
	}
	if err := s.storage.Write(ctx, s.key, string(raw)); err != nil {
		return opError(op, productID, ErrPersistFailure, err)
	}

	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()
	return nil
}

func (s *CartStore) report(ctx context.Context, err error) {
	if err == nil {
		return
	}

	message := "unexpected cart error"
	var opErr *OperationError
	if errors.As(err, &opErr) {
		message = opErr.UserMessage()
	}

	log.Printf("cart %s: %v \n", s.key, err)
	s.notifier.Notify(ctx, notify.Notification{Message: message, Severity: notify.SeverityError})
}
