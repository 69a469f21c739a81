package service

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfStock      = errors.New("requested quantity out of stock")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrLookupFailure   = errors.New("inventory lookup failed")
	ErrPersistFailure  = errors.New("cart snapshot write failed")

	ErrSnapshotUnavailable = errors.New("cart snapshot unavailable")
)

// Operation names a cart mutation.
type Operation string

const (
	OpAddProduct    Operation = "add product"
	OpRemoveProduct Operation = "remove product"
	OpUpdateAmount  Operation = "update product amount"
)

var userMessages = map[Operation]string{
	OpAddProduct:    "error adding product",
	OpRemoveProduct: "error removing product",
	OpUpdateAmount:  "error changing product quantity",
}

// OperationError is a failed cart mutation. Err wraps one of the Err* kinds above.
type OperationError struct {
	Op        Operation
	ProductID int64
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Op, e.ProductID, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user for this failure.
func (e *OperationError) UserMessage() string {
	if errors.Is(e.Err, ErrOutOfStock) {
		return ErrOutOfStock.Error()
	}
	return userMessages[e.Op]
}

func opError(op Operation, productID int64, kind error, cause error) *OperationError {
	if cause == nil {
		return &OperationError{Op: op, ProductID: productID, Err: kind}
	}
	return &OperationError{Op: op, ProductID: productID, Err: fmt.Errorf("%w: %w", kind, cause)}
}
