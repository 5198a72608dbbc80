package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrForbidden          = errors.New("cannot order for another person")
	ErrAddressNotOwned    = errors.New("address does not belong to the customer")
	ErrProductUnavailable = errors.New("product is not available")
	ErrSizeNotOffered     = errors.New("size is not offered for this product")
	ErrOutOfStock         = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// StockError names the product that ran out. It matches ErrOutOfStock.
type StockError struct {
	ProductID int64
	Name      string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%d)", e.Name, e.ProductID)
}

func (e *StockError) Is(target error) bool { return target == ErrOutOfStock }

// TransitionError carries the rejected transition. It matches ErrInvalidTransition.
type TransitionError struct {
	From, To Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }
