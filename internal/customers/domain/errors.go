package domain

import "errors"

var (
	ErrPersonNotFound  = errors.New("person not found")
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressInUse    = errors.New("address is referenced by an order")
	ErrInvalidCEP      = errors.New("invalid postal code")
)
