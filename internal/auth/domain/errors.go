package domain

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrGoogleNotConfigured = errors.New("google sign-in is not configured")
	ErrGoogleRejected      = errors.New("google sign-in rejected")
)
