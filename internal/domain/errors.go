package domain

import "errors"

// Sentinel errors shared across services and handlers.
var (
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrInactiveAccount   = errors.New("account is inactive")
	ErrEmailTaken        = errors.New("email already registered")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenSuperseded   = errors.New("token superseded by a newer login")
	ErrStoreUnavailable  = errors.New("session store unavailable")
)
