package services

import "errors"

// Sentinel errors the handlers map onto HTTP statuses.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrFormNotFound       = errors.New("form not found")
)
