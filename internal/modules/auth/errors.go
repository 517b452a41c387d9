package auth

import "errors"

var (
	ErrMissingEmail    = errors.New("missing email")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrMissingPassword = errors.New("missing password")
	ErrAlreadyExists   = errors.New("already exist")
	ErrUnauthorized    = errors.New("unauthorized")
)
