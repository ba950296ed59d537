package domain

import "errors"

var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrMissingToken            = errors.New("no token provided")
	ErrUpstreamUnavailable     = errors.New("backend unavailable")
	ErrInvalidUpstreamResponse = errors.New("invalid backend response")
	ErrInvalidAttempt          = errors.New("invalid attempt")
	ErrStorageUnavailable      = errors.New("storage unavailable")
)
