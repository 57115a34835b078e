package auth

import "errors"

var (
	// ErrAuthenticationFailed covers both an unknown username and a wrong password.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrMissingSecret        = errors.New("signing secret is required")
)
