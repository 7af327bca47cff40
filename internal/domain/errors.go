package domain

import "errors"

var (
	// ErrInvalidShopDomain is returned when a shop parameter fails validation.
	ErrInvalidShopDomain = errors.New("invalid shop domain")

	// ErrMissingParams is returned when an OAuth callback lacks required
	// query parameters.
	ErrMissingParams = errors.New("missing required parameters")

	// ErrStateMismatch is returned when the nonce cookie does not match the
	// state query parameter on the OAuth callback.
	ErrStateMismatch = errors.New("state verification failed")

	// ErrExchangeFailed is returned when the token endpoint yields no usable
	// access token.
	ErrExchangeFailed = errors.New("token exchange failed")

	// ErrSessionNotFound is returned when no stored session exists for an id.
	ErrSessionNotFound = errors.New("session not found")
)
