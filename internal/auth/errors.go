package auth

import "errors"

var (
	// Code exchange errors. GitHub does not reliably distinguish a bad
	// code from a provider outage, so both are terminal: the caller has
	// to restart the OAuth flow either way.
	ErrInvalidAuthorizationCode = errors.New("invalid authorization code")
	ErrProviderUnavailable      = errors.New("identity provider unavailable")

	// Identity resolution errors
	ErrProfileFetchFailed    = errors.New("failed to fetch user profile")
	ErrUserPersistenceFailed = errors.New("failed to persist user")

	// Configuration errors
	ErrSigningKeyMissing = errors.New("token signing secret is not configured")
)
