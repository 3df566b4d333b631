// Package common defines shared constants and sentinel errors used across
// the client and server layers of the user API. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Account lifecycle errors.
	ErrDuplicateLogin  = errors.New("login already taken")
	ErrAccountNotFound = errors.New("account not found")

	// Credential verification. Deliberately generic: it covers both an
	// unknown login and a wrong password so callers cannot probe which
	// logins exist.
	ErrInvalidCredentials = errors.New("invalid login or password")

	// Token parsing and inspection errors.
	ErrMalformedToken  = errors.New("malformed token")
	ErrMissingExpClaim = errors.New("token has no exp claim")
	ErrInvalidToken    = errors.New("invalid token")

	// Refresh token lifecycle errors.
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
