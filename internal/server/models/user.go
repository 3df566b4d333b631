// Package models holds the persistent data structures of the user API.
package models

import "time"

// User is an account row. PasswordHash is write-only from the client's point
// of view and must never appear in logs or responses. RefreshToken together
// with TokenCreated/TokenExpires describes the single active session; an
// empty or expired refresh token means no session.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	RefreshToken string
	TokenCreated time.Time
	TokenExpires time.Time
	CreatedAt    time.Time
}
