// Package session implements the server-side session store: an opaque
// random token maps to exactly one authenticated user id for a fixed 24h
// lifetime. A new login issues a new token; nothing refreshes an old one.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// TTL is the fixed session lifetime.
const TTL = 24 * time.Hour

// ErrNotFound is returned when a token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Manager issues, resolves and revokes sessions.
type Manager interface {
	// Create issues a new opaque token bound to userID.
	Create(ctx context.Context, userID uint) (string, error)
	// UserID resolves a token to its user id, or ErrNotFound.
	UserID(ctx context.Context, token string) (uint, error)
	// Destroy invalidates a token synchronously.
	Destroy(ctx context.Context, token string) error
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
