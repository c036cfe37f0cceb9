// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

import "github.com/google/uuid"

// Identity is an authenticated user. Immutable for a connection's lifetime.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}
