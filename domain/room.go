package domain

import (
	"time"

	"github.com/google/uuid"
)

// Room is owned by the room directory. The core never mutates its
// member list, it only reads it to resolve fan-out targets.
type Room struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Members     []Identity `json:"members"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RoomDraft is the client-supplied shape of a room before creation.
type RoomDraft struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Description string     `json:"description" validate:"max=500"`
	Members     []Identity `json:"members"`
}

// RoomRef identifies an existing room in inbound events.
type RoomRef struct {
	ID uuid.UUID `json:"id"`
}
