package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event, fully resolved:
// the store fills in both the author and the target room.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Author    Identity  `json:"author"`
	Room      Room      `json:"room"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageDraft is the client-supplied shape of a message before creation.
type MessageDraft struct {
	Text   string    `json:"text" validate:"required,min=1,max=2000"`
	RoomID uuid.UUID `json:"room_id"`
}
