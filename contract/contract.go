//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"github.com/google/uuid"

	"chat-hub/domain"
	"chat-hub/domain/event"
)

// IdentityVerifier turns a connect-time credential into an authenticated
// identity, or fails with errors.ErrUnauthorized.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (domain.Identity, error)
}

// RoomDirectory persists rooms and their durable membership lists.
type RoomDirectory interface {
	RoomsForIdentity(ctx context.Context, identityID uuid.UUID, pr domain.PageRequest) (domain.Page[domain.Room], error)
	CreateRoom(ctx context.Context, draft domain.RoomDraft, creator domain.Identity) (domain.Room, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (domain.Room, error)
}

// MessageStore persists messages. Created messages come back with their
// author and room references resolved.
type MessageStore interface {
	MessagesForRoom(ctx context.Context, roomID uuid.UUID, pr domain.PageRequest) (domain.Page[domain.Message], error)
	Create(ctx context.Context, draft domain.MessageDraft, author domain.Identity) (domain.Message, error)
}

// EventSink is one live connection's outbound side. Consume must not
// block past ctx; a closed sink returns an error and the caller skips it.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// IConnectionRegistry is the authoritative map from live connection ids
// to authenticated identities.
type IConnectionRegistry interface {
	Register(connID uuid.UUID, identity domain.Identity) error
	Unregister(connID uuid.UUID)
	ConnectionsForIdentity(identityID uuid.UUID) []uuid.UUID
	IdentityFor(connID uuid.UUID) (domain.Identity, error)
}

// IMembershipRegistry tracks which rooms each connection is currently
// subscribed to. Joined is distinct from durable room membership.
type IMembershipRegistry interface {
	Join(connID uuid.UUID, room domain.Room)
	Leave(connID, roomID uuid.UUID)
	LeaveAll(connID uuid.UUID)
	ConnectionsJoinedToRoom(roomID uuid.UUID) []uuid.UUID
}

// Worker doesn't protect itself; the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Stop()
}
