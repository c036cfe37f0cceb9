// Package runtime keeps the live state of the chat backend: which
// connections exist, who owns them, which rooms they are subscribed to,
// and how inbound events fan out to outbound ones. It orchestrates the
// system without containing business logic or domain rules.
package runtime

import (
	"sync"

	"github.com/google/uuid"

	"chat-hub/domain"
	"chat-hub/errors"
)

type set map[uuid.UUID]struct{}

// ConnectionRegistry is the authoritative map from live connection ids
// to authenticated identities. Entries exist only between a successful
// authentication and the connection's teardown, so every entry carries
// a real identity.
type ConnectionRegistry struct {
	mu          sync.RWMutex
	identities  map[uuid.UUID]domain.Identity // connection id -> identity
	connections map[uuid.UUID]set             // identity id -> connection ids
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		identities:  make(map[uuid.UUID]domain.Identity),
		connections: make(map[uuid.UUID]set),
	}
}

// Register binds a connection id to its authenticated identity.
// Re-registering the same pair is a no-op; the same connection id bound
// to a different identity is an invariant violation and is rejected.
func (r *ConnectionRegistry) Register(connID uuid.UUID, identity domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.identities[connID]; ok {
		if existing.ID == identity.ID {
			return nil
		}
		return errors.ErrDuplicateConnection
	}

	r.identities[connID] = identity
	if _, ok := r.connections[identity.ID]; !ok {
		r.connections[identity.ID] = make(set)
	}
	r.connections[identity.ID][connID] = struct{}{}
	return nil
}

// Unregister removes the mapping. Unknown connection ids are tolerated
// so duplicate disconnect signals stay harmless.
func (r *ConnectionRegistry) Unregister(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, ok := r.identities[connID]
	if !ok {
		return
	}
	delete(r.identities, connID)

	if conns, ok := r.connections[identity.ID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.connections, identity.ID)
		}
	}
}

// ConnectionsForIdentity returns the identity's current live connections.
// An empty result is valid: the user simply has no active session.
func (r *ConnectionRegistry) ConnectionsForIdentity(identityID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns, ok := r.connections[identityID]
	if !ok {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(conns))
	for connID := range conns {
		ids = append(ids, connID)
	}
	return ids
}

func (r *ConnectionRegistry) IdentityFor(connID uuid.UUID) (domain.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.identities[connID]
	if !ok {
		return domain.Identity{}, errors.ErrNotFound
	}
	return identity, nil
}
