package runtime

import (
	"sync"

	"github.com/google/uuid"

	"chat-hub/domain"
)

// MembershipRegistry tracks which rooms each connection is currently
// subscribed to. It performs a two-way bookkeeping:
// 1. roomConns resolves a room into its fan-out target set.
// 2. connRooms lets a disconnecting connection drop all its
//    subscriptions in one atomic step.
type MembershipRegistry struct {
	mu        sync.RWMutex
	roomConns map[uuid.UUID]set // room id -> connection ids
	connRooms map[uuid.UUID]set // connection id -> room ids
}

func NewMembershipRegistry() *MembershipRegistry {
	return &MembershipRegistry{
		roomConns: make(map[uuid.UUID]set),
		connRooms: make(map[uuid.UUID]set),
	}
}

// Join subscribes a connection to a room's live message stream.
// Joining the same room twice leaves exactly one entry.
func (r *MembershipRegistry) Join(connID uuid.UUID, room domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roomConns[room.ID]; !ok {
		r.roomConns[room.ID] = make(set)
	}
	r.roomConns[room.ID][connID] = struct{}{}

	if _, ok := r.connRooms[connID]; !ok {
		r.connRooms[connID] = make(set)
	}
	r.connRooms[connID][room.ID] = struct{}{}
}

// Leave removes one (connection, room) subscription. No-op when absent.
func (r *MembershipRegistry) Leave(connID, roomID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, roomID)
}

// LeaveAll removes every subscription held by a connection. Called on
// disconnect; readers never observe a connection mid-removal.
func (r *MembershipRegistry) LeaveAll(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.connRooms[connID] {
		r.leaveLocked(connID, roomID)
	}
}

func (r *MembershipRegistry) leaveLocked(connID, roomID uuid.UUID) {
	if conns, ok := r.roomConns[roomID]; ok {
		delete(conns, connID)
		// If no one is left in the room, drop the entry entirely
		if len(conns) == 0 {
			delete(r.roomConns, roomID)
		}
	}
	if rooms, ok := r.connRooms[connID]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(r.connRooms, connID)
		}
	}
}

// ConnectionsJoinedToRoom returns an atomic snapshot of the room's
// fan-out target set. Nil when the room has no subscribers.
func (r *MembershipRegistry) ConnectionsJoinedToRoom(roomID uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns, ok := r.roomConns[roomID]
	if !ok {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(conns))
	for connID := range conns {
		ids = append(ids, connID)
	}
	return ids
}
