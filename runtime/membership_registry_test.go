package runtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-hub/domain"
)

func TestMembershipRegistry_Join_And_Snapshot(t *testing.T) {
	req := require.New(t)
	registry := NewMembershipRegistry()
	room := domain.Room{ID: uuid.New(), Name: "general"}
	connID1 := uuid.New()
	connID2 := uuid.New()

	// When two connections join the same room
	registry.Join(connID1, room)
	registry.Join(connID2, room)

	// Then the snapshot holds exactly both of them
	conns := registry.ConnectionsJoinedToRoom(room.ID)
	req.Len(conns, 2)
	req.Contains(conns, connID1)
	req.Contains(conns, connID2)
}

func TestMembershipRegistry_Join_Twice_Leaves_One_Entry(t *testing.T) {
	req := require.New(t)
	registry := NewMembershipRegistry()
	room := domain.Room{ID: uuid.New(), Name: "general"}
	connID := uuid.New()

	// When the same connection joins the same room twice
	registry.Join(connID, room)
	registry.Join(connID, room)

	// Then exactly one subscription exists
	req.Equal([]uuid.UUID{connID}, registry.ConnectionsJoinedToRoom(room.ID))
}

func TestMembershipRegistry_Leave_Is_Room_Scoped(t *testing.T) {
	req := require.New(t)
	registry := NewMembershipRegistry()
	general := domain.Room{ID: uuid.New(), Name: "general"}
	random := domain.Room{ID: uuid.New(), Name: "random"}
	connID := uuid.New()
	registry.Join(connID, general)
	registry.Join(connID, random)

	// When the connection leaves one room
	registry.Leave(connID, general.ID)

	// Then only that subscription is gone
	req.Empty(registry.ConnectionsJoinedToRoom(general.ID))
	req.Equal([]uuid.UUID{connID}, registry.ConnectionsJoinedToRoom(random.ID))
}

func TestMembershipRegistry_Leave_Unknown_Is_NoOp(t *testing.T) {
	req := require.New(t)
	registry := NewMembershipRegistry()
	room := domain.Room{ID: uuid.New(), Name: "general"}
	connID := uuid.New()
	registry.Join(connID, room)

	// Leaving a room never joined, and leaving with an unknown connection
	registry.Leave(connID, uuid.New())
	registry.Leave(uuid.New(), room.ID)

	req.Equal([]uuid.UUID{connID}, registry.ConnectionsJoinedToRoom(room.ID))
}

func TestMembershipRegistry_LeaveAll(t *testing.T) {
	req := require.New(t)
	registry := NewMembershipRegistry()
	general := domain.Room{ID: uuid.New(), Name: "general"}
	random := domain.Room{ID: uuid.New(), Name: "random"}
	leaving := uuid.New()
	staying := uuid.New()
	registry.Join(leaving, general)
	registry.Join(leaving, random)
	registry.Join(staying, general)

	// When a connection drops all its subscriptions at once
	registry.LeaveAll(leaving)

	// Then it is removed everywhere and no one else is affected
	req.Equal([]uuid.UUID{staying}, registry.ConnectionsJoinedToRoom(general.ID))
	req.Empty(registry.ConnectionsJoinedToRoom(random.ID))
	req.Empty(registry.connRooms[leaving])
}

func TestMembershipRegistry_Empty_Room_Entry_Is_Pruned(t *testing.T) {
	req := require.New(t)
	registry := NewMembershipRegistry()
	room := domain.Room{ID: uuid.New(), Name: "general"}
	connID := uuid.New()
	registry.Join(connID, room)

	// When the last subscriber leaves
	registry.Leave(connID, room.ID)

	// Then the registry holds no leftover entries
	req.Empty(registry.roomConns)
	req.Empty(registry.connRooms)
}
