package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/moderation"
)

var validate = validator.New()

// Coordinator decides, for every inbound event, which set of live
// connections must receive which outbound event. It owns the two
// registries plus a sink table resolving connection ids back to their
// outbound side, and talks to the collaborators only through the
// contract interfaces.
type Coordinator struct {
	log         *slog.Logger
	connections contract.IConnectionRegistry
	memberships contract.IMembershipRegistry
	verifier    contract.IdentityVerifier
	rooms       contract.RoomDirectory
	messages    contract.MessageStore
	moderator   *moderation.Moderator
	authTimeout time.Duration

	mu    sync.RWMutex
	sinks map[uuid.UUID]contract.EventSink
}

func NewCoordinator(
	log *slog.Logger,
	connections contract.IConnectionRegistry,
	memberships contract.IMembershipRegistry,
	verifier contract.IdentityVerifier,
	rooms contract.RoomDirectory,
	messages contract.MessageStore,
	moderator *moderation.Moderator,
	authTimeout time.Duration,
) *Coordinator {
	return &Coordinator{
		log:         log,
		connections: connections,
		memberships: memberships,
		verifier:    verifier,
		rooms:       rooms,
		messages:    messages,
		moderator:   moderator,
		authTimeout: authTimeout,
		sinks:       make(map[uuid.UUID]contract.EventSink),
	}
}

// Connect authenticates a pending session. On success the connection is
// registered and receives its first page of rooms; any failure is
// terminal and the returned error tells the transport to close.
func (c *Coordinator) Connect(ctx context.Context, s *Session, credential string) error {
	vctx, cancel := context.WithTimeout(ctx, c.authTimeout)
	defer cancel()

	identity, err := c.verifier.Verify(vctx, credential)
	if err != nil {
		s.state = StateClosed
		c.notify(ctx, s, event.ErrorEvent{Code: event.CodeUnauthorized})
		c.log.Info("Connection rejected", "connection", s.ConnID, "error", err)
		return errors.ErrUnauthorized
	}

	if err = c.connections.Register(s.ConnID, identity); err != nil {
		// Invariant violation: the transport handed out a duplicate id.
		s.state = StateClosed
		c.log.Error("Registration rejected", "connection", s.ConnID, "error", err)
		return err
	}

	c.mu.Lock()
	c.sinks[s.ConnID] = s.sink
	c.mu.Unlock()
	s.state = StateAuthenticated

	page, err := c.rooms.RoomsForIdentity(ctx, identity.ID, domain.DefaultPageRequest)
	if err != nil {
		c.notify(ctx, s, event.ErrorEvent{Code: event.CodeUpstreamFailure})
		return fmt.Errorf("%w: %v", errors.ErrUpstreamFailure, err)
	}

	c.log.Info("User connected", "connection", s.ConnID, "user", identity.Username)
	c.notify(ctx, s, event.RoomsPage{Rooms: page})
	return nil
}

// CreateRoom persists a new room and pushes a recomputed first rooms
// page to every live connection of every member. Each member gets its
// own recomputation: paginated views legitimately differ per identity.
func (c *Coordinator) CreateRoom(ctx context.Context, s *Session, draft domain.RoomDraft) error {
	identity, err := c.requireAuthenticated(ctx, s)
	if err != nil {
		return err
	}
	if err = validate.Struct(draft); err != nil {
		c.notify(ctx, s, event.ErrorEvent{Code: event.CodeValidationFailed, Reason: err.Error()})
		return nil
	}

	created, err := c.rooms.CreateRoom(ctx, draft, identity)
	if err != nil {
		c.reportFailure(ctx, s, err)
		return nil
	}

	for _, member := range created.Members {
		page, err := c.rooms.RoomsForIdentity(ctx, member.ID, domain.DefaultPageRequest)
		if err != nil {
			c.log.Warn("Room list recomputation failed", "user", member.ID, "error", err)
			continue
		}
		for _, connID := range c.connections.ConnectionsForIdentity(member.ID) {
			c.dispatch(ctx, connID, event.RoomsPage{Rooms: page})
		}
	}
	return nil
}

// PaginateRooms serves the caller's own room list with the requested
// window, limit capped server-side.
func (c *Coordinator) PaginateRooms(ctx context.Context, s *Session, pr domain.PageRequest) error {
	identity, err := c.requireAuthenticated(ctx, s)
	if err != nil {
		return err
	}

	page, err := c.rooms.RoomsForIdentity(ctx, identity.ID, pr.Clamped())
	if err != nil {
		c.reportFailure(ctx, s, err)
		return nil
	}
	c.notify(ctx, s, event.RoomsPage{Rooms: page})
	return nil
}

// JoinRoom subscribes the connection to a room's live stream and sends
// back the room's most recent messages. Joining is a private action:
// other members are not notified.
func (c *Coordinator) JoinRoom(ctx context.Context, s *Session, ref domain.RoomRef) error {
	if _, err := c.requireAuthenticated(ctx, s); err != nil {
		return err
	}

	room, err := c.rooms.GetRoom(ctx, ref.ID)
	if err != nil {
		c.reportFailure(ctx, s, err)
		return nil
	}
	page, err := c.messages.MessagesForRoom(ctx, room.ID, domain.DefaultPageRequest)
	if err != nil {
		c.reportFailure(ctx, s, err)
		return nil
	}

	c.memberships.Join(s.ConnID, room)
	c.notify(ctx, s, event.MessagesPage{Messages: page})
	return nil
}

// LeaveRoom drops the connection's subscription to one room. No emission.
func (c *Coordinator) LeaveRoom(ctx context.Context, s *Session, ref domain.RoomRef) error {
	if _, err := c.requireAuthenticated(ctx, s); err != nil {
		return err
	}
	c.memberships.Leave(s.ConnID, ref.ID)
	return nil
}

// AddMessage persists a message authored by the caller and fans it out
// to every connection currently joined to the target room. The author's
// own connection is included when joined; it is not excluded.
func (c *Coordinator) AddMessage(ctx context.Context, s *Session, draft domain.MessageDraft) error {
	identity, err := c.requireAuthenticated(ctx, s)
	if err != nil {
		return err
	}
	if err = validate.Struct(draft); err != nil {
		c.notify(ctx, s, event.ErrorEvent{Code: event.CodeValidationFailed, Reason: err.Error()})
		return nil
	}
	if c.moderator != nil {
		draft.Text = c.moderator.Censor(draft.Text)
	}

	created, err := c.messages.Create(ctx, draft, identity)
	if err != nil {
		c.reportFailure(ctx, s, err)
		return nil
	}

	for _, connID := range c.memberships.ConnectionsJoinedToRoom(created.Room.ID) {
		c.dispatch(ctx, connID, event.MessageAdded{Message: created})
	}
	return nil
}

// Disconnect tears a session down: every room subscription and the
// connection mapping go away together, so no fan-out resolves the
// connection between the two steps.
func (c *Coordinator) Disconnect(s *Session) {
	s.state = StateClosed
	c.memberships.LeaveAll(s.ConnID)
	c.connections.Unregister(s.ConnID)

	c.mu.Lock()
	delete(c.sinks, s.ConnID)
	c.mu.Unlock()

	c.log.Info("Connection closed", "connection", s.ConnID)
}

// LiveConnections reports the current number of registered sinks.
func (c *Coordinator) LiveConnections() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sinks)
}

// requireAuthenticated gates every handler but Connect. A session still
// pending, or a connection id the registry no longer knows, is a
// protocol violation and terminal.
func (c *Coordinator) requireAuthenticated(ctx context.Context, s *Session) (domain.Identity, error) {
	if s.state != StateAuthenticated {
		c.notify(ctx, s, event.ErrorEvent{Code: event.CodeNotAuthenticated})
		return domain.Identity{}, errors.ErrNotAuthenticated
	}
	identity, err := c.connections.IdentityFor(s.ConnID)
	if err != nil {
		c.notify(ctx, s, event.ErrorEvent{Code: event.CodeNotAuthenticated})
		return domain.Identity{}, errors.ErrNotAuthenticated
	}
	return identity, nil
}

// reportFailure maps a collaborator error to the caller-only error
// taxonomy. The connection stays open.
func (c *Coordinator) reportFailure(ctx context.Context, s *Session, err error) {
	if stderrors.Is(err, errors.ErrNotFound) {
		c.notify(ctx, s, event.ErrorEvent{Code: event.CodeNotFound})
		return
	}
	c.log.Warn("Collaborator call failed", "connection", s.ConnID, "error", err)
	c.notify(ctx, s, event.ErrorEvent{Code: event.CodeUpstreamFailure})
}

// notify emits to the calling session itself.
func (c *Coordinator) notify(ctx context.Context, s *Session, e event.Event) {
	if err := s.sink.Consume(ctx, e); err != nil {
		c.log.Debug("Emit to caller failed", "connection", s.ConnID, "event", e.Name(), "error", err)
	}
}

// dispatch emits to a connection resolved from a fan-out snapshot. A
// target that vanished between snapshot and dispatch is skipped, never
// an error.
func (c *Coordinator) dispatch(ctx context.Context, connID uuid.UUID, e event.Event) {
	c.mu.RLock()
	sink, ok := c.sinks[connID]
	c.mu.RUnlock()
	if !ok {
		c.log.Debug("Fan-out target already gone", "connection", connID, "event", e.Name())
		return
	}
	if err := sink.Consume(ctx, e); err != nil {
		c.log.Debug("Fan-out delivery failed", "connection", connID, "event", e.Name(), "error", err)
	}
}
