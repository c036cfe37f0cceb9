package runtime

import (
	"github.com/google/uuid"

	"chat-hub/contract"
)

// SessionState tracks a connection through its lifecycle. Transitions
// only move forward: Pending -> Authenticated -> Closed.
type SessionState int

const (
	StatePending SessionState = iota
	StateAuthenticated
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session is one live connection as seen by the coordinator: a freshly
// minted connection id, the connection's outbound sink, and the
// lifecycle state. The state is read and written only by the
// connection's own read loop, so it carries no lock; all shared state
// lives in the registries.
type Session struct {
	ConnID uuid.UUID
	sink   contract.EventSink
	state  SessionState
}

func NewSession(sink contract.EventSink) *Session {
	return &Session{
		ConnID: uuid.New(),
		sink:   sink,
		state:  StatePending,
	}
}

func (s *Session) State() SessionState { return s.state }
