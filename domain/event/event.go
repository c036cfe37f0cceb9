// Package event defines the outbound events the coordinator fans out
// to live connections.
package event

import "chat-hub/domain"

// Error codes carried by ErrorEvent.
const (
	CodeUnauthorized     = "Unauthorized"
	CodeNotAuthenticated = "NotAuthenticated"
	CodeNotFound         = "NotFound"
	CodeUpstreamFailure  = "UpstreamFailure"
	CodeValidationFailed = "ValidationFailed"
)

// Wire names of the outbound events.
const (
	NameRooms        = "rooms"
	NameMessages     = "messages"
	NameMessageAdded = "messageAdded"
	NameError        = "Error"
)

// Event is anything the coordinator can emit to a connection sink.
type Event interface {
	Name() string
}

// RoomsPage carries one identity's paginated room list.
type RoomsPage struct {
	Rooms domain.Page[domain.Room]
}

func (RoomsPage) Name() string { return NameRooms }

// MessagesPage carries the recent messages of a room joined by a connection.
type MessagesPage struct {
	Messages domain.Page[domain.Message]
}

func (MessagesPage) Name() string { return NameMessages }

// MessageAdded carries one freshly created message to every connection
// joined to its room.
type MessageAdded struct {
	Message domain.Message
}

func (MessageAdded) Name() string { return NameMessageAdded }

// ErrorEvent reports a protocol or lookup failure to a single connection.
type ErrorEvent struct {
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

func (ErrorEvent) Name() string { return NameError }
