// Package ws is the websocket gateway: it upgrades HTTP connections,
// frames inbound and outbound events as JSON, and bridges each
// connection to the session coordinator.
package ws

import (
	"encoding/json"
	"fmt"

	"chat-hub/domain/event"
)

// Inbound event names accepted from connections.
const (
	opCreateRoom    = "createRoom"
	opPaginateRooms = "paginateRooms"
	opJoinRoom      = "joinRoom"
	opLeaveRoom     = "leaveRoom"
	opAddMessage    = "addMessage"
)

// InboundFrame is one client request: an event name plus its payload.
type InboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// OutboundFrame mirrors InboundFrame for server-to-client events.
type OutboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// encodeEvent flattens a coordinator event into its wire frame.
func encodeEvent(e event.Event) ([]byte, error) {
	frame := OutboundFrame{Event: e.Name()}
	switch evt := e.(type) {
	case event.RoomsPage:
		frame.Data = evt.Rooms
	case event.MessagesPage:
		frame.Data = evt.Messages
	case event.MessageAdded:
		frame.Data = evt.Message
	case event.ErrorEvent:
		frame.Data = evt
	default:
		return nil, fmt.Errorf("unknown outbound event %q", e.Name())
	}
	return json.Marshal(frame)
}
