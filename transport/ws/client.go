package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chat-hub/domain"
	"chat-hub/domain/event"
	"chat-hub/errors"
	"chat-hub/runtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// Client is one live websocket connection. Its send channel is the
// connection's EventSink: the coordinator queues encoded frames and the
// write pump drains them, so fan-out never blocks on a slow socket.
type Client struct {
	conn        *websocket.Conn
	send        chan []byte
	closed      chan struct{}
	closeOnce   sync.Once
	log         *slog.Logger
	rateLimiter *rateLimiter
	rateBurst   int
}

func NewClient(conn *websocket.Conn, log *slog.Logger, sendBuffer, rateBurst int, rateInterval time.Duration) *Client {
	return &Client{
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		closed:      make(chan struct{}),
		log:         log,
		rateLimiter: newRateLimiter(rateBurst, rateInterval),
		rateBurst:   rateBurst,
	}
}

// Consume implements contract.EventSink. It never blocks: a closed
// client or a full send buffer returns an error and the coordinator
// skips the target.
func (c *Client) Consume(_ context.Context, e event.Event) error {
	data, err := encodeEvent(e)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return errors.ErrSinkClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.closed:
		return errors.ErrSinkClosed
	default:
		return fmt.Errorf("send buffer full")
	}
}

// close makes the sink refuse further events and lets the write pump
// flush what is queued, send a close frame, and drop the connection.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// readPump drives the whole session: authenticate first, then route
// inbound frames to the coordinator one at a time, which gives the
// per-connection ordering guarantee. It owns the session state.
func (c *Client) readPump(ctx context.Context, coordinator *runtime.Coordinator, session *runtime.Session, credential string) {
	defer func() {
		coordinator.Disconnect(session)
		c.close()
	}()

	if err := coordinator.Connect(ctx, session, credential); err != nil {
		return
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("Unexpected websocket close", "connection", session.ConnID, "error", err)
			}
			return
		}

		if !c.rateLimiter.allow() {
			c.log.Warn("Rate limit exceeded, discarding frame",
				"connection", session.ConnID, "burst", c.rateBurst)
			continue
		}

		if err = c.handleFrame(ctx, coordinator, session, raw); err != nil {
			// Terminal protocol violation
			c.log.Info("Closing connection", "connection", session.ConnID, "error", err)
			return
		}
	}
}

func (c *Client) handleFrame(ctx context.Context, coordinator *runtime.Coordinator, session *runtime.Session, raw []byte) error {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.log.Debug("Invalid frame", "connection", session.ConnID, "error", err)
		return nil
	}

	switch frame.Event {
	case opCreateRoom:
		var draft domain.RoomDraft
		if err := json.Unmarshal(frame.Data, &draft); err != nil {
			c.log.Debug("Invalid room draft", "connection", session.ConnID, "error", err)
			return nil
		}
		return coordinator.CreateRoom(ctx, session, draft)

	case opPaginateRooms:
		var pr domain.PageRequest
		if err := json.Unmarshal(frame.Data, &pr); err != nil {
			c.log.Debug("Invalid page request", "connection", session.ConnID, "error", err)
			return nil
		}
		return coordinator.PaginateRooms(ctx, session, pr)

	case opJoinRoom:
		var ref domain.RoomRef
		if err := json.Unmarshal(frame.Data, &ref); err != nil {
			c.log.Debug("Invalid room ref", "connection", session.ConnID, "error", err)
			return nil
		}
		return coordinator.JoinRoom(ctx, session, ref)

	case opLeaveRoom:
		var ref domain.RoomRef
		if err := json.Unmarshal(frame.Data, &ref); err != nil {
			c.log.Debug("Invalid room ref", "connection", session.ConnID, "error", err)
			return nil
		}
		return coordinator.LeaveRoom(ctx, session, ref)

	case opAddMessage:
		var draft domain.MessageDraft
		if err := json.Unmarshal(frame.Data, &draft); err != nil {
			c.log.Debug("Invalid message draft", "connection", session.ConnID, "error", err)
			return nil
		}
		return coordinator.AddMessage(ctx, session, draft)

	default:
		c.log.Debug("Unknown inbound event", "connection", session.ConnID, "event", frame.Event)
		return nil
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with pings. On close it flushes what is queued
// before sending the close frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			if !c.write(message) {
				return
			}

		case <-c.closed:
			c.flush()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(message []byte) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *Client) flush() {
	for {
		select {
		case message := <-c.send:
			if !c.write(message) {
				return
			}
		default:
			return
		}
	}
}
