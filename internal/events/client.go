package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

// ConnectionStatus reports the client's view of the daemon link. While
// Disconnected or Reconnecting, local optimistic mutations still apply but
// confirmation broadcasts will not arrive, so callers should surface this.
type ConnectionStatus int

const (
	Disconnected ConnectionStatus = iota
	Connected
	Reconnecting
)

// String returns a human-readable representation of the connection status.
func (cs ConnectionStatus) String() string {
	switch cs {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	case Reconnecting:
		return "Reconnecting"
	default:
		return "Unknown"
	}
}

// Client is a connection to the lanes daemon. It publishes mutation events,
// receives board-scoped broadcasts, and reconnects with bounded exponential
// backoff when the link drops. Duplicate deliveries after a reconnect are
// dropped via the daemon-assigned sequence number.
type Client struct {
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	// Joined boards, re-sent after every reconnect.
	boards map[string]bool

	// Last sequence seen per board, read only by the listen goroutine.
	// Sequences are contiguous per board, so anything at or below the
	// last seen value is a duplicate and a jump past it is a gap.
	lastSeq map[string]int64

	status ConnectionStatus
	closed bool
}

// NewClient creates a client for the given unix socket path. It does not
// connect; call Connect first.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		maxRetries: 5,
		baseDelay:  1 * time.Second,
		boards:     make(map[string]bool),
		lastSeq:    make(map[string]int64),
		status:     Disconnected,
	}
}

// Connect dials the daemon socket and replays any active board
// subscriptions.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		c.status = Disconnected
		return fmt.Errorf("failed to dial daemon socket: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)
	c.status = Connected

	// Re-join boards we were subscribed to before a reconnect.
	for boardID := range c.boards {
		msg := Message{
			Version:   ProtocolVersion,
			Type:      "join",
			Subscribe: &SubscribeMessage{BoardID: boardID},
		}
		if err := c.encoder.Encode(msg); err != nil {
			c.status = Disconnected
			if closeErr := conn.Close(); closeErr != nil {
				slog.Error("error closing connection", "error", closeErr)
			}
			return fmt.Errorf("failed to send join: %w", err)
		}
	}

	return nil
}

// Status returns the current connection status.
func (c *Client) Status() ConnectionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Publish sends an authoritative mutation event to the daemon for fan-out.
func (c *Client) Publish(event BoardEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return c.send(Message{
		Version: ProtocolVersion,
		Type:    "event",
		Event:   &event,
	})
}

// Join subscribes to a board's channel. The subscription survives
// reconnects.
func (c *Client) Join(boardID string) error {
	c.mu.Lock()
	c.boards[boardID] = true
	c.mu.Unlock()

	return c.send(Message{
		Version:   ProtocolVersion,
		Type:      "join",
		Subscribe: &SubscribeMessage{BoardID: boardID},
	})
}

// Leave unsubscribes from a board's channel.
func (c *Client) Leave(boardID string) error {
	c.mu.Lock()
	delete(c.boards, boardID)
	c.mu.Unlock()

	return c.send(Message{
		Version:   ProtocolVersion,
		Type:      "leave",
		Subscribe: &SubscribeMessage{BoardID: boardID},
	})
}

// send encodes a message onto the socket with a short write deadline so a
// dead connection is detected instead of blocking.
func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected to daemon")
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.encoder.Encode(msg)
}

// Listen starts receiving events for joined boards. It returns a channel
// that is closed when ctx is done or reconnection gives up.
func (c *Client) Listen(ctx context.Context) (<-chan BoardEvent, error) {
	eventChan := make(chan BoardEvent, 16)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

// listenLoop reads events from the daemon and handles reconnection.
func (c *Client) listenLoop(ctx context.Context, eventChan chan BoardEvent) {
	defer close(eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.readEvents(ctx, eventChan)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("daemon connection lost, reconnecting", "error", err)

				if c.reconnect(ctx) {
					continue
				}

				slog.Error("failed to reconnect to daemon, giving up", "attempts", c.maxRetries)
				return
			}
		}
	}
}

// readEvents decodes messages until the connection fails. Events whose
// sequence number is not beyond the last seen one are duplicates from a
// reconnect window and are dropped.
func (c *Client) readEvents(ctx context.Context, eventChan chan BoardEvent) error {
	for {
		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return fmt.Errorf("connection closed")
		}
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			if msg.Event.Sequence != 0 {
				if msg.Event.Sequence <= c.lastSeq[msg.Event.BoardID] {
					continue // duplicate delivery
				}
				c.lastSeq[msg.Event.BoardID] = msg.Event.Sequence
			}
			select {
			case eventChan <- *msg.Event:
			case <-ctx.Done():
				return ctx.Err()
			}

		case "ping":
			if err := c.send(Message{Version: ProtocolVersion, Type: "pong"}); err != nil {
				if !isConnectionError(err) {
					slog.Warn("failed to send pong", "error", err)
				}
			}
		}
	}
}

// isConnectionError checks whether an error is an ordinary network teardown.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "use of closed network connection")
}

// reconnect attempts to re-establish the daemon link with exponential
// backoff, up to maxRetries attempts.
func (c *Client) reconnect(ctx context.Context) bool {
	c.mu.Lock()
	c.status = Reconnecting
	c.mu.Unlock()

	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
			c.mu.Lock()
			if c.conn != nil {
				if err := c.conn.Close(); err != nil {
					slog.Debug("error closing connection during reconnect", "error", err)
				}
				c.conn = nil
			}
			c.mu.Unlock()

			if err := c.Connect(ctx); err == nil {
				slog.Info("reconnected to daemon", "attempt", i+1)
				return true
			}

			slog.Debug("reconnection attempt failed", "attempt", i+1, "next_delay", delay*2)
			delay *= 2
		}
	}

	return false
}

// Close closes the connection to the daemon.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.status = Disconnected

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
