package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rcanales/lanes/internal/events"
)

// client represents one connected observer or publisher.
type client struct {
	conn      net.Conn
	send      chan events.Message
	boards    map[string]bool // joined board channels
	lastPong  time.Time
	mu        sync.Mutex // protects boards and lastPong
	closeOnce sync.Once  // ensures send channel is closed only once
}

func (c *client) subscribed(boardID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.boards[boardID]
}

// Server is the lanes fan-out daemon. It accepts connections on a unix
// socket, tracks which boards each client has joined, and broadcasts every
// published event to that board's subscribers only. Per-board sequence
// counters, assigned in the one broadcast goroutine, give each board's
// events a contiguous in-order numbering, so a subscriber can tell a
// dropped event from a duplicate.
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan events.BoardEvent
	metrics          *Metrics
	sequences        map[string]int64 // per-board, touched only by broadcastLoop
	clientBufferSize int
	shutdownOnce     sync.Once

	// Health monitor timing.
	pingInterval   time.Duration
	healthInterval time.Duration
	staleAfter     time.Duration
}

// NewServer creates a daemon server listening on socketPath. A stale socket
// file from a previous run is removed first.
func NewServer(socketPath string) (*Server, error) {
	dir := filepath.Dir(socketPath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan events.BoardEvent, 100),
		metrics:          NewMetrics(),
		sequences:        make(map[string]int64),
		clientBufferSize: 16,
		pingInterval:     30 * time.Second,
		healthInterval:   60 * time.Second,
		staleAfter:       90 * time.Second,
	}, nil
}

// Start runs the daemon until ctx is cancelled or the accept loop fails.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("daemon starting", "socket_path", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-s.ctx.Done()
		cancel()
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		slog.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			slog.Error("accept loop error", "error", err)
		}
	}

	return s.Shutdown()
}

// acceptLoop accepts incoming client connections.
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Deadline so context cancellation is noticed between accepts.
		if err := s.listener.(*net.UnixListener).SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
			slog.Warn("error setting listener deadline", "error", err)
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			boards:   make(map[string]bool),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		slog.Debug("client connected", "total_clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop assigns sequence numbers and distributes events to each
// board's subscribers. Running in a single goroutine preserves the server's
// mutation order per board.
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			s.sequences[event.BoardID]++
			event.Sequence = s.sequences[event.BoardID]
			s.metrics.IncBroadcastsTotal()

			s.mu.RLock()
			for c := range s.clients {
				if !c.subscribed(event.BoardID) {
					continue
				}

				msg := events.Message{
					Version: events.ProtocolVersion,
					Type:    "event",
					Event:   &event,
				}

				// Non-blocking send: a slow client drops events rather
				// than stalling the board.
				if !s.sendToClient(c, msg) {
					slog.Warn("client send queue full, event dropped", "board_id", event.BoardID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

// handleClient reads messages from a connected client.
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		slog.Debug("client disconnected", "total_clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event != nil && msg.Event.BoardID != "" {
				s.metrics.IncEventsReceived()
				select {
				case s.broadcast <- *msg.Event:
				default:
					slog.Warn("broadcast channel full, event dropped", "board_id", msg.Event.BoardID)
				}
			}

		case "join":
			if msg.Subscribe != nil && msg.Subscribe.BoardID != "" {
				c.mu.Lock()
				c.boards[msg.Subscribe.BoardID] = true
				c.mu.Unlock()
				slog.Debug("client joined board", "board_id", msg.Subscribe.BoardID)
			}

		case "leave":
			if msg.Subscribe != nil {
				c.mu.Lock()
				delete(c.boards, msg.Subscribe.BoardID)
				c.mu.Unlock()
				slog.Debug("client left board", "board_id", msg.Subscribe.BoardID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter drains a client's send queue onto its connection.
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth sends pings and removes clients that stop answering.
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(s.healthInterval)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			s.mu.RLock()
			clients := make([]*client, 0, len(s.clients))
			for c := range s.clients {
				clients = append(clients, c)
			}
			s.mu.RUnlock()

			pingMsg := events.Message{Version: events.ProtocolVersion, Type: "ping"}
			for _, c := range clients {
				if !s.sendToClient(c, pingMsg) {
					slog.Debug("failed to send ping, queue full")
				}
			}

		case <-healthTicker.C:
			// Two-phase: collect stale clients under the read lock, then
			// remove outside it.
			s.mu.RLock()
			staleClients := make([]*client, 0)
			now := time.Now()
			for c := range s.clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()

				if now.Sub(lastPong) > s.staleAfter {
					staleClients = append(staleClients, c)
				}
			}
			s.mu.RUnlock()

			for _, c := range staleClients {
				slog.Info("removing stale client", "last_pong_ago", now.Sub(c.lastPong))
				s.removeClient(c)
			}
		}
	}
}

// Broadcast queues an event for fan-out (non-blocking). It exists for
// in-process publishers such as tests.
func (s *Server) Broadcast(event events.BoardEvent) error {
	select {
	case s.broadcast <- event:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// Metrics returns the daemon's metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		slog.Info("shutting down daemon")

		s.cancel()

		if s.listener != nil {
			if err := s.listener.Close(); err != nil {
				slog.Warn("error closing listener", "error", err)
			}
		}

		s.mu.Lock()
		for c := range s.clients {
			if err := c.conn.Close(); err != nil {
				slog.Debug("error closing client connection", "error", err)
			}
			c.closeOnce.Do(func() {
				close(c.send)
			})
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()

		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove socket file", "error", err)
		}
	})

	return nil
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

// removeClient safely removes a client from the server.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	if err := c.conn.Close(); err != nil {
		slog.Debug("error closing client connection", "error", err)
	}
	c.closeOnce.Do(func() {
		close(c.send)
	})

	s.updateClientCount()
}

// sendToClient attempts a non-blocking send to a client's queue.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	select {
	case c.send <- msg:
		if msg.Type == "event" {
			s.metrics.IncEventsSent()
		}
		return true
	default:
		return false
	}
}
