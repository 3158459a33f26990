package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
)

// startServer runs a daemon on a throwaway socket and returns it with the
// socket path. The server is shut down when the test finishes.
func startServer(t *testing.T) (*Server, string) {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "lanes.sock")
	server, err := NewServer(socketPath)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = server.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = server.Shutdown()
	})

	return server, socketPath
}

// connectClient dials the daemon, joins the given board, and starts
// listening.
func connectClient(t *testing.T, ctx context.Context, socketPath, boardID string) (*events.Client, <-chan events.BoardEvent) {
	t.Helper()

	client := events.NewClient(socketPath)
	if err := client.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Join(boardID); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	ch, err := client.Listen(ctx)
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	return client, ch
}

func waitForEvent(t *testing.T, ch <-chan events.BoardEvent) events.BoardEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return events.BoardEvent{}
	}
}

func TestBroadcastReachesBoardSubscribers(t *testing.T) {
	server, socketPath := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, ch := connectClient(t, ctx, socketPath, "board-1")

	// Give the daemon a moment to register the join.
	time.Sleep(100 * time.Millisecond)

	ev := events.BoardEvent{
		Kind:    events.CardCreated,
		BoardID: "board-1",
		Card:    &models.Card{ID: "card-1", ColumnID: "col-1", Title: "t", Position: 1},
	}
	if err := server.Broadcast(ev); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	got := waitForEvent(t, ch)
	if got.Kind != events.CardCreated || got.BoardID != "board-1" {
		t.Errorf("unexpected event: %+v", got)
	}
	if got.Sequence == 0 {
		t.Error("expected daemon to assign a sequence number")
	}
}

func TestBoardsAreIsolated(t *testing.T) {
	server, socketPath := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, chA := connectClient(t, ctx, socketPath, "board-a")
	_, chB := connectClient(t, ctx, socketPath, "board-b")

	time.Sleep(100 * time.Millisecond)

	if err := server.Broadcast(events.BoardEvent{
		Kind:     events.ColumnDeleted,
		BoardID:  "board-a",
		ColumnID: "col-1",
	}); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	got := waitForEvent(t, chA)
	if got.BoardID != "board-a" {
		t.Errorf("expected board-a event, got %+v", got)
	}

	// board-b must see nothing.
	select {
	case ev := <-chB:
		t.Errorf("board-b received foreign event: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestEventsArriveInServerOrder(t *testing.T) {
	server, socketPath := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, ch := connectClient(t, ctx, socketPath, "board-1")
	time.Sleep(100 * time.Millisecond)

	for _, id := range []string{"c1", "c2", "c3"} {
		if err := server.Broadcast(events.BoardEvent{
			Kind:    events.CardDeleted,
			BoardID: "board-1",
			CardID:  id,
		}); err != nil {
			t.Fatalf("broadcast failed: %v", err)
		}
	}

	var lastSeq int64
	for _, want := range []string{"c1", "c2", "c3"} {
		ev := waitForEvent(t, ch)
		if ev.CardID != want {
			t.Errorf("expected card %q, got %q", want, ev.CardID)
		}
		if ev.Sequence <= lastSeq {
			t.Errorf("sequence not increasing: %d after %d", ev.Sequence, lastSeq)
		}
		lastSeq = ev.Sequence
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	server, socketPath := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, ch := connectClient(t, ctx, socketPath, "board-1")
	time.Sleep(100 * time.Millisecond)

	if err := client.Leave("board-1"); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := server.Broadcast(events.BoardEvent{
		Kind:    events.CardDeleted,
		BoardID: "board-1",
		CardID:  "card-1",
	}); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}

	select {
	case ev := <-ch:
		t.Errorf("received event after leave: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestPublishOnlyClientSurvivesHealthSweep(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "lanes.sock")
	server, err := NewServer(socketPath)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	server.pingInterval = 20 * time.Millisecond
	server.healthInterval = 40 * time.Millisecond
	server.staleAfter = 80 * time.Millisecond

	srvCtx, srvCancel := context.WithCancel(context.Background())
	go func() {
		_ = server.Start(srvCtx)
	}()
	t.Cleanup(func() {
		srvCancel()
		_ = server.Shutdown()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The API server's shape: a publisher that joins no boards but keeps a
	// drained listen stream running so pings are answered.
	publisher := events.NewClient(socketPath)
	if err := publisher.Connect(ctx); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = publisher.Close() })
	keepalive, err := publisher.Listen(ctx)
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	go func() {
		for range keepalive {
		}
	}()

	_, ch := connectClient(t, ctx, socketPath, "board-1")

	// Outlast several stale sweeps.
	time.Sleep(300 * time.Millisecond)

	if got := server.getClientCount(); got != 2 {
		t.Fatalf("expected both clients to survive the sweep, have %d", got)
	}

	if err := publisher.Publish(events.BoardEvent{
		Kind:    events.CardDeleted,
		BoardID: "board-1",
		CardID:  "card-1",
	}); err != nil {
		t.Fatalf("publish after sweep window failed: %v", err)
	}

	got := waitForEvent(t, ch)
	if got.Kind != events.CardDeleted || got.CardID != "card-1" {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestSequencesAreContiguousPerBoard(t *testing.T) {
	server, socketPath := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, chA := connectClient(t, ctx, socketPath, "board-a")
	_, chB := connectClient(t, ctx, socketPath, "board-b")
	time.Sleep(100 * time.Millisecond)

	// Interleave events across two boards.
	for _, boardID := range []string{"board-a", "board-b", "board-a", "board-b", "board-a"} {
		if err := server.Broadcast(events.BoardEvent{
			Kind:    events.CardDeleted,
			BoardID: boardID,
			CardID:  "card-1",
		}); err != nil {
			t.Fatalf("broadcast failed: %v", err)
		}
	}

	// Each subscriber must see 1, 2, ... with no holes from the other
	// board's traffic.
	for seq := int64(1); seq <= 3; seq++ {
		ev := waitForEvent(t, chA)
		if ev.Sequence != seq {
			t.Errorf("board-a: expected sequence %d, got %d", seq, ev.Sequence)
		}
	}
	for seq := int64(1); seq <= 2; seq++ {
		ev := waitForEvent(t, chB)
		if ev.Sequence != seq {
			t.Errorf("board-b: expected sequence %d, got %d", seq, ev.Sequence)
		}
	}
}

func TestMetricsTrackBroadcasts(t *testing.T) {
	server, socketPath := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, ch := connectClient(t, ctx, socketPath, "board-1")
	time.Sleep(100 * time.Millisecond)

	if err := server.Broadcast(events.BoardEvent{
		Kind:    events.CardDeleted,
		BoardID: "board-1",
		CardID:  "card-1",
	}); err != nil {
		t.Fatalf("broadcast failed: %v", err)
	}
	waitForEvent(t, ch)

	snap := server.Metrics().GetSnapshot()
	if snap.BroadcastsTotal != 1 {
		t.Errorf("expected 1 broadcast, got %d", snap.BroadcastsTotal)
	}
	if snap.EventsSent != 1 {
		t.Errorf("expected 1 event sent, got %d", snap.EventsSent)
	}
	if snap.ConnectedClients != 1 {
		t.Errorf("expected 1 connected client, got %d", snap.ConnectedClients)
	}
}
