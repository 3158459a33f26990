package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcanales/lanes/internal/api"
	"github.com/rcanales/lanes/internal/boardstate"
	"github.com/rcanales/lanes/internal/drag"
	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
)

func loadedModel() Model {
	m := NewModel(nil, nil, nil)
	detail := &models.BoardDetail{
		Board: models.Board{ID: "board-1", Name: "Test"},
		Columns: []*models.Column{
			{ID: "col-a", Position: 1, Cards: []*models.Card{
				{ID: "c1", ColumnID: "col-a", Title: "one", Position: 1},
				{ID: "c2", ColumnID: "col-a", Title: "two", Position: 2},
			}},
			{ID: "col-b", Position: 2},
		},
	}
	m.boardID = "board-1"
	m.store = boardstate.NewStore(detail)
	m.tracker = drag.NewTracker(m.store)
	return m
}

func TestPressThenSmallMotionDoesNotStartDrag(t *testing.T) {
	m := loadedModel()

	next, _ := m.Update(tea.MouseMsg{
		X: 2, Y: boardTopOffset + headerHeight,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	m = next.(Model)

	next, _ = m.Update(tea.MouseMsg{
		X: 3, Y: boardTopOffset + headerHeight,
		Action: tea.MouseActionMotion,
	})
	m = next.(Model)

	if m.tracker.Dragging() {
		t.Error("Drag started before the activation threshold")
	}
}

func TestPressThenLargeMotionStartsDrag(t *testing.T) {
	m := loadedModel()

	next, _ := m.Update(tea.MouseMsg{
		X: 2, Y: boardTopOffset + headerHeight,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	m = next.(Model)

	next, _ = m.Update(tea.MouseMsg{
		X: 2 + dragThreshold, Y: boardTopOffset + headerHeight,
		Action: tea.MouseActionMotion,
	})
	m = next.(Model)

	if !m.tracker.Dragging() {
		t.Fatal("Expected drag to start past the threshold")
	}
	session := m.tracker.Session()
	if session.ItemID != "c1" {
		t.Errorf("Expected c1 to be dragged, got %s", session.ItemID)
	}
}

func TestReleaseWithoutDragSelects(t *testing.T) {
	m := loadedModel()

	next, _ := m.Update(tea.MouseMsg{
		X: 2, Y: boardTopOffset + headerHeight + cardHeight,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	m = next.(Model)

	next, _ = m.Update(tea.MouseMsg{
		X: 2, Y: boardTopOffset + headerHeight + cardHeight,
		Action: tea.MouseActionRelease,
	})
	m = next.(Model)

	if m.selCol != 0 || m.selCard != 1 {
		t.Errorf("Expected selection (0,1), got (%d,%d)", m.selCol, m.selCard)
	}
}

func TestEscapeCancelsDrag(t *testing.T) {
	m := loadedModel()
	m.tracker.Start("c1")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.tracker.Dragging() {
		t.Error("Expected escape to cancel the drag session")
	}
}

func TestHeaderPressTargetsColumnDrag(t *testing.T) {
	m := loadedModel()

	next, _ := m.Update(tea.MouseMsg{
		X: 2, Y: boardTopOffset,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	m = next.(Model)

	if m.pressTarget != drag.ColumnPrefix+"col-a" {
		t.Errorf("Expected column drag target, got %q", m.pressTarget)
	}
}

func TestBoardEventAppliesToStore(t *testing.T) {
	m := loadedModel()
	ch := make(chan events.BoardEvent, 1)
	m.eventCh = ch

	next, _ := m.Update(boardEventMsg{event: events.BoardEvent{
		Kind:    events.CardDeleted,
		BoardID: "board-1",
		CardID:  "c1",
	}})
	m = next.(Model)

	if _, _, ok := m.store.FindCard("c1"); ok {
		t.Error("Expected event to delete c1 from local state")
	}
}

// yieldsBoardReload runs a command tree and reports whether any branch
// produced a board load.
func yieldsBoardReload(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if yieldsBoardReload(c) {
				return true
			}
		}
		return false
	case boardLoadedMsg:
		return true
	default:
		return false
	}
}

func TestSequenceGapTriggersBoardReload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.BoardDetail{Board: models.Board{ID: "board-1", Name: "Test"}})
	}))
	defer srv.Close()

	m := loadedModel()
	m.client = api.NewClient(srv.URL)
	ch := make(chan events.BoardEvent)
	close(ch)
	m.eventCh = ch

	next, _ := m.Update(boardEventMsg{event: events.BoardEvent{
		Kind:     events.CardDeleted,
		BoardID:  "board-1",
		CardID:   "c2",
		Sequence: 4,
	}})
	m = next.(Model)

	// 4 -> 7 means the daemon dropped events for this board.
	next, cmd := m.Update(boardEventMsg{event: events.BoardEvent{
		Kind:     events.CardDeleted,
		BoardID:  "board-1",
		CardID:   "c1",
		Sequence: 7,
	}})
	m = next.(Model)

	if !yieldsBoardReload(cmd) {
		t.Error("expected a board reload after the sequence jump")
	}
	if m.lastEventSeq != 7 {
		t.Errorf("expected last sequence 7, got %d", m.lastEventSeq)
	}
}

func TestContiguousSequencesDoNotReload(t *testing.T) {
	m := loadedModel()
	ch := make(chan events.BoardEvent)
	close(ch)
	m.eventCh = ch

	for seq := int64(1); seq <= 3; seq++ {
		next, cmd := m.Update(boardEventMsg{event: events.BoardEvent{
			Kind:     events.ColumnDeleted,
			BoardID:  "board-1",
			ColumnID: "no-such-column",
			Sequence: seq,
		}})
		m = next.(Model)
		if yieldsBoardReload(cmd) {
			t.Fatalf("unexpected reload at sequence %d", seq)
		}
	}
}

func TestForeignBoardEventIgnored(t *testing.T) {
	m := loadedModel()
	ch := make(chan events.BoardEvent, 1)
	m.eventCh = ch

	next, _ := m.Update(boardEventMsg{event: events.BoardEvent{
		Kind:    events.CardDeleted,
		BoardID: "other-board",
		CardID:  "c1",
	}})
	m = next.(Model)

	if _, _, ok := m.store.FindCard("c1"); !ok {
		t.Error("Event for another board must not touch this board's state")
	}
}
