package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcanales/lanes/internal/api"
	"github.com/rcanales/lanes/internal/boardstate"
	"github.com/rcanales/lanes/internal/drag"
	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
	"github.com/rcanales/lanes/internal/optimistic"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputNewCard
	inputNewColumn
)

// Model is the TUI state: the live board store, the active drag session,
// and the plumbing that commits gestures through the optimistic reconciler.
type Model struct {
	client      *api.Client
	eventClient *events.Client
	eventCh     <-chan events.BoardEvent

	store      *boardstate.Store
	tracker    *drag.Tracker
	reconciler *optimistic.Reconciler

	boards  []*models.Board
	boardID string

	// Last realtime sequence applied for this board. Sequences are
	// contiguous per board, so a jump means the daemon dropped an event
	// and the board must be re-fetched.
	lastEventSeq int64

	// Selection by index into the rendered layout.
	selCol  int
	selCard int

	// Pending mouse press, before the drag activation threshold is crossed.
	pressed     bool
	pressX      int
	pressY      int
	pressTarget string

	input     textinput.Model
	inputMode inputMode

	detailCardID string

	width  int
	height int
	err    error
}

// NewModel creates the TUI model. eventClient and eventCh may be nil when
// no daemon is available; the board still works, just without live updates.
func NewModel(client *api.Client, eventClient *events.Client, eventCh <-chan events.BoardEvent) Model {
	input := textinput.New()
	input.CharLimit = 255
	input.Width = 40

	return Model{
		client:      client,
		eventClient: eventClient,
		eventCh:     eventCh,
		input:       input,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadBoardList()}
	if m.eventCh != nil {
		cmds = append(cmds, waitForEvent(m.eventCh))
	}
	return tea.Batch(cmds...)
}

// selectedCard returns the card under the selection cursor, if any.
func (m Model) selectedCard() *models.Card {
	if m.store == nil {
		return nil
	}
	cols := m.store.Columns()
	if m.selCol >= len(cols) {
		return nil
	}
	cards := cols[m.selCol].Cards
	if m.selCard >= len(cards) {
		return nil
	}
	return cards[m.selCard]
}

func (m Model) selectedColumnID() string {
	if m.store == nil {
		return ""
	}
	cols := m.store.Columns()
	if m.selCol >= len(cols) {
		return ""
	}
	return cols[m.selCol].ID
}
