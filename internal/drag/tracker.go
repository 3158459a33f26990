// Package drag tracks a single in-progress drag gesture: which item is
// held, where the pointer currently hovers, and the fractional position the
// item would land at. Nothing touches the network until a drop produces a
// real movement; cancelling at any point discards the session without a
// trace.
package drag

import (
	"strings"

	"github.com/rcanales/lanes/internal/boardstate"
	"github.com/rcanales/lanes/internal/order"
)

// ColumnPrefix namespaces column ids handed to Start so one pointer gesture
// resolves unambiguously as a column drag rather than a card drag.
const ColumnPrefix = "column:"

// ItemKind distinguishes what a session is dragging.
type ItemKind int

const (
	KindCard ItemKind = iota
	KindColumn
)

// Session is the ephemeral state of one gesture.
type Session struct {
	Kind            ItemKind
	ItemID          string
	SourceColumnID  string // owning column at drag start, cards only
	TargetColumnID  string // hovered container; the board id is implied for columns
	Index           int    // insertion index within the target's visible list
	PreviewPosition float64
}

// Move is the committed outcome of a drop.
type Move struct {
	Kind           ItemKind
	ItemID         string
	TargetColumnID string // empty for column moves
	Position       float64
}

// Tracker runs the gesture state machine over live board state. One session
// is active at a time; Start while dragging replaces the session.
type Tracker struct {
	store   *boardstate.Store
	session *Session
}

// NewTracker creates a tracker over a board store.
func NewTracker(store *boardstate.Store) *Tracker {
	return &Tracker{store: store}
}

// Session returns the active session, or nil when idle.
func (t *Tracker) Session() *Session {
	return t.session
}

// Dragging reports whether a gesture is in progress.
func (t *Tracker) Dragging() bool {
	return t.session != nil
}

// Start begins a session for the given item. Ids carrying ColumnPrefix
// start a column drag; anything else is treated as a card id. Returns false
// when the item is not present in local state.
func (t *Tracker) Start(itemID string) bool {
	if columnID, ok := strings.CutPrefix(itemID, ColumnPrefix); ok {
		return t.startColumn(columnID)
	}
	return t.startCard(itemID)
}

func (t *Tracker) startCard(cardID string) bool {
	card, columnID, ok := t.store.FindCard(cardID)
	if !ok {
		return false
	}
	t.session = &Session{
		Kind:            KindCard,
		ItemID:          cardID,
		SourceColumnID:  columnID,
		TargetColumnID:  columnID,
		Index:           currentCardIndex(t.store, columnID, cardID),
		PreviewPosition: card.Position,
	}
	return true
}

func (t *Tracker) startColumn(columnID string) bool {
	pos, ok := t.store.ColumnPlacement(columnID)
	if !ok {
		return false
	}
	t.session = &Session{
		Kind:            KindColumn,
		ItemID:          columnID,
		Index:           currentColumnIndex(t.store, columnID),
		PreviewPosition: pos,
	}
	return true
}

// HoverCard handles the pointer moving over another card: the dragged card
// would be inserted directly before it. No-op unless a card drag is active.
func (t *Tracker) HoverCard(overCardID string) {
	if t.session == nil || t.session.Kind != KindCard || overCardID == t.session.ItemID {
		return
	}
	_, columnID, ok := t.store.FindCard(overCardID)
	if !ok {
		return
	}
	positions, index := t.cardPositions(columnID, t.session.ItemID, overCardID)
	t.retarget(columnID, index, positions)
}

// HoverColumnBody handles the pointer moving over a column with no card
// under it: the dragged card would be appended to that column.
func (t *Tracker) HoverColumnBody(columnID string) {
	if t.session == nil || t.session.Kind != KindCard {
		return
	}
	positions, _ := t.cardPositions(columnID, t.session.ItemID, "")
	t.retarget(columnID, len(positions), positions)
}

// HoverColumn handles a column drag passing over another column: the
// dragged column would be inserted directly before it.
func (t *Tracker) HoverColumn(overColumnID string) {
	if t.session == nil || t.session.Kind != KindColumn || overColumnID == t.session.ItemID {
		return
	}
	positions, index := t.columnPositions(overColumnID)
	if index < 0 {
		return
	}
	t.retarget("", index, positions)
}

// HoverBoardEnd handles a column drag past the last column.
func (t *Tracker) HoverBoardEnd() {
	if t.session == nil || t.session.Kind != KindColumn {
		return
	}
	positions, _ := t.columnPositions("")
	t.retarget("", len(positions), positions)
}

// Drop ends the session. It returns the committed move and true when the
// drop lands somewhere new, or a zero Move and false for a no-op drop.
// Either way the session is consumed.
func (t *Tracker) Drop() (Move, bool) {
	s := t.session
	t.session = nil
	if s == nil {
		return Move{}, false
	}

	switch s.Kind {
	case KindCard:
		current, currentPos, ok := t.store.CardPlacement(s.ItemID)
		if !ok {
			return Move{}, false
		}
		if !order.IsMovementRequired(current, s.TargetColumnID, currentPos, s.PreviewPosition) {
			return Move{}, false
		}
		return Move{
			Kind:           KindCard,
			ItemID:         s.ItemID,
			TargetColumnID: s.TargetColumnID,
			Position:       s.PreviewPosition,
		}, true

	case KindColumn:
		currentPos, ok := t.store.ColumnPlacement(s.ItemID)
		if !ok {
			return Move{}, false
		}
		if !order.IsMovementRequired("", "", currentPos, s.PreviewPosition) {
			return Move{}, false
		}
		return Move{
			Kind:     KindColumn,
			ItemID:   s.ItemID,
			Position: s.PreviewPosition,
		}, true
	}
	return Move{}, false
}

// Cancel discards the session with no side effects.
func (t *Tracker) Cancel() {
	t.session = nil
}

// retarget updates the session only when the hover target actually changed,
// recomputing the preview position when it did.
func (t *Tracker) retarget(targetColumnID string, index int, positions []float64) {
	if t.session.TargetColumnID == targetColumnID && t.session.Index == index {
		return
	}
	t.session.TargetColumnID = targetColumnID
	t.session.Index = index
	t.session.PreviewPosition = order.InsertAt(positions, index)
}

// cardPositions returns the target column's card positions with the dragged
// card excluded, and the exclusion-adjusted index of overCardID within that
// list. Excluding the dragged card is what shifts later same-column indexes
// down by one.
func (t *Tracker) cardPositions(columnID, draggedID, overCardID string) ([]float64, int) {
	col, ok := t.store.Column(columnID)
	if !ok {
		return nil, -1
	}
	positions := make([]float64, 0, len(col.Cards))
	index := -1
	for _, c := range col.Cards {
		if c.ID == draggedID {
			continue
		}
		if c.ID == overCardID {
			index = len(positions)
		}
		positions = append(positions, c.Position)
	}
	return positions, index
}

// columnPositions returns the board's column positions with the dragged
// column excluded, and the adjusted index of overColumnID.
func (t *Tracker) columnPositions(overColumnID string) ([]float64, int) {
	cols := t.store.Columns()
	positions := make([]float64, 0, len(cols))
	index := -1
	for _, col := range cols {
		if col.ID == t.session.ItemID {
			continue
		}
		if col.ID == overColumnID {
			index = len(positions)
		}
		positions = append(positions, col.Position)
	}
	return positions, index
}

func currentCardIndex(store *boardstate.Store, columnID, cardID string) int {
	col, ok := store.Column(columnID)
	if !ok {
		return 0
	}
	for i, c := range col.Cards {
		if c.ID == cardID {
			return i
		}
	}
	return 0
}

func currentColumnIndex(store *boardstate.Store, columnID string) int {
	for i, col := range store.Columns() {
		if col.ID == columnID {
			return i
		}
	}
	return 0
}
