package drag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcanales/lanes/internal/boardstate"
	"github.com/rcanales/lanes/internal/drag"
	"github.com/rcanales/lanes/internal/models"
)

func newCard(id, columnID string, position float64) *models.Card {
	return &models.Card{ID: id, ColumnID: columnID, Position: position}
}

// Column A holds cards 1..3 at positions 1..3, column B is empty.
func newBoard() *boardstate.Store {
	return boardstate.NewStore(&models.BoardDetail{
		Board: models.Board{ID: "board-1"},
		Columns: []*models.Column{
			{ID: "col-a", Position: 1, Cards: []*models.Card{
				newCard("card-1", "col-a", 1),
				newCard("card-2", "col-a", 2),
				newCard("card-3", "col-a", 3),
			}},
			{ID: "col-b", Position: 2},
		},
	})
}

func TestStartUnknownItem(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	assert.False(t, tracker.Start("ghost"))
	assert.False(t, tracker.Dragging())
}

func TestDropIntoEmptyColumn(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	require.True(t, tracker.Start("card-1"))
	tracker.HoverColumnBody("col-b")

	move, ok := tracker.Drop()
	require.True(t, ok)
	assert.Equal(t, drag.KindCard, move.Kind)
	assert.Equal(t, "card-1", move.ItemID)
	assert.Equal(t, "col-b", move.TargetColumnID)
	assert.Equal(t, 1.0, move.Position, "first insert into an empty list lands at 1")
	assert.False(t, tracker.Dragging())
}

func TestHoverCardInsertsBefore(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	require.True(t, tracker.Start("card-3"))
	tracker.HoverCard("card-2")

	move, ok := tracker.Drop()
	require.True(t, ok)
	assert.Equal(t, "col-a", move.TargetColumnID)
	assert.Equal(t, 1.5, move.Position, "midpoint between card-1 and card-2")
}

func TestSameColumnIndexAdjustsForRemoval(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	// Dragging card-1 over card-3: with card-1 excluded the list is
	// [card-2, card-3], so the insert goes between them.
	require.True(t, tracker.Start("card-1"))
	tracker.HoverCard("card-3")

	move, ok := tracker.Drop()
	require.True(t, ok)
	assert.Equal(t, 2.5, move.Position)
}

func TestDropWithoutHoverIsNoOp(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	require.True(t, tracker.Start("card-2"))

	_, ok := tracker.Drop()
	assert.False(t, ok, "dropping in place must not produce a move")
	assert.False(t, tracker.Dragging())
}

func TestHoverBackToOriginalSlotIsNoOp(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	require.True(t, tracker.Start("card-1"))
	tracker.HoverColumnBody("col-b")
	tracker.HoverCard("card-2")

	// Back over card-2 means "insert before card-2", which is where card-1
	// already sits.
	_, ok := tracker.Drop()
	assert.False(t, ok)
}

func TestCancelDiscardsSession(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	require.True(t, tracker.Start("card-1"))
	tracker.HoverColumnBody("col-b")
	tracker.Cancel()

	assert.False(t, tracker.Dragging())
	_, ok := tracker.Drop()
	assert.False(t, ok)
}

func TestSessionOnlyUpdatesOnTargetChange(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	require.True(t, tracker.Start("card-1"))
	tracker.HoverColumnBody("col-b")
	first := *tracker.Session()

	tracker.HoverColumnBody("col-b")
	second := *tracker.Session()

	assert.Equal(t, first, second)
}

func TestColumnDragToFront(t *testing.T) {
	store := boardstate.NewStore(&models.BoardDetail{
		Board: models.Board{ID: "board-1"},
		Columns: []*models.Column{
			{ID: "col-a", Position: 1},
			{ID: "col-b", Position: 2},
			{ID: "col-c", Position: 3},
		},
	})
	tracker := drag.NewTracker(store)

	require.True(t, tracker.Start(drag.ColumnPrefix + "col-c"))
	tracker.HoverColumn("col-a")

	move, ok := tracker.Drop()
	require.True(t, ok)
	assert.Equal(t, drag.KindColumn, move.Kind)
	assert.Equal(t, "col-c", move.ItemID)
	assert.Equal(t, 0.0, move.Position, "front insert lands one below the first column")

	store.MoveColumn("col-c", move.Position)
	cols := store.Columns()
	assert.Equal(t, "col-c", cols[0].ID)
	assert.Equal(t, "col-a", cols[1].ID)
	assert.Equal(t, "col-b", cols[2].ID)
}

func TestColumnDragToEnd(t *testing.T) {
	store := boardstate.NewStore(&models.BoardDetail{
		Board: models.Board{ID: "board-1"},
		Columns: []*models.Column{
			{ID: "col-a", Position: 1},
			{ID: "col-b", Position: 2},
		},
	})
	tracker := drag.NewTracker(store)

	require.True(t, tracker.Start(drag.ColumnPrefix + "col-a"))
	tracker.HoverBoardEnd()

	move, ok := tracker.Drop()
	require.True(t, ok)
	assert.Equal(t, 3.0, move.Position)
}

func TestCardHoverIgnoredDuringColumnDrag(t *testing.T) {
	tracker := drag.NewTracker(newBoard())

	require.True(t, tracker.Start(drag.ColumnPrefix + "col-a"))
	tracker.HoverCard("card-2")

	_, ok := tracker.Drop()
	assert.False(t, ok)
}
