package optimistic_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcanales/lanes/internal/boardstate"
	"github.com/rcanales/lanes/internal/models"
	"github.com/rcanales/lanes/internal/optimistic"
)

var errRemote = errors.New("remote rejected")

type fakeRemote struct {
	mu       sync.Mutex
	failMove bool
	failCard bool
	moves    int
	blocked  chan struct{} // when set, MoveCard waits until closed
}

func (f *fakeRemote) MoveCard(_ context.Context, cardID, columnID string, position float64) (*models.Card, error) {
	if f.blocked != nil {
		<-f.blocked
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves++
	if f.failMove {
		return nil, errRemote
	}
	return &models.Card{ID: cardID, ColumnID: columnID, Position: position}, nil
}

func (f *fakeRemote) MoveColumn(_ context.Context, columnID string, position float64) (*models.Column, error) {
	if f.failMove {
		return nil, errRemote
	}
	return &models.Column{ID: columnID, Position: position}, nil
}

func (f *fakeRemote) CreateCard(_ context.Context, columnID, title string, position float64) (*models.Card, error) {
	if f.failCard {
		return nil, errRemote
	}
	return &models.Card{ID: "server-id", ColumnID: columnID, Title: title, Position: position}, nil
}

func newStore() *boardstate.Store {
	return boardstate.NewStore(&models.BoardDetail{
		Board: models.Board{ID: "board-1"},
		Columns: []*models.Column{
			{ID: "col-x", Position: 1, Cards: []*models.Card{
				{ID: "card-1", ColumnID: "col-x", Position: 3},
			}},
			{ID: "col-y", Position: 2},
		},
	})
}

func TestMoveCardCommits(t *testing.T) {
	store := newStore()
	rec := optimistic.NewReconciler(store, &fakeRemote{})

	err := rec.MoveCard(context.Background(), "card-1", "col-y", 7)
	require.NoError(t, err)

	colID, pos, ok := store.CardPlacement("card-1")
	require.True(t, ok)
	assert.Equal(t, "col-y", colID)
	assert.Equal(t, 7.0, pos)
}

func TestMoveCardRollbackIsExact(t *testing.T) {
	store := newStore()
	rec := optimistic.NewReconciler(store, &fakeRemote{failMove: true})

	err := rec.MoveCard(context.Background(), "card-1", "col-y", 7)
	require.ErrorIs(t, err, errRemote)

	colID, pos, ok := store.CardPlacement("card-1")
	require.True(t, ok)
	assert.Equal(t, "col-x", colID)
	assert.Equal(t, 3.0, pos, "rollback must restore the original order value, not just the column")
}

func TestMoveCardUnknownItem(t *testing.T) {
	rec := optimistic.NewReconciler(newStore(), &fakeRemote{})

	err := rec.MoveCard(context.Background(), "ghost", "col-y", 1)
	assert.ErrorIs(t, err, optimistic.ErrUnknownItem)
}

func TestMoveColumnRollback(t *testing.T) {
	store := newStore()
	rec := optimistic.NewReconciler(store, &fakeRemote{failMove: true})

	err := rec.MoveColumn(context.Background(), "col-y", 0.5)
	require.ErrorIs(t, err, errRemote)

	pos, ok := store.ColumnPlacement("col-y")
	require.True(t, ok)
	assert.Equal(t, 2.0, pos)
}

func TestCreateCardReplacesProvisional(t *testing.T) {
	store := newStore()
	rec := optimistic.NewReconciler(store, &fakeRemote{})

	err := rec.CreateCard(context.Background(), "col-y", "New card", 1)
	require.NoError(t, err)

	col, ok := store.Column("col-y")
	require.True(t, ok)
	require.Len(t, col.Cards, 1)
	assert.Equal(t, "server-id", col.Cards[0].ID)
}

func TestCreateCardFailureRemovesProvisional(t *testing.T) {
	store := newStore()
	rec := optimistic.NewReconciler(store, &fakeRemote{failCard: true})

	err := rec.CreateCard(context.Background(), "col-y", "New card", 1)
	require.ErrorIs(t, err, errRemote)

	col, ok := store.Column("col-y")
	require.True(t, ok)
	assert.Empty(t, col.Cards)
}

func TestMovesOnSameCardSerialize(t *testing.T) {
	store := newStore()
	remote := &fakeRemote{blocked: make(chan struct{})}
	rec := optimistic.NewReconciler(store, remote)

	first := make(chan error, 1)
	go func() {
		first <- rec.MoveCard(context.Background(), "card-1", "col-y", 7)
	}()

	second := make(chan error, 1)
	go func() {
		second <- rec.MoveCard(context.Background(), "card-1", "col-x", 1)
	}()

	select {
	case <-first:
		t.Fatal("first move resolved while remote was blocked")
	case <-second:
		t.Fatal("second move resolved while remote was blocked")
	default:
	}

	close(remote.blocked)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	remote.mu.Lock()
	defer remote.mu.Unlock()
	assert.Equal(t, 2, remote.moves)
}
