package optimistic

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rcanales/lanes/internal/boardstate"
	"github.com/rcanales/lanes/internal/models"
)

// ErrUnknownItem is returned when a mutation references a card or column
// the local store has never seen.
var ErrUnknownItem = errors.New("item not present in local state")

// Remote is the authoritative mutation surface the reconciler commits
// through.
type Remote interface {
	MoveCard(ctx context.Context, cardID, columnID string, position float64) (*models.Card, error)
	MoveColumn(ctx context.Context, columnID string, position float64) (*models.Column, error)
	CreateCard(ctx context.Context, columnID, title string, position float64) (*models.Card, error)
}

// Reconciler applies mutations to the local store first, then commits them
// remotely, rolling the store back on failure. Mutations are serialized per
// item id so rapid repeated gestures on the same card cannot interleave an
// apply with an unresolved commit.
type Reconciler struct {
	store  *boardstate.Store
	remote Remote

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewReconciler creates a reconciler over a store and its remote.
func NewReconciler(store *boardstate.Store, remote Remote) *Reconciler {
	return &Reconciler{
		store:  store,
		remote: remote,
		locks:  make(map[string]*sync.Mutex),
	}
}

type cardSnapshot struct {
	columnID string
	position float64
}

// MoveCard speculatively moves a card, then commits. On failure the card is
// restored to its exact prior container and position.
func (r *Reconciler) MoveCard(ctx context.Context, cardID, targetColumnID string, newPosition float64) error {
	unlock := r.lockItem(cardID)
	defer unlock()

	prevColumn, prevPosition, ok := r.store.CardPlacement(cardID)
	if !ok {
		return ErrUnknownItem
	}

	return Run(ctx, Transaction[cardSnapshot]{
		Apply: func() cardSnapshot {
			r.store.MoveCard(cardID, targetColumnID, newPosition)
			return cardSnapshot{columnID: prevColumn, position: prevPosition}
		},
		Commit: func(ctx context.Context) error {
			_, err := r.remote.MoveCard(ctx, cardID, targetColumnID, newPosition)
			return err
		},
		Rollback: func(snap cardSnapshot) {
			r.store.MoveCard(cardID, snap.columnID, snap.position)
		},
	})
}

// MoveColumn speculatively repositions a column, then commits.
func (r *Reconciler) MoveColumn(ctx context.Context, columnID string, newPosition float64) error {
	unlock := r.lockItem(columnID)
	defer unlock()

	prevPosition, ok := r.store.ColumnPlacement(columnID)
	if !ok {
		return ErrUnknownItem
	}

	return Run(ctx, Transaction[float64]{
		Apply: func() float64 {
			r.store.MoveColumn(columnID, newPosition)
			return prevPosition
		},
		Commit: func(ctx context.Context) error {
			_, err := r.remote.MoveColumn(ctx, columnID, newPosition)
			return err
		},
		Rollback: func(snap float64) {
			r.store.MoveColumn(columnID, snap)
		},
	})
}

// CreateCard inserts a provisional card under a synthesized id, then
// commits. On success the provisional card is replaced by the
// server-assigned one; on failure it is removed.
func (r *Reconciler) CreateCard(ctx context.Context, columnID, title string, position float64) error {
	tempID := "temp-" + uuid.NewString()

	unlock := r.lockItem(tempID)
	defer unlock()

	return Run(ctx, Transaction[string]{
		Apply: func() string {
			r.store.InsertCard(&models.Card{
				ID:        tempID,
				ColumnID:  columnID,
				Title:     title,
				Priority:  models.DefaultPriority,
				Type:      models.DefaultType,
				Position:  position,
				CreatedAt: time.Now().UTC(),
			})
			return tempID
		},
		Commit: func(ctx context.Context) error {
			card, err := r.remote.CreateCard(ctx, columnID, title, position)
			if err != nil {
				return err
			}
			r.store.ReplaceCard(tempID, card)
			return nil
		},
		Rollback: func(snap string) {
			r.store.RemoveCard(snap)
		},
	})
}

func (r *Reconciler) lockItem(id string) func() {
	r.mu.Lock()
	lock, ok := r.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[id] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
