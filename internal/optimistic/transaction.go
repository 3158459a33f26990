// Package optimistic implements apply-locally, call-remote, commit-or-revert
// mutation for client board state. Every speculative change reaches a
// terminal outcome on the same call: either the remote confirms it or the
// exact pre-change snapshot is restored.
package optimistic

import "context"

// Transaction is one optimistic mutation over state snapshot type S.
// Apply performs the speculative local change and returns the snapshot
// Rollback needs to restore it exactly.
type Transaction[S any] struct {
	Apply    func() S
	Commit   func(ctx context.Context) error
	Rollback func(snapshot S)
}

// Run executes the three phases in order. On commit failure the snapshot is
// restored before the error is returned, so callers never observe a stuck
// speculative state.
func Run[S any](ctx context.Context, tx Transaction[S]) error {
	snapshot := tx.Apply()
	if err := tx.Commit(ctx); err != nil {
		tx.Rollback(snapshot)
		return err
	}
	return nil
}
