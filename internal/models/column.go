package models

import "time"

// Column is a vertical lane on a board (e.g. "Todo", "In Progress").
// Position is a fractional order value: columns sort ascending by Position,
// ties broken by ID. Values need not be integral or contiguous, which is what
// lets a column be reinserted between two neighbors without renumbering.
type Column struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"board_id"`
	Name      string    `json:"name"`
	Position  float64   `json:"position"`
	Cards     []*Card   `json:"cards,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
