package events

import (
	"time"

	"github.com/rcanales/lanes/internal/models"
)

// ProtocolVersion is bumped when the wire format changes incompatibly.
const ProtocolVersion = 1

// Kind tags a BoardEvent variant. Reducers switch on Kind exhaustively;
// payload fields other than the variant's own are nil.
type Kind string

const (
	ColumnCreated Kind = "column-created"
	ColumnUpdated Kind = "column-updated"
	ColumnDeleted Kind = "column-deleted"
	CardCreated   Kind = "card-created"
	CardUpdated   Kind = "card-updated"
	CardMoved     Kind = "card-moved"
	CardDeleted   Kind = "card-deleted"
)

// CardMove is the payload of a card-moved event. It carries just enough for
// an observer to apply the move without a follow-up fetch.
type CardMove struct {
	CardID         string  `json:"card_id"`
	TargetColumnID string  `json:"target_column_id"`
	NewPosition    float64 `json:"new_position"`
}

// BoardEvent is one authoritative mutation, scoped to a single board's
// channel. Creates and updates carry the full entity; deletes carry the id
// only; moves carry a CardMove.
type BoardEvent struct {
	Kind      Kind           `json:"kind"`
	BoardID   string         `json:"board_id"`
	Column    *models.Column `json:"column,omitempty"`
	Card      *models.Card   `json:"card,omitempty"`
	Move      *CardMove      `json:"move,omitempty"`
	ColumnID  string         `json:"column_id,omitempty"`
	CardID    string         `json:"card_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Sequence  int64          `json:"sequence,omitempty"` // assigned by the daemon
}

// SubscribeMessage joins or leaves a board-scoped channel.
type SubscribeMessage struct {
	BoardID string `json:"board_id"`
}

// Message wraps events and control messages for the wire protocol.
// Type is one of "event", "join", "leave", "ping", "pong".
type Message struct {
	Version   int               `json:"version,omitempty"`
	Type      string            `json:"type"`
	Event     *BoardEvent       `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}
