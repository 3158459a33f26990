package models

import "time"

// Board is the top-level container. A board owns its columns; deleting a
// board cascades to every column and card underneath it.
type Board struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoardDetail is the full board payload used for the initial load: the board
// plus its columns (sorted ascending by order) and each column's cards.
type BoardDetail struct {
	Board   Board     `json:"board"`
	Columns []*Column `json:"columns"`
}
