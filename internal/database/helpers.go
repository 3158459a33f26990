package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcanales/lanes/internal/models"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row in the canonical column order used by every
// card query.
func scanCard(row rowScanner) (*models.Card, error) {
	var card models.Card
	var dueDate sql.NullTime
	err := row.Scan(
		&card.ID, &card.ColumnID, &card.Title, &card.Description,
		&card.Priority, &card.Type, &dueDate, &card.Position,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		card.DueDate = &t
	}
	return &card, nil
}

// attachBoardTags loads every tag for the board's cards and fills them into
// the given card map.
func attachBoardTags(ctx context.Context, db *sql.DB, boardID string, cardsByID map[string]*models.Card) error {
	rows, err := db.QueryContext(ctx, `
		SELECT ct.card_id, ct.tag
		FROM card_tags ct
		JOIN cards c ON c.id = ct.card_id
		JOIN columns col ON col.id = c.column_id
		WHERE col.board_id = ?
		ORDER BY ct.tag`, boardID)
	if err != nil {
		return fmt.Errorf("querying board tags: %w", err)
	}
	defer rows.Close()

	return appendTags(rows, cardsByID)
}

// attachColumnTags loads every tag for a column's cards.
func attachColumnTags(ctx context.Context, db *sql.DB, columnID string, cardsByID map[string]*models.Card) error {
	rows, err := db.QueryContext(ctx, `
		SELECT ct.card_id, ct.tag
		FROM card_tags ct
		JOIN cards c ON c.id = ct.card_id
		WHERE c.column_id = ?
		ORDER BY ct.tag`, columnID)
	if err != nil {
		return fmt.Errorf("querying column tags: %w", err)
	}
	defer rows.Close()

	return appendTags(rows, cardsByID)
}

func appendTags(rows *sql.Rows, cardsByID map[string]*models.Card) error {
	for rows.Next() {
		var cardID, tag string
		if err := rows.Scan(&cardID, &tag); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		if card, ok := cardsByID[cardID]; ok {
			card.Tags = append(card.Tags, tag)
		}
	}
	return rows.Err()
}
