package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcanales/lanes/internal/models"
)

// CardRepo handles all card-related database operations.
type CardRepo struct {
	db *sql.DB
}

// CreateCard inserts a new card with its tags in one transaction.
func (r *CardRepo) CreateCard(ctx context.Context, params CreateCardParams) (*models.Card, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	card := &models.Card{
		ID:          uuid.NewString(),
		ColumnID:    params.ColumnID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Type:        params.Type,
		Tags:        params.Tags,
		DueDate:     params.DueDate,
		Position:    params.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cards (id, column_id, title, description, priority, card_type,
		                   due_date, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.ColumnID, card.Title, card.Description, card.Priority,
		card.Type, card.DueDate, card.Position, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting card: %w", err)
	}

	for _, tag := range params.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO card_tags (card_id, tag) VALUES (?, ?)`, card.ID, tag); err != nil {
			return nil, fmt.Errorf("inserting card tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return card, nil
}

// GetCard fetches a single card with its tags.
func (r *CardRepo) GetCard(ctx context.Context, cardID string) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, column_id, title, description, priority, card_type,
		       due_date, position, created_at, updated_at
		FROM cards WHERE id = ?`, cardID)

	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}

	tags, err := r.getTags(ctx, cardID)
	if err != nil {
		return nil, err
	}
	card.Tags = tags

	return card, nil
}

// GetCardsByColumn returns a column's cards sorted ascending by position,
// ties broken by id.
func (r *CardRepo) GetCardsByColumn(ctx context.Context, columnID string) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, column_id, title, description, priority, card_type,
		       due_date, position, created_at, updated_at
		FROM cards WHERE column_id = ? ORDER BY position, id`, columnID)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.Card
	byID := make(map[string]*models.Card)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
		byID[card.ID] = card
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachColumnTags(ctx, r.db, columnID, byID); err != nil {
		return nil, err
	}

	return cards, nil
}

// GetCardColumnAndBoard resolves a card's owning column and board.
func (r *CardRepo) GetCardColumnAndBoard(ctx context.Context, cardID string) (string, string, error) {
	var columnID, boardID string
	err := r.db.QueryRowContext(ctx, `
		SELECT c.column_id, col.board_id
		FROM cards c
		JOIN columns col ON col.id = c.column_id
		WHERE c.id = ?`, cardID,
	).Scan(&columnID, &boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", models.ErrCardNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("querying card owner: %w", err)
	}
	return columnID, boardID, nil
}

// UpdateCard updates the provided fields and returns the fresh card.
func (r *CardRepo) UpdateCard(ctx context.Context, params UpdateCardParams) (*models.Card, error) {
	current, err := r.GetCard(ctx, params.CardID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		current.Title = *params.Title
	}
	if params.Description != nil {
		current.Description = *params.Description
	}
	if params.Priority != nil {
		current.Priority = *params.Priority
	}
	if params.Type != nil {
		current.Type = *params.Type
	}
	if params.DueDate != nil {
		current.DueDate = params.DueDate
	}
	current.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		UPDATE cards SET title = ?, description = ?, priority = ?, card_type = ?,
		                 due_date = ?, updated_at = ?
		WHERE id = ?`,
		current.Title, current.Description, current.Priority, current.Type,
		current.DueDate, current.UpdatedAt, current.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}

	return current, nil
}

// UpdateCardPosition atomically rewrites a card's container and order
// value. This is the single write behind a drag commit; last write wins
// under concurrent moves of the same card.
func (r *CardRepo) UpdateCardPosition(ctx context.Context, cardID, columnID string, position float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cards SET column_id = ?, position = ?, updated_at = ? WHERE id = ?`,
		columnID, position, time.Now().UTC(), cardID)
	if err != nil {
		return fmt.Errorf("updating card position: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.ErrCardNotFound
	}
	return nil
}

// DeleteCard removes a card. Tags cascade.
func (r *CardRepo) DeleteCard(ctx context.Context, cardID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, cardID)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.ErrCardNotFound
	}
	return nil
}

// AddCardTag attaches a tag to a card. Attaching an existing tag is a
// no-op.
func (r *CardRepo) AddCardTag(ctx context.Context, cardID, tag string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO card_tags (card_id, tag) VALUES (?, ?)`, cardID, tag)
	if err != nil {
		return fmt.Errorf("adding card tag: %w", err)
	}
	return nil
}

// RemoveCardTag detaches a tag from a card.
func (r *CardRepo) RemoveCardTag(ctx context.Context, cardID, tag string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM card_tags WHERE card_id = ? AND tag = ?`, cardID, tag)
	if err != nil {
		return fmt.Errorf("removing card tag: %w", err)
	}
	return nil
}

func (r *CardRepo) getTags(ctx context.Context, cardID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag FROM card_tags WHERE card_id = ? ORDER BY tag`, cardID)
	if err != nil {
		return nil, fmt.Errorf("querying card tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
