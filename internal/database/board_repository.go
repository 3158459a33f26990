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

// BoardRepo handles all board-related database operations.
type BoardRepo struct {
	db *sql.DB
}

// CreateBoard inserts a new board.
func (r *BoardRepo) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	now := time.Now().UTC()
	board := &models.Board{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		board.ID, board.Name, board.CreatedAt, board.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting board: %w", err)
	}

	return board, nil
}

// GetBoard fetches a single board by id.
func (r *BoardRepo) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	var board models.Board
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM boards WHERE id = ?`,
		boardID,
	).Scan(&board.ID, &board.Name, &board.CreatedAt, &board.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying board: %w", err)
	}
	return &board, nil
}

// GetBoardDetail loads a board together with its columns and cards, both
// pre-sorted ascending by position with id as tiebreak.
func (r *BoardRepo) GetBoardDetail(ctx context.Context, boardID string) (*models.BoardDetail, error) {
	board, err := r.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	columnRepo := &ColumnRepo{db: r.db}
	columns, err := columnRepo.GetColumnsByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	// One query for every card on the board, then bucket by column.
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.column_id, c.title, c.description, c.priority, c.card_type,
		       c.due_date, c.position, c.created_at, c.updated_at
		FROM cards c
		JOIN columns col ON col.id = c.column_id
		WHERE col.board_id = ?
		ORDER BY c.position, c.id`,
		boardID)
	if err != nil {
		return nil, fmt.Errorf("querying board cards: %w", err)
	}
	defer rows.Close()

	cardsByColumn := make(map[string][]*models.Card)
	cardsByID := make(map[string]*models.Card)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cardsByColumn[card.ColumnID] = append(cardsByColumn[card.ColumnID], card)
		cardsByID[card.ID] = card
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating board cards: %w", err)
	}

	if err := attachBoardTags(ctx, r.db, boardID, cardsByID); err != nil {
		return nil, err
	}

	for _, col := range columns {
		col.Cards = cardsByColumn[col.ID]
	}

	return &models.BoardDetail{Board: *board, Columns: columns}, nil
}

// ListBoards returns all boards ordered by creation time.
func (r *BoardRepo) ListBoards(ctx context.Context) ([]*models.Board, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM boards ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	defer rows.Close()

	var boards []*models.Board
	for rows.Next() {
		var board models.Board
		if err := rows.Scan(&board.ID, &board.Name, &board.CreatedAt, &board.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning board: %w", err)
		}
		boards = append(boards, &board)
	}
	return boards, rows.Err()
}

// UpdateBoard renames a board.
func (r *BoardRepo) UpdateBoard(ctx context.Context, boardID, name string) (*models.Board, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE boards SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating board: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, models.ErrBoardNotFound
	}
	return r.GetBoard(ctx, boardID)
}

// DeleteBoard removes a board. Columns and cards cascade.
func (r *BoardRepo) DeleteBoard(ctx context.Context, boardID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, boardID)
	if err != nil {
		return fmt.Errorf("deleting board: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.ErrBoardNotFound
	}
	return nil
}
