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

// ColumnRepo handles all column-related database operations.
type ColumnRepo struct {
	db *sql.DB
}

// CreateColumn inserts a new column at the given fractional position.
func (r *ColumnRepo) CreateColumn(ctx context.Context, boardID, name string, position float64) (*models.Column, error) {
	column := &models.Column{
		ID:        uuid.NewString(),
		BoardID:   boardID,
		Name:      name,
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO columns (id, board_id, name, position, created_at) VALUES (?, ?, ?, ?, ?)`,
		column.ID, column.BoardID, column.Name, column.Position, column.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting column: %w", err)
	}

	return column, nil
}

// GetColumn fetches a single column by id, without its cards.
func (r *ColumnRepo) GetColumn(ctx context.Context, columnID string) (*models.Column, error) {
	var column models.Column
	err := r.db.QueryRowContext(ctx,
		`SELECT id, board_id, name, position, created_at FROM columns WHERE id = ?`,
		columnID,
	).Scan(&column.ID, &column.BoardID, &column.Name, &column.Position, &column.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrColumnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying column: %w", err)
	}
	return &column, nil
}

// GetColumnsByBoard returns a board's columns sorted ascending by position,
// ties broken by id for determinism.
func (r *ColumnRepo) GetColumnsByBoard(ctx context.Context, boardID string) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, board_id, name, position, created_at FROM columns
		 WHERE board_id = ? ORDER BY position, id`,
		boardID)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	var columns []*models.Column
	for rows.Next() {
		var column models.Column
		if err := rows.Scan(&column.ID, &column.BoardID, &column.Name, &column.Position, &column.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		columns = append(columns, &column)
	}
	return columns, rows.Err()
}

// GetColumnBoardID resolves the owning board of a column.
func (r *ColumnRepo) GetColumnBoardID(ctx context.Context, columnID string) (string, error) {
	var boardID string
	err := r.db.QueryRowContext(ctx,
		`SELECT board_id FROM columns WHERE id = ?`, columnID,
	).Scan(&boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrColumnNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying column board: %w", err)
	}
	return boardID, nil
}

// UpdateColumn renames a column.
func (r *ColumnRepo) UpdateColumn(ctx context.Context, columnID, name string) (*models.Column, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE columns SET name = ? WHERE id = ?`, name, columnID)
	if err != nil {
		return nil, fmt.Errorf("updating column: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, models.ErrColumnNotFound
	}
	return r.GetColumn(ctx, columnID)
}

// UpdateColumnPosition atomically rewrites a column's order value.
func (r *ColumnRepo) UpdateColumnPosition(ctx context.Context, columnID string, position float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE columns SET position = ? WHERE id = ?`, position, columnID)
	if err != nil {
		return fmt.Errorf("updating column position: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.ErrColumnNotFound
	}
	return nil
}

// DeleteColumn removes a column. Cards cascade.
func (r *ColumnRepo) DeleteColumn(ctx context.Context, columnID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM columns WHERE id = ?`, columnID)
	if err != nil {
		return fmt.Errorf("deleting column: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return models.ErrColumnNotFound
	}
	return nil
}
