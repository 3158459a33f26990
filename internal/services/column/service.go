package column

import (
	"context"
	"fmt"

	"github.com/rcanales/lanes/internal/database"
	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
	"github.com/rcanales/lanes/internal/order"
)

// Service defines column-level business operations. Every committed
// mutation is published to the owning board's channel; validation and
// not-found failures publish nothing.
type Service interface {
	CreateColumn(ctx context.Context, boardID, name string) (*models.Column, error)
	GetColumn(ctx context.Context, columnID string) (*models.Column, error)
	UpdateColumn(ctx context.Context, columnID, name string) (*models.Column, error)
	DeleteColumn(ctx context.Context, columnID string) error
	// MoveColumn persists a column's new fractional position and
	// broadcasts the updated column.
	MoveColumn(ctx context.Context, columnID string, newPosition float64) (*models.Column, error)
}

type service struct {
	repo      database.DataStore
	publisher events.Publisher
}

// NewService creates a new column service. publisher may be nil when no
// daemon is configured.
func NewService(repo database.DataStore, publisher events.Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

// CreateColumn appends a new column to the end of the board, deriving its
// position from the current last column.
func (s *service) CreateColumn(ctx context.Context, boardID, name string) (*models.Column, error) {
	if boardID == "" {
		return nil, ErrInvalidBoardID
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetColumnsByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	positions := make([]float64, len(existing))
	for i, col := range existing {
		positions[i] = col.Position
	}

	col, err := s.repo.CreateColumn(ctx, boardID, name, order.InsertAt(positions, len(positions)))
	if err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	s.publish(events.BoardEvent{
		Kind:    events.ColumnCreated,
		BoardID: boardID,
		Column:  col,
	})

	return col, nil
}

func (s *service) GetColumn(ctx context.Context, columnID string) (*models.Column, error) {
	if columnID == "" {
		return nil, ErrInvalidColumnID
	}
	return s.repo.GetColumn(ctx, columnID)
}

func (s *service) UpdateColumn(ctx context.Context, columnID, name string) (*models.Column, error) {
	if columnID == "" {
		return nil, ErrInvalidColumnID
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	col, err := s.repo.UpdateColumn(ctx, columnID, name)
	if err != nil {
		return nil, err
	}

	s.publish(events.BoardEvent{
		Kind:    events.ColumnUpdated,
		BoardID: col.BoardID,
		Column:  col,
	})

	return col, nil
}

func (s *service) DeleteColumn(ctx context.Context, columnID string) error {
	if columnID == "" {
		return ErrInvalidColumnID
	}

	// Resolve the board before the row disappears.
	boardID, err := s.repo.GetColumnBoardID(ctx, columnID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteColumn(ctx, columnID); err != nil {
		return err
	}

	s.publish(events.BoardEvent{
		Kind:     events.ColumnDeleted,
		BoardID:  boardID,
		ColumnID: columnID,
	})

	return nil
}

func (s *service) MoveColumn(ctx context.Context, columnID string, newPosition float64) (*models.Column, error) {
	if columnID == "" {
		return nil, ErrInvalidColumnID
	}

	if err := s.repo.UpdateColumnPosition(ctx, columnID, newPosition); err != nil {
		return nil, err
	}

	col, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}

	s.publish(events.BoardEvent{
		Kind:    events.ColumnUpdated,
		BoardID: col.BoardID,
		Column:  col,
	})

	return col, nil
}

func (s *service) publish(event events.BoardEvent) {
	_ = events.PublishWithRetry(s.publisher, event, 3)
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 50 {
		return ErrNameTooLong
	}
	return nil
}
