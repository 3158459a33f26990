package board

import (
	"context"
	"fmt"

	"github.com/rcanales/lanes/internal/database"
	"github.com/rcanales/lanes/internal/models"
)

// Service defines board-level business operations. Boards have no realtime
// channel of their own: events are always scoped to a board, never about
// one.
type Service interface {
	CreateBoard(ctx context.Context, name string) (*models.Board, error)
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	GetBoardDetail(ctx context.Context, boardID string) (*models.BoardDetail, error)
	ListBoards(ctx context.Context) ([]*models.Board, error)
	UpdateBoard(ctx context.Context, boardID, name string) (*models.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
}

type service struct {
	repo database.BoardRepository
}

// NewService creates a new board service.
func NewService(repo database.BoardRepository) Service {
	return &service{repo: repo}
}

func (s *service) CreateBoard(ctx context.Context, name string) (*models.Board, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	board, err := s.repo.CreateBoard(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return board, nil
}

func (s *service) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	if boardID == "" {
		return nil, ErrInvalidBoardID
	}
	return s.repo.GetBoard(ctx, boardID)
}

func (s *service) GetBoardDetail(ctx context.Context, boardID string) (*models.BoardDetail, error) {
	if boardID == "" {
		return nil, ErrInvalidBoardID
	}
	return s.repo.GetBoardDetail(ctx, boardID)
}

func (s *service) ListBoards(ctx context.Context) ([]*models.Board, error) {
	return s.repo.ListBoards(ctx)
}

func (s *service) UpdateBoard(ctx context.Context, boardID, name string) (*models.Board, error) {
	if boardID == "" {
		return nil, ErrInvalidBoardID
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	board, err := s.repo.UpdateBoard(ctx, boardID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	return board, nil
}

func (s *service) DeleteBoard(ctx context.Context, boardID string) error {
	if boardID == "" {
		return ErrInvalidBoardID
	}
	if err := s.repo.DeleteBoard(ctx, boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
