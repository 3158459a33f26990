package database

import (
	"context"
	"time"

	"github.com/rcanales/lanes/internal/models"
)

// BoardRepository defines board-level data operations.
type BoardRepository interface {
	CreateBoard(ctx context.Context, name string) (*models.Board, error)
	GetBoard(ctx context.Context, boardID string) (*models.Board, error)
	// GetBoardDetail loads a board with its columns (ascending position)
	// and each column's cards (ascending position).
	GetBoardDetail(ctx context.Context, boardID string) (*models.BoardDetail, error)
	ListBoards(ctx context.Context) ([]*models.Board, error)
	UpdateBoard(ctx context.Context, boardID, name string) (*models.Board, error)
	DeleteBoard(ctx context.Context, boardID string) error
}

// ColumnRepository defines column-level data operations.
type ColumnRepository interface {
	CreateColumn(ctx context.Context, boardID, name string, position float64) (*models.Column, error)
	GetColumn(ctx context.Context, columnID string) (*models.Column, error)
	GetColumnsByBoard(ctx context.Context, boardID string) ([]*models.Column, error)
	// GetColumnBoardID resolves the owning board of a column. Services use
	// it to decide which board channel a mutation event belongs to.
	GetColumnBoardID(ctx context.Context, columnID string) (string, error)
	UpdateColumn(ctx context.Context, columnID, name string) (*models.Column, error)
	// UpdateColumnPosition atomically rewrites a column's order value.
	UpdateColumnPosition(ctx context.Context, columnID string, position float64) error
	DeleteColumn(ctx context.Context, columnID string) error
}

// CreateCardParams holds everything needed to insert a card.
type CreateCardParams struct {
	ColumnID    string
	Title       string
	Description string
	Priority    models.Priority
	Type        models.CardType
	DueDate     *time.Time
	Position    float64
	Tags        []string
}

// UpdateCardParams updates a card's fields. Nil pointers mean "leave as is".
type UpdateCardParams struct {
	CardID      string
	Title       *string
	Description *string
	Priority    *models.Priority
	Type        *models.CardType
	DueDate     *time.Time
}

// CardRepository defines card-level data operations.
type CardRepository interface {
	CreateCard(ctx context.Context, params CreateCardParams) (*models.Card, error)
	GetCard(ctx context.Context, cardID string) (*models.Card, error)
	GetCardsByColumn(ctx context.Context, columnID string) ([]*models.Card, error)
	// GetCardColumnAndBoard resolves a card's owning column and board in
	// one query.
	GetCardColumnAndBoard(ctx context.Context, cardID string) (columnID, boardID string, err error)
	UpdateCard(ctx context.Context, params UpdateCardParams) (*models.Card, error)
	// UpdateCardPosition atomically rewrites a card's container and order
	// value. This is the single write behind every drag commit.
	UpdateCardPosition(ctx context.Context, cardID, columnID string, position float64) error
	DeleteCard(ctx context.Context, cardID string) error
	AddCardTag(ctx context.Context, cardID, tag string) error
	RemoveCardTag(ctx context.Context, cardID, tag string) error
}
