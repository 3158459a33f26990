package card

import (
	"context"
	"fmt"
	"time"

	"github.com/rcanales/lanes/internal/database"
	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
	"github.com/rcanales/lanes/internal/order"
)

// CreateCardRequest encapsulates all data needed to create a card.
// Position, when nil, appends the card to the end of the column; optimistic
// clients pass the fractional position they previewed so the server echoes
// it back.
type CreateCardRequest struct {
	ColumnID    string
	Title       string
	Description string
	Priority    models.Priority // empty means default
	Type        models.CardType // empty means default
	DueDate     *time.Time
	Tags        []string
	Position    *float64
}

// UpdateCardRequest updates a card. Nil pointer fields are left unchanged.
type UpdateCardRequest struct {
	CardID      string
	Title       *string
	Description *string
	Priority    *models.Priority
	Type        *models.CardType
	DueDate     *time.Time
}

// Service defines card-level business operations: the authoritative side
// of every card mutation. Each committed write resolves the owning board
// through the column and publishes one typed event to that board's channel.
type Service interface {
	GetCard(ctx context.Context, cardID string) (*models.Card, error)
	CreateCard(ctx context.Context, req CreateCardRequest) (*models.Card, error)
	UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error)
	DeleteCard(ctx context.Context, cardID string) error

	// MoveCard atomically persists the card's new container and fractional
	// position, then broadcasts a card-moved event carrying exactly
	// {cardID, targetColumnID, newPosition}. Concurrent moves of the same
	// card resolve last-write-wins.
	MoveCard(ctx context.Context, cardID, targetColumnID string, newPosition float64) (*models.Card, error)

	AttachTag(ctx context.Context, cardID, tag string) (*models.Card, error)
	DetachTag(ctx context.Context, cardID, tag string) (*models.Card, error)
}

type service struct {
	repo      database.DataStore
	publisher events.Publisher
}

// NewService creates a new card service. publisher may be nil when no
// daemon is configured.
func NewService(repo database.DataStore, publisher events.Publisher) Service {
	return &service{repo: repo, publisher: publisher}
}

func (s *service) GetCard(ctx context.Context, cardID string) (*models.Card, error) {
	if cardID == "" {
		return nil, ErrInvalidCardID
	}
	return s.repo.GetCard(ctx, cardID)
}

func (s *service) CreateCard(ctx context.Context, req CreateCardRequest) (*models.Card, error) {
	if err := s.validateCreate(&req); err != nil {
		return nil, err
	}

	// Validate the column and resolve the board in one step; a vanished
	// column means nothing is persisted and nothing broadcast.
	boardID, err := s.repo.GetColumnBoardID(ctx, req.ColumnID)
	if err != nil {
		return nil, err
	}

	position, err := s.resolveCreatePosition(ctx, req)
	if err != nil {
		return nil, err
	}

	card, err := s.repo.CreateCard(ctx, database.CreateCardParams{
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Type:        req.Type,
		DueDate:     req.DueDate,
		Position:    position,
		Tags:        req.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	s.publish(events.BoardEvent{
		Kind:    events.CardCreated,
		BoardID: boardID,
		Card:    card,
	})

	return card, nil
}

func (s *service) UpdateCard(ctx context.Context, req UpdateCardRequest) (*models.Card, error) {
	if req.CardID == "" {
		return nil, ErrInvalidCardID
	}
	if req.Title != nil && *req.Title == "" {
		return nil, ErrEmptyTitle
	}
	if req.Title != nil && len(*req.Title) > 255 {
		return nil, ErrTitleTooLong
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if req.Type != nil && !req.Type.Valid() {
		return nil, ErrInvalidType
	}

	card, err := s.repo.UpdateCard(ctx, database.UpdateCardParams{
		CardID:      req.CardID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Type:        req.Type,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return nil, err
	}

	s.publishCardEvent(ctx, events.CardUpdated, card)
	return card, nil
}

func (s *service) DeleteCard(ctx context.Context, cardID string) error {
	if cardID == "" {
		return ErrInvalidCardID
	}

	// Resolve the board before the row disappears.
	_, boardID, err := s.repo.GetCardColumnAndBoard(ctx, cardID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCard(ctx, cardID); err != nil {
		return err
	}

	s.publish(events.BoardEvent{
		Kind:    events.CardDeleted,
		BoardID: boardID,
		CardID:  cardID,
	})

	return nil
}

func (s *service) MoveCard(ctx context.Context, cardID, targetColumnID string, newPosition float64) (*models.Card, error) {
	if cardID == "" {
		return nil, ErrInvalidCardID
	}
	if targetColumnID == "" {
		return nil, ErrInvalidColumnID
	}

	// Board lookup before the move: validates the card exists and pins the
	// channel even if the write below races a delete.
	if _, _, err := s.repo.GetCardColumnAndBoard(ctx, cardID); err != nil {
		return nil, err
	}

	// The target column's board is where the post-move event belongs.
	targetBoardID, err := s.repo.GetColumnBoardID(ctx, targetColumnID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCardPosition(ctx, cardID, targetColumnID, newPosition); err != nil {
		return nil, err
	}

	card, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	s.publish(events.BoardEvent{
		Kind:    events.CardMoved,
		BoardID: targetBoardID,
		Move: &events.CardMove{
			CardID:         cardID,
			TargetColumnID: targetColumnID,
			NewPosition:    newPosition,
		},
	})

	return card, nil
}

func (s *service) AttachTag(ctx context.Context, cardID, tag string) (*models.Card, error) {
	if cardID == "" {
		return nil, ErrInvalidCardID
	}
	if tag == "" {
		return nil, ErrEmptyTag
	}

	if err := s.repo.AddCardTag(ctx, cardID, tag); err != nil {
		return nil, err
	}

	card, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	s.publishCardEvent(ctx, events.CardUpdated, card)
	return card, nil
}

func (s *service) DetachTag(ctx context.Context, cardID, tag string) (*models.Card, error) {
	if cardID == "" {
		return nil, ErrInvalidCardID
	}
	if tag == "" {
		return nil, ErrEmptyTag
	}

	if err := s.repo.RemoveCardTag(ctx, cardID, tag); err != nil {
		return nil, err
	}

	card, err := s.repo.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	s.publishCardEvent(ctx, events.CardUpdated, card)
	return card, nil
}

// resolveCreatePosition uses the requested fractional position when given,
// otherwise appends to the end of the column.
func (s *service) resolveCreatePosition(ctx context.Context, req CreateCardRequest) (float64, error) {
	if req.Position != nil {
		return *req.Position, nil
	}

	cards, err := s.repo.GetCardsByColumn(ctx, req.ColumnID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cards: %w", err)
	}
	positions := make([]float64, len(cards))
	for i, c := range cards {
		positions[i] = c.Position
	}
	return order.InsertAt(positions, len(positions)), nil
}

func (s *service) validateCreate(req *CreateCardRequest) error {
	if req.ColumnID == "" {
		return ErrInvalidColumnID
	}
	if req.Title == "" {
		return ErrEmptyTitle
	}
	if len(req.Title) > 255 {
		return ErrTitleTooLong
	}
	if req.Priority == "" {
		req.Priority = models.DefaultPriority
	} else if !req.Priority.Valid() {
		return ErrInvalidPriority
	}
	if req.Type == "" {
		req.Type = models.DefaultType
	} else if !req.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// publishCardEvent resolves the card's board and publishes a full-entity
// event.
func (s *service) publishCardEvent(ctx context.Context, kind events.Kind, card *models.Card) {
	_, boardID, err := s.repo.GetCardColumnAndBoard(ctx, card.ID)
	if err != nil {
		return
	}
	s.publish(events.BoardEvent{
		Kind:    kind,
		BoardID: boardID,
		Card:    card,
	})
}

func (s *service) publish(event events.BoardEvent) {
	_ = events.PublishWithRetry(s.publisher, event, 3)
}
