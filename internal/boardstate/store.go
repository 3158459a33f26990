// Package boardstate holds a client's in-memory copy of one board: the
// column list and each column's cards, kept sorted by fractional position.
// It is mutated from two directions, optimistic local moves and the ordered
// event log broadcast by the daemon, and both converge on the same sorted
// layout.
package boardstate

import (
	"sort"
	"sync"

	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
)

// Store is a board's live client-side state. All reads return copies so
// callers can render without holding the lock.
type Store struct {
	mu      sync.RWMutex
	board   models.Board
	columns []*models.Column
}

// NewStore builds a store from a freshly fetched board detail.
func NewStore(detail *models.BoardDetail) *Store {
	s := &Store{board: detail.Board}
	for _, col := range detail.Columns {
		s.columns = append(s.columns, copyColumn(col))
	}
	s.sortColumns()
	for _, col := range s.columns {
		sortCards(col)
	}
	return s
}

// Board returns the board's identity fields.
func (s *Store) Board() models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Columns returns the columns in display order, with their cards in display
// order. The returned slices are copies.
func (s *Store) Columns() []*models.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Column, len(s.columns))
	for i, col := range s.columns {
		out[i] = copyColumn(col)
	}
	return out
}

// Column returns a copy of one column and its cards.
func (s *Store) Column(columnID string) (*models.Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.findColumn(columnID)
	if col == nil {
		return nil, false
	}
	return copyColumn(col), true
}

func copyColumn(col *models.Column) *models.Column {
	c := *col
	c.Cards = make([]*models.Card, len(col.Cards))
	for i, card := range col.Cards {
		cc := *card
		c.Cards[i] = &cc
	}
	return &c
}

// FindCard locates a card anywhere on the board and reports its owning
// column.
func (s *Store) FindCard(cardID string) (*models.Card, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, card := s.locate(cardID)
	if card == nil {
		return nil, "", false
	}
	c := *card
	return &c, col.ID, true
}

// CardPlacement reports a card's current container and position, the pair a
// rollback must restore exactly.
func (s *Store) CardPlacement(cardID string) (columnID string, position float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, card := s.locate(cardID)
	if card == nil {
		return "", 0, false
	}
	return col.ID, card.Position, true
}

// ColumnPlacement reports a column's current position.
func (s *Store) ColumnPlacement(columnID string) (position float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.findColumn(columnID)
	if col == nil {
		return 0, false
	}
	return col.Position, true
}

// MoveCard rewrites a card's container and position and re-sorts the target
// column. No-op when the card or target column is unknown.
func (s *Store) MoveCard(cardID, targetColumnID string, position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveCard(cardID, targetColumnID, position)
}

// MoveColumn rewrites a column's position and re-sorts the column list.
func (s *Store) MoveColumn(columnID string, position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.findColumn(columnID)
	if col == nil {
		return
	}
	col.Position = position
	s.sortColumns()
}

// InsertCard adds a card to its column, unless a card with the same id
// already exists anywhere on the board.
func (s *Store) InsertCard(card *models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCard(card)
}

// RemoveCard deletes a card wherever it lives. No-op when absent.
func (s *Store) RemoveCard(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeCard(cardID)
}

// ReplaceCard swaps a provisional card for its server-confirmed version,
// keeping whatever position the server assigned.
func (s *Store) ReplaceCard(oldID string, card *models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeCard(oldID)
	s.removeCard(card.ID)
	s.insertCard(card)
}

// Apply folds one broadcast event into local state. Events may arrive more
// than once after a reconnect, so every branch tolerates replays: creates
// skip known ids, updates and moves no-op on unknown ids, deletes no-op
// when already gone.
func (s *Store) Apply(event events.BoardEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Kind {
	case events.ColumnCreated:
		if event.Column == nil || s.findColumn(event.Column.ID) != nil {
			return
		}
		c := copyColumn(event.Column)
		sortCards(c)
		s.columns = append(s.columns, c)
		s.sortColumns()

	case events.ColumnUpdated:
		if event.Column == nil {
			return
		}
		col := s.findColumn(event.Column.ID)
		if col == nil {
			return
		}
		col.Name = event.Column.Name
		col.Position = event.Column.Position
		s.sortColumns()

	case events.ColumnDeleted:
		for i, col := range s.columns {
			if col.ID == event.ColumnID {
				s.columns = append(s.columns[:i], s.columns[i+1:]...)
				return
			}
		}

	case events.CardCreated:
		if event.Card != nil {
			s.insertCard(event.Card)
		}

	case events.CardUpdated:
		if event.Card == nil {
			return
		}
		if _, existing := s.locate(event.Card.ID); existing == nil {
			return
		}
		s.removeCard(event.Card.ID)
		s.insertCard(event.Card)

	case events.CardMoved:
		if event.Move != nil {
			s.moveCard(event.Move.CardID, event.Move.TargetColumnID, event.Move.NewPosition)
		}

	case events.CardDeleted:
		s.removeCard(event.CardID)
	}
}

func (s *Store) findColumn(columnID string) *models.Column {
	for _, col := range s.columns {
		if col.ID == columnID {
			return col
		}
	}
	return nil
}

func (s *Store) locate(cardID string) (*models.Column, *models.Card) {
	for _, col := range s.columns {
		for _, c := range col.Cards {
			if c.ID == cardID {
				return col, c
			}
		}
	}
	return nil, nil
}

func (s *Store) moveCard(cardID, targetColumnID string, position float64) {
	_, card := s.locate(cardID)
	if card == nil {
		return
	}
	target := s.findColumn(targetColumnID)
	if target == nil {
		return
	}
	s.removeCard(cardID)
	moved := *card
	moved.ColumnID = targetColumnID
	moved.Position = position
	target.Cards = append(target.Cards, &moved)
	sortCards(target)
}

func (s *Store) insertCard(card *models.Card) {
	if _, existing := s.locate(card.ID); existing != nil {
		return
	}
	col := s.findColumn(card.ColumnID)
	if col == nil {
		return
	}
	c := *card
	col.Cards = append(col.Cards, &c)
	sortCards(col)
}

func (s *Store) removeCard(cardID string) {
	for _, col := range s.columns {
		for i, c := range col.Cards {
			if c.ID == cardID {
				col.Cards = append(col.Cards[:i], col.Cards[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) sortColumns() {
	sort.SliceStable(s.columns, func(i, j int) bool {
		if s.columns[i].Position != s.columns[j].Position {
			return s.columns[i].Position < s.columns[j].Position
		}
		return s.columns[i].ID < s.columns[j].ID
	})
}

// sortCards orders by ascending position, ties broken by id so layouts are
// deterministic.
func sortCards(col *models.Column) {
	sort.SliceStable(col.Cards, func(i, j int) bool {
		if col.Cards[i].Position != col.Cards[j].Position {
			return col.Cards[i].Position < col.Cards[j].Position
		}
		return col.Cards[i].ID < col.Cards[j].ID
	})
}
