package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcanales/lanes/internal/boardstate"
	"github.com/rcanales/lanes/internal/drag"
	"github.com/rcanales/lanes/internal/optimistic"
	"github.com/rcanales/lanes/internal/order"
)

// dragThreshold is how far the pointer must travel with the button held
// before a press becomes a drag rather than a click.
const dragThreshold = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case boardListMsg:
		m.boards = msg.boards
		if len(m.boards) == 0 {
			return m, m.createDefaultBoard()
		}
		m.boardID = m.boards[0].ID
		return m, tea.Batch(m.loadBoard(m.boardID), m.joinBoard(m.boardID))

	case boardLoadedMsg:
		m.store = boardstate.NewStore(msg.detail)
		m.tracker = drag.NewTracker(m.store)
		m.reconciler = optimistic.NewReconciler(m.store, m.client)
		m.clampSelection()
		return m, nil

	case boardEventMsg:
		cmds := []tea.Cmd{waitForEvent(m.eventCh)}
		if m.store != nil && msg.event.BoardID == m.boardID {
			m.store.Apply(msg.event)
			m.clampSelection()
			seq := msg.event.Sequence
			if seq != 0 {
				if m.lastEventSeq != 0 && seq > m.lastEventSeq+1 {
					// A dropped broadcast left a hole in the stream.
					cmds = append(cmds, m.loadBoard(m.boardID))
				}
				m.lastEventSeq = seq
			}
		}
		return m, tea.Batch(cmds...)

	case eventStreamClosedMsg:
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.detailCardID != "" {
			m.detailCardID = ""
			return m, nil
		}
		if m.tracker != nil && m.tracker.Dragging() {
			m.tracker.Cancel()
		}
		return m, nil

	case "h", "left":
		if m.selCol > 0 {
			m.selCol--
			m.selCard = 0
		}
		return m, nil

	case "l", "right":
		if m.store != nil && m.selCol < len(m.store.Columns())-1 {
			m.selCol++
			m.selCard = 0
		}
		return m, nil

	case "k", "up":
		if m.selCard > 0 {
			m.selCard--
		}
		return m, nil

	case "j", "down":
		if card := m.selectedCard(); card != nil {
			m.selCard++
			m.clampSelection()
		}
		return m, nil

	case "a":
		if m.store != nil {
			m.inputMode = inputNewCard
			m.input.Placeholder = "Card title"
			m.input.SetValue("")
			m.input.Focus()
		}
		return m, nil

	case "A":
		if m.store != nil {
			m.inputMode = inputNewColumn
			m.input.Placeholder = "Column name"
			m.input.SetValue("")
			m.input.Focus()
		}
		return m, nil

	case "x":
		if card := m.selectedCard(); card != nil {
			return m, m.deleteCard(card.ID)
		}
		return m, nil

	case " ", "enter":
		if card := m.selectedCard(); card != nil {
			m.detailCardID = card.ID
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = inputNone
		m.input.Blur()
		return m, nil

	case "enter":
		value := m.input.Value()
		mode := m.inputMode
		m.inputMode = inputNone
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		switch mode {
		case inputNewCard:
			return m, m.createCard(m.selectedColumnID(), value)
		case inputNewColumn:
			return m, m.createColumn(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		target, ok := hitTest(m.store.Columns(), msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.pressed = true
		m.pressX = msg.X
		m.pressY = msg.Y
		switch {
		case target.CardID != "":
			m.pressTarget = target.CardID
		case target.Header:
			m.pressTarget = drag.ColumnPrefix + target.ColumnID
		default:
			m.pressTarget = ""
		}
		return m, nil

	case tea.MouseActionMotion:
		if !m.pressed {
			return m, nil
		}
		if !m.tracker.Dragging() {
			if m.pressTarget == "" || dragDistance(msg.X, msg.Y, m.pressX, m.pressY) < dragThreshold {
				return m, nil
			}
			if !m.tracker.Start(m.pressTarget) {
				m.pressed = false
				return m, nil
			}
		}
		m.updateHover(msg.X, msg.Y)
		return m, nil

	case tea.MouseActionRelease:
		wasPressed := m.pressed
		m.pressed = false
		if m.tracker.Dragging() {
			move, ok := m.tracker.Drop()
			if !ok {
				return m, nil
			}
			return m, m.commitMove(move)
		}
		if wasPressed {
			m.selectAt(msg.X, msg.Y)
		}
		return m, nil
	}

	return m, nil
}

// updateHover feeds the pointer position into the drag session.
func (m *Model) updateHover(x, y int) {
	target, ok := hitTest(m.store.Columns(), x, y)
	session := m.tracker.Session()
	if session == nil {
		return
	}

	if session.Kind == drag.KindColumn {
		if !ok {
			m.tracker.HoverBoardEnd()
			return
		}
		m.tracker.HoverColumn(target.ColumnID)
		return
	}

	if !ok {
		return
	}
	if target.CardID != "" {
		m.tracker.HoverCard(target.CardID)
	} else {
		m.tracker.HoverColumnBody(target.ColumnID)
	}
}

func (m *Model) selectAt(x, y int) {
	cols := m.store.Columns()
	target, ok := hitTest(cols, x, y)
	if !ok {
		return
	}
	for i, col := range cols {
		if col.ID != target.ColumnID {
			continue
		}
		m.selCol = i
		for j, card := range col.Cards {
			if card.ID == target.CardID {
				m.selCard = j
				return
			}
		}
		m.selCard = 0
	}
}

func (m *Model) clampSelection() {
	if m.store == nil {
		return
	}
	cols := m.store.Columns()
	if len(cols) == 0 {
		m.selCol, m.selCard = 0, 0
		return
	}
	if m.selCol >= len(cols) {
		m.selCol = len(cols) - 1
	}
	if n := len(cols[m.selCol].Cards); n == 0 {
		m.selCard = 0
	} else if m.selCard >= n {
		m.selCard = n - 1
	}
}

func (m Model) commitMove(move drag.Move) tea.Cmd {
	return func() tea.Msg {
		var err error
		if move.Kind == drag.KindColumn {
			err = m.reconciler.MoveColumn(context.Background(), move.ItemID, move.Position)
		} else {
			err = m.reconciler.MoveCard(context.Background(), move.ItemID, move.TargetColumnID, move.Position)
		}
		return mutationDoneMsg{err: err}
	}
}

func (m Model) createCard(columnID, title string) tea.Cmd {
	if columnID == "" {
		return nil
	}
	col, ok := m.store.Column(columnID)
	if !ok {
		return nil
	}
	positions := make([]float64, len(col.Cards))
	for i, c := range col.Cards {
		positions[i] = c.Position
	}
	position := order.InsertAt(positions, len(positions))

	return func() tea.Msg {
		err := m.reconciler.CreateCard(context.Background(), columnID, title, position)
		return mutationDoneMsg{err: err}
	}
}

func (m Model) createColumn(name string) tea.Cmd {
	boardID := m.boardID
	return func() tea.Msg {
		col, err := m.client.CreateColumn(context.Background(), boardID, name)
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		m.store.Apply(columnCreatedEvent(boardID, col))
		return mutationDoneMsg{}
	}
}

func (m Model) deleteCard(cardID string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if err := m.client.DeleteCard(context.Background(), cardID); err != nil {
			return mutationDoneMsg{err: err}
		}
		store.RemoveCard(cardID)
		return mutationDoneMsg{}
	}
}

func (m Model) createDefaultBoard() tea.Cmd {
	return func() tea.Msg {
		board, err := m.client.CreateBoard(context.Background(), "My Board")
		if err != nil {
			return errMsg{err: err}
		}
		return boardListMsg{boards: append(m.boards, board)}
	}
}

func (m Model) joinBoard(boardID string) tea.Cmd {
	if m.eventClient == nil {
		return nil
	}
	client := m.eventClient
	return func() tea.Msg {
		if err := client.Join(boardID); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}
