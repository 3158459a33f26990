package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
)

type boardListMsg struct {
	boards []*models.Board
}

type boardLoadedMsg struct {
	detail *models.BoardDetail
}

type boardEventMsg struct {
	event events.BoardEvent
}

type eventStreamClosedMsg struct{}

type mutationDoneMsg struct {
	err error
}

type errMsg struct {
	err error
}

func (m Model) loadBoardList() tea.Cmd {
	return func() tea.Msg {
		boards, err := m.client.ListBoards(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return boardListMsg{boards: boards}
	}
}

func (m Model) loadBoard(boardID string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.client.GetBoardDetail(context.Background(), boardID)
		if err != nil {
			return errMsg{err: err}
		}
		return boardLoadedMsg{detail: detail}
	}
}

func columnCreatedEvent(boardID string, col *models.Column) events.BoardEvent {
	return events.BoardEvent{Kind: events.ColumnCreated, BoardID: boardID, Column: col}
}

// waitForEvent blocks on the realtime stream and feeds one event back into
// the update loop. Update re-issues it after every received event.
func waitForEvent(ch <-chan events.BoardEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return eventStreamClosedMsg{}
		}
		return boardEventMsg{event: event}
	}
}
