package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rcanales/lanes/internal/drag"
	"github.com/rcanales/lanes/internal/events"
	"github.com/rcanales/lanes/internal/models"
)

func (m Model) View() string {
	if m.store == nil {
		return "\n  Loading board..."
	}

	if m.detailCardID != "" {
		return m.viewCardDetail()
	}

	var b strings.Builder
	b.WriteString(" " + columnTitleStyle.Render(m.store.Board().Name) + "\n")

	cols := m.store.Columns()
	rendered := make([]string, 0, len(cols))
	for i, col := range cols {
		rendered = append(rendered, m.viewColumn(col, i))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))

	b.WriteString("\n")
	if m.inputMode != inputNone {
		b.WriteString(" " + m.input.View() + "\n")
	}
	b.WriteString(m.viewStatusBar())

	return b.String()
}

func (m Model) viewColumn(col *models.Column, index int) string {
	session := m.sessionFor()

	var body strings.Builder
	body.WriteString(columnTitleStyle.Render(fmt.Sprintf("%s (%d)", col.Name, len(col.Cards))))
	body.WriteString("\n")

	for j, card := range col.Cards {
		if session != nil && session.Kind == drag.KindCard &&
			session.TargetColumnID == col.ID && m.indicatorIndex(session, col, j) {
			body.WriteString(dropIndicatorStyle.Render(strings.Repeat("─", columnWidth-4)))
			body.WriteString("\n")
		}
		body.WriteString(m.viewCard(card, index, j, session))
		body.WriteString("\n")
	}
	if session != nil && session.Kind == drag.KindCard &&
		session.TargetColumnID == col.ID && session.Index >= visibleCount(col, session.ItemID) {
		body.WriteString(dropIndicatorStyle.Render(strings.Repeat("─", columnWidth-4)))
		body.WriteString("\n")
	}

	return columnStyle.Render(body.String()) + strings.Repeat(" ", columnGap)
}

func (m Model) viewCard(card *models.Card, colIndex, cardIndex int, session *drag.Session) string {
	style := cardStyle
	if session != nil && session.ItemID == card.ID {
		style = draggedCardStyle
	} else if colIndex == m.selCol && cardIndex == m.selCard {
		style = selectedCardStyle
	}

	// Truncate by display width, not bytes, so wide and multibyte runes
	// never get split.
	title := runewidth.Truncate(card.Title, columnWidth-6, "...")

	meta := priorityStyles[string(card.Priority)].Render(string(card.Priority))
	if len(card.Tags) > 0 {
		meta += " " + statusBarStyle.Render(strings.Join(card.Tags, ","))
	}

	return style.Render(title + "\n" + meta)
}

func (m Model) viewCardDetail() string {
	card, _, ok := m.store.FindCard(m.detailCardID)
	if !ok {
		return "\n  Card no longer exists. Press esc."
	}

	md := fmt.Sprintf("# %s\n\n**Priority:** %s · **Type:** %s\n\n%s\n",
		card.Title, card.Priority, card.Type, card.Description)
	if len(card.Tags) > 0 {
		md += "\nTags: " + strings.Join(card.Tags, ", ") + "\n"
	}

	out, err := glamour.Render(md, "dark")
	if err != nil {
		out = md
	}
	return out + "\n" + statusBarStyle.Render(" esc to close")
}

func (m Model) viewStatusBar() string {
	var parts []string

	status := "offline"
	if m.eventClient != nil {
		status = m.eventClient.Status().String()
	}
	if status != events.Connected.String() {
		parts = append(parts, errorStyle.Render("● "+status))
	} else {
		parts = append(parts, statusBarStyle.Render("● "+status))
	}

	parts = append(parts, statusBarStyle.Render("a:card A:column x:delete space:detail q:quit"))

	if m.err != nil {
		parts = append(parts, errorStyle.Render(m.err.Error()))
	}

	return " " + strings.Join(parts, "  ")
}

func (m Model) sessionFor() *drag.Session {
	if m.tracker == nil {
		return nil
	}
	return m.tracker.Session()
}

// indicatorIndex reports whether the drop indicator belongs right above the
// card at display index j, accounting for the dragged card being excluded
// from the session's index space.
func (m Model) indicatorIndex(session *drag.Session, col *models.Column, j int) bool {
	adjusted := 0
	for i := 0; i < j; i++ {
		if col.Cards[i].ID != session.ItemID {
			adjusted++
		}
	}
	if col.Cards[j].ID == session.ItemID {
		return false
	}
	return adjusted == session.Index
}

func visibleCount(col *models.Column, draggedID string) int {
	n := 0
	for _, c := range col.Cards {
		if c.ID != draggedID {
			n++
		}
	}
	return n
}
