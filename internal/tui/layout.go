package tui

import (
	"github.com/rcanales/lanes/internal/models"
)

// hitTarget is what lives under a screen coordinate.
type hitTarget struct {
	ColumnID string
	CardID   string // empty when the point is on the column itself
	Header   bool   // true when the point is on the column's title row
}

// hitTest maps a terminal coordinate onto the board layout. Columns are
// fixed-width and laid out left to right; each card occupies a fixed number
// of rows below the column header.
func hitTest(columns []*models.Column, x, y int) (hitTarget, bool) {
	if y < boardTopOffset {
		return hitTarget{}, false
	}

	colIndex := x / (columnWidth + columnGap)
	if colIndex < 0 || colIndex >= len(columns) {
		return hitTarget{}, false
	}
	within := x % (columnWidth + columnGap)
	if within >= columnWidth {
		return hitTarget{}, false
	}

	col := columns[colIndex]
	row := y - boardTopOffset

	if row < headerHeight {
		return hitTarget{ColumnID: col.ID, Header: true}, true
	}

	cardIndex := (row - headerHeight) / cardHeight
	if cardIndex < len(col.Cards) {
		return hitTarget{ColumnID: col.ID, CardID: col.Cards[cardIndex].ID}, true
	}

	// Below the last card but still inside the column body.
	return hitTarget{ColumnID: col.ID}, true
}

// dragDistance is the chebyshev distance between two points, used for the
// drag activation threshold.
func dragDistance(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
