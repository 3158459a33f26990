// Package order implements the fractional-position arithmetic that drives
// card and column ordering. Positions are plain float64s: inserting between
// two neighbors takes their midpoint, so no other item ever needs to be
// renumbered. Repeated insertion at the same boundary halves the gap each
// time; the drift is accepted rather than renormalized.
package order

import "math"

// Epsilon is the tolerance below which two positions in the same container
// are considered equal. It absorbs floating-point noise from repeated
// preview recomputation during a drag and suppresses redundant writes.
const Epsilon = 0.001

// InsertAt computes the position an item should receive when inserted into
// a list at the given zero-based index. The list must be sorted ascending
// and must not contain the item being inserted.
func InsertAt(positions []float64, index int) float64 {
	if len(positions) == 0 {
		return 1
	}
	if index <= 0 {
		return positions[0] - 1
	}
	if index >= len(positions) {
		return positions[len(positions)-1] + 1
	}
	return (positions[index-1] + positions[index]) / 2
}

// IsMovementRequired reports whether committing a move would change
// anything. A move is a no-op when the container is unchanged and the new
// position differs from the current one by less than Epsilon.
func IsMovementRequired(currentContainerID, targetContainerID string, currentPosition, newPosition float64) bool {
	if currentContainerID != targetContainerID {
		return true
	}
	return math.Abs(currentPosition-newPosition) >= Epsilon
}
