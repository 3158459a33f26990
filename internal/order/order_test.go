package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAtBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		positions []float64
		index     int
		want      float64
	}{
		{"empty list", nil, 0, 1},
		{"before single item", []float64{5}, 0, 4},
		{"after single item", []float64{5}, 1, 6},
		{"between two items", []float64{2, 8}, 1, 5},
		{"front of many", []float64{1, 2, 3}, 0, 0},
		{"end of many", []float64{1, 2, 3}, 3, 4},
		{"index past end clamps to append", []float64{1, 2}, 10, 3},
		{"negative index clamps to front", []float64{3, 4}, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertAt(tt.positions, tt.index))
		})
	}
}

func TestInsertAtDeterminism(t *testing.T) {
	positions := []float64{1, 2.5, 7, 19}
	for i := 0; i <= len(positions); i++ {
		first := InsertAt(positions, i)
		second := InsertAt(positions, i)
		assert.Equal(t, first, second, "index %d", i)
	}
}

func TestInsertAtHalvesGap(t *testing.T) {
	// Repeated insertion at the same boundary halves the remaining gap.
	positions := []float64{0, 1}
	last := InsertAt(positions, 1)
	assert.Equal(t, 0.5, last)

	positions = []float64{0, last}
	assert.Equal(t, 0.25, InsertAt(positions, 1))
}

func TestIsMovementRequired(t *testing.T) {
	// Same container, sub-epsilon delta: no-op.
	assert.False(t, IsMovementRequired("col-a", "col-a", 5.0, 5.0004))

	// Container changed: always a move, even with identical positions.
	assert.True(t, IsMovementRequired("col-a", "col-b", 5.0, 5.0))

	// Same container, real delta: a move.
	assert.True(t, IsMovementRequired("col-a", "col-a", 5.0, 5.5))
}
