package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLineCatalogue(t *testing.T) {
	t.Run("3x3 board has the classic eight lines", func(t *testing.T) {
		// When: building the catalogue for a 3x3 board
		lines := BuildLineCatalogue(3)

		// Then: rows, columns and both diagonals come out in a fixed order
		expected := []WinLine{
			{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
			{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
			{0, 4, 8},
			{2, 4, 6},
		}
		require.Equal(t, expected, lines)
	})

	t.Run("4x4 board covers every run of three", func(t *testing.T) {
		// When: building the catalogue for a 4x4 board
		lines := BuildLineCatalogue(4)

		// Then: there are 8 horizontal, 8 vertical and 8 diagonal runs
		require.Len(t, lines, 24)

		expected := []WinLine{
			{0, 1, 2}, {1, 2, 3}, {4, 5, 6}, {5, 6, 7},
			{8, 9, 10}, {9, 10, 11}, {12, 13, 14}, {13, 14, 15},
			{0, 4, 8}, {4, 8, 12}, {1, 5, 9}, {5, 9, 13},
			{2, 6, 10}, {6, 10, 14}, {3, 7, 11}, {7, 11, 15},
			{0, 5, 10}, {1, 6, 11}, {4, 9, 14}, {5, 10, 15},
			{2, 5, 8}, {3, 6, 9}, {6, 9, 12}, {7, 10, 13},
		}
		assert.Equal(t, expected, lines)
	})

	t.Run("Every line stays on the board", func(t *testing.T) {
		for _, size := range []int{3, 4} {
			for _, line := range BuildLineCatalogue(size) {
				for _, index := range line {
					assert.GreaterOrEqual(t, index, 0)
					assert.Less(t, index, size*size)
				}
			}
		}
	})

	t.Run("Board smaller than a line has no lines", func(t *testing.T) {
		assert.Empty(t, BuildLineCatalogue(2))
	})
}
