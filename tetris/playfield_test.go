package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fillRow(f *Playfield, y int, except ...int) []Cell {
	var cells []Cell
	for x := range Width {
		skip := false
		for _, e := range except {
			skip = skip || e == x
		}
		if !skip {
			cells = append(cells, Cell{x, y})
		}
	}
	return cells
}

func TestStack(t *testing.T) {
	t.Run("new playfield starts with empty stack", func(t *testing.T) {
		f := NewPlayfield()
		for y := range Height {
			for x := range Width {
				assert.False(t, f.IsOccupied(x, y))
			}
		}
		assert.Empty(t, f.Blocks())
	})

	t.Run("locked cells are occupied", func(t *testing.T) {
		f := NewPlayfield()
		f.Lock(J, Cell{3, 18}, Cell{3, 19}, Cell{4, 19}, Cell{5, 19})
		assert.True(t, f.IsOccupied(3, 18))
		assert.True(t, f.IsOccupied(5, 19))
		assert.False(t, f.IsOccupied(4, 18))
		assert.Equal(t, []Block{
			{Cell{3, 18}, J},
			{Cell{3, 19}, J},
			{Cell{4, 19}, J},
			{Cell{5, 19}, J},
		}, f.Blocks())
	})

	t.Run("cells above the playfield are not stored", func(t *testing.T) {
		f := NewPlayfield()
		f.Lock(I, Cell{4, -1}, Cell{4, 0})
		assert.Equal(t, 1, f.Len())
		assert.False(t, f.IsOccupied(4, -1))
	})
}

func TestClearLines(t *testing.T) {
	t.Run("full bottom row is removed and the stack above moves down", func(t *testing.T) {
		// .	0 1 2 3 4 5 6 7 8 9
		// 17	X . . . . . . . . .
		// 18	. X . . . . . . . X
		// 19	X X X X X X X X X X
		f := NewPlayfield()
		f.Lock(J, Cell{0, 17}, Cell{1, 18}, Cell{9, 18})
		f.Lock(I, fillRow(f, 19)...)
		assert.Equal(t, 1, f.ClearFullRows())
		assert.Equal(t, []Block{
			{Cell{0, 18}, J},
			{Cell{1, 19}, J},
			{Cell{9, 19}, J},
		}, f.Blocks())
	})

	t.Run("rows below the cleared one are untouched", func(t *testing.T) {
		f := NewPlayfield()
		f.Lock(S, fillRow(f, 19, 4)...)
		f.Lock(T, Cell{2, 17})
		f.Lock(I, fillRow(f, 18)...)
		assert.Equal(t, 1, f.ClearFullRows())
		assert.True(t, f.IsOccupied(2, 18))
		assert.False(t, f.IsOccupied(4, 19))
		assert.Equal(t, 9+1, f.Len())
	})

	t.Run("only rows touched by the last lock are cleared", func(t *testing.T) {
		f := NewPlayfield()
		f.Lock(I, fillRow(f, 19)...)
		f.Lock(O, Cell{0, 10})
		assert.Equal(t, 0, f.ClearFullRows())
		assert.Equal(t, Width+1, f.Len())
	})

	t.Run("clearing is idempotent", func(t *testing.T) {
		f := NewPlayfield()
		f.Lock(I, fillRow(f, 19)...)
		assert.Equal(t, 1, f.ClearFullRows())
		assert.Equal(t, 0, f.ClearFullRows())
	})

	t.Run("non adjacent rows clear like one at a time", func(t *testing.T) {
		// .	0 1 2 3 4 5 6 7 8 9
		// 15	. . . . . . . . . A
		// 16	I I I I I I I I I .		full once the vertical I locks
		// 17	. . . . . . . . B .
		// 18	I I I I I I I I I .		full once the vertical I locks
		// 19	. . . . . . . . . I
		f := NewPlayfield()
		f.Lock(T, Cell{9, 15})
		f.Lock(J, fillRow(f, 16, 9)...)
		f.Lock(L, Cell{8, 17})
		f.Lock(J, fillRow(f, 18, 9)...)
		f.Lock(I, Cell{9, 16}, Cell{9, 17}, Cell{9, 18}, Cell{9, 19})
		assert.Equal(t, 2, f.ClearFullRows())
		assert.Equal(t, []Block{
			{Cell{9, 17}, T},
			{Cell{8, 18}, L},
			{Cell{9, 18}, I},
			{Cell{9, 19}, I},
		}, f.Blocks())
	})

	t.Run("four rows", func(t *testing.T) {
		f := NewPlayfield()
		for y := 16; y < Height; y++ {
			f.Lock(Z, fillRow(f, y, 0)...)
		}
		f.Lock(O, Cell{1, 15})
		f.Lock(I, Cell{0, 16}, Cell{0, 17}, Cell{0, 18}, Cell{0, 19})
		assert.Equal(t, 4, f.ClearFullRows())
		assert.Equal(t, []Block{{Cell{1, 19}, O}}, f.Blocks())
	})
}
