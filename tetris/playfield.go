package tetris

import (
	"slices"

	"github.com/kamstrup/intmap"
)

const (
	Width  = 10
	Height = 20
)

// Block is a locked cell together with the tetromino it came from, which
// is what the renderer colours it with.
type Block struct {
	Cell
	Shape Shape
}

// Playfield is the stack of locked blocks.
//
// .	0 1 2 3 4 5 6 7 8 9
// 0	. . . . . . . . . .
// ...
// 18	. . . X . . . . X .
// 19	X X X X X . X X X X
type Playfield struct {
	cells *intmap.Map[int, Shape]
	// rows touched by the last Lock, the only candidates for clearing.
	touched []int
}

func NewPlayfield() *Playfield {
	return &Playfield{cells: intmap.New[int, Shape](Width * Height)}
}

func key(x, y int) int { return y*Width + x }

func inside(x, y int) bool { return x >= 0 && x < Width && y >= 0 && y < Height }

// IsOccupied reports whether a locked block sits at x, y.
func (p *Playfield) IsOccupied(x, y int) bool {
	if !inside(x, y) {
		return false
	}
	return p.cells.Has(key(x, y))
}

// Lock adds the cells to the stack. It doesn't check for collisions, the
// caller must have done that already. Cells above the visible playfield
// are dropped.
func (p *Playfield) Lock(s Shape, cells ...Cell) {
	p.touched = p.touched[:0]
	for _, c := range cells {
		if !inside(c.X, c.Y) {
			continue
		}
		p.cells.Put(key(c.X, c.Y), s)
		if !slices.Contains(p.touched, c.Y) {
			p.touched = append(p.touched, c.Y)
		}
	}
}

// ClearFullRows removes the complete rows among the ones touched by the last
// Lock and moves every block above them down. It returns the number of rows
// cleared.
func (p *Playfield) ClearFullRows() int {
	slices.Sort(p.touched)
	var cleared int
	// ascending order: shifting the blocks above a row never moves a row
	// that is still pending below it.
	for _, y := range p.touched {
		if !p.full(y) {
			continue
		}
		p.removeRow(y)
		cleared++
	}
	p.touched = p.touched[:0]
	return cleared
}

func (p *Playfield) full(y int) bool {
	for x := range Width {
		if !p.cells.Has(key(x, y)) {
			return false
		}
	}
	return true
}

func (p *Playfield) removeRow(row int) {
	next := intmap.New[int, Shape](Width * Height)
	for k, s := range p.cells.All() {
		x, y := k%Width, k/Width
		switch {
		case y == row:
			continue
		case y < row:
			y++
		}
		next.Put(key(x, y), s)
	}
	p.cells = next
}

// Len returns the number of locked blocks.
func (p *Playfield) Len() int { return p.cells.Len() }

// Blocks returns the locked blocks ordered top to bottom, left to right.
func (p *Playfield) Blocks() []Block {
	blocks := make([]Block, 0, p.cells.Len())
	for k, s := range p.cells.All() {
		blocks = append(blocks, Block{Cell: Cell{X: k % Width, Y: k / Width}, Shape: s})
	}
	slices.SortFunc(blocks, func(a, b Block) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return blocks
}
