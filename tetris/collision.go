package tetris

// Piece is the falling tetromino. It's a value: moving or rotating returns a
// new candidate and leaves the original untouched until it's accepted.
type Piece struct {
	Shape    Shape
	Rotation int
	X, Y     int
}

// Spawn returns a tetromino in its spawn state and location.
func Spawn(s Shape) Piece {
	return Piece{Shape: s, X: SpawnX(s), Y: SpawnY}
}

// Cells returns the absolute position of the piece's four blocks.
func (p Piece) Cells() []Cell {
	o := Orientations(p.Shape)[p.Rotation]
	cells := make([]Cell, len(o))
	for i, c := range o {
		cells[i] = c.add(Cell{X: p.X, Y: p.Y})
	}
	return cells
}

func (p Piece) Moved(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	return p
}

// Rotated turns the piece one step around its origin without any kick.
func (p Piece) Rotated(clockwise bool) Piece {
	p.Rotation = rotation(p.Shape, p.Rotation, clockwise)
	return p
}

// Collides reports whether any block of the piece is out of the left, right
// or bottom bounds, or overlaps the stack. Blocks above the playfield are fine.
//
// .	0 1 2 3 4 5 6 7 8 9
// -1	. . . O . . . . . .		legal, above the playfield
// 0	. . . O O O . . . .
// ...
// 19	. . . . . . . . . .
// 20	. . . . . . . . . .		out of bounds
func Collides(p Piece, f *Playfield) bool {
	for _, c := range p.Cells() {
		if c.X < 0 || c.X >= Width || c.Y >= Height || f.IsOccupied(c.X, c.Y) {
			return true
		}
	}
	return false
}

// KickTable returns, in the order they must be tried, the origin offsets
// for a rotation of shape s from one state to another. The first entry is
// normally the unkicked rotation.
type KickTable func(s Shape, from, to int) []Cell

var simpleKicks = []Cell{{0, 0}, {1, 0}, {-1, 0}, {0, -1}}

// SimpleKicks tries the plain rotation, then one step right, one step left
// and one step up, whatever the piece and states involved.
func SimpleKicks(Shape, int, int) []Cell { return simpleKicks }

// SRS wall kick data from https://tetris.wiki/Super_Rotation_System with the
// Y axis flipped: positive Y goes down the playfield.
// Indexed by [from][to] state.
var (
	jlstzKicks = map[[2]int][]Cell{
		{0, 1}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{1, 0}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{1, 2}: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{2, 1}: {{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{2, 3}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{3, 2}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{3, 0}: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{0, 3}: {{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	}
	iKicks = map[[2]int][]Cell{
		{0, 1}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		{1, 0}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		{1, 2}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
		{2, 1}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
		{2, 3}: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		{3, 2}: {{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		{3, 0}: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
		{0, 3}: {{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
	}
	noKicks = []Cell{{0, 0}}
)

// SRSKicks is the full per state Super Rotation System kick table.
func SRSKicks(s Shape, from, to int) []Cell {
	switch s {
	case O:
		return noKicks
	case I:
		return iKicks[[2]int{from, to}]
	}
	return jlstzKicks[[2]int{from, to}]
}

// TryRotate rotates the piece one step and resolves collisions with the
// kick table. When every kick collides the original piece is returned and
// the rotation is rejected.
func TryRotate(p Piece, clockwise bool, f *Playfield, kicks KickTable) (Piece, bool) {
	if kicks == nil {
		kicks = SimpleKicks
	}
	candidate := p.Rotated(clockwise)
	for _, k := range kicks(p.Shape, p.Rotation, candidate.Rotation) {
		if kicked := candidate.Moved(k.X, k.Y); !Collides(kicked, f) {
			return kicked, true
		}
	}
	return p, false
}
