package tetris

import "fmt"

// Orientation is one rotation state of a tetromino: the offsets of its four
// blocks from the piece origin, the top-left corner of its bounding box.
type Orientation [4]Cell

// SpawnY is the row every tetromino spawns at. Pieces may sit partly above
// the visible playfield.
const SpawnY = -1

// geometry holds the Super Rotation System states of each tetromino in
// clockwise order. Index 0 is the spawn state.
//
// .	Spawn state in the bounding box (O = block)
//
// .	I			J		L		O		S		T		Z
// .	0 1 2 3		0 1 2	0 1 2	0 1		0 1 2	0 1 2	0 1 2
// 0	. . . .		O . .	. . O	O O		. O O	. O .	O O .
// 1	O O O O		O O O	O O O	O O		O O .	O O O	. O O
// 2	. . . .		. . .	. . .			. . .	. . .	. . .
// 3	. . . .
var geometry = map[Shape][]Orientation{
	I: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	J: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	L: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
	// O doesn't rotate: its only state is its own successor.
	O: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	S: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	T: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	Z: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
}

// Orientations returns the cyclic rotation states of a tetromino.
// The returned slice must not be modified.
func Orientations(s Shape) []Orientation {
	o, ok := geometry[s]
	if !ok {
		panic(fmt.Sprintf("tetris: no geometry for shape %q", s))
	}
	return o
}

// SpawnX returns the column the tetromino's origin spawns at.
//
// .	0 1 2 3 4 5 6 7 8 9
// 0	. . . O O O O . . .		I spawns one row lower inside its box
// 0	. . . . O O . . . .		O is shifted right to stay centered
func SpawnX(s Shape) int {
	if s == O {
		return 4
	}
	return 3
}

// rotation returns the index reached by turning one step from r.
func rotation(s Shape, r int, clockwise bool) int {
	n := len(Orientations(s))
	d := 1
	if !clockwise {
		d = -1
	}
	return ((r+d)%n + n) % n
}
