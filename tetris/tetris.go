// Package tetris contains the rules of the game: piece geometry, the random
// bag, the playfield, collisions and wall kicks, locking and scoring.
// based on https://tetris.wiki/Tetris_Guideline
package tetris

import "fmt"

type Action string

const (
	MoveLeft    Action = "left"      // Moves the Tetromino one step to the left.
	MoveRight   Action = "right"     // Moves the Tetromino one step to the right.
	MoveDown    Action = "down"      // Soft drop, moves the Tetromino one step down.
	RotateRight Action = "rotatecw"  // Rotates the Tetromino clockwise.
	RotateLeft  Action = "rotateccw" // Rotates the Tetromino counter-clockwise.
)

// ParseAction validates a raw action name coming from outside the process.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case MoveLeft, MoveRight, MoveDown, RotateRight, RotateLeft:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Shape identifies one of the seven tetrominoes.
type Shape string

const (
	I Shape = "I"
	J Shape = "J"
	L Shape = "L"
	O Shape = "O"
	S Shape = "S"
	T Shape = "T"
	Z Shape = "Z"
)

// Shapes lists every tetromino in bag order.
var Shapes = [...]Shape{I, J, L, O, S, T, Z}

// Cell is a position on the playfield.
// Columns are 0 > 9 left to right and represent the X axis.
// Rows are 0 > 19 top to bottom and represent the Y axis.
type Cell struct {
	X, Y int
}

func (c Cell) add(o Cell) Cell { return Cell{X: c.X + o.X, Y: c.Y + o.Y} }

// State is the lock state of a session.
type State int

const (
	Falling State = iota
	LockPending
	GameOver
)

func (s State) String() string {
	switch s {
	case Falling:
		return "falling"
	case LockPending:
		return "lock_pending"
	case GameOver:
		return "game_over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, error) {
	for _, st := range []State{Falling, LockPending, GameOver} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", s)
}
