package tetris

import "time"

// Session is a single game. It isn't safe for concurrent use: Game owns it
// from a single goroutine.
type Session struct {
	piece   Piece
	field   *Playfield
	bag     *Bag
	kicks   KickTable
	scoring Scoring
	state   State
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the bag's randomness source.
func WithRand(r Rand) Option {
	return func(s *Session) { s.bag = NewBag(r) }
}

// WithKicks sets the wall kick table used by rotations.
func WithKicks(k KickTable) Option {
	return func(s *Session) { s.kicks = k }
}

// WithPlayfield starts the session on a pre-filled stack.
func WithPlayfield(f *Playfield) Option {
	return func(s *Session) { s.field = f }
}

// NewSession starts a game and spawns its first tetromino.
func NewSession(opts ...Option) *Session {
	s := &Session{
		field:   NewPlayfield(),
		bag:     NewBag(nil),
		kicks:   SimpleKicks,
		scoring: newScoring(),
	}
	for _, o := range opts {
		o(s)
	}
	s.spawn()
	return s
}

// Step is what a gravity tick did.
type Step struct {
	Moved    bool
	Locked   bool
	Cleared  int
	LevelUp  bool
	GameOver bool
}

// Tick advances the session one gravity step.
//
//	Falling      -> can fall: move down, stay Falling
//	Falling      -> grounded: LockPending
//	LockPending  -> grounded: lock, clear, score, spawn: Falling or GameOver
//	GameOver     -> nothing
func (s *Session) Tick() Step {
	if s.state == GameOver {
		return Step{GameOver: true}
	}
	if down := s.piece.Moved(0, 1); !Collides(down, s.field) {
		s.piece = down
		s.state = Falling
		return Step{Moved: true}
	}
	if s.state != LockPending {
		s.state = LockPending
		return Step{}
	}
	return s.lock()
}

func (s *Session) lock() Step {
	s.field.Lock(s.piece.Shape, s.piece.Cells()...)
	step := Step{Locked: true}
	step.Cleared = s.field.ClearFullRows()
	step.LevelUp = s.scoring.Clear(step.Cleared)
	s.spawn()
	step.GameOver = s.state == GameOver
	return step
}

func (s *Session) spawn() {
	s.piece = Spawn(s.bag.Next())
	s.state = Falling
	if Collides(s.piece, s.field) {
		s.state = GameOver
	}
}

// try accepts a candidate position when it's free. A successful move gives
// a grounded tetromino a fresh lock delay.
func (s *Session) try(p Piece) bool {
	if s.state == GameOver || Collides(p, s.field) {
		return false
	}
	s.piece = p
	s.state = Falling
	return true
}

func (s *Session) MoveLeft() bool  { return s.try(s.piece.Moved(-1, 0)) }
func (s *Session) MoveRight() bool { return s.try(s.piece.Moved(1, 0)) }

// SoftDrop moves the tetromino one row down and awards a point for it.
func (s *Session) SoftDrop() bool {
	if !s.try(s.piece.Moved(0, 1)) {
		return false
	}
	s.scoring.SoftDrop(1)
	return true
}

// Rotate turns the tetromino one step, using wall kicks when needed. An O
// has a single orientation, so rotating it is never accepted.
func (s *Session) Rotate(clockwise bool) bool {
	if s.state == GameOver {
		return false
	}
	p, ok := TryRotate(s.piece, clockwise, s.field, s.kicks)
	if !ok || p == s.piece {
		return false
	}
	s.piece = p
	s.state = Falling
	return true
}

// Do applies a player action and reports whether it was accepted.
func (s *Session) Do(a Action) bool {
	switch a {
	case MoveLeft:
		return s.MoveLeft()
	case MoveRight:
		return s.MoveRight()
	case MoveDown:
		return s.SoftDrop()
	case RotateRight:
		return s.Rotate(true)
	case RotateLeft:
		return s.Rotate(false)
	}
	return false
}

// Piece, Playfield and IsOccupied expose the raw session state, mostly for
// tests. Drawing code should use Snapshot.
func (s *Session) Piece() Piece             { return s.piece }
func (s *Session) ActivePieceCells() []Cell { return s.piece.Cells() }
func (s *Session) LockedCells() []Block     { return s.field.Blocks() }
func (s *Session) PeekNext() Shape          { return s.bag.Peek() }
func (s *Session) Score() int               { return s.scoring.Points }
func (s *Session) Lines() int               { return s.scoring.Lines }
func (s *Session) Level() int               { return s.scoring.Level }
func (s *Session) State() State             { return s.state }
func (s *Session) IsOver() bool             { return s.state == GameOver }
func (s *Session) Interval() time.Duration  { return s.scoring.Interval() }
func (s *Session) IsOccupied(x, y int) bool { return s.field.IsOccupied(x, y) }
func (s *Session) Playfield() *Playfield    { return s.field }

// GhostCells returns where the tetromino would land if it kept falling.
func (s *Session) GhostCells() []Cell {
	p := s.piece
	for {
		down := p.Moved(0, 1)
		if Collides(down, s.field) {
			return p.Cells()
		}
		p = down
	}
}

// Snapshot is a copy of the session that's safe to hand to other goroutines.
type Snapshot struct {
	Shape    Shape
	Piece    []Cell
	Ghost    []Cell
	Stack    []Block
	Next     Shape
	Score    int
	Lines    int
	Level    int
	State    State
	Interval time.Duration
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Shape:    s.piece.Shape,
		Piece:    s.piece.Cells(),
		Ghost:    s.GhostCells(),
		Stack:    s.field.Blocks(),
		Next:     s.bag.Peek(),
		Score:    s.scoring.Points,
		Lines:    s.scoring.Lines,
		Level:    s.scoring.Level,
		State:    s.state,
		Interval: s.scoring.Interval(),
	}
}
