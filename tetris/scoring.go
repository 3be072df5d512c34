package tetris

import "time"

const (
	// BaseInterval is the gravity interval at level 1.
	BaseInterval = 1000 * time.Millisecond
	// LevelStep is how much faster gravity gets with every level.
	LevelStep = 25 * time.Millisecond
	// MinInterval is the fastest gravity gets, reached at level 39.
	MinInterval = 50 * time.Millisecond

	linesPerLevel = 10
)

// points awarded by the number of rows cleared by a single lock.
var clearPoints = [...]int{0, 200, 500, 800, 1200}

// Scoring keeps score, cleared lines and level.
type Scoring struct {
	Points int
	Lines  int
	Level  int
}

func newScoring() Scoring { return Scoring{Level: 1} }

// SoftDrop awards one point per cell the player moved the tetromino down.
func (s *Scoring) SoftDrop(cells int) {
	s.Points += cells
}

// Clear scores the rows cleared by one lock and reports whether the level
// went up.
func (s *Scoring) Clear(rows int) bool {
	if rows <= 0 {
		return false
	}
	rows = min(rows, len(clearPoints)-1)
	s.Points += clearPoints[rows]
	s.Lines += rows
	level := 1 + s.Lines/linesPerLevel
	if level <= s.Level {
		return false
	}
	s.Level = level
	return true
}

// Interval returns the gravity interval for the current level.
func (s Scoring) Interval() time.Duration {
	return Interval(s.Level)
}

// Interval returns the gravity interval for a level.
func Interval(level int) time.Duration {
	d := BaseInterval - time.Duration(max(level-1, 0))*LevelStep
	return max(d, MinInterval)
}
