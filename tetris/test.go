package tetris

import (
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch          chan time.Time
	stop, reset bool
	interval    time.Duration
	resets      int
	mu          sync.Mutex
}

func NewMockTicker() *MockTicker          { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *MockTicker) Reset(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset = true
	m.stop = false
	m.interval = d
	m.resets++
}
func (m *MockTicker) IsReset() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reset
}
func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// Interval returns the duration of the last Reset.
func (m *MockTicker) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Resets returns how many times the ticker was reset.
func (m *MockTicker) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// FixedRand never shuffles: bags are drawn Z, T, S, O, L, J, I.
type FixedRand struct{}

func (FixedRand) IntN(n int) int { return n - 1 }

// NewTestGame creates a game on top of a test session and returns it with a
// manual ticker.
func NewTestGame(shape Shape, opts ...Option) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	g := NewConfigurableGame(GameOptions{ID: "test", Ticker: ticker, Session: opts})
	g.session.piece = Spawn(shape)
	g.session.state = Falling
	g.last = g.session.Snapshot()
	return g, ticker
}

// NewTestSession creates a session whose falling tetromino is shape in its
// spawn location. The bag is drawn in FixedRand order unless opts says
// otherwise.
func NewTestSession(shape Shape, opts ...Option) *Session {
	s := NewSession(append([]Option{WithRand(FixedRand{})}, opts...)...)
	s.piece = Spawn(shape)
	s.state = Falling
	return s
}

// SetPiece puts the session's falling tetromino at p.
func SetPiece(s *Session, p Piece) { s.piece = p }

// Flush waits until the game loop has processed everything sent before it.
func Flush(g *Game) {
	g.Action("")
}
