package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"tetrisengine/tetris"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
)

type mockGame struct {
	updates  chan tetris.Snapshot
	stopOnce sync.Once

	mu      sync.Mutex
	start   bool
	stop    bool
	actions []tetris.Action
}

func newMockGame() *mockGame { return &mockGame{updates: make(chan tetris.Snapshot)} }

func (m *mockGame) Updates() <-chan tetris.Snapshot { return m.updates }
func (m *mockGame) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start = true
}
func (m *mockGame) Action(a tetris.Action) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, a)
	return true
}
func (m *mockGame) Stop() {
	m.stopOnce.Do(func() { close(m.updates) })
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}
func (m *mockGame) isStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.start
}
func (m *mockGame) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}
func (m *mockGame) getActions() []tetris.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.actions)
}

type mockRender struct {
	mu         sync.Mutex
	gameCount  int
	resetCount int
	lastLobby  message
}

func (m *mockRender) game(tetris.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameCount++
}
func (m *mockRender) lobby(msg message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLobby = msg
}
func (m *mockRender) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCount++
}
func (m *mockRender) games() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameCount
}
func (m *mockRender) message() message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLobby
}

func testClient(local func() tetrisGame, online func(context.Context) (tetrisGame, error)) (*Client, *mockRender, chan keyboard.KeyEvent) {
	render := &mockRender{}
	kCh := make(chan keyboard.KeyEvent)
	return &Client{
		render:  render,
		options: &Options{},
		logger:  slog.New(slog.DiscardHandler),
		kbCh:    kCh,
		state:   &state{current: lobby},
		local:   local,
		online:  online,
	}, render, kCh
}

func start(cl *Client) <-chan struct{} {
	done := make(chan struct{})
	go func() { cl.Start(); close(done) }()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-time.After(time.Second):
		t.Errorf("timeout waiting for quit")
	case <-done:
	}
}

func current(cl *Client) clientState {
	s, _ := cl.state.get()
	return s
}

const (
	wait = time.Second
	tick = 5 * time.Millisecond
)

func TestClient(t *testing.T) {
	game := newMockGame()
	cl, render, kCh := testClient(func() tetrisGame { return game }, nil)
	done := start(cl)
	assert.Eventually(t, func() bool { return slices.Equal(defaultLobby(), render.message()) }, wait, tick)

	// 'p' starts a local game.
	kCh <- keyboard.KeyEvent{Rune: 'p'}
	assert.Eventually(t, game.isStarted, wait, tick)
	assert.Equal(t, playing, current(cl))

	// while in game, keys should direct to tetris actions.
	kCh <- keyboard.KeyEvent{Rune: 'a'}
	kCh <- keyboard.KeyEvent{Key: keyboard.KeyArrowUp}
	kCh <- keyboard.KeyEvent{Key: keyboard.KeySpace}
	kCh <- keyboard.KeyEvent{Rune: 'q'}
	assert.Eventually(t, func() bool {
		return slices.Equal([]tetris.Action{tetris.MoveLeft, tetris.RotateRight, tetris.RotateLeft}, game.getActions())
	}, wait, tick)

	// every update is rendered.
	game.updates <- tetris.Snapshot{Score: 10}
	game.updates <- tetris.Snapshot{Score: 42}
	assert.Eventually(t, func() bool { return render.games() == 2 }, wait, tick)

	// esc ends the game and goes back to the lobby.
	kCh <- keyboard.KeyEvent{Key: keyboard.KeyEsc}
	assert.Eventually(t, func() bool {
		return current(cl) == lobby && slices.Equal(gameOver(42), render.message())
	}, wait, tick)
	assert.True(t, game.isStopped())

	// 'q' should quit the game back in the lobby.
	kCh <- keyboard.KeyEvent{Rune: 'q'}
	waitDone(t, done)
}

func TestClientQuitWhilePlaying(t *testing.T) {
	game := newMockGame()
	cl, _, kCh := testClient(func() tetrisGame { return game }, nil)
	done := start(cl)

	kCh <- keyboard.KeyEvent{Rune: 'p'}
	assert.Eventually(t, game.isStarted, wait, tick)
	kCh <- keyboard.KeyEvent{Key: keyboard.KeyCtrlC}
	waitDone(t, done)
	assert.True(t, game.isStopped())
}

func TestClientOnline(t *testing.T) {
	t.Run("connection error goes back to the lobby", func(t *testing.T) {
		cl, render, kCh := testClient(nil, func(context.Context) (tetrisGame, error) {
			return nil, errors.New("connection refused")
		})
		done := start(cl)

		kCh <- keyboard.KeyEvent{Rune: 'o'}
		assert.Eventually(t, func() bool {
			return current(cl) == lobby && slices.Equal(errorMessage(), render.message())
		}, wait, tick)

		kCh <- keyboard.KeyEvent{Rune: 'q'}
		waitDone(t, done)
	})

	t.Run("online game is played like a local one", func(t *testing.T) {
		game := newMockGame()
		cl, _, kCh := testClient(nil, func(context.Context) (tetrisGame, error) { return game, nil })
		done := start(cl)

		kCh <- keyboard.KeyEvent{Rune: 'o'}
		assert.Eventually(t, game.isStarted, wait, tick)
		kCh <- keyboard.KeyEvent{Rune: 'd'}
		assert.Eventually(t, func() bool { return slices.Equal([]tetris.Action{tetris.MoveRight}, game.getActions()) }, wait, tick)

		game.Stop()
		assert.Eventually(t, func() bool { return current(cl) == lobby }, wait, tick)
		kCh <- keyboard.KeyEvent{Rune: 'q'}
		waitDone(t, done)
	})

	t.Run("keys are ignored while connecting", func(t *testing.T) {
		game := newMockGame()
		release := make(chan struct{})
		cl, render, kCh := testClient(nil, func(context.Context) (tetrisGame, error) {
			<-release
			return game, nil
		})
		done := start(cl)

		kCh <- keyboard.KeyEvent{Rune: 'o'}
		assert.Eventually(t, func() bool { return slices.Equal(connecting(), render.message()) }, wait, tick)
		kCh <- keyboard.KeyEvent{Rune: 'p'}
		assert.Equal(t, waiting, current(cl))

		// quitting before the server answers drops the new game.
		kCh <- keyboard.KeyEvent{Key: keyboard.KeyCtrlC}
		close(release)
		waitDone(t, done)
		assert.True(t, game.isStopped())
	})
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key    keyboard.KeyEvent
		action tetris.Action
		ok     bool
	}{
		{key: keyboard.KeyEvent{Rune: 's'}, action: tetris.MoveDown, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowDown}, action: tetris.MoveDown, ok: true},
		{key: keyboard.KeyEvent{Rune: 'a'}, action: tetris.MoveLeft, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, action: tetris.MoveLeft, ok: true},
		{key: keyboard.KeyEvent{Rune: 'd'}, action: tetris.MoveRight, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowRight}, action: tetris.MoveRight, ok: true},
		{key: keyboard.KeyEvent{Rune: 'e'}, action: tetris.RotateRight, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeyArrowUp}, action: tetris.RotateRight, ok: true},
		{key: keyboard.KeyEvent{Rune: 'q'}, action: tetris.RotateLeft, ok: true},
		{key: keyboard.KeyEvent{Key: keyboard.KeySpace}},
		{key: keyboard.KeyEvent{Rune: 'x'}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("key %v", tt.key), func(t *testing.T) {
			a, ok := keyAction(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, a)
		})
	}
}
