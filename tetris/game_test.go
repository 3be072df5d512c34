package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// next waits for a snapshot, failing the test if none arrives.
func next(t *testing.T, ch <-chan Snapshot) (Snapshot, bool) {
	t.Helper()
	select {
	case s, ok := <-ch:
		return s, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
	return Snapshot{}, false
}

// drain returns the last snapshot sent before ch was closed.
func drain(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	var last Snapshot
	for {
		s, ok := next(t, ch)
		if !ok {
			return last
		}
		last = s
	}
}

func TestUpdateCh(t *testing.T) {
	game, ticker := NewTestGame(J)
	game.Start()
	defer game.Stop()

	first, ok := next(t, game.Updates())
	require.True(t, ok)
	assert.Equal(t, Cell{3, -1}, first.Piece[0])

	ticker.Tick()
	second, ok := next(t, game.Updates())
	require.True(t, ok)
	assert.Equal(t, Cell{3, 0}, second.Piece[0])
	assert.Equal(t, second, game.Read())
}

func TestLockPendingUpdate(t *testing.T) {
	// J resting on the floor:
	// 18	J . . . . . . . . .
	// 19	J J J . . . . . . .
	game, ticker := NewTestGame(J)
	SetPiece(game.session, Piece{Shape: J, X: 0, Y: 18})
	game.Start()
	defer game.Stop()

	first, ok := next(t, game.Updates())
	require.True(t, ok)
	assert.Equal(t, Falling, first.State)

	ticker.Tick()
	grounded, ok := next(t, game.Updates())
	require.True(t, ok)
	assert.Equal(t, LockPending, grounded.State)
	assert.Equal(t, Cell{0, 18}, grounded.Piece[0])
	Flush(game)
	assert.Equal(t, LockPending, game.Read().State)

	require.True(t, game.Action(MoveRight))
	moved, ok := next(t, game.Updates())
	require.True(t, ok)
	assert.Equal(t, Falling, moved.State)
}

func TestStartStop(t *testing.T) {
	t.Run("start resets the ticker to the level interval", func(t *testing.T) {
		game, ticker := NewTestGame(J)
		game.Start()
		Flush(game)
		assert.True(t, ticker.IsReset())
		assert.Equal(t, BaseInterval, ticker.Interval())

		game.Stop()
		<-game.Done()
		assert.True(t, ticker.IsStop())
		drain(t, game.Updates())
		game.Stop()
	})

	t.Run("stop before start releases subscribers", func(t *testing.T) {
		game, _ := NewTestGame(J)
		game.Stop()
		<-game.Done()
		last := drain(t, game.Updates())
		assert.Equal(t, J, last.Shape)
	})
}

func TestGameAction(t *testing.T) {
	game, _ := NewTestGame(J)
	game.Start()

	for range 3 {
		assert.True(t, game.Action(MoveLeft))
	}
	assert.False(t, game.Action(MoveLeft))
	Flush(game)
	assert.Equal(t, Cell{0, -1}, game.Read().Piece[0])

	game.Stop()
	<-game.Done()
	assert.False(t, game.Action(MoveRight), "actions are rejected once the game is done")
}

func TestGameLevelUp(t *testing.T) {
	game, ticker := NewTestGame(I, WithRand(FixedRand{}))
	game.session.scoring.Lines = 9
	game.session.field.Lock(L, fillRow(game.session.field, 19, 3, 4, 5, 6)...)
	SetPiece(game.session, Piece{Shape: I, X: 3, Y: 18})
	game.Start()
	defer game.Stop()

	ticker.Tick()
	ticker.Tick()
	Flush(game)
	assert.Equal(t, 2, game.Read().Level)
	assert.Equal(t, 2, ticker.Resets())
	assert.Equal(t, BaseInterval-LevelStep, ticker.Interval())
}

func TestGameOver(t *testing.T) {
	game, ticker := NewTestGame(O, WithRand(FixedRand{}))
	game.session.field.Lock(J, Cell{3, 0}, Cell{4, 0}, Cell{5, 0})
	SetPiece(game.session, Piece{Shape: O, X: 0, Y: 18})
	sub, cancel := game.Subscribe()
	defer cancel()
	game.Start()

	ticker.Tick()
	ticker.Tick()
	<-game.Done()

	assert.True(t, ticker.IsStop())
	last := drain(t, game.Updates())
	assert.Equal(t, GameOver, last.State)
	assert.Equal(t, GameOver, drain(t, sub).State)
	assert.False(t, game.Action(MoveLeft))

	late, _ := game.Subscribe()
	assert.Equal(t, GameOver, drain(t, late).State)
}

func TestSubscribe(t *testing.T) {
	game, ticker := NewTestGame(J)
	sub, cancel := game.Subscribe()
	game.Start()
	defer game.Stop()

	_, ok := next(t, sub)
	require.True(t, ok)
	cancel()
	_, ok = next(t, sub)
	assert.False(t, ok, "cancelled subscription is closed")
	cancel()

	// slow readers only get the latest snapshot.
	ticker.Tick()
	ticker.Tick()
	Flush(game)
	var last Snapshot
	for range 2 {
		select {
		case last = <-game.Updates():
		default:
		}
	}
	assert.Equal(t, Cell{3, 1}, last.Piece[0])
}
