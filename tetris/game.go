package tetris

import (
	"log/slog"
	"sync"
	"time"
)

// Ticker drives gravity. Game resets it on level-up and stops it once the
// game is over.
type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

type actionRequest struct {
	action Action
	respCh chan bool
}

// Game drives a Session in real time. A single goroutine owns the session:
// gravity ticks and player actions are processed one at a time, each one
// running to completion before the next.
type Game struct {
	ID string

	session  *Session
	ticker   Ticker
	logger   *slog.Logger
	actionCh chan actionRequest
	stopCh   chan struct{}
	doneCh   chan struct{}
	updates  <-chan Snapshot

	startOnce sync.Once
	stopOnce  sync.Once

	mu   sync.Mutex
	subs map[chan Snapshot]struct{}
	last Snapshot
	done bool
}

// GameOptions configures a Game. The zero value is a game with a real
// ticker, default rules and a discarded log.
type GameOptions struct {
	ID      string
	Ticker  Ticker
	Logger  *slog.Logger
	Session []Option
}

func NewGame() *Game {
	return NewConfigurableGame(GameOptions{})
}

func NewConfigurableGame(o GameOptions) *Game {
	s := NewSession(o.Session...)
	if o.Ticker == nil {
		o.Ticker = newWrappedTicker(s.Interval())
		o.Ticker.Stop()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	g := &Game{
		ID:       o.ID,
		session:  s,
		ticker:   o.Ticker,
		logger:   o.Logger.With(slog.String("game", o.ID)),
		actionCh: make(chan actionRequest),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		subs:     make(map[chan Snapshot]struct{}),
		last:     s.Snapshot(),
	}
	g.updates, _ = g.Subscribe()
	return g
}

// Start runs the game loop in its own goroutine. Calling it again is a no-op.
func (g *Game) Start() {
	g.startOnce.Do(func() {
		g.publish(g.session.Snapshot())
		go g.listen()
	})
}

// Stop ends the game loop. It's safe to call more than once, before Start
// and after the game is over.
func (g *Game) Stop() {
	g.stopOnce.Do(func() { close(g.stopCh) })
	// a game that never started still has to release its subscribers.
	g.startOnce.Do(func() { go g.listen() })
}

// Done is closed when the game loop has returned.
func (g *Game) Done() <-chan struct{} { return g.doneCh }

// Updates returns the game's default subscription.
func (g *Game) Updates() <-chan Snapshot { return g.updates }

// Action sends a player action to the game and reports whether it was
// accepted. It blocks until the game loop has processed it, so it must
// follow Start, and returns false once the game is over.
func (g *Game) Action(a Action) bool {
	req := actionRequest{action: a, respCh: make(chan bool, 1)}
	select {
	case g.actionCh <- req:
	case <-g.doneCh:
		return false
	}
	select {
	case ok := <-req.respCh:
		return ok
	case <-g.doneCh:
		return false
	}
}

// Read returns the last published snapshot of the game.
func (g *Game) Read() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Subscribe returns a channel receiving a snapshot after every change. Only
// the latest snapshot is kept for a slow reader. The channel is closed when
// the game ends or when cancel is called.
func (g *Game) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		ch <- g.last
		close(ch)
		return ch, func() {}
	}
	g.subs[ch] = struct{}{}
	return ch, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.subs[ch]; ok {
			delete(g.subs, ch)
			close(ch)
		}
	}
}

func (g *Game) listen() {
	defer g.finish()
	interval := g.session.Interval()
	g.ticker.Reset(interval)
	for {
		select {
		case <-g.ticker.C():
			prev := g.session.State()
			step := g.session.Tick()
			g.log(step)
			if step.GameOver {
				return
			}
			if i := g.session.Interval(); i != interval {
				// level up: reschedule gravity at the new speed.
				interval = i
				g.ticker.Reset(interval)
			}
			// grounding changes only the state, which is still news.
			if !step.Moved && !step.Locked && g.session.State() == prev {
				continue
			}
		case req := <-g.actionCh:
			ok := g.session.Do(req.action)
			req.respCh <- ok
			if !ok {
				continue
			}
		case <-g.stopCh:
			g.logger.Debug("game stopped")
			return
		}
		g.publish(g.session.Snapshot())
	}
}

func (g *Game) log(step Step) {
	if step.Locked {
		g.logger.Debug("tetromino locked", slog.Int("cleared", step.Cleared), slog.Int("score", g.session.Score()))
	}
	if step.LevelUp {
		g.logger.Info("level up", slog.Int("level", g.session.Level()), slog.Duration("interval", g.session.Interval()))
	}
	if step.GameOver {
		g.logger.Info("game over",
			slog.Int("score", g.session.Score()),
			slog.Int("lines", g.session.Lines()),
			slog.Int("level", g.session.Level()))
	}
}

// finish stops gravity and hands the final snapshot to every subscriber.
func (g *Game) finish() {
	g.ticker.Stop()
	final := g.session.Snapshot()
	g.mu.Lock()
	g.last = final
	g.done = true
	for ch := range g.subs {
		replace(ch, final)
		close(ch)
	}
	clear(g.subs)
	g.mu.Unlock()
	close(g.doneCh)
}

func (g *Game) publish(s Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = s
	for ch := range g.subs {
		replace(ch, s)
	}
}

// replace sends s, dropping the pending snapshot if the reader is behind.
// Only the game loop sends, so there is always room after the drain.
func replace(ch chan Snapshot, s Snapshot) {
	select {
	case ch <- s:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}
