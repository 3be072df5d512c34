// Package client is the terminal front end: it reads the keyboard, drives a
// local or remote game and renders its snapshots.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tetrisengine/tetris"

	"github.com/eiannone/keyboard"
)

const connectTimeout = 5 * time.Second

type clientState int

const (
	lobby clientState = iota
	waiting
	playing
)

type state struct {
	current clientState
	game    tetrisGame
	closed  bool
	mu      sync.Mutex
}

func (s *state) get() (clientState, tetrisGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.game
}

func (s *state) set(c clientState, g tetrisGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
	s.game = g
}

// play switches to playing g unless the client is shutting down.
func (s *state) play(g tetrisGame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.current = playing
	s.game = g
	return true
}

// close returns the running game, if any, and refuses new ones.
func (s *state) close() tetrisGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.game
}

type tetrisGame interface {
	Start()
	Updates() <-chan tetris.Snapshot
	Action(tetris.Action) bool
	Stop()
}

type renderer interface {
	game(tetris.Snapshot)
	lobby(message)
	reset()
}

type Client struct {
	render  renderer
	options *Options
	logger  *slog.Logger
	kbCh    <-chan keyboard.KeyEvent
	state   *state
	wg      sync.WaitGroup

	local  func() tetrisGame
	online func(context.Context) (tetrisGame, error)
}

type Options struct {
	NoGhost bool
	Address string
	Name    string
	// Session options for local games.
	Session []tetris.Option
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	r, err := newRender(l, o.NoGhost, o.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return &Client{
		render:  r,
		options: o,
		logger:  l,
		kbCh:    kb,
		state:   &state{current: lobby},
		local: func() tetrisGame {
			return tetris.NewConfigurableGame(tetris.GameOptions{ID: "local", Logger: l, Session: o.Session})
		},
		online: func(ctx context.Context) (tetrisGame, error) {
			g, err := DialRemoteGame(ctx, o.Address, l)
			if err != nil {
				return nil, err
			}
			return g, nil
		},
	}, nil
}

// Start shows the lobby and blocks until the player quits.
func (c *Client) Start() {
	c.render.reset()
	c.render.lobby(defaultLobby())
	c.listenKB()
	if g := c.state.close(); g != nil {
		g.Stop()
	}
	c.wg.Wait()
}

// Close releases the keyboard.
func (c *Client) Close() {
	if err := keyboard.Close(); err != nil {
		c.logger.Error("unable to close keyboard", slog.String("error", err.Error()))
	}
}

func (c *Client) listenKB() {
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			return
		}
		current, g := c.state.get()
		switch current {
		case lobby:
			switch event.Rune {
			case 'p':
				c.play(c.local())
			case 'o':
				c.state.set(waiting, nil)
				c.render.lobby(connecting())
				c.wg.Add(1)
				go c.playOnline()
			case 'q':
				return
			}
		case waiting:
			continue
		case playing:
			if event.Key == keyboard.KeyEsc {
				g.Stop()
				continue
			}
			if a, ok := keyAction(event); ok {
				g.Action(a)
			}
		}
	}
}

// keyAction maps a key to a player action.
func keyAction(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'e':
		return tetris.RotateRight, true
	case event.Rune == 'q':
		return tetris.RotateLeft, true
	}
	return "", false
}

func (c *Client) play(g tetrisGame) {
	if !c.state.play(g) {
		g.Stop()
		return
	}
	c.render.reset()
	c.wg.Add(1)
	go c.listenTetris(g)
}

func (c *Client) listenTetris(g tetrisGame) {
	defer c.wg.Done()
	g.Start()
	var last tetris.Snapshot
	for u := range g.Updates() {
		c.render.game(u)
		last = u
	}
	g.Stop()
	c.state.set(lobby, nil)
	c.render.lobby(gameOver(last.Score))
	c.logger.Info("game finished",
		slog.Int("score", last.Score),
		slog.Int("lines", last.Lines),
		slog.Int("level", last.Level))
}

func (c *Client) playOnline() {
	defer c.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	g, err := c.online(ctx)
	if err != nil {
		c.logger.Error("unable to start online game", slog.String("error", err.Error()))
		c.state.set(lobby, nil)
		c.render.lobby(errorMessage())
		return
	}
	c.play(g)
}
