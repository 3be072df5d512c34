// Package server hosts games for remote players over gRPC. Every game runs
// on the server, clients only send actions and watch snapshots.
package server

import (
	"context"
	"log/slog"
	"sync"

	"tetrisengine/pb"
	"tetrisengine/tetris"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type Options struct {
	Logger *slog.Logger
	// Session options applied to every new game.
	Session []tetris.Option
	// NewGame overrides how games are built, tests use it to drive the
	// gravity ticker.
	NewGame func(id string) *tetris.Game
}

type Server struct {
	games   map[string]*tetris.Game
	newGame func(id string) *tetris.Game
	logger  *slog.Logger
	mu      sync.Mutex
}

var _ pb.TetrisServiceServer = (*Server)(nil)

func New(o *Options) *Server {
	if o == nil {
		o = &Options{}
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newGame := o.NewGame
	if newGame == nil {
		newGame = func(id string) *tetris.Game {
			return tetris.NewConfigurableGame(tetris.GameOptions{
				ID:      id,
				Logger:  logger,
				Session: o.Session,
			})
		}
	}
	return &Server{
		games:   make(map[string]*tetris.Game),
		newGame: newGame,
		logger:  logger,
	}
}

func (s *Server) NewGame(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
	id := uuid.New().String()
	g := s.newGame(id)

	s.mu.Lock()
	s.games[id] = g
	s.mu.Unlock()

	g.Start()
	go s.reap(id, g)
	s.logger.Info("game started", slog.String("game", id))
	return wrapperspb.String(id), nil
}

// reap forgets a game once it's over.
func (s *Server) reap(id string, g *tetris.Game) {
	<-g.Done()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.games[id] == g {
		delete(s.games, id)
	}
	s.logger.Debug("game removed", slog.String("game", id))
}

func (s *Server) Act(_ context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	id, a, err := pb.ParseActRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	g, err := s.game(id)
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(g.Action(a)), nil
}

func (s *Server) Watch(req *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	g, err := s.game(req.GetValue())
	if err != nil {
		return err
	}
	sub, cancel := g.Subscribe()
	defer cancel()

	// the first update is the current state of the game.
	if err := s.send(stream, g.Read()); err != nil {
		return err
	}
	for {
		select {
		case snap, ok := <-sub:
			if !ok {
				return nil
			}
			if err := s.send(stream, snap); err != nil {
				return err
			}
		case <-stream.Context().Done():
			s.logger.Debug("watch cancelled", slog.String("game", req.GetValue()))
			return status.FromContextError(stream.Context().Err()).Err()
		}
	}
}

func (s *Server) send(stream grpc.ServerStreamingServer[structpb.Struct], snap tetris.Snapshot) error {
	msg, err := pb.FromSnapshot(snap)
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	if err := stream.Send(msg); err != nil {
		s.logger.Error("failed to send snapshot", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *Server) EndGame(_ context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	id := req.GetValue()
	s.mu.Lock()
	g, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()
	if !ok {
		return nil, status.Errorf(codes.NotFound, "game %q not found", id)
	}
	g.Stop()
	<-g.Done()
	s.logger.Info("game ended", slog.String("game", id))
	return &emptypb.Empty{}, nil
}

func (s *Server) game(id string) (*tetris.Game, error) {
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "missing game id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "game %q not found", id)
	}
	return g, nil
}

// Len returns the number of running games.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// Close stops every running game.
func (s *Server) Close() {
	s.mu.Lock()
	games := s.games
	s.games = make(map[string]*tetris.Game)
	s.mu.Unlock()
	for _, g := range games {
		g.Stop()
	}
	for _, g := range games {
		<-g.Done()
	}
}
