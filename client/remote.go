package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"tetrisengine/pb"
	"tetrisengine/tetris"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const rpcTimeout = 2 * time.Second

// RemoteGame plays a game hosted by the server. It has the same surface as
// a local tetris.Game.
type RemoteGame struct {
	ID string

	client  pb.TetrisServiceClient
	conn    *grpc.ClientConn
	logger  *slog.Logger
	stream  grpc.ServerStreamingClient[structpb.Struct]
	ctx     context.Context
	cancel  context.CancelFunc
	updates chan tetris.Snapshot

	startOnce sync.Once
	stopOnce  sync.Once
}

// DialRemoteGame connects to addr and starts a new game there.
func DialRemoteGame(ctx context.Context, addr string, l *slog.Logger, opts ...grpc.DialOption) (*RemoteGame, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	r, err := NewRemoteGame(ctx, pb.NewTetrisServiceClient(conn), l)
	if err != nil {
		conn.Close() //nolint: errcheck
		return nil, err
	}
	r.conn = conn
	return r, nil
}

// NewRemoteGame asks the server for a new game and starts watching it.
func NewRemoteGame(ctx context.Context, c pb.TetrisServiceClient, l *slog.Logger) (*RemoteGame, error) {
	id, err := c.NewGame(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("unable to create a new game: %w", err)
	}
	wctx, cancel := context.WithCancel(context.Background())
	stream, err := c.Watch(wctx, id)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("unable to watch game %s: %w", id.GetValue(), err)
	}
	return &RemoteGame{
		ID:      id.GetValue(),
		client:  c,
		logger:  l.With(slog.String("game", id.GetValue())),
		stream:  stream,
		ctx:     wctx,
		cancel:  cancel,
		updates: make(chan tetris.Snapshot, 1),
	}, nil
}

func (r *RemoteGame) Start() {
	r.startOnce.Do(func() { go r.receive() })
}

func (r *RemoteGame) Updates() <-chan tetris.Snapshot { return r.updates }

func (r *RemoteGame) receive() {
	defer close(r.updates)
	for {
		msg, err := r.stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.logger.Debug("stream.Recv() closed with EOF")
				return
			}
			st, ok := status.FromError(err)
			if ok && st.Code() == codes.Canceled {
				r.logger.Debug("stream.Recv() closed with Cancel", slog.String("msg", st.Message()))
			} else {
				r.logger.Error("stream.Recv() unable to receive message", slog.String("error", err.Error()))
			}
			return
		}
		snap, err := pb.ToSnapshot(msg)
		if err != nil {
			r.logger.Error("unable to decode snapshot", slog.String("error", err.Error()))
			continue
		}
		select {
		case r.updates <- snap:
		case <-r.ctx.Done():
			return
		}
	}
}

// Action sends a to the server and reports whether the move was accepted.
func (r *RemoteGame) Action(a tetris.Action) bool {
	ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
	defer cancel()
	resp, err := r.client.Act(ctx, pb.ActRequest(r.ID, a))
	if err != nil {
		r.logger.Error("unable to send action", slog.String("action", string(a)), slog.String("error", err.Error()))
		return false
	}
	return resp.GetValue()
}

// Stop ends the game on the server and closes the connection.
func (r *RemoteGame) Stop() {
	r.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), rpcTimeout)
		defer cancel()
		if _, err := r.client.EndGame(ctx, wrapperspb.String(r.ID)); err != nil && status.Code(err) != codes.NotFound {
			r.logger.Error("unable to end game", slog.String("error", err.Error()))
		}
		r.cancel()
		// a game that never started still has to close its updates.
		r.startOnce.Do(func() { close(r.updates) })
		if r.conn != nil {
			if err := r.conn.Close(); err != nil {
				r.logger.Error("unable to close gRPC client", slog.String("error", err.Error()))
			}
		}
	})
}
