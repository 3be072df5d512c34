// Package pb describes the remote play gRPC service. Messages are protobuf
// well-known types so the service needs no generated code: game IDs travel
// as StringValue, actions and snapshots as Struct.
package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "tetris.TetrisService"

	NewGameFullMethodName = "/" + ServiceName + "/NewGame"
	ActFullMethodName     = "/" + ServiceName + "/Act"
	WatchFullMethodName   = "/" + ServiceName + "/Watch"
	EndGameFullMethodName = "/" + ServiceName + "/EndGame"
)

// Keys of the Act request Struct.
const (
	GameIDKey = "game_id"
	ActionKey = "action"
)

// TetrisServiceServer is the server API for the remote play service.
type TetrisServiceServer interface {
	// NewGame starts a game and returns its ID.
	NewGame(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	// Act applies an action and reports whether it was accepted.
	Act(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	// Watch streams the game's snapshots until it's over.
	Watch(*wrapperspb.StringValue, grpc.ServerStreamingServer[structpb.Struct]) error
	// EndGame stops a game and forgets it.
	EndGame(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
}

func RegisterTetrisServiceServer(s grpc.ServiceRegistrar, srv TetrisServiceServer) {
	s.RegisterService(&TetrisService_ServiceDesc, srv)
}

func _TetrisService_NewGame_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TetrisServiceServer).NewGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NewGameFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TetrisServiceServer).NewGame(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _TetrisService_Act_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TetrisServiceServer).Act(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ActFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TetrisServiceServer).Act(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _TetrisService_EndGame_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TetrisServiceServer).EndGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: EndGameFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TetrisServiceServer).EndGame(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _TetrisService_Watch_Handler(srv any, stream grpc.ServerStream) error {
	m := new(wrapperspb.StringValue)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(TetrisServiceServer).Watch(m, &grpc.GenericServerStream[wrapperspb.StringValue, structpb.Struct]{ServerStream: stream})
}

// TetrisService_ServiceDesc is the grpc.ServiceDesc for the remote play
// service, written the way protoc-gen-go-grpc would generate it.
var TetrisService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TetrisServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "NewGame", Handler: _TetrisService_NewGame_Handler},
		{MethodName: "Act", Handler: _TetrisService_Act_Handler},
		{MethodName: "EndGame", Handler: _TetrisService_EndGame_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: _TetrisService_Watch_Handler, ServerStreams: true},
	},
	Metadata: "tetris.proto",
}

// TetrisServiceClient is the client API for the remote play service.
type TetrisServiceClient interface {
	NewGame(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Act(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error)
	EndGame(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type tetrisServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTetrisServiceClient(cc grpc.ClientConnInterface) TetrisServiceClient {
	return &tetrisServiceClient{cc}
}

func (c *tetrisServiceClient) NewGame(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, NewGameFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tetrisServiceClient) Act(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, ActFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tetrisServiceClient) EndGame(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, EndGameFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tetrisServiceClient) Watch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[structpb.Struct], error) {
	stream, err := c.cc.NewStream(ctx, &TetrisService_ServiceDesc.Streams[0], WatchFullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.StringValue, structpb.Struct]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
