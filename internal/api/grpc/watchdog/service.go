package watchdog

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "watchdog.v1.WatchdogService"

	// ListAlarmsMethod is the full method name of ListAlarms.
	ListAlarmsMethod = "/" + ServiceName + "/ListAlarms"
	// GetStatsMethod is the full method name of GetStats.
	GetStatsMethod = "/" + ServiceName + "/GetStats"
)

// WatchdogServiceServer is the server API of the introspection service.
type WatchdogServiceServer interface {
	ListAlarms(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetStats(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes the introspection service for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WatchdogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListAlarms",
			Handler:    listAlarmsHandler,
		},
		{
			MethodName: "GetStats",
			Handler:    getStatsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "watchdog/v1/watchdog.proto",
}

// RegisterWatchdogServiceServer registers srv on s.
func RegisterWatchdogServiceServer(s grpc.ServiceRegistrar, srv WatchdogServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func listAlarmsHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(WatchdogServiceServer).ListAlarms(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ListAlarmsMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WatchdogServiceServer).ListAlarms(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

func getStatsHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(WatchdogServiceServer).GetStats(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetStatsMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WatchdogServiceServer).GetStats(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

// WatchdogServiceClient is the client API of the introspection service.
type WatchdogServiceClient interface {
	ListAlarms(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetStats(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type watchdogServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWatchdogServiceClient returns a client bound to cc.
//
//nolint:ireturn // Mirrors the shape of generated gRPC clients.
func NewWatchdogServiceClient(cc grpc.ClientConnInterface) WatchdogServiceClient {
	return &watchdogServiceClient{cc: cc}
}

// ListAlarms invokes the ListAlarms method.
func (c *watchdogServiceClient) ListAlarms(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListAlarmsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// GetStats invokes the GetStats method.
func (c *watchdogServiceClient) GetStats(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStatsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
