package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	statusServiceName = "colony.daemon.v1.StatusService"
	getStatusMethod   = "/" + statusServiceName + "/GetStatus"
)

// StatusServiceServer answers read-only status queries against the running
// daemon. The request names a room; an empty name asks for every room.
type StatusServiceServer interface {
	GetStatus(ctx context.Context, room *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterStatusServiceServer registers srv on s
func RegisterStatusServiceServer(s grpc.ServiceRegistrar, srv StatusServiceServer) {
	s.RegisterService(&statusServiceDesc, srv)
}

var statusServiceDesc = grpc.ServiceDesc{
	ServiceName: statusServiceName,
	HandlerType: (*StatusServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler:    getStatusHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "colony/daemon/v1/status.proto",
}

func getStatusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatusServiceServer).GetStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getStatusMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatusServiceServer).GetStatus(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// statusServiceClient is the client stub for StatusService
type statusServiceClient struct {
	cc grpc.ClientConnInterface
}

func newStatusServiceClient(cc grpc.ClientConnInterface) *statusServiceClient {
	return &statusServiceClient{cc: cc}
}

func (c *statusServiceClient) GetStatus(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getStatusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
