package grpc

import (
	"context"
	"math"

	"github.com/dmitrijs2005/notekeeper/internal/server/dto"
	"google.golang.org/grpc"
)

const (
	ServiceName = "notekeeper.sync.v1.SyncService"

	PushMethod   = "/" + ServiceName + "/Push"
	PullMethod   = "/" + ServiceName + "/Pull"
	StatusMethod = "/" + ServiceName + "/Status"
)

// SyncServer is the server side of notekeeper.sync.v1.SyncService.
type SyncServer interface {
	Push(context.Context, *dto.PushRequest) (*dto.PushResponse, error)
	Pull(context.Context, *dto.PullRequest) (*dto.PullResponse, error)
	Status(context.Context, *dto.StatusRequest) (*dto.StatusResponse, error)
}

// SyncServiceDesc describes the service for grpc.Server.RegisterService.
// There is no .proto; requests and replies travel through the json codec.
var SyncServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Push", Handler: unaryHandler(PushMethod, SyncServer.Push)},
		{MethodName: "Pull", Handler: unaryHandler(PullMethod, SyncServer.Pull)},
		{MethodName: "Status", Handler: unaryHandler(StatusMethod, SyncServer.Status)},
	},
	Streams: []grpc.StreamDesc{},
}

func unaryHandler[Req, Resp any](fullMethod string, call func(SyncServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SyncServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SyncServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls SyncService over conn using the json codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Push(ctx context.Context, in *dto.PushRequest, opts ...grpc.CallOption) (*dto.PushResponse, error) {
	out := new(dto.PushResponse)
	if err := c.cc.Invoke(ctx, PushMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Pull(ctx context.Context, in *dto.PullRequest, opts ...grpc.CallOption) (*dto.PullResponse, error) {
	out := new(dto.PullResponse)
	if err := c.cc.Invoke(ctx, PullMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Status(ctx context.Context, in *dto.StatusRequest, opts ...grpc.CallOption) (*dto.StatusResponse, error) {
	out := new(dto.StatusResponse)
	if err := c.cc.Invoke(ctx, StatusMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// withCodec selects the json codec and lifts the 4 MiB default receive cap:
// a pull page is bounded by its note count, not by bytes.
func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{
		grpc.CallContentSubtype(codecName),
		grpc.MaxCallRecvMsgSize(math.MaxInt32),
	}, opts...)
}
