package combat

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "combat.v1.CombatService"

// Full method names.
const (
	OpenMatchFullMethodName    = "/" + ServiceName + "/OpenMatch"
	DispatchFullMethodName     = "/" + ServiceName + "/Dispatch"
	BeginTurnFullMethodName    = "/" + ServiceName + "/BeginTurn"
	GetCooldownsFullMethodName = "/" + ServiceName + "/GetCooldowns"
	GetUnitFullMethodName      = "/" + ServiceName + "/GetUnit"
	ListEventsFullMethodName   = "/" + ServiceName + "/ListEvents"
	CloseMatchFullMethodName   = "/" + ServiceName + "/CloseMatch"
)

// CombatServiceServer is the server API. Messages are free-form structs.
type CombatServiceServer interface {
	OpenMatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BeginTurn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCooldowns(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUnit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListEvents(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseMatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(CombatServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CombatServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CombatServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes CombatService for grpc.Server registration.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CombatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("OpenMatch", CombatServiceServer.OpenMatch),
		methodDesc("Dispatch", CombatServiceServer.Dispatch),
		methodDesc("BeginTurn", CombatServiceServer.BeginTurn),
		methodDesc("GetCooldowns", CombatServiceServer.GetCooldowns),
		methodDesc("GetUnit", CombatServiceServer.GetUnit),
		methodDesc("ListEvents", CombatServiceServer.ListEvents),
		methodDesc("CloseMatch", CombatServiceServer.CloseMatch),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "combat/v1/combat.proto",
}

// RegisterCombatServiceServer registers srv on s.
func RegisterCombatServiceServer(s grpc.ServiceRegistrar, srv CombatServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls CombatService over a connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenMatch calls CombatService.OpenMatch.
func (c *Client) OpenMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, OpenMatchFullMethodName, in, opts...)
}

// Dispatch calls CombatService.Dispatch.
func (c *Client) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, DispatchFullMethodName, in, opts...)
}

// BeginTurn calls CombatService.BeginTurn.
func (c *Client) BeginTurn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, BeginTurnFullMethodName, in, opts...)
}

// GetCooldowns calls CombatService.GetCooldowns.
func (c *Client) GetCooldowns(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetCooldownsFullMethodName, in, opts...)
}

// GetUnit calls CombatService.GetUnit.
func (c *Client) GetUnit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetUnitFullMethodName, in, opts...)
}

// ListEvents calls CombatService.ListEvents.
func (c *Client) ListEvents(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListEventsFullMethodName, in, opts...)
}

// CloseMatch calls CombatService.CloseMatch.
func (c *Client) CloseMatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CloseMatchFullMethodName, in, opts...)
}
