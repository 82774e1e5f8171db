package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "wealthflow.risk.v1.RiskSimulationService"

// Full method names
const (
	ListScenariosMethod        = "/" + ServiceName + "/ListScenarios"
	CreateCustomScenarioMethod = "/" + ServiceName + "/CreateCustomScenario"
	RunSimulationMethod        = "/" + ServiceName + "/RunSimulation"
	GetRunMethod               = "/" + ServiceName + "/GetRun"
)

// RiskSimulationServer is the server API for the risk simulation service.
// Every message is a google.protobuf.Struct carrying the JSON form of the domain types.
type RiskSimulationServer interface {
	ListScenarios(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateCustomScenario(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RunSimulation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterRiskSimulationServer registers srv on s
func RegisterRiskSimulationServer(s grpc.ServiceRegistrar, srv RiskSimulationServer) {
	s.RegisterService(&serviceDesc, srv)
}

func unaryHandler(method string, call func(RiskSimulationServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RiskSimulationServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RiskSimulationServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RiskSimulationServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListScenarios",
			Handler:    unaryHandler(ListScenariosMethod, RiskSimulationServer.ListScenarios),
		},
		{
			MethodName: "CreateCustomScenario",
			Handler:    unaryHandler(CreateCustomScenarioMethod, RiskSimulationServer.CreateCustomScenario),
		},
		{
			MethodName: "RunSimulation",
			Handler:    unaryHandler(RunSimulationMethod, RiskSimulationServer.RunSimulation),
		},
		{
			MethodName: "GetRun",
			Handler:    unaryHandler(GetRunMethod, RiskSimulationServer.GetRun),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wealthflow/risk/v1/risk.proto",
}

// Client is a thin client for the risk simulation service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListScenarios calls the ListScenarios RPC
func (c *Client) ListScenarios(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListScenariosMethod, in, opts...)
}

// CreateCustomScenario calls the CreateCustomScenario RPC
func (c *Client) CreateCustomScenario(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CreateCustomScenarioMethod, in, opts...)
}

// RunSimulation calls the RunSimulation RPC
func (c *Client) RunSimulation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, RunSimulationMethod, in, opts...)
}

// GetRun calls the GetRun RPC
func (c *Client) GetRun(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetRunMethod, in, opts...)
}
