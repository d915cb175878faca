package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/CounterView/internal/models"
)

// ServiceName is the fully qualified name of the page data service
const ServiceName = "counterview.v1.PageDataService"

const loadCounterMethod = "/" + ServiceName + "/LoadCounter"

// PageDataServer serves view data to the renderer. LoadCounter runs one load
// cycle per call and returns the flat {error, counter} shape as a Struct.
// The counter travels as a Struct number, so counters beyond ±2^53 are
// rejected with codes.OutOfRange instead of being rounded.
type PageDataServer interface {
	LoadCounter(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

var pageDataServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PageDataServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "LoadCounter",
			Handler:    loadCounterHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

// RegisterPageDataServer registers srv on s.
func RegisterPageDataServer(s grpc.ServiceRegistrar, srv PageDataServer) {
	s.RegisterService(&pageDataServiceDesc, srv)
}

func loadCounterHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageDataServer).LoadCounter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: loadCounterMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PageDataServer).LoadCounter(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// PageDataClient calls the page data service, for renderers written in Go.
type PageDataClient struct {
	cc grpc.ClientConnInterface
}

func NewPageDataClient(cc grpc.ClientConnInterface) *PageDataClient {
	return &PageDataClient{cc: cc}
}

// LoadCounter runs one remote load cycle and decodes the result.
func (c *PageDataClient) LoadCounter(ctx context.Context, opts ...grpc.CallOption) (models.LoadResult, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, loadCounterMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return models.LoadResult{}, err
	}
	return convertLoadResultFromProto(out)
}
