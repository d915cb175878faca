package grpc

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/CounterView/internal/models"
)

// mockPageDataServer implements PageDataServer for testing
type mockPageDataServer struct {
	loadCounterFunc func(ctx context.Context) (*structpb.Struct, error)
}

func (m *mockPageDataServer) LoadCounter(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if m.loadCounterFunc != nil {
		return m.loadCounterFunc(ctx)
	}
	return convertLoadResultToProto(models.Success{Counter: 1}.Result()), nil
}

// startServer serves srv on a random local port and returns a connected client
func startServer(t *testing.T, srv *grpc.Server) *grpc.ClientConn {
	t.Helper()

	lis, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewGRPCServer_ReturnsNonNil(t *testing.T) {
	srv := NewGRPCServer(&mockPageDataServer{})
	if srv == nil {
		t.Fatal("Expected non-nil gRPC server")
	}
}

func TestNewGRPCServer_HealthCheck(t *testing.T) {
	conn := startServer(t, NewGRPCServer(&mockPageDataServer{}))
	healthClient := grpc_health_v1.NewHealthClient(conn)

	for _, service := range []string{"", ServiceName} {
		resp, err := healthClient.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
		if err != nil {
			t.Fatalf("Health check for %q failed: %v", service, err)
		}
		if resp.Status != grpc_health_v1.HealthCheckResponse_SERVING {
			t.Errorf("Expected SERVING status for %q, got %v", service, resp.Status)
		}
	}
}

func TestNewGRPCServer_ReflectionListsService(t *testing.T) {
	conn := startServer(t, NewGRPCServer(&mockPageDataServer{}))

	reflectionClient := grpc_reflection_v1.NewServerReflectionClient(conn)
	stream, err := reflectionClient.ServerReflectionInfo(context.Background())
	if err != nil {
		t.Fatalf("Failed to create reflection stream: %v", err)
	}

	err = stream.Send(&grpc_reflection_v1.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1.ServerReflectionRequest_ListServices{
			ListServices: "",
		},
	})
	if err != nil {
		t.Fatalf("Failed to send reflection request: %v", err)
	}

	resp, err := stream.Recv()
	if err != nil {
		t.Fatalf("Failed to receive reflection response: %v", err)
	}

	listResp := resp.GetListServicesResponse()
	if listResp == nil {
		t.Fatal("Expected list services response")
	}

	found := false
	for _, svc := range listResp.Service {
		if svc.Name == ServiceName {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected %s to be registered", ServiceName)
	}
}

func TestNewGRPCServer_ReflectionDescribesService(t *testing.T) {
	conn := startServer(t, NewGRPCServer(&mockPageDataServer{}))

	stream, err := grpc_reflection_v1.NewServerReflectionClient(conn).ServerReflectionInfo(context.Background())
	if err != nil {
		t.Fatalf("Failed to create reflection stream: %v", err)
	}
	err = stream.Send(&grpc_reflection_v1.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: ServiceName,
		},
	})
	if err != nil {
		t.Fatalf("Failed to send reflection request: %v", err)
	}
	resp, err := stream.Recv()
	if err != nil {
		t.Fatalf("Failed to receive reflection response: %v", err)
	}
	if errResp := resp.GetErrorResponse(); errResp != nil {
		t.Fatalf("Expected file descriptor, got error %d: %s", errResp.ErrorCode, errResp.ErrorMessage)
	}

	files := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
	if len(files) == 0 {
		t.Fatal("Expected at least one file descriptor")
	}

	var described *descriptorpb.ServiceDescriptorProto
	for _, raw := range files {
		var file descriptorpb.FileDescriptorProto
		if err := proto.Unmarshal(raw, &file); err != nil {
			t.Fatalf("Failed to unmarshal file descriptor: %v", err)
		}
		if file.GetName() != protoFile {
			continue
		}
		for _, svc := range file.GetService() {
			if file.GetPackage()+"."+svc.GetName() == ServiceName {
				described = svc
			}
		}
	}
	if described == nil {
		t.Fatalf("Expected %s in %s", ServiceName, protoFile)
	}
	if len(described.GetMethod()) != 1 || described.GetMethod()[0].GetName() != "LoadCounter" {
		t.Errorf("Expected a single LoadCounter method, got %v", described.GetMethod())
	}
}

func TestNewGRPCServer_CalledMultipleTimes(t *testing.T) {
	// sync.Once must prevent double-registration panics
	srv1 := NewGRPCServer(&mockPageDataServer{})
	srv2 := NewGRPCServer(&mockPageDataServer{})

	if srv1 == nil || srv2 == nil {
		t.Fatal("Expected non-nil servers from multiple calls")
	}
}

func TestPageDataClient_RoundTrip(t *testing.T) {
	conn := startServer(t, NewGRPCServer(&mockPageDataServer{
		loadCounterFunc: func(ctx context.Context) (*structpb.Struct, error) {
			return convertLoadResultToProto(models.LoadResult{Counter: 42}), nil
		},
	}))

	result, err := NewPageDataClient(conn).LoadCounter(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != (models.LoadResult{Error: false, Counter: 42}) {
		t.Errorf("Expected {false 42}, got %+v", result)
	}
}
