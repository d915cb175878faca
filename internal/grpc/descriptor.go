package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// protoFile is the descriptor path of the page data service.
const protoFile = "counterview/v1/page_data.proto"

// pageDataFile describes the page data service for reflection clients.
var pageDataFile protoreflect.FileDescriptor

func init() {
	fd, err := buildPageDataFile(protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(err)
	}
	pageDataFile = fd
}

// buildPageDataFile assembles the service descriptor against the well-known
// types found in resolver.
func buildPageDataFile(resolver protodesc.Resolver) (protoreflect.FileDescriptor, error) {
	empty := emptypb.File_google_protobuf_empty_proto
	structs := structpb.File_google_protobuf_struct_proto

	file := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoFile),
		Package:    proto.String("counterview.v1"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{empty.Path(), structs.Path()},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/Belphemur/CounterView/internal/grpc"),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("PageDataService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("LoadCounter"),
						InputType:  proto.String("." + string((&emptypb.Empty{}).ProtoReflect().Descriptor().FullName())),
						OutputType: proto.String("." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())),
					},
				},
			},
		},
	}

	fd, err := protodesc.NewFile(file, resolver)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", protoFile, err)
	}
	return fd, nil
}
