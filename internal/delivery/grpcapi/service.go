package grpcapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-escrow-service/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Сервисы принимают и возвращают google.protobuf.Struct, поля запроса
// разбираются в json-структуры обработчиков.

type unaryMethod func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

type method struct {
	name string
	call unaryMethod
}

func serviceDesc(serviceName string, methods []method) grpc.ServiceDesc {
	desc := grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*any)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    serviceName,
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, methodDesc(serviceName, m))
	}
	return desc
}

func methodDesc(serviceName string, m method) grpc.MethodDesc {
	fullMethod := fmt.Sprintf("/%s/%s", serviceName, m.name)
	call := m.call
	return grpc.MethodDesc{
		MethodName: m.name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// unary связывает типизированный обработчик с Struct-транспортом
func unary[Req any](handle func(ctx context.Context, req *Req) (map[string]any, error)) unaryMethod {
	return func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
		req := new(Req)
		if err := decodeRequest(in, req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
		}
		out, err := handle(ctx, req)
		if err != nil {
			return nil, toStatus(err)
		}
		if out == nil {
			out = map[string]any{}
		}
		resp, err := structpb.NewStruct(out)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
		}
		return resp, nil
	}
}

func decodeRequest(in *structpb.Struct, out any) error {
	if in == nil || len(in.GetFields()) == 0 {
		return nil
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func callerFrom(ctx context.Context) (domain.Principal, error) {
	caller, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return caller, nil
}

type empty struct{}
