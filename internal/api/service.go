package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "tickerwatch.v1.SubscriptionService"

// Full method names.
const (
	MethodRegisterUser    = "/" + ServiceName + "/RegisterUser"
	MethodUpdateUser      = "/" + ServiceName + "/UpdateUser"
	MethodDeleteUser      = "/" + ServiceName + "/DeleteUser"
	MethodLoginUser       = "/" + ServiceName + "/LoginUser"
	MethodGetLatestValue  = "/" + ServiceName + "/GetLatestValue"
	MethodGetAverageValue = "/" + ServiceName + "/GetAverageValue"
)

// SubscriptionServiceServer is the server API.
type SubscriptionServiceServer interface {
	RegisterUser(context.Context, *RegisterUserRequest) (*MutationResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*MutationResponse, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*MutationResponse, error)
	LoginUser(context.Context, *LoginUserRequest) (*LoginUserResponse, error)
	GetLatestValue(context.Context, *GetLatestValueRequest) (*GetLatestValueResponse, error)
	GetAverageValue(context.Context, *GetAverageValueRequest) (*GetAverageValueResponse, error)
}

// RegisterSubscriptionServiceServer registers srv on s.
func RegisterSubscriptionServiceServer(s grpc.ServiceRegistrar, srv SubscriptionServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed method to a grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(SubscriptionServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SubscriptionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SubscriptionServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes SubscriptionService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SubscriptionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterUser",
			Handler:    unaryHandler(MethodRegisterUser, SubscriptionServiceServer.RegisterUser),
		},
		{
			MethodName: "UpdateUser",
			Handler:    unaryHandler(MethodUpdateUser, SubscriptionServiceServer.UpdateUser),
		},
		{
			MethodName: "DeleteUser",
			Handler:    unaryHandler(MethodDeleteUser, SubscriptionServiceServer.DeleteUser),
		},
		{
			MethodName: "LoginUser",
			Handler:    unaryHandler(MethodLoginUser, SubscriptionServiceServer.LoginUser),
		},
		{
			MethodName: "GetLatestValue",
			Handler:    unaryHandler(MethodGetLatestValue, SubscriptionServiceServer.GetLatestValue),
		},
		{
			MethodName: "GetAverageValue",
			Handler:    unaryHandler(MethodGetAverageValue, SubscriptionServiceServer.GetAverageValue),
		},
	},
	Streams:  []grpc.StreamDesc{},
}
