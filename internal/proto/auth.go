// Package proto describes the authkeeper.v1.AuthService wire contract. The
// service exchanges google.protobuf.Struct messages, so it needs no generated
// code; this package plays the role of the generated stubs for both sides.
package proto

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "authkeeper.v1.AuthService"

// Full method names, as seen by interceptors.
const (
	AuthService_RegisterUser_FullMethodName     = "/" + ServiceName + "/RegisterUser"
	AuthService_AuthenticateUser_FullMethodName = "/" + ServiceName + "/AuthenticateUser"
	AuthService_WhoAmI_FullMethodName           = "/" + ServiceName + "/WhoAmI"
	AuthService_Ping_FullMethodName             = "/" + ServiceName + "/Ping"
)

// Message field names.
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldID            = "id"
	FieldIsAdmin       = "is_admin"
	FieldIsActive      = "is_active"
	FieldEmailVerified = "email_verified"
	FieldLastLogin     = "last_login"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"
	FieldAccessToken   = "access_token"
	FieldTokenType     = "token_type"
	FieldExpiresAt     = "expires_at"
	FieldStatus        = "status"
)

// ErrorDomain is the ErrorInfo domain attached to field-level failures.
const ErrorDomain = "authkeeper"

// AuthServiceServer is the server API for AuthService.
type AuthServiceServer interface {
	RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AuthenticateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	WhoAmI(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AuthServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthService_ServiceDesc is the grpc.ServiceDesc for AuthService.
var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterUser", Handler: unaryHandler(AuthService_RegisterUser_FullMethodName, AuthServiceServer.RegisterUser)},
		{MethodName: "AuthenticateUser", Handler: unaryHandler(AuthService_AuthenticateUser_FullMethodName, AuthServiceServer.AuthenticateUser)},
		{MethodName: "WhoAmI", Handler: unaryHandler(AuthService_WhoAmI_FullMethodName, AuthServiceServer.WhoAmI)},
		{MethodName: "Ping", Handler: unaryHandler(AuthService_Ping_FullMethodName, AuthServiceServer.Ping)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	AuthenticateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	WhoAmI(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc}
}

func (c *authServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuthService_RegisterUser_FullMethodName, in, opts...)
}

func (c *authServiceClient) AuthenticateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuthService_AuthenticateUser_FullMethodName, in, opts...)
}

func (c *authServiceClient) WhoAmI(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuthService_WhoAmI_FullMethodName, in, opts...)
}

func (c *authServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuthService_Ping_FullMethodName, in, opts...)
}

// Empty returns a message with no fields.
func Empty() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}
}

// GetString returns the string field key of s, or "" when absent or not a
// string.
func GetString(s *structpb.Struct, key string) string {
	if v, ok := s.GetFields()[key]; ok {
		if sv, ok := v.GetKind().(*structpb.Value_StringValue); ok {
			return sv.StringValue
		}
	}
	return ""
}

// GetBool returns the bool field key of s, or false.
func GetBool(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

// GetInt64 returns the numeric field key of s truncated to int64.
func GetInt64(s *structpb.Struct, key string) int64 {
	return int64(s.GetFields()[key].GetNumberValue())
}

// GetTime parses an RFC 3339 string field. Absent fields yield the zero time.
func GetTime(s *structpb.Struct, key string) (time.Time, error) {
	raw := GetString(s, key)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", key, err)
	}
	return t, nil
}

// FormatTime renders t for the wire. The zero time is sent as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
