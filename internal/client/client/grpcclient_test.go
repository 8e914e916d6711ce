package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	// inputs captured
	lastRegisterReq *structpb.Struct
	lastLoginReq    *structpb.Struct
	whoAmICalls     int

	// outputs preset
	registerResp *structpb.Struct
	registerErr  error

	loginResp *structpb.Struct
	loginErr  error

	whoAmIResp *structpb.Struct
	whoAmIErr  error

	pingResp *structpb.Struct
	pingErr  error
}

func (f *fakePB) RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastRegisterReq = in
	return f.registerResp, f.registerErr
}
func (f *fakePB) AuthenticateUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastLoginReq = in
	return f.loginResp, f.loginErr
}
func (f *fakePB) WhoAmI(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.whoAmICalls++
	return f.whoAmIResp, f.whoAmIErr
}
func (f *fakePB) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return f.pingResp, f.pingErr
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func accountStruct(t *testing.T) *structpb.Struct {
	return mustStruct(t, map[string]any{
		pb.FieldID:            float64(7),
		pb.FieldName:          "alice",
		pb.FieldEmail:         "alice@example.com",
		pb.FieldIsAdmin:       false,
		pb.FieldIsActive:      true,
		pb.FieldEmailVerified: false,
		pb.FieldLastLogin:     pb.FormatTime(created),
		pb.FieldCreatedAt:     pb.FormatTime(created),
		pb.FieldUpdatedAt:     pb.FormatTime(created),
	})
}

func statusWithFields(t *testing.T, code codes.Code, msg string, fields ...common.FieldError) error {
	t.Helper()
	br := &errdetails.BadRequest{}
	for _, f := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{Field: f.Field, Description: f.Msg})
	}
	st, err := status.New(code, msg).WithDetails(br)
	require.NoError(t, err)
	for _, f := range fields {
		st, err = st.WithDetails(&errdetails.ErrorInfo{Reason: f.Type, Domain: pb.ErrorDomain, Metadata: map[string]string{"field": f.Field}})
		require.NoError(t, err)
	}
	return st.Err()
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_AttachesBearerToken(t *testing.T) {
	c := &GRPCClient{}
	c.SetAccessToken("A1")

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Equal(t, []string{"Bearer A1"}, md.Get(common.AuthorizationHeaderName))
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.NoError(t, err)
}

func TestInterceptor_ReplacesExistingHeader(t *testing.T) {
	c := &GRPCClient{}
	c.SetAccessToken("A2")
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AuthorizationHeaderName, "Bearer stale", "x-request-id", "r1")

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Equal(t, []string{"Bearer A2"}, md.Get(common.AuthorizationHeaderName))
		require.Equal(t, []string{"r1"}, md.Get("x-request-id"))
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(ctx, "/svc/Method", nil, nil, nil, invoker))
}

func TestInterceptor_NoTokenNoHeader(t *testing.T) {
	c := &GRPCClient{}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AuthorizationHeaderName))
		return status.Error(codes.Internal, "boom")
	}

	err := c.accessTokenInterceptor(context.Background(), "/svc/Method", nil, nil, nil, invoker)
	require.Error(t, err)
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.ErrorIs(t, c.mapError(status.Error(codes.Unauthenticated, "missing token")), ErrUnauthorized)
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.PermissionDenied, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.ErrorIs(t, c.mapError(status.Error(codes.NotFound, "account not found")), common.ErrorNotFound)
	require.ErrorContains(t, c.mapError(status.Error(codes.Internal, "internal error")), "rpc error:")
	require.ErrorContains(t, c.mapError(errors.New("plain")), "rpc error:")
	require.NoError(t, c.mapError(nil))
}

func TestMapError_DecodesFieldDetails(t *testing.T) {
	c := &GRPCClient{}

	err := c.mapError(statusWithFields(t, codes.InvalidArgument, "validation error",
		common.FieldError{Field: "name", Msg: "ensure this value has at least 4 characters", Type: common.TypeMinLength},
		common.FieldError{Field: "password", Msg: "too weak", Type: common.TypePasswordStrength},
	))

	var re *RequestError
	require.ErrorAs(t, err, &re)
	require.ErrorIs(t, err, common.ErrValidation)
	require.Equal(t, []common.FieldError{
		{Field: "name", Msg: "ensure this value has at least 4 characters", Type: common.TypeMinLength},
		{Field: "password", Msg: "too weak", Type: common.TypePasswordStrength},
	}, re.Fields)
	require.Contains(t, err.Error(), "name: ensure this value has at least 4 characters")
}

func TestMapError_ConflictAndInvalidCredentials(t *testing.T) {
	c := &GRPCClient{}

	conflict := c.mapError(statusWithFields(t, codes.AlreadyExists, "Email already exists",
		common.FieldError{Field: "email", Msg: "Email already exists", Type: common.TypeConflict}))
	require.ErrorIs(t, conflict, common.ErrConflict)

	creds := c.mapError(statusWithFields(t, codes.Unauthenticated, "Invalid email or password",
		common.InvalidCredentialsDetail()))
	require.ErrorIs(t, creds, common.ErrInvalidCredentials)
	require.NotErrorIs(t, creds, ErrUnauthorized)
}

/*************
 * RPC wrappers
 *************/

func TestPing(t *testing.T) {
	c := &GRPCClient{client: &fakePB{pingResp: mustStruct(t, map[string]any{pb.FieldStatus: "OK"})}}
	require.NoError(t, c.Ping(context.Background()))

	c = &GRPCClient{client: &fakePB{pingResp: pb.Empty()}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	c = &GRPCClient{client: &fakePB{pingErr: status.Error(codes.Unavailable, "down")}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestRegister(t *testing.T) {
	f := &fakePB{registerResp: accountStruct(t)}
	c := &GRPCClient{client: f}

	a, err := c.Register(context.Background(), "alice", "alice@example.com", "Abcdef1!")
	require.NoError(t, err)
	require.Equal(t, int64(7), a.ID)
	require.Equal(t, "alice", a.Name)
	require.True(t, a.IsActive)
	require.True(t, a.CreatedAt.Equal(created))

	require.Equal(t, "alice", pb.GetString(f.lastRegisterReq, pb.FieldName))
	require.Equal(t, "Abcdef1!", pb.GetString(f.lastRegisterReq, pb.FieldPassword))
}

func TestRegister_MapsError(t *testing.T) {
	c := &GRPCClient{client: &fakePB{registerErr: statusWithFields(t, codes.AlreadyExists, "Name already exists",
		common.FieldError{Field: "name", Msg: "Name already exists", Type: common.TypeConflict})}}

	_, err := c.Register(context.Background(), "alice", "alice@example.com", "Abcdef1!")
	require.ErrorIs(t, err, common.ErrConflict)
}

func TestLogin_StoresToken(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).UTC().Truncate(time.Second)
	f := &fakePB{loginResp: mustStruct(t, map[string]any{
		pb.FieldAccessToken: "T1",
		pb.FieldTokenType:   common.BearerTokenType,
		pb.FieldExpiresAt:   pb.FormatTime(exp),
	})}
	c := &GRPCClient{client: f}

	tok, err := c.Login(context.Background(), "alice@example.com", "Abcdef1!")
	require.NoError(t, err)
	require.Equal(t, "T1", tok.AccessToken)
	require.Equal(t, common.BearerTokenType, tok.TokenType)
	require.True(t, tok.ExpiresAt.Equal(exp))
	require.Equal(t, "T1", c.AccessToken())
	require.Equal(t, "alice@example.com", pb.GetString(f.lastLoginReq, pb.FieldEmail))
}

func TestLogin_Errors(t *testing.T) {
	c := &GRPCClient{client: &fakePB{loginResp: pb.Empty()}}
	_, err := c.Login(context.Background(), "alice@example.com", "Abcdef1!")
	require.ErrorContains(t, err, "empty access token")

	c = &GRPCClient{client: &fakePB{loginResp: mustStruct(t, map[string]any{
		pb.FieldAccessToken: "T1",
		pb.FieldExpiresAt:   "yesterday",
	})}}
	_, err = c.Login(context.Background(), "alice@example.com", "Abcdef1!")
	require.ErrorContains(t, err, pb.FieldExpiresAt)
	require.Empty(t, c.AccessToken())
}

func TestWhoAmI(t *testing.T) {
	f := &fakePB{whoAmIResp: accountStruct(t)}
	c := &GRPCClient{client: f}

	_, err := c.WhoAmI(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Zero(t, f.whoAmICalls, "no call without a token")

	c.SetAccessToken("T1")
	a, err := c.WhoAmI(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", a.Email)
	require.True(t, a.LastLogin.Equal(created))
}

func TestWhoAmI_ExpiredToken(t *testing.T) {
	c := &GRPCClient{client: &fakePB{whoAmIErr: status.Error(codes.Unauthenticated, "token expired")}}
	c.SetAccessToken("T1")

	_, err := c.WhoAmI(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorContains(t, err, "token expired")
}

func TestClose_NoConnection(t *testing.T) {
	require.NoError(t, (&GRPCClient{}).Close())
}

func TestNewAuthClient(t *testing.T) {
	c, err := NewAuthClient("passthrough:///127.0.0.1:1")
	require.NoError(t, err)
	require.NoError(t, c.Close())
}
