package client

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AuthServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, "Bearer "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAuthClient connects to endpointURL. Extra dial options are appended
// after the defaults.
func NewAuthClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) Register(ctx context.Context, name, email, password string) (*models.Account, error) {
	req, err := structpb.NewStruct(map[string]any{
		pb.FieldName:     name,
		pb.FieldEmail:    email,
		pb.FieldPassword: password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.RegisterUser(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return accountFromStruct(resp)
}

// Login authenticates and keeps the returned token for later calls.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.Token, error) {
	req, err := structpb.NewStruct(map[string]any{
		pb.FieldEmail:    email,
		pb.FieldPassword: password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.AuthenticateUser(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	expiresAt, err := pb.GetTime(resp, pb.FieldExpiresAt)
	if err != nil {
		return nil, err
	}

	token := &models.Token{
		AccessToken: pb.GetString(resp, pb.FieldAccessToken),
		TokenType:   pb.GetString(resp, pb.FieldTokenType),
		ExpiresAt:   expiresAt,
	}
	if token.AccessToken == "" {
		return nil, errors.New("server returned an empty access token")
	}

	s.SetAccessToken(token.AccessToken)

	return token, nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*models.Account, error) {
	if s.AccessToken() == "" {
		return nil, ErrUnauthorized
	}

	resp, err := s.client.WhoAmI(ctx, pb.Empty())
	if err != nil {
		return nil, s.mapError(err)
	}

	return accountFromStruct(resp)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, pb.Empty())
	if err != nil {
		return s.mapError(err)
	}
	if pb.GetString(resp, pb.FieldStatus) != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func accountFromStruct(st *structpb.Struct) (*models.Account, error) {
	a := &models.Account{
		ID:            pb.GetInt64(st, pb.FieldID),
		Name:          pb.GetString(st, pb.FieldName),
		Email:         pb.GetString(st, pb.FieldEmail),
		IsAdmin:       pb.GetBool(st, pb.FieldIsAdmin),
		IsActive:      pb.GetBool(st, pb.FieldIsActive),
		EmailVerified: pb.GetBool(st, pb.FieldEmailVerified),
	}

	var err error
	if a.LastLogin, err = pb.GetTime(st, pb.FieldLastLogin); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = pb.GetTime(st, pb.FieldCreatedAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = pb.GetTime(st, pb.FieldUpdatedAt); err != nil {
		return nil, err
	}

	return a, nil
}
