// Package grpc exposes the account service over gRPC: registration,
// authentication, the caller's own profile and a health ping.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/validation"
	"google.golang.org/grpc"
)

// UserService is the account logic the handlers delegate to.
type UserService interface {
	Register(ctx context.Context, in validation.RegistrationInput) (*models.PublicAccount, error)
	Authenticate(ctx context.Context, in validation.LoginInput) (*models.Token, error)
	GetAccount(ctx context.Context, id int64) (*models.PublicAccount, error)
}

// TokenParser validates bearer tokens on protected methods.
type TokenParser interface {
	Parse(tokenString string) (*auth.Claims, error)
}

// RPCObserver records finished calls.
type RPCObserver interface {
	ObserveRPC(method, code string, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveRPC(string, string, time.Duration) {}

type GRPCServer struct {
	address string
	users   UserService
	tokens  TokenParser
	metrics RPCObserver
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, us UserService, tokens TokenParser, m RPCObserver) *GRPCServer {
	if m == nil {
		m = nopObserver{}
	}
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		tokens:  tokens,
		metrics: m,
	}
}

// NewServer builds a grpc.Server with the interceptor chain and the
// AuthService registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestInterceptor, s.accessTokenInterceptor))
	pb.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
