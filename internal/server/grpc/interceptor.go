package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeaderName is echoed back in response headers and accepted from
// callers that already have a correlation id.
const RequestIDHeaderName = "x-request-id"

const maxRequestIDLength = 128

type ctxKey string

const accountIDKey ctxKey = "accountID"

// protectedMethods require a valid bearer token.
var protectedMethods = map[string]struct{}{
	pb.AuthService_WhoAmI_FullMethodName: {},
}

// AccountIDFromContext returns the account id placed by the access token
// interceptor.
func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}

// requestInterceptor tags the call with a request id, scopes the logger to
// it and records the outcome.
func (s *GRPCServer) requestInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	requestID := firstMetadata(ctx, RequestIDHeaderName)
	if !validRequestID(requestID) {
		requestID = uuid.NewString()
	}

	logger := s.logger.With("request_id", requestID, "method", info.FullMethod)
	ctx = logging.NewContext(ctx, logger)
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeaderName, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	code := status.Code(err)
	s.metrics.ObserveRPC(info.FullMethod, code.String(), elapsed)
	logger.Debug(ctx, "request finished", "code", code.String(), "duration", elapsed)

	return resp, err
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if _, ok := protectedMethods[info.FullMethod]; !ok {
		return handler(ctx, req)
	}

	accessToken, err := bearerToken(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	claims, err := s.tokens.Parse(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, accountIDKey, claims.UserID)

	return handler(ctx, req)
}

// bearerToken extracts the token from "authorization: Bearer <token>".
func bearerToken(ctx context.Context) (string, error) {
	header := firstMetadata(ctx, common.AuthorizationHeaderName)
	if header == "" {
		return "", errors.New("missing token")
	}

	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, common.BearerTokenType) || token == "" {
		return "", errors.New("malformed authorization header")
	}

	return token, nil
}

// validRequestID accepts non-empty ids of at most maxRequestIDLength
// printable ASCII characters.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
