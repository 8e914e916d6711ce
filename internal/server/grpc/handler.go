package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) RegisterUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account, err := s.users.Register(ctx, validation.RegistrationInput{
		Name:     pb.GetString(req, pb.FieldName),
		Email:    pb.GetString(req, pb.FieldEmail),
		Password: pb.GetString(req, pb.FieldPassword),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return accountToStruct(account)
}

func (s *GRPCServer) AuthenticateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	token, err := s.users.Authenticate(ctx, validation.LoginInput{
		Email:    pb.GetString(req, pb.FieldEmail),
		Password: pb.GetString(req, pb.FieldPassword),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return newStruct(map[string]any{
		pb.FieldAccessToken: token.AccessToken,
		pb.FieldTokenType:   token.TokenType,
		pb.FieldExpiresAt:   pb.FormatTime(token.ExpiresAt),
	})
}

func (s *GRPCServer) WhoAmI(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	id, ok := AccountIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	account, err := s.users.GetAccount(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return accountToStruct(account)
}

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return newStruct(map[string]any{pb.FieldStatus: "OK"})
}

func accountToStruct(a *models.PublicAccount) (*structpb.Struct, error) {
	return newStruct(map[string]any{
		pb.FieldID:            float64(a.ID),
		pb.FieldName:          a.Name,
		pb.FieldEmail:         a.Email,
		pb.FieldIsAdmin:       a.IsAdmin,
		pb.FieldIsActive:      a.IsActive,
		pb.FieldEmailVerified: a.EmailVerified,
		pb.FieldLastLogin:     pb.FormatTime(a.LastLogin),
		pb.FieldCreatedAt:     pb.FormatTime(a.CreatedAt),
		pb.FieldUpdatedAt:     pb.FormatTime(a.UpdatedAt),
	})
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
