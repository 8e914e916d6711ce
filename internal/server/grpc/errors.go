package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
)

// toStatus maps a service error onto a gRPC status. Field-level failures
// carry a BadRequest detail plus one ErrorInfo per field holding the type
// tag. Anything unrecognised is logged and hidden behind Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if ve, ok := common.IsValidation(err); ok {
		return fieldStatus(codes.InvalidArgument, common.ErrValidation.Error(), ve.Fields)
	}

	if ce, ok := common.IsConflict(err); ok {
		d := ce.Detail()
		return fieldStatus(codes.AlreadyExists, d.Msg, []common.FieldError{d})
	}

	if errors.Is(err, common.ErrInvalidCredentials) {
		d := common.InvalidCredentialsDetail()
		return fieldStatus(codes.Unauthenticated, d.Msg, []common.FieldError{d})
	}

	if errors.Is(err, common.ErrorNotFound) {
		return status.Error(codes.NotFound, "account not found")
	}

	logging.FromContext(ctx, s.logger).Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func fieldStatus(code codes.Code, msg string, fields []common.FieldError) error {
	st := status.New(code, msg)

	br := &errdetails.BadRequest{}
	details := make([]protoadapt.MessageV1, 0, len(fields)+1)
	for _, f := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       f.Field,
			Description: f.Msg,
		})
	}
	details = append(details, br)
	for _, f := range fields {
		details = append(details, &errdetails.ErrorInfo{
			Reason:   f.Type,
			Domain:   pb.ErrorDomain,
			Metadata: map[string]string{"field": f.Field},
		})
	}

	withDetails, err := st.WithDetails(details...)
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}
