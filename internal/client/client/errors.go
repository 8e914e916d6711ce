package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// RequestError is a rejection of the request input, decoded from the status
// details the server attaches.
type RequestError struct {
	Code    codes.Code
	Message string
	Fields  []common.FieldError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

func (e *RequestError) Unwrap() error {
	switch e.Code {
	case codes.InvalidArgument:
		return common.ErrValidation
	case codes.AlreadyExists:
		return common.ErrConflict
	case codes.Unauthenticated:
		return common.ErrInvalidCredentials
	default:
		return nil
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	switch st.Code() {
	case codes.InvalidArgument, codes.AlreadyExists:
		return requestError(st)
	case codes.Unauthenticated:
		if fields := fieldErrors(st); len(fields) > 0 {
			return &RequestError{Code: st.Code(), Message: st.Message(), Fields: fields}
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func requestError(st *status.Status) *RequestError {
	return &RequestError{Code: st.Code(), Message: st.Message(), Fields: fieldErrors(st)}
}

// fieldErrors joins BadRequest violations with the ErrorInfo carrying the
// type tag of the same field.
func fieldErrors(st *status.Status) []common.FieldError {
	var (
		fields []common.FieldError
		types  = map[string]string{}
	)

	for _, d := range st.Details() {
		switch v := d.(type) {
		case *errdetails.BadRequest:
			for _, fv := range v.GetFieldViolations() {
				fields = append(fields, common.FieldError{Field: fv.GetField(), Msg: fv.GetDescription()})
			}
		case *errdetails.ErrorInfo:
			if v.GetDomain() == pb.ErrorDomain {
				types[v.GetMetadata()["field"]] = v.GetReason()
			}
		}
	}

	for i := range fields {
		fields[i].Type = types[fields[i].Field]
	}
	return fields
}
