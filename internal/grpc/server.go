package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/CounterView/internal/apperrors"
	"github.com/Belphemur/CounterView/internal/client"
	"github.com/Belphemur/CounterView/internal/config"
	"github.com/Belphemur/CounterView/internal/loader"
	"github.com/Belphemur/CounterView/internal/reporting"
)

// errorDomain is the ErrorInfo domain attached to load failures
const errorDomain = "counterview"

// ErrorInfo reasons for unmodeled load failures
const (
	ReasonTransportFailure = "TRANSPORT_FAILURE"
	ReasonMalformedBody    = "MALFORMED_BODY"
	ReasonLoadFailed       = "LOAD_FAILED"
	ReasonCounterRange     = "COUNTER_OUT_OF_RANGE"
)

// server implements the PageDataServer interface
type server struct {
	loader   *loader.CounterLoader
	fetch    client.Client
	reporter *reporting.Reporter
	logger   zerolog.Logger
}

// NewServer creates a page data server. Each LoadCounter call runs one load
// cycle through l using fetch. reporter may be nil.
func NewServer(l *loader.CounterLoader, fetch client.Client, reporter *reporting.Reporter) PageDataServer {
	return &server{
		loader:   l,
		fetch:    fetch,
		reporter: reporter,
		logger:   config.GetLogger(),
	}
}

// LoadCounter implements PageDataServer.LoadCounter
func (s *server) LoadCounter(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	s.logger.Debug().Str("path", s.loader.Path()).Msg("LoadCounter called")

	result, err := s.loader.Load(ctx, s.fetch)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load counter")
		s.reporter.Report(err)
		return nil, toStatusError(err)
	}

	if !counterFitsProto(result.Counter) {
		s.logger.Error().Int64("counter", result.Counter).Msg("Counter exceeds the exact range of a Struct number")
		return nil, withErrorInfo(status.New(codes.OutOfRange, fmt.Sprintf("counter %d exceeds ±2^53", result.Counter)), ReasonCounterRange)
	}

	s.logger.Debug().Bool("error", result.Error).Int64("counter", result.Counter).Msg("LoadCounter completed")
	return convertLoadResultToProto(result), nil
}

// toStatusError maps an unmodeled load failure to a gRPC status with an ErrorInfo detail.
func toStatusError(err error) error {
	code, reason := codes.Internal, ReasonLoadFailed
	switch {
	case errors.Is(err, &apperrors.ErrTransport{}):
		code, reason = codes.Unavailable, ReasonTransportFailure
	case errors.Is(err, &apperrors.ErrMalformedBody{}):
		code, reason = codes.DataLoss, ReasonMalformedBody
	}

	return withErrorInfo(status.New(code, err.Error()), reason)
}

// withErrorInfo attaches an ErrorInfo detail with reason to st.
func withErrorInfo(st *status.Status, reason string) error {
	detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: errorDomain,
	})
	if detailErr != nil {
		return st.Err()
	}
	return detailed.Err()
}
