package reporting

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Belphemur/CounterView/internal/apperrors"
	"github.com/Belphemur/CounterView/internal/config"
)

// Reporter sends load failures the loader does not model to Sentry.
// A Reporter built with an empty DSN drops every event.
type Reporter struct {
	hub *sentry.Hub
}

// NewReporter creates a Reporter from the given client options.
func NewReporter(opts sentry.ClientOptions) (*Reporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &Reporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// NewReporterFromConfig creates a Reporter from the sentry section of cfg.
func NewReporterFromConfig(cfg *config.Config) (*Reporter, error) {
	return NewReporter(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
	})
}

// Report captures err with its failure kind as a tag. Nil errors are ignored.
func (r *Reporter) Report(err error) {
	if r == nil || err == nil {
		return
	}

	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("failure_kind", FailureKind(err))
		r.hub.CaptureException(err)
	})
}

// Flush waits for buffered events to be delivered.
func (r *Reporter) Flush(timeout time.Duration) bool {
	if r == nil {
		return true
	}
	return r.hub.Flush(timeout)
}

// FailureKind names the kind of load failure err represents.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, &apperrors.ErrTransport{}):
		return "transport"
	case errors.Is(err, &apperrors.ErrMalformedBody{}):
		return "malformed_body"
	case errors.Is(err, &apperrors.ErrUnsuccessfulResponse{}):
		return "unsuccessful_response"
	default:
		return "unknown"
	}
}
