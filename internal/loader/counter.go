// Package loader produces the view data for the counter page.
//
// A CounterLoader runs one load cycle per call: it issues exactly one fetch to
// the counter endpoint and turns the outcome into a models.LoadResult. The
// only failure it models is an unsuccessful status, which becomes
// {error: true, counter: 0}.
//
// Transport failures and successful responses without a usable counter are
// not modeled. By default they are returned to the caller as
// *apperrors.ErrTransport and *apperrors.ErrMalformedBody with a zero
// LoadResult. WithHardenedFailures(true) turns both into the error result
// instead.
package loader

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/fallback"
	"github.com/rs/zerolog"

	"github.com/Belphemur/CounterView/internal/apperrors"
	"github.com/Belphemur/CounterView/internal/client"
	"github.com/Belphemur/CounterView/internal/config"
	"github.com/Belphemur/CounterView/internal/metrics"
	"github.com/Belphemur/CounterView/internal/models"
)

// ErrNilClient is returned when Load is called without a fetch capability.
var ErrNilClient = errors.New("loader: nil fetch capability")

// ErrNilResponse is the transport cause used when a fetch returns neither a
// response nor an error.
var ErrNilResponse = errors.New("loader: nil response")

// CounterLoader loads the counter for a page view. It holds no state between
// calls and is safe for concurrent use.
type CounterLoader struct {
	path     string
	harden   bool
	logger   zerolog.Logger
	fallback fallback.Fallback[models.LoadResult]
}

// Option configures a CounterLoader.
type Option func(*CounterLoader)

// WithPath overrides the fetched path. Defaults to /api/counter.
func WithPath(path string) Option {
	return func(l *CounterLoader) {
		if path != "" {
			l.path = path
		}
	}
}

// WithHardenedFailures converts transport and malformed-body failures into
// {error: true, counter: 0} instead of returning them.
func WithHardenedFailures(harden bool) Option {
	return func(l *CounterLoader) {
		l.harden = harden
	}
}

// WithLogger replaces the package logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *CounterLoader) {
		l.logger = logger
	}
}

// New creates a CounterLoader.
func New(opts ...Option) *CounterLoader {
	l := &CounterLoader{
		path:   config.DefaultCounterPath,
		logger: config.GetLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}

	l.fallback = fallback.NewBuilderWithResult(models.Failure{}.Result()).
		HandleIf(func(_ models.LoadResult, err error) bool {
			return isUnmodeled(err)
		}).
		Build()

	return l
}

// NewFromConfig creates a CounterLoader from the loader section of cfg.
func NewFromConfig(cfg *config.Config) *CounterLoader {
	return New(
		WithPath(cfg.Loader.Path),
		WithHardenedFailures(cfg.Loader.HardenFailures),
	)
}

// Path returns the path fetched on each load cycle.
func (l *CounterLoader) Path() string {
	return l.path
}

// Hardened reports whether unmodeled failures are converted into an error result.
func (l *CounterLoader) Hardened() bool {
	return l.harden
}

// Load runs one load cycle using fetch. It issues exactly one request and never retries.
//
// An unsuccessful status yields {error: true, counter: 0} and a nil error; the
// body is not decoded. A successful status yields {error: false, counter: N}
// where N is the decoded counter field.
func (l *CounterLoader) Load(ctx context.Context, fetch client.Client) (models.LoadResult, error) {
	if fetch == nil {
		return models.LoadResult{}, ErrNilClient
	}

	start := time.Now()
	defer func() {
		metrics.CounterLoadDuration.Observe(time.Since(start).Seconds())
	}()

	if !l.harden {
		return l.load(ctx, fetch)
	}

	// The fallback policy has no retry behind it: load still runs exactly once.
	return failsafe.Get(func() (models.LoadResult, error) {
		return l.load(ctx, fetch)
	}, l.fallback)
}

func (l *CounterLoader) load(ctx context.Context, fetch client.Client) (models.LoadResult, error) {
	outcome, err := l.fetchOutcome(ctx, fetch)
	if err != nil {
		return models.LoadResult{}, err
	}
	return outcome.Result(), nil
}

func (l *CounterLoader) fetchOutcome(ctx context.Context, fetch client.Client) (models.Outcome, error) {
	resp, err := fetch.Fetch(ctx, l.path)
	if err != nil {
		metrics.CounterLoadsTotal.WithLabelValues(metrics.OutcomeTransportError).Inc()
		l.logger.Error().Err(err).Str("path", l.path).Bool("hardened", l.harden).Msg("Counter fetch failed")
		return nil, apperrors.NewTransportError(l.path, err)
	}
	if resp == nil {
		metrics.CounterLoadsTotal.WithLabelValues(metrics.OutcomeTransportError).Inc()
		l.logger.Error().Str("path", l.path).Msg("Counter fetch returned no response")
		return nil, apperrors.NewTransportError(l.path, ErrNilResponse)
	}
	defer resp.Close()

	if !resp.OK() {
		unsuccessful := &apperrors.ErrUnsuccessfulResponse{URL: l.path, StatusCode: resp.StatusCode()}
		metrics.CounterLoadsTotal.WithLabelValues(metrics.OutcomeUnsuccessfulResponse).Inc()
		l.logger.Warn().Err(unsuccessful).Int("status", resp.StatusCode()).Msg("Counter endpoint returned an unsuccessful status")
		return models.Failure{}, nil
	}

	var body models.CounterBody
	if err := resp.JSON(&body); err != nil {
		return nil, l.malformed(apperrors.NewMalformedBodyError("decode failed", err))
	}
	if body.Counter == nil {
		return nil, l.malformed(apperrors.NewMalformedBodyError("missing counter field", nil))
	}

	metrics.CounterLoadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	counter := int64(*body.Counter)
	l.logger.Debug().Int64("counter", counter).Msg("Counter loaded")

	return models.Success{Counter: counter}, nil
}

func (l *CounterLoader) malformed(err *apperrors.ErrMalformedBody) error {
	metrics.CounterLoadsTotal.WithLabelValues(metrics.OutcomeMalformedBody).Inc()
	l.logger.Error().Err(err).Str("path", l.path).Bool("hardened", l.harden).Msg("Counter body is malformed")
	return err
}

// isUnmodeled reports whether err is one of the failures the default mode leaves unhandled.
func isUnmodeled(err error) bool {
	return errors.Is(err, &apperrors.ErrTransport{}) || errors.Is(err, &apperrors.ErrMalformedBody{})
}
