// Package carbon estimates the embodied carbon of a building through a
// remote service that issues short-lived API tokens in exchange for a
// developer token.
package carbon

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/ChicagoDave/massing/pkg/spec"
)

var (
	// ErrTokenExchange wraps failures of the developer token exchange.
	ErrTokenExchange = errors.New("token exchange failed")
	// ErrEstimateRequest wraps failures of the estimate request.
	ErrEstimateRequest = errors.New("estimate request failed")
	// ErrMalformedResponse marks a response that is not valid JSON or
	// lacks an expected field.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnauthorized marks a 401 or 403 from the service.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotConfigured is returned when a token is supplied but no
	// service client is available.
	ErrNotConfigured = errors.New("carbon service not configured")
)

// Status is the kind of estimation outcome.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusFailed      Status = "failed"
)

// Query is the building description sent to the service.
// GrossFloorArea is width*length*floors, computed by the caller.
type Query struct {
	Typology       spec.Typology       `json:"building_type"`
	GlazingRatio   float64             `json:"glazing_percentage"`
	GrossFloorArea float64             `json:"gross_internal_floor_area"`
	Materials      spec.MaterialChoice `json:"materials_type"`
	Floors         int                 `json:"stories"`
}

// Estimate is the service result, rounded to one decimal place.
type Estimate struct {
	CO2ePerSquareMeter float64 `json:"co2e_per_m2"`
	WarmingPotential   float64 `json:"warming_potential"`
}

// Outcome is what the estimator reports to its caller. Estimate is set
// only when Status is available; Reason only when it is failed.
type Outcome struct {
	Status   Status    `json:"status"`
	Estimate *Estimate `json:"estimate,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	Err      error     `json:"-"`
}

// Available reports whether the outcome carries an estimate.
func (o Outcome) Available() bool {
	return o.Status == StatusAvailable && o.Estimate != nil
}

// TokenIssuer exchanges a developer token for a short-lived API token.
type TokenIssuer interface {
	IssueToken(ctx context.Context, developerToken string) (string, error)
}

// EstimateFetcher retrieves an unrounded estimate using an API token.
type EstimateFetcher interface {
	FetchEstimate(ctx context.Context, apiToken string, q Query) (Estimate, error)
}

// Estimator runs the two-step exchange and turns every failure into a
// failed Outcome. It holds no per-request state and is safe for
// concurrent use.
type Estimator struct {
	tokens  TokenIssuer
	fetcher EstimateFetcher
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithLogger sets the logger used for outcome logging.
func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) { e.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(e *Estimator) { e.metrics = m }
}

// NewEstimator returns an estimator using the given steps. Either may
// be nil, in which case a token-bearing request fails with
// ErrNotConfigured.
func NewEstimator(tokens TokenIssuer, fetcher EstimateFetcher, opts ...Option) *Estimator {
	e := &Estimator{tokens: tokens, fetcher: fetcher}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// NewClientEstimator returns an estimator backed by a single HTTPClient
// for both steps.
func NewClientEstimator(c *HTTPClient, opts ...Option) *Estimator {
	if c == nil {
		return NewEstimator(nil, nil, opts...)
	}
	return NewEstimator(c, c, opts...)
}

// Estimate runs the exchange for q. An empty developer token gives an
// unavailable outcome without any network call.
func (e *Estimator) Estimate(ctx context.Context, developerToken string, q Query) Outcome {
	if developerToken == "" {
		e.record(StatusUnavailable)
		return Outcome{Status: StatusUnavailable}
	}
	if e.tokens == nil || e.fetcher == nil {
		return e.fail(ctx, ErrNotConfigured)
	}

	start := time.Now()
	apiToken, err := e.tokens.IssueToken(ctx, developerToken)
	e.observe("token", start)
	if err != nil {
		return e.fail(ctx, err)
	}

	start = time.Now()
	raw, err := e.fetcher.FetchEstimate(ctx, apiToken, q)
	e.observe("estimate", start)
	if err != nil {
		return e.fail(ctx, err)
	}

	est := Estimate{
		CO2ePerSquareMeter: Round1(raw.CO2ePerSquareMeter),
		WarmingPotential:   Round1(raw.WarmingPotential),
	}
	e.record(StatusAvailable)
	e.logger.DebugContext(ctx, "carbon estimate available",
		slog.Float64("co2e_per_m2", est.CO2ePerSquareMeter),
		slog.Float64("warming_potential", est.WarmingPotential),
	)
	return Outcome{Status: StatusAvailable, Estimate: &est}
}

func (e *Estimator) fail(ctx context.Context, err error) Outcome {
	e.record(StatusFailed)
	e.logger.WarnContext(ctx, "carbon estimate failed", slog.String("error", err.Error()))
	return Outcome{Status: StatusFailed, Reason: err.Error(), Err: err}
}

func (e *Estimator) record(s Status) {
	if e.metrics != nil {
		e.metrics.IncEstimates(s)
	}
}

func (e *Estimator) observe(step string, start time.Time) {
	if e.metrics != nil {
		e.metrics.ObserveRequest(step, time.Since(start).Seconds())
	}
}

// Round1 rounds v to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
