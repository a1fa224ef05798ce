// Package configurator is the single entry point a host view calls on
// every parameter change: it validates, composes geometry, derives the
// report and merges the carbon estimate.
package configurator

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/ChicagoDave/massing/pkg/analytics"
	"github.com/ChicagoDave/massing/pkg/carbon"
	"github.com/ChicagoDave/massing/pkg/cost"
	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/scene"
	"github.com/ChicagoDave/massing/pkg/spec"
	"github.com/ChicagoDave/massing/pkg/validation"
)

// ErrInvalidParameters is matched by every ParameterError.
var ErrInvalidParameters = errors.New("invalid building parameters")

// ParameterError reports parameters that failed validation.
type ParameterError struct {
	Report *validation.Report
}

func (e *ParameterError) Error() string {
	return e.Report.Err().Error()
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameters
}

// Result is everything the host needs to render one building.
type Result struct {
	Parameters spec.BuildingParameters `json:"parameters"`
	Dimensions massing.Dimensions      `json:"dimensions"`
	Solids     []massing.Solid         `json:"solids"`
	Scene      *scene.Graph            `json:"scene"`
	Quantities *analytics.Quantities   `json:"quantities"`
	Cost       *cost.Report            `json:"cost"`
	Carbon     carbon.Outcome          `json:"carbon"`
	Panel      []analytics.DataItem    `json:"panel"`
	Validation *validation.Report      `json:"validation"`

	Massing *massing.Massing `json:"-"`
}

// Configurator builds results from parameters. It holds only
// configuration and is safe for concurrent use.
type Configurator struct {
	name       string
	dimensions massing.Dimensions
	financing  cost.Financing
	estimator  *carbon.Estimator
	logger     *slog.Logger
}

// Option configures a Configurator.
type Option func(*Configurator)

// WithName sets the building name shown in scene metadata.
func WithName(name string) Option {
	return func(c *Configurator) { c.name = name }
}

// WithDimensions overrides the storey construction constants.
func WithDimensions(d massing.Dimensions) Option {
	return func(c *Configurator) { c.dimensions = d }
}

// WithFinancing sets the loan terms for the cost summary.
func WithFinancing(f cost.Financing) Option {
	return func(c *Configurator) { c.financing = f }
}

// WithEstimator sets the carbon estimator.
func WithEstimator(e *carbon.Estimator) Option {
	return func(c *Configurator) { c.estimator = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Configurator) { c.logger = l }
}

// New returns a configurator. Without WithEstimator, requests without
// a token are unavailable and requests with one fail as not configured.
func New(opts ...Option) *Configurator {
	c := &Configurator{
		dimensions: massing.DefaultDimensions(),
		financing:  cost.DefaultFinancing(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.estimator == nil {
		c.estimator = carbon.NewEstimator(nil, nil, carbon.WithLogger(c.logger))
	}
	return c
}

// Name returns the building name used in scene metadata.
func (c *Configurator) Name() string {
	return c.name
}

// Dimensions returns the storey constants in use.
func (c *Configurator) Dimensions() massing.Dimensions {
	return c.dimensions
}

// Compose validates p and returns its solid tree.
func (c *Configurator) Compose(p spec.BuildingParameters) (*massing.Massing, error) {
	if r := validation.ValidateParameters(p); !r.Valid {
		return nil, &ParameterError{Report: r}
	}
	return massing.Compose(p, c.dimensions), nil
}

// Validate runs every check on p. Analytical and geometry checks run
// only when the parameters themselves are valid.
func (c *Configurator) Validate(p spec.BuildingParameters) *validation.Report {
	report := validation.ValidateParameters(p)
	if !report.Valid {
		return report
	}
	m := massing.Compose(p, c.dimensions)
	_, analytical := analytics.Resolve(p, m)
	report.Merge(analytical)
	report.Merge(scene.ValidateGraph(scene.Assemble(c.name, m)))
	return report
}

// Estimate runs the carbon estimator for p using p.AccessToken.
func (c *Configurator) Estimate(ctx context.Context, p spec.BuildingParameters) carbon.Outcome {
	return c.estimator.Estimate(ctx, p.AccessToken, QueryFor(p))
}

// Build produces the full result for p. It fails only for invalid
// parameters; a failed carbon estimate is reported in the result.
func (c *Configurator) Build(ctx context.Context, p spec.BuildingParameters) (*Result, error) {
	report := validation.ValidateParameters(p)
	if !report.Valid {
		return nil, &ParameterError{Report: report}
	}

	// 1. Geometry
	m := massing.Compose(p, c.dimensions)
	graph := scene.Assemble(c.name, m)
	report.Merge(scene.ValidateGraph(graph))

	// 2. Quantities and cost
	q, analytical := analytics.Resolve(p, m)
	report.Merge(analytical)
	costReport := cost.Estimate(p, q, c.financing)

	// 3. Carbon, after geometry
	outcome := c.estimator.Estimate(ctx, p.AccessToken, QueryFor(p))

	panel := slices.Concat(
		analytics.CarbonItems(outcome),
		analytics.QuantityItems(q),
		costReport.Items(),
	)

	c.logger.DebugContext(ctx, "building composed",
		slog.Int("floors", m.FloorCount()),
		slog.Float64("gia_m2", q.GrossFloorArea),
		slog.String("carbon", string(outcome.Status)),
		slog.String("validation", report.Summary),
	)

	return &Result{
		Parameters: p,
		Dimensions: c.dimensions,
		Solids:     slices.Collect(m.Building.Solids()),
		Scene:      graph,
		Quantities: q,
		Cost:       costReport,
		Carbon:     outcome,
		Panel:      panel,
		Validation: report,
		Massing:    m,
	}, nil
}

// QueryFor maps parameters onto the carbon service query.
func QueryFor(p spec.BuildingParameters) carbon.Query {
	return carbon.Query{
		Typology:       p.Typology,
		GlazingRatio:   p.GlazingRatio,
		GrossFloorArea: analytics.GrossFloorArea(p),
		Materials:      p.MaterialChoice,
		Floors:         p.Floors,
	}
}
