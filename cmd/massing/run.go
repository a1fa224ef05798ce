package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ChicagoDave/massing/internal/config"
	"github.com/ChicagoDave/massing/internal/middleware"
	"github.com/ChicagoDave/massing/internal/server"
	"github.com/ChicagoDave/massing/internal/tracing"
	"github.com/ChicagoDave/massing/pkg/carbon"
	"github.com/ChicagoDave/massing/pkg/configurator"
	"github.com/ChicagoDave/massing/pkg/export"
	"github.com/ChicagoDave/massing/pkg/massing"
	"github.com/ChicagoDave/massing/pkg/spec"
)

const defaultName = "Building"

// app holds everything a command needs.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	registry     *prometheus.Registry
	configurator *configurator.Configurator
	params       spec.BuildingParameters
}

// newApp loads configuration and the optional project, applies
// --set overrides and wires the estimator.
func newApp(configPath string, args, overrides []string) (*app, error) {
	cfg, errs := config.Load(configPath)
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration: %w", errors.Join(errs...))
	}

	logger := middleware.NewLogger(cfg.Env)
	logger.Debug("configuration loaded", slog.Any("config", cfg.LogSummary()))

	name, params, dims := defaultName, spec.DefaultParameters(), massing.DefaultDimensions()
	if len(args) == 1 {
		project, err := spec.LoadProject(args[0])
		if err != nil {
			return nil, fmt.Errorf("loading project: %w", err)
		}
		params = project.Building
		dims = massing.DimensionsFrom(project.Massing)
		if project.Name != "" {
			name = project.Name
		}
	}

	params, err := applyOverrides(params, overrides)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics := carbon.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		return nil, err
	}

	estimatorOpts := []carbon.Option{carbon.WithLogger(logger), carbon.WithMetrics(metrics)}
	estimator := carbon.NewEstimator(nil, nil, estimatorOpts...)
	if cfg.CarbonConfigured() {
		client, err := carbon.NewHTTPClient(cfg.CarbonBaseURL, cfg.CarbonTimeout)
		if err != nil {
			return nil, err
		}
		estimator = carbon.NewClientEstimator(client, estimatorOpts...)
	}

	c := configurator.New(
		configurator.WithName(name),
		configurator.WithDimensions(dims),
		configurator.WithEstimator(estimator),
		configurator.WithLogger(logger),
	)

	return &app{
		cfg:          cfg,
		logger:       logger,
		registry:     registry,
		configurator: c,
		params:       params.WithAccessToken(cfg.CarbonDeveloperToken),
	}, nil
}

// applyOverrides parses key=value pairs into query values and applies
// them on top of p.
func applyOverrides(p spec.BuildingParameters, overrides []string) (spec.BuildingParameters, error) {
	v := url.Values{}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return p, fmt.Errorf("override %q: expected key=value", kv)
		}
		v.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return spec.FromValues(p, v)
}

func runBuild(ctx context.Context, configPath string, args, overrides []string, asJSON bool) error {
	a, err := newApp(configPath, args, overrides)
	if err != nil {
		return err
	}

	res, err := a.configurator.Build(ctx, a.params)
	var perr *configurator.ParameterError
	if errors.As(err, &perr) {
		printValidationReport(perr.Report)
		return fmt.Errorf("parameters have validation errors")
	}
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printPanel(res.Panel)
	fmt.Println()
	printCostReport(res.Cost)
	if len(res.Validation.Warnings)+len(res.Validation.Info) > 0 {
		fmt.Println()
		printValidationReport(res.Validation)
	}
	return nil
}

func runValidate(configPath string, args, overrides []string) error {
	a, err := newApp(configPath, args, overrides)
	if err != nil {
		return err
	}

	report := a.configurator.Validate(a.params)
	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runEstimate(ctx context.Context, configPath string, args, overrides []string) error {
	a, err := newApp(configPath, args, overrides)
	if err != nil {
		return err
	}

	outcome := a.configurator.Estimate(ctx, a.params)
	printOutcome(outcome)
	if outcome.Status == carbon.StatusFailed {
		return outcome.Err
	}
	return nil
}

func runExport(ctx context.Context, configPath string, args, overrides []string, format, out string) error {
	write, ok := map[string]func(string, *configurator.Result) error{
		"pdf":  export.ExportPDF,
		"xlsx": export.ExportXLSX,
		"dxf":  export.ExportDXF,
	}[format]
	if !ok {
		return fmt.Errorf("unknown export format %q (want pdf, xlsx or dxf)", format)
	}
	if out == "" {
		out = "building." + format
	}

	a, err := newApp(configPath, args, overrides)
	if err != nil {
		return err
	}
	res, err := a.configurator.Build(ctx, a.params)
	if err != nil {
		return err
	}
	if err := write(out, res); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d floors, carbon %s)\n", out, res.Massing.FloorCount(), res.Carbon.Status)
	return nil
}

func runServe(ctx context.Context, configPath string, args []string, port int) error {
	a, err := newApp(configPath, args, nil)
	if err != nil {
		return err
	}
	if port == 0 {
		port = a.cfg.Port
	}

	tp, err := tracing.NewProvider(tracing.Config{
		ServiceName:  "massing",
		Enabled:      a.cfg.TracingEnabled,
		Environment:  a.cfg.Env,
		ExporterType: a.cfg.TracingExporter,
		OTLPEndpoint: a.cfg.TracingEndpoint,
		SamplingRate: a.cfg.TracingSampleRate,
		InsecureMode: !a.cfg.IsProduction(),
	})
	if err != nil {
		return err
	}
	defer tp.Shutdown(context.Background())

	a.logger.Info("configuration", slog.Any("config", a.cfg.LogSummary()))

	srv := server.New(a.configurator,
		server.WithPort(port),
		server.WithDefaults(a.params),
		server.WithDeveloperToken(a.params.AccessToken),
		server.WithRegistry(a.registry),
		server.WithLogger(a.logger),
	)
	return srv.Start(ctx)
}
