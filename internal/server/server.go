// Package server hosts the configurator over HTTP for interactive design.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChicagoDave/massing/internal/middleware"
	"github.com/ChicagoDave/massing/internal/tracing"
	"github.com/ChicagoDave/massing/pkg/configurator"
	"github.com/ChicagoDave/massing/pkg/export"
	"github.com/ChicagoDave/massing/pkg/scene2d"
	"github.com/ChicagoDave/massing/pkg/spec"
)

// AccessTokenHeader carries a per-request carbon service token. It
// overrides the server's configured developer token.
const AccessTokenHeader = "X-Access-Token"

const maxBodyBytes = 1 << 16

// Server is the HTTP front end of a Configurator.
type Server struct {
	configurator *configurator.Configurator
	defaults     spec.BuildingParameters
	token        string
	port         int
	registry     *prometheus.Registry
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithPort sets the listen port.
func WithPort(port int) Option {
	return func(s *Server) { s.port = port }
}

// WithDefaults sets the parameters that query values are applied to.
func WithDefaults(p spec.BuildingParameters) Option {
	return func(s *Server) { s.defaults = p }
}

// WithDeveloperToken sets the carbon token used when a request carries
// none.
func WithDeveloperToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithRegistry sets the Prometheus registry served at /metrics. HTTP
// metrics are registered on it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server for c.
func New(c *configurator.Configurator, opts ...Option) *Server {
	s := &Server{
		configurator: c,
		defaults:     spec.DefaultParameters(),
		port:         3000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Handler returns the routed handler wrapped in request ID, logging,
// tracing and metrics middleware.
func (s *Server) Handler() (http.Handler, error) {
	metrics := middleware.NewMetrics()
	if err := metrics.Register(s.registry); err != nil {
		return nil, fmt.Errorf("registering HTTP metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/build", s.handleBuild)
	mux.HandleFunc("POST /api/build", s.handleBuild)
	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("GET /api/elevation", s.handleElevation)
	mux.HandleFunc("GET /api/estimate", s.handleEstimate)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/export/{format}", s.handleExport)
	mux.HandleFunc("GET /api/parameters", s.handleParameters)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(s.logger),
		middleware.Tracing("massing"),
		middleware.HTTPMetrics(metrics),
	), nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("massing server starting", slog.String("addr", "http://localhost"+srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("massing server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// parameters reads query values, or a JSON body for POST, on top of the
// server defaults and attaches the access token.
func (s *Server) parameters(r *http.Request) (spec.BuildingParameters, error) {
	p := s.defaults
	if r.Method == http.MethodPost {
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, fmt.Errorf("decoding parameters: %w", err)
		}
	} else {
		var err error
		if p, err = spec.FromValues(p, r.URL.Query()); err != nil {
			return p, err
		}
	}

	token := r.Header.Get(AccessTokenHeader)
	if token == "" {
		token = s.token
	}
	return p.WithAccessToken(token), nil
}

func (s *Server) build(w http.ResponseWriter, r *http.Request) (*configurator.Result, bool) {
	p, err := s.parameters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	ctx, end := tracing.StartSpan(r.Context(), "configurator.build")
	res, err := s.configurator.Build(ctx, p)
	end(err)

	var perr *configurator.ParameterError
	if errors.As(err, &perr) {
		writeJSON(w, http.StatusBadRequest, perr.Report)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return res, true
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.build(w, r); ok {
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if res, ok := s.build(w, r); ok {
		writeJSON(w, http.StatusOK, res.Scene)
	}
}

func (s *Server) handleElevation(w http.ResponseWriter, r *http.Request) {
	p, err := s.parameters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := s.configurator.Compose(p)
	var perr *configurator.ParameterError
	if errors.As(err, &perr) {
		writeJSON(w, http.StatusBadRequest, perr.Report)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, scene2d.Assemble2D(s.configurator.Name(), m))
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	p, err := s.parameters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ctx, end := tracing.StartSpan(r.Context(), "carbon.estimate")
	outcome := s.configurator.Estimate(ctx, p)
	end(outcome.Err)
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	p, err := s.parameters(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.configurator.Validate(p))
}

type exporter struct {
	contentType string
	write       func(io.Writer, *configurator.Result) error
}

var exporters = map[string]exporter{
	"pdf":  {"application/pdf", export.WritePDF},
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.WriteXLSX},
	"dxf":  {"image/vnd.dxf", export.WriteDXF},
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	exp, ok := exporters[format]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown export format %q", format))
		return
	}

	res, ok := s.build(w, r)
	if !ok {
		return
	}

	// Render fully before writing headers so failures still get a 500.
	var buf bytes.Buffer
	if err := exp.write(&buf, res); err != nil {
		s.logger.ErrorContext(r.Context(), "export failed", slog.String("format", format), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", exp.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="building.%s"`, format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ParameterSchema describes the form inputs.
type ParameterSchema struct {
	Defaults        spec.BuildingParameters `json:"defaults"`
	Typologies      []spec.Typology         `json:"typologies"`
	MaterialChoices []spec.MaterialChoice   `json:"materials"`
	Floors          [2]int                  `json:"floors_range"`
	FloorsLimit     int                     `json:"floors_limit"`
	GlazingRatio    [2]float64              `json:"glazing_ratio_range"`
	CarbonToken     bool                    `json:"carbon_token_configured"`
}

func (s *Server) handleParameters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ParameterSchema{
		Defaults:        s.defaults,
		Typologies:      spec.Typologies,
		MaterialChoices: spec.MaterialChoices,
		Floors:          [2]int{spec.MinFloors, spec.MaxFloors},
		FloorsLimit:     spec.MaxComposeFloors,
		GlazingRatio:    [2]float64{spec.MinGlazingRatio, spec.MaxGlazingRatio},
		CarbonToken:     s.token != "",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Massing</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Massing</h1>
<p>Try <a style="color:#4DA6FF" href="/api/build?floors=16">/api/build</a>,
<a style="color:#4DA6FF" href="/api/elevation">/api/elevation</a> or
<a style="color:#4DA6FF" href="/api/export/pdf">/api/export/pdf</a>.</p>
</div>
</body></html>`)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
