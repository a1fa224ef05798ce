// Package config loads service configuration for the massing server and
// CLI. It uses koanf to merge an optional YAML file with environment
// variables; environment variables take precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all service configuration.
type Config struct {
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Carbon estimation service. The developer token is only sent to
	// CarbonBaseURL and is never written to logs.
	CarbonBaseURL        string        `koanf:"carbon_api_base_url"`
	CarbonDeveloperToken string        `koanf:"carbon_developer_token"`
	CarbonTimeout        time.Duration `koanf:"carbon_timeout"`

	TracingEnabled    bool    `koanf:"tracing_enabled"`
	TracingExporter   string  `koanf:"tracing_exporter"`
	TracingEndpoint   string  `koanf:"otel_exporter_otlp_endpoint"`
	TracingSampleRate float64 `koanf:"tracing_sample_rate"`
}

// Configuration validation errors.
var (
	ErrMissingCarbonBaseURL = errors.New("CARBON_API_BASE_URL is required when a developer token is set")
	ErrInvalidCarbonBaseURL = errors.New("CARBON_API_BASE_URL must be an http or https URL")
	ErrInvalidPort          = errors.New("PORT must be a valid integer between 1 and 65535")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrInvalidSampleRate    = errors.New("TRACING_SAMPLE_RATE must be between 0 and 1")
	ErrInvalidExporter      = errors.New("TRACING_EXPORTER must be otlp-http or otlp-grpc")
)

// Default values for non-secret configuration.
const (
	DefaultPort              = 3000
	DefaultEnv               = "development"
	DefaultCarbonTimeout     = 10 * time.Second
	DefaultTracingExporter   = "otlp-http"
	DefaultTracingSampleRate = 1.0
)

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Port:              DefaultPort,
		Env:               DefaultEnv,
		CarbonTimeout:     DefaultCarbonTimeout,
		TracingExporter:   DefaultTracingExporter,
		TracingSampleRate: DefaultTracingSampleRate,
	}
}

// Load reads configuration from an optional YAML file and environment
// variables. It returns the config and every validation error found; a
// file that cannot be read is returned as the only error.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, err := getEnvIntOrDefault([]string{"MASSING_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	timeout, err := getEnvDurationOrDefault("CARBON_TIMEOUT", k.String("carbon_timeout"), DefaultCarbonTimeout)
	if err != nil {
		loadErrs = append(loadErrs, err)
	}

	sampleRate := DefaultTracingSampleRate
	if k.Exists("tracing_sample_rate") {
		sampleRate = k.Float64("tracing_sample_rate")
	}
	if val := os.Getenv("TRACING_SAMPLE_RATE"); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			loadErrs = append(loadErrs, fmt.Errorf("TRACING_SAMPLE_RATE must be a valid float: %w", err))
		} else {
			sampleRate = f
		}
	}

	tracingEnabled := k.Bool("tracing_enabled")
	if val := os.Getenv("TRACING_ENABLED"); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			tracingEnabled = true
		case "false", "0", "no", "off":
			tracingEnabled = false
		}
	}

	cfg := &Config{
		Port:                 port,
		Env:                  getEnvOrDefault([]string{"MASSING_ENV", "ENV"}, k.String("env"), DefaultEnv),
		CarbonBaseURL:        getEnvOrDefault([]string{"CARBON_API_BASE_URL"}, k.String("carbon_api_base_url"), ""),
		CarbonDeveloperToken: getEnvOrDefault([]string{"CARBON_DEVELOPER_TOKEN"}, k.String("carbon_developer_token"), ""),
		CarbonTimeout:        timeout,
		TracingEnabled:       tracingEnabled,
		TracingExporter:      getEnvOrDefault([]string{"TRACING_EXPORTER"}, k.String("tracing_exporter"), DefaultTracingExporter),
		TracingEndpoint:      getEnvOrDefault([]string{"OTEL_EXPORTER_OTLP_ENDPOINT"}, k.String("otel_exporter_otlp_endpoint"), ""),
		TracingSampleRate:    sampleRate,
	}

	errs := append(loadErrs, cfg.Validate()...)
	return cfg, errs
}

// getEnvOrDefault returns the first non-empty environment variable of
// envKeys, otherwise the koanf value, or the default.
func getEnvOrDefault(envKeys []string, koanfVal, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

func getEnvIntOrDefault(envKeys []string, koanfVal, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

func getEnvDurationOrDefault(envKey, koanfVal string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(envKey)
	if val == "" {
		val = koanfVal
	}
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", envKey, val, ErrInvalidDuration)
	}
	return d, nil
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() []error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.CarbonTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CARBON_TIMEOUT must be positive: %w", ErrInvalidDuration))
	}

	if c.CarbonBaseURL != "" {
		u, err := url.Parse(c.CarbonBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ErrInvalidCarbonBaseURL)
		}
	} else if c.CarbonDeveloperToken != "" {
		errs = append(errs, ErrMissingCarbonBaseURL)
	}

	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		errs = append(errs, ErrInvalidSampleRate)
	}
	switch c.TracingExporter {
	case "otlp-http", "otlp-grpc":
	default:
		errs = append(errs, ErrInvalidExporter)
	}

	return errs
}

// CarbonConfigured reports whether a carbon service endpoint is set.
func (c *Config) CarbonConfigured() bool {
	return c.CarbonBaseURL != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LogSummary returns a summary of the configuration suitable for logging.
// Secrets are masked.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                        strconv.Itoa(c.Port),
		"env":                         c.Env,
		"carbon_api_base_url":         orNotSet(c.CarbonBaseURL),
		"carbon_developer_token":      maskSecret(c.CarbonDeveloperToken),
		"carbon_timeout":              c.CarbonTimeout.String(),
		"tracing_enabled":             strconv.FormatBool(c.TracingEnabled),
		"tracing_exporter":            c.TracingExporter,
		"otel_exporter_otlp_endpoint": orNotSet(c.TracingEndpoint),
		"tracing_sample_rate":         strconv.FormatFloat(c.TracingSampleRate, 'f', -1, 64),
	}
}

// maskSecret shows only the first 4 characters of secrets of 8 or more
// characters; shorter secrets are fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

func orNotSet(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}
