package carbon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Service paths relative to the base URL.
const (
	TokenPath    = "/developer/api/getapitoken/"
	EstimatePath = "/developer/api/get_co2_warming_potential"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const maxResponseBytes = 1 << 20

// HTTPClient talks to the carbon service. It implements both
// TokenIssuer and EstimateFetcher.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures an HTTPClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	transport http.RoundTripper
}

// WithTransport sets the underlying round tripper. The transport is
// still wrapped for tracing.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) { o.transport = rt }
}

// NewHTTPClient returns a client for the service at baseURL. Each
// request is bounded by timeout; a non-positive timeout uses
// DefaultTimeout.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing carbon base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("carbon base URL %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	o := clientOptions{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(o.transport),
		},
	}, nil
}

// IssueToken exchanges the developer token for an API token.
func (c *HTTPClient) IssueToken(ctx context.Context, developerToken string) (string, error) {
	var body struct {
		APIToken *string `json:"api_token"`
	}
	if err := c.getJSON(ctx, c.baseURL+TokenPath, developerToken, &body); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	if body.APIToken == nil || *body.APIToken == "" {
		return "", fmt.Errorf("%w: %w: missing api_token", ErrTokenExchange, ErrMalformedResponse)
	}
	return *body.APIToken, nil
}

// FetchEstimate requests the estimate for q. Values are returned as
// sent by the service, without rounding.
func (c *HTTPClient) FetchEstimate(ctx context.Context, apiToken string, q Query) (Estimate, error) {
	var body struct {
		WarmingPotential *float64 `json:"warming_potential"`
		CO2ePerM2        *float64 `json:"co2e_per_m2"`
	}
	endpoint := c.baseURL + EstimatePath + "?" + q.Values().Encode()
	if err := c.getJSON(ctx, endpoint, apiToken, &body); err != nil {
		return Estimate{}, fmt.Errorf("%w: %w", ErrEstimateRequest, err)
	}

	var missing []string
	if body.WarmingPotential == nil {
		missing = append(missing, "warming_potential")
	}
	if body.CO2ePerM2 == nil {
		missing = append(missing, "co2e_per_m2")
	}
	if len(missing) > 0 {
		return Estimate{}, fmt.Errorf("%w: %w: missing %s",
			ErrEstimateRequest, ErrMalformedResponse, strings.Join(missing, ", "))
	}

	return Estimate{
		CO2ePerSquareMeter: *body.CO2ePerM2,
		WarmingPotential:   *body.WarmingPotential,
	}, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Strip the URL, it carries the query.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// Values encodes q with the service's query parameter names.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("building_type", string(q.Typology))
	v.Set("glazing_percentage", strconv.FormatFloat(q.GlazingRatio, 'f', -1, 64))
	v.Set("gross_internal_floor_area", strconv.FormatFloat(q.GrossFloorArea, 'f', -1, 64))
	v.Set("materials_type", string(q.Materials))
	v.Set("stories", strconv.Itoa(q.Floors))
	return v
}
