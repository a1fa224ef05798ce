package carbon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService mimics the carbon service. estimateBody is written verbatim
// by the estimate endpoint.
type fakeService struct {
	tokenStatus    int
	tokenBody      string
	estimateStatus int
	estimateBody   string

	tokenAuth    string
	estimateAuth string
	query        map[string]string
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+TokenPath, func(w http.ResponseWriter, r *http.Request) {
		f.tokenAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(orOK(f.tokenStatus))
		_, _ = w.Write([]byte(f.tokenBody))
	})
	mux.HandleFunc("GET "+EstimatePath, func(w http.ResponseWriter, r *http.Request) {
		f.estimateAuth = r.Header.Get("Authorization")
		f.query = map[string]string{}
		for k := range r.URL.Query() {
			f.query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(orOK(f.estimateStatus))
		_, _ = w.Write([]byte(f.estimateBody))
	})
	return mux
}

func orOK(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func newFakeService(t *testing.T, f *fakeService) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL+"/", time.Second)
	require.NoError(t, err)
	return c
}

func TestHTTPClientRoundTrip(t *testing.T) {
	f := &fakeService{
		tokenBody:    `{"api_token": "X"}`,
		estimateBody: `{"warming_potential": 3.14159, "co2e_per_m2": 42.0}`,
	}
	c := newFakeService(t, f)
	e := NewClientEstimator(c)

	out := e.Estimate(context.Background(), "dev-token", testQuery())

	require.Equal(t, StatusAvailable, out.Status, "reason: %s", out.Reason)
	assert.Equal(t, Estimate{CO2ePerSquareMeter: 42.0, WarmingPotential: 3.1}, *out.Estimate)
	assert.Equal(t, "Bearer dev-token", f.tokenAuth)
	assert.Equal(t, "Bearer X", f.estimateAuth)
	assert.Equal(t, map[string]string{
		"building_type":             "Office",
		"glazing_percentage":        "40",
		"gross_internal_floor_area": "19200",
		"materials_type":            "Conventional materials",
		"stories":                   "16",
	}, f.query)
}

func TestHTTPClientFailures(t *testing.T) {
	tests := []struct {
		name    string
		svc     fakeService
		wantErr error
	}{
		{
			name:    "token unauthorized",
			svc:     fakeService{tokenStatus: http.StatusUnauthorized, tokenBody: `{}`},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "token missing field",
			svc:     fakeService{tokenBody: `{"token": "X"}`},
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "token invalid json",
			svc:     fakeService{tokenBody: `<html>`},
			wantErr: ErrTokenExchange,
		},
		{
			name: "estimate server error",
			svc: fakeService{
				tokenBody:      `{"api_token": "X"}`,
				estimateStatus: http.StatusInternalServerError,
				estimateBody:   `{"error": "boom"}`,
			},
			wantErr: ErrEstimateRequest,
		},
		{
			name: "estimate missing field",
			svc: fakeService{
				tokenBody:    `{"api_token": "X"}`,
				estimateBody: `{"warming_potential": 1.2}`,
			},
			wantErr: ErrMalformedResponse,
		},
		{
			name: "estimate forbidden",
			svc: fakeService{
				tokenBody:      `{"api_token": "X"}`,
				estimateStatus: http.StatusForbidden,
			},
			wantErr: ErrUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := tt.svc
			e := NewClientEstimator(newFakeService(t, &svc))

			out := e.Estimate(context.Background(), "dev-token", testQuery())

			assert.Equal(t, StatusFailed, out.Status)
			assert.ErrorIs(t, out.Err, tt.wantErr)
			assert.Nil(t, out.Estimate)
		})
	}
}

func TestHTTPClientMissingFieldNamed(t *testing.T) {
	f := &fakeService{tokenBody: `{"api_token": "X"}`, estimateBody: `{}`}
	_, err := newFakeService(t, f).FetchEstimate(context.Background(), "X", testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warming_potential")
	assert.Contains(t, err.Error(), "co2e_per_m2")
}

func TestHTTPClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewHTTPClient(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)

	start := time.Now()
	out := NewClientEstimator(c).Estimate(context.Background(), "dev-token", testQuery())

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrTokenExchange)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPClientConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewHTTPClient(base, time.Second)
	require.NoError(t, err)

	out := NewClientEstimator(c).Estimate(context.Background(), "dev-token", testQuery())
	assert.Equal(t, StatusFailed, out.Status)
	assert.NotContains(t, out.Reason, "dev-token")
}

type countingTransport struct {
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func TestHTTPClientNoTokenNoCalls(t *testing.T) {
	rt := &countingTransport{}
	c, err := NewHTTPClient("http://127.0.0.1:1", time.Second, WithTransport(rt))
	require.NoError(t, err)

	out := NewClientEstimator(c).Estimate(context.Background(), "", testQuery())

	assert.Equal(t, StatusUnavailable, out.Status)
	assert.Zero(t, rt.calls.Load())
}

func TestNewHTTPClientRejectsBadURL(t *testing.T) {
	for _, base := range []string{"", "ftp://example.com", "://nope"} {
		_, err := NewHTTPClient(base, time.Second)
		assert.Error(t, err, "base %q", base)
	}
}

func TestQueryValues(t *testing.T) {
	q := testQuery()
	q.GlazingRatio = 37.5
	v := q.Values()
	assert.Equal(t, "37.5", v.Get("glazing_percentage"))
	assert.Equal(t, "Office", v.Get("building_type"))
	assert.Equal(t, "16", v.Get("stories"))
}
