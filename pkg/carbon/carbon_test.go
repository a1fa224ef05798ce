package carbon

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/massing/pkg/spec"
)

type stubIssuer struct {
	token string
	err   error
	calls int
	got   string
}

func (s *stubIssuer) IssueToken(_ context.Context, developerToken string) (string, error) {
	s.calls++
	s.got = developerToken
	return s.token, s.err
}

type stubFetcher struct {
	est   Estimate
	err   error
	calls int
	token string
	query Query
}

func (s *stubFetcher) FetchEstimate(_ context.Context, apiToken string, q Query) (Estimate, error) {
	s.calls++
	s.token = apiToken
	s.query = q
	return s.est, s.err
}

func testQuery() Query {
	return Query{
		Typology:       spec.TypologyOffice,
		GlazingRatio:   40,
		GrossFloorArea: 19200,
		Materials:      spec.MaterialsConventional,
		Floors:         16,
	}
}

func TestEstimateNoTokenIsUnavailable(t *testing.T) {
	issuer := &stubIssuer{token: "X"}
	fetcher := &stubFetcher{}
	e := NewEstimator(issuer, fetcher)

	out := e.Estimate(context.Background(), "", testQuery())

	assert.Equal(t, StatusUnavailable, out.Status)
	assert.Nil(t, out.Estimate)
	assert.Empty(t, out.Reason)
	assert.Zero(t, issuer.calls, "no token exchange without a token")
	assert.Zero(t, fetcher.calls, "no estimate request without a token")
}

func TestEstimateRoundsResult(t *testing.T) {
	issuer := &stubIssuer{token: "X"}
	fetcher := &stubFetcher{est: Estimate{CO2ePerSquareMeter: 42.0, WarmingPotential: 3.14159}}
	e := NewEstimator(issuer, fetcher)

	out := e.Estimate(context.Background(), "dev-token", testQuery())

	require.True(t, out.Available())
	assert.Equal(t, 42.0, out.Estimate.CO2ePerSquareMeter)
	assert.Equal(t, 3.1, out.Estimate.WarmingPotential)
	assert.Equal(t, "dev-token", issuer.got)
	assert.Equal(t, "X", fetcher.token, "api token from step one is used in step two")
	assert.Equal(t, testQuery(), fetcher.query)
}

func TestEstimateTokenFailure(t *testing.T) {
	issuer := &stubIssuer{err: ErrTokenExchange}
	fetcher := &stubFetcher{}
	e := NewEstimator(issuer, fetcher)

	out := e.Estimate(context.Background(), "dev-token", testQuery())

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrTokenExchange)
	assert.NotEmpty(t, out.Reason)
	assert.Zero(t, fetcher.calls, "estimate step must not run after a failed exchange")
}

func TestEstimateSecondCallFailure(t *testing.T) {
	issuer := &stubIssuer{token: "X"}
	fetcher := &stubFetcher{err: errors.New("connection reset by peer")}
	e := NewEstimator(issuer, fetcher)

	var out Outcome
	require.NotPanics(t, func() {
		out = e.Estimate(context.Background(), "dev-token", testQuery())
	})
	assert.Equal(t, StatusFailed, out.Status)
	assert.Nil(t, out.Estimate)
	assert.Contains(t, out.Reason, "connection reset")
}

func TestEstimateNotConfigured(t *testing.T) {
	e := NewClientEstimator(nil)

	out := e.Estimate(context.Background(), "dev-token", testQuery())
	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrNotConfigured)

	out = e.Estimate(context.Background(), "", testQuery())
	assert.Equal(t, StatusUnavailable, out.Status)
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{3.14159, 3.1},
		{42.0, 42.0},
		{0.05, 0.1},
		{2.25, 2.3},
		{-1.26, -1.3},
		{1234.56, 1234.6},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round1(tt.in), 1e-9, "Round1(%v)", tt.in)
	}
}

func TestEstimatorMetrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	ok := NewEstimator(&stubIssuer{token: "X"}, &stubFetcher{}, WithMetrics(m))
	bad := NewEstimator(&stubIssuer{err: ErrUnauthorized}, &stubFetcher{}, WithMetrics(m))

	ok.Estimate(context.Background(), "t", testQuery())
	ok.Estimate(context.Background(), "t", testQuery())
	ok.Estimate(context.Background(), "", testQuery())
	bad.Estimate(context.Background(), "t", testQuery())

	assert.Equal(t, 2.0, counterValue(t, m.estimates.WithLabelValues(string(StatusAvailable))))
	assert.Equal(t, 1.0, counterValue(t, m.estimates.WithLabelValues(string(StatusUnavailable))))
	assert.Equal(t, 1.0, counterValue(t, m.estimates.WithLabelValues(string(StatusFailed))))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names[MetricEstimates])
	assert.True(t, names[MetricRequestDuration])
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, NewMetrics().Register(reg))
	assert.Error(t, NewMetrics().Register(reg))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
