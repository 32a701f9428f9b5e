package geocode

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/geocode-cli/internal/resilience"
)

type stubClient struct {
	result *Result
	err    error
	calls  []string
}

func (s *stubClient) Geocode(_ context.Context, address string) (*Result, error) {
	s.calls = append(s.calls, address)
	return s.result, s.err
}

func newObservedResolver(c Client, opts ...ResolverOption) (*Resolver, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append(opts, WithLogger(zap.New(core)))
	return NewResolver(c, opts...), logs
}

func TestResolver_Matched(t *testing.T) {
	stub := &stubClient{result: &Result{Matched: true, Latitude: -0.1807, Longitude: -78.4678, Status: "OK"}}
	r, logs := newObservedResolver(stub)

	got := r.Resolve(context.Background(), "quito, pichincha, ecuador")
	assert.True(t, got.Matched)
	assert.InDelta(t, -0.1807, got.Latitude, 1e-9)
	assert.Equal(t, []string{"quito, pichincha, ecuador"}, stub.calls)
	assert.Equal(t, 0, logs.Len())
}

func TestResolver_ErrorBecomesNoResult(t *testing.T) {
	stub := &stubClient{err: resilience.NewStatusError(500)}
	r, logs := newObservedResolver(stub)

	got := r.Resolve(context.Background(), "quito, pichincha, ecuador")
	assert.False(t, got.Matched)

	entries := logs.FilterMessage("geocode failed").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, string(resilience.KindHTTPStatus), fields["kind"])
		assert.Equal(t, true, fields["transient"])
	}
}

func TestResolver_TimeoutBecomesNoResult(t *testing.T) {
	stub := &stubClient{err: context.DeadlineExceeded}
	r, logs := newObservedResolver(stub)

	got := r.Resolve(context.Background(), "quito, pichincha, ecuador")
	assert.False(t, got.Matched)
	assert.Equal(t, 1, logs.FilterField(zap.String("kind", string(resilience.KindTimeout))).Len())
}

func TestResolver_NilResult(t *testing.T) {
	r, logs := newObservedResolver(&stubClient{})

	got := r.Resolve(context.Background(), "quito")
	assert.False(t, got.Matched)
	assert.Equal(t, 1, logs.FilterMessage("geocode returned no result").Len())
}

func TestResolver_ProviderStatus(t *testing.T) {
	stub := &stubClient{result: &Result{Matched: false, Status: "ZERO_RESULTS"}}
	r, logs := newObservedResolver(stub)

	got := r.Resolve(context.Background(), "nowhere, ecuador")
	assert.False(t, got.Matched)
	assert.Equal(t, "ZERO_RESULTS", got.Status)
	assert.Equal(t, 1, logs.FilterField(zap.String("status", "ZERO_RESULTS")).Len())
}

func TestResolver_OutsideBoundsStillMatched(t *testing.T) {
	ec, ok := CountryBounds("EC")
	assert.True(t, ok)

	// Lima, Peru.
	stub := &stubClient{result: &Result{Matched: true, Latitude: -12.0464, Longitude: -77.0428, Status: "OK"}}
	r, logs := newObservedResolver(stub, WithBounds(ec))

	got := r.Resolve(context.Background(), "lima, ecuador")
	assert.True(t, got.Matched)
	assert.Equal(t, 1, logs.FilterMessage("geocode result outside country bounds").Len())
}

func TestResolver_UnknownError(t *testing.T) {
	r, logs := newObservedResolver(&stubClient{err: errors.New("boom")})

	got := r.Resolve(context.Background(), "quito")
	assert.False(t, got.Matched)
	assert.Equal(t, 1, logs.FilterField(zap.String("kind", string(resilience.KindUnknown))).Len())
}

func TestResolver_OKWithoutLocationIsNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"OK","results":[{"formatted_address":"x"}]}`)
	}))
	defer srv.Close()

	r, logs := newObservedResolver(NewClient("k", WithBaseURL(srv.URL)))

	got := r.Resolve(context.Background(), "quito, pichincha, ecuador")
	assert.False(t, got.Matched)
	assert.Equal(t, 1, logs.FilterField(zap.String("kind", string(resilience.KindDecode))).Len())
}
