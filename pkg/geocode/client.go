// Package geocode resolves address strings to coordinates with the Google
// Geocoding API.
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Google Geocoding JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// DefaultTimeout bounds a single geocoding request.
const DefaultTimeout = 10 * time.Second

// Client geocodes a single address string.
type Client interface {
	// Geocode issues one provider request. A provider status other than
	// "OK" or an empty result list is reported as an unmatched Result, not
	// as an error.
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude         float64
	Longitude        float64
	Matched          bool
	Status           string // provider status, e.g. "OK", "ZERO_RESULTS"
	Quality          string // "rooftop", "range", "centroid", "approximate"
	FormattedAddress string
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithHTTPClient sets a custom HTTP client. Its Timeout is overridden by
// WithTimeout when both are given.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithBaseURL points the client at a different geocode endpoint.
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		if u != "" {
			g.baseURL = u
		}
	}
}

// WithCountry restricts results to an ISO 3166-1 alpha-2 country code.
func WithCountry(code string) Option {
	return func(g *geocoder) {
		g.country = strings.ToUpper(strings.TrimSpace(code))
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithRateLimit paces requests to rps per second. Zero or negative leaves
// requests unpaced.
func WithRateLimit(rps float64) Option {
	return func(g *geocoder) {
		if rps <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type geocoder struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	country    string
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewClient creates a Google geocoding Client for apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Geocode implements Client.
func (g *geocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	return g.geocodeGoogle(ctx, address)
}
