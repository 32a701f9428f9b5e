package geocode

import (
	"context"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/geocode-cli/internal/resilience"
)

// Resolver wraps a Client so that a lookup never fails: transport, HTTP,
// decode and provider-status failures are logged and reported as an
// unmatched Result.
type Resolver struct {
	client Client
	bounds *geom.Bounds
	log    *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithBounds flags matched results that fall outside b. Such results are
// still returned as matched.
func WithBounds(b *geom.Bounds) ResolverOption {
	return func(r *Resolver) {
		r.bounds = b
	}
}

// WithLogger sets the logger used for failure reports.
func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewResolver creates a Resolver around c.
func NewResolver(c Client, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client: c,
		log:    zap.L().With(zap.String("component", "geocode.resolver")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve looks up address once. The returned Result is unmatched on any
// failure; Matched is the only thing callers need to inspect.
func (r *Resolver) Resolve(ctx context.Context, address string) Result {
	result, err := r.client.Geocode(ctx, address)
	if err != nil {
		r.log.Warn("geocode failed",
			zap.String("address", address),
			zap.String("kind", string(resilience.Classify(err))),
			zap.Bool("transient", resilience.IsTransient(err)),
			zap.Error(err),
		)
		return Result{Matched: false}
	}
	if result == nil {
		r.log.Warn("geocode returned no result", zap.String("address", address))
		return Result{Matched: false}
	}
	if !result.Matched {
		r.log.Info("geocode found no coordinates",
			zap.String("address", address),
			zap.String("kind", string(resilience.KindProviderStatus)),
			zap.String("status", result.Status),
		)
		return *result
	}

	if !WithinBounds(r.bounds, result.Latitude, result.Longitude) {
		r.log.Warn("geocode result outside country bounds",
			zap.String("address", address),
			zap.Float64("lat", result.Latitude),
			zap.Float64("lng", result.Longitude),
			zap.String("formatted_address", result.FormattedAddress),
		)
	}

	return *result
}
