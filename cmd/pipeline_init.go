package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/geocode-cli/internal/address"
	"github.com/sells-group/geocode-cli/internal/config"
	"github.com/sells-group/geocode-cli/internal/dataset"
	"github.com/sells-group/geocode-cli/internal/model"
	"github.com/sells-group/geocode-cli/internal/resolve"
	"github.com/sells-group/geocode-cli/internal/store"
	"github.com/sells-group/geocode-cli/pkg/geocode"
)

// recordEnv holds the opened store and the records bound from it.
type recordEnv struct {
	Store      store.Store
	Binding    *dataset.Binding
	Normalizer *address.Normalizer
	Persister  *store.RecordPersister
}

// Records returns the bound records.
func (e *recordEnv) Records() []*model.Record {
	return e.Binding.Records()
}

// Close releases the store.
func (e *recordEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// openRecords opens the configured store, loads its table and binds the
// address columns. Callers should defer env.Close().
func openRecords(ctx context.Context, c *config.Config) (*recordEnv, error) {
	st, err := store.Open(ctx, c.Store.Source, c.Store.Options())
	if err != nil {
		return nil, err
	}

	tbl, err := st.Load(ctx)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrapf(err, "load %s", c.Store.Source)
	}

	binding, err := dataset.Bind(tbl, c.Columns)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	n := address.NewNormalizer(c.Address.Country)
	if c.Pipeline.MaterializeKeys {
		binding.Derive(n, c.Columns)
	}

	zap.L().Info("records loaded",
		zap.String("source", c.Store.Source),
		zap.Int("records", tbl.Len()),
		zap.Bool("coordinate_column_added", binding.CoordinateAdded),
	)

	return &recordEnv{
		Store:      st,
		Binding:    binding,
		Normalizer: n,
		Persister:  store.NewRecordPersister(st, binding),
	}, nil
}

// newEngine wires the Google client, resolver and persister into a
// resolution engine.
func newEngine(c *config.Config, env *recordEnv, onIteration func(resolve.Stats)) *resolve.Engine {
	client := geocode.NewClient(c.Google.APIKey,
		geocode.WithBaseURL(c.Google.BaseURL),
		geocode.WithCountry(c.Google.Country),
		geocode.WithTimeout(secondsToDuration(c.Google.TimeoutSecs)),
		geocode.WithRateLimit(c.Google.RateLimit),
	)

	var resolverOpts []geocode.ResolverOption
	if b, ok := geocode.CountryBounds(c.Google.Country); ok {
		resolverOpts = append(resolverOpts, geocode.WithBounds(b))
	}
	resolver := geocode.NewResolver(client, resolverOpts...)

	return resolve.NewEngine(resolver, env.Persister, env.Normalizer, resolve.Options{
		MaxIterations:   c.Pipeline.MaxIterations,
		CheckpointEvery: c.Pipeline.CheckpointEvery,
		SeedCache:       c.Pipeline.SeedCache,
		OnIteration:     onIteration,
	})
}
