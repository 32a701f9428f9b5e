// Package resolve drives address resolution over a record set: it walks
// pending records, resolves each distinct canonical address at most once and
// propagates the outcome to every record sharing it.
package resolve

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/geocode-cli/internal/address"
	"github.com/sells-group/geocode-cli/internal/model"
	"github.com/sells-group/geocode-cli/pkg/geocode"
)

// Geocoder resolves a canonical address. Implementations never fail; a
// failed lookup is an unmatched Result.
type Geocoder interface {
	Resolve(ctx context.Context, address string) geocode.Result
}

// Persister writes the current state of the record set to durable storage.
type Persister interface {
	Save(ctx context.Context, records []*model.Record) error
}

// StopReason explains why Run returned.
type StopReason string

const (
	StopDrained     StopReason = "drained"
	StopLimit       StopReason = "limit"
	StopInterrupted StopReason = "interrupted"
)

// Options tunes a run.
type Options struct {
	// MaxIterations stops the run after this many iterations. 0 means no limit.
	MaxIterations int
	// CheckpointEvery persists after every N iterations. 0 disables checkpoints.
	CheckpointEvery int
	// SeedCache preloads the cache from records that already carry an outcome.
	SeedCache bool
	// OnIteration, when set, is called after every iteration with the
	// running stats.
	OnIteration func(Stats)
}

// Stats summarizes a run.
type Stats struct {
	RunID       string     `json:"run_id"`
	Iterations  int        `json:"iterations"`
	APICalls    int        `json:"api_calls"`
	CacheHits   int        `json:"cache_hits"`
	Discarded   int        `json:"discarded"`
	NoResult    int        `json:"no_result"`
	Resolved    int        `json:"resolved"`
	RowsUpdated int        `json:"rows_updated"`
	Checkpoints int        `json:"checkpoints"`
	Seeded      int        `json:"seeded"`
	StopReason  StopReason `json:"stop_reason"`
}

// Engine runs the resolution loop.
type Engine struct {
	geocoder   Geocoder
	persister  Persister
	normalizer *address.Normalizer
	opts       Options
	cache      *Cache
}

// NewEngine creates an Engine. The cache is owned by the engine and shared by
// every Run on it.
func NewEngine(g Geocoder, p Persister, n *address.Normalizer, opts Options) *Engine {
	if n == nil {
		n = address.NewNormalizer("")
	}
	return &Engine{
		geocoder:   g,
		persister:  p,
		normalizer: n,
		opts:       opts,
		cache:      NewCache(),
	}
}

// Cache exposes the engine's address cache.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Run resolves pending records until none remain, the iteration limit is
// reached or ctx is canceled. Records are mutated in place and persisted on
// every checkpoint and once more before returning. Cancellation is not an
// error; only persistence failures are.
func (e *Engine) Run(ctx context.Context, records []*model.Record) (*Stats, error) {
	stats := &Stats{RunID: uuid.New().String()}
	log := zap.L().With(
		zap.String("component", "resolve"),
		zap.String("run_id", stats.RunID),
	)

	keys := make([]string, len(records))
	displays := make([]string, len(records))
	index := make(map[string][]int)
	for i, r := range records {
		keys[i] = e.normalizer.Canonical(r)
		displays[i] = e.normalizer.Display(r)
		index[keys[i]] = append(index[keys[i]], i)
	}

	if e.opts.SeedCache {
		stats.Seeded = e.seed(records, keys)
	}

	log.Info("resolution started",
		zap.Int("records", len(records)),
		zap.Int("distinct_addresses", len(index)),
		zap.Int("seeded", stats.Seeded),
		zap.Int("max_iterations", e.opts.MaxIterations),
	)

	cursor := 0
	for {
		if ctx.Err() != nil {
			stats.StopReason = StopInterrupted
			break
		}
		if e.opts.MaxIterations > 0 && stats.Iterations >= e.opts.MaxIterations {
			stats.StopReason = StopLimit
			break
		}

		for cursor < len(records) && !records[cursor].Pending() {
			cursor++
		}
		if cursor == len(records) {
			stats.StopReason = StopDrained
			break
		}

		key := keys[cursor]
		outcome, source := e.outcomeFor(ctx, records[cursor], key, stats)

		updated := 0
		for _, i := range index[key] {
			if records[i].Pending() {
				records[i].Apply(outcome)
				updated++
			}
		}
		stats.Iterations++
		stats.RowsUpdated += updated

		log.Info("address resolved",
			zap.Int("iteration", stats.Iterations),
			zap.Int("row", records[cursor].Row),
			zap.String("address", displays[cursor]),
			zap.String("source", string(source)),
			zap.String("coordinate", outcome.String()),
			zap.Int("rows_updated", updated),
		)
		if e.opts.OnIteration != nil {
			e.opts.OnIteration(*stats)
		}

		if e.opts.CheckpointEvery > 0 && stats.Iterations%e.opts.CheckpointEvery == 0 {
			if err := e.persist(ctx, records); err != nil {
				return stats, eris.Wrapf(err, "resolve: checkpoint at iteration %d", stats.Iterations)
			}
			stats.Checkpoints++
			log.Debug("checkpoint saved", zap.Int("iteration", stats.Iterations))
		}
	}

	if err := e.persist(ctx, records); err != nil {
		return stats, eris.Wrap(err, "resolve: final save")
	}

	log.Info("resolution finished",
		zap.String("stop_reason", string(stats.StopReason)),
		zap.Int("iterations", stats.Iterations),
		zap.Int("api_calls", stats.APICalls),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int("discarded", stats.Discarded),
		zap.Int("no_result", stats.NoResult),
		zap.Int("resolved", stats.Resolved),
		zap.Int("rows_updated", stats.RowsUpdated),
	)

	return stats, nil
}

// outcomeFor returns the outcome for key, consulting the cache before the
// usefulness filter and the geocoder. New outcomes are cached.
func (e *Engine) outcomeFor(ctx context.Context, r *model.Record, key string, stats *Stats) (model.Outcome, model.Source) {
	if o, ok := e.cache.Lookup(key); ok {
		stats.CacheHits++
		return o, model.SourceCache
	}

	if !e.normalizer.IsUseful(r) {
		o := model.UnresolvedOutcome()
		e.cache.Store(key, o)
		stats.Discarded++
		return o, model.SourceDiscarded
	}

	// The call runs to completion even if ctx is canceled meanwhile, so an
	// interrupt cannot be recorded as "NA".
	stats.APICalls++
	res := e.geocoder.Resolve(context.WithoutCancel(ctx), key)

	o := model.UnresolvedOutcome()
	source := model.SourceNoCoord
	if res.Matched {
		o = model.ResolvedAt(res.Latitude, res.Longitude)
		source = model.SourceAPI
		stats.Resolved++
	} else {
		stats.NoResult++
	}
	e.cache.Store(key, o)
	return o, source
}

// seed loads outcomes already present in records into the cache.
func (e *Engine) seed(records []*model.Record, keys []string) int {
	n := 0
	for i, r := range records {
		o, ok := r.Outcome()
		if !ok {
			continue
		}
		if _, exists := e.cache.Lookup(keys[i]); exists {
			continue
		}
		e.cache.Store(keys[i], o)
		n++
	}
	return n
}

func (e *Engine) persist(ctx context.Context, records []*model.Record) error {
	if e.persister == nil {
		return nil
	}
	return e.persister.Save(context.WithoutCancel(ctx), records)
}
