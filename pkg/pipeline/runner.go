package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/dag"
	"github.com/matzehuels/stacklayout/pkg/dag/transform"
	"github.com/matzehuels/stacklayout/pkg/graph"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/options"
	"github.com/matzehuels/stacklayout/pkg/order"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner is stateless except for the cache, registry and logger.
// Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *options.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The registry is the built-in option catalog.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Registry: options.Builtin(),
		Logger:   logger,
	}
}

// Order configures, normalizes and orders g. Results are cached by the
// hash of g and the layout-relevant options.
func (r *Runner) Order(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	graphHash := cache.HashJSON(g)
	key := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key); ok {
			opts.Logger.Debug("layout cache hit", "graph", graphHash[:12])
			return &Result{Layout: l, GraphHash: graphHash, CacheHit: true, Duration: time.Since(start)}, nil
		}
	}

	observability.Pipeline().OnOrderStart(ctx, len(g.Nodes))
	l, err := r.order(g, opts)
	duration := time.Since(start)
	observability.Pipeline().OnOrderComplete(ctx, observability.OrderEvent{
		Nodes:       len(l.Nodes),
		Layers:      len(l.Layers),
		Crossings:   l.Crossings,
		Comparisons: l.Stats.Comparisons,
		Relations:   l.Stats.Relations,
	}, duration, err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("ordered graph",
		"nodes", len(l.Nodes),
		"layers", len(l.Layers),
		"crossings", l.Crossings,
		"duration", duration)
	opts.Logger.Debug("comparator stats",
		"comparisons", l.Stats.Comparisons,
		"cache_hits", l.Stats.CacheHits,
		"relations", l.Stats.Relations,
		"reversed", l.Stats.ReversedEdges,
		"subdividers", l.Stats.Subdividers)

	r.storeLayout(ctx, key, l, opts.Logger)
	return &Result{Layout: l, GraphHash: graphHash, Duration: duration}, nil
}

func (r *Runner) order(g graph.Graph, opts Options) (graph.Layout, error) {
	d, err := graph.ToDAG(g)
	if err != nil {
		return graph.Layout{}, err
	}
	if opts.Config != nil {
		if _, err := configure(d, opts.Config, r.lookup()); err != nil {
			return graph.Layout{}, fmt.Errorf("configure: %w", err)
		}
	}

	s, le, err := strategies(d, opts)
	if err != nil {
		return graph.Layout{}, err
	}

	norm := transform.Normalize(d)
	stats, err := order.OrderGraph(d, s, le)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("order: %w", err)
	}

	l := graph.LayoutFromDAG(d)
	l.RunID = uuid.NewString()
	l.Strategy = s.String()
	l.LongEdge = le.String()
	l.Crossings = dag.CountCrossings(d)
	l.Stats = graph.Stats{
		ReversedEdges: norm.ReversedEdges,
		Subdividers:   norm.Subdividers,
		Comparisons:   stats.Comparisons,
		CacheHits:     stats.CacheHits,
		Relations:     stats.Relations,
	}
	return l, nil
}

// strategies resolves the ordering strategies: explicit options win over
// the graph's own properties.
func strategies(d *dag.Graph, opts Options) (order.Strategy, order.LongEdgeOrder, error) {
	s, le, err := order.FromProperties(d.Properties())
	if err != nil {
		return 0, 0, err
	}
	if opts.Strategy != "" {
		if s, err = order.ParseStrategy(opts.Strategy); err != nil {
			return 0, 0, err
		}
	}
	if opts.LongEdge != "" {
		if le, err = order.ParseLongEdgeOrder(opts.LongEdge); err != nil {
			return 0, 0, err
		}
	}
	return s, le, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayoutBSON(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return graph.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return l, true
}

func (r *Runner) storeLayout(ctx context.Context, key string, l graph.Layout, logger *log.Logger) {
	data, err := graph.MarshalLayoutBSON(l)
	if err != nil {
		logger.Warn("encode layout for cache", "err", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, cache.TTLLayout)
	})
	if err != nil {
		logger.Warn("cache layout", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "layout", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
