package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/graph"
	"github.com/matzehuels/stacklayout/pkg/observability"
	"github.com/matzehuels/stacklayout/pkg/render/nodelink"
)

// =============================================================================
// Rendering
// =============================================================================

// Render produces an artifact for l in the given format, using the cache
// when possible.
func (r *Runner) Render(ctx context.Context, l graph.Layout, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.ArtifactKey(cache.Hash(layoutData), cache.ArtifactKeyOpts{Format: format})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, format)
	data, err := RenderLayout(ctx, l, format)
	observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache artifact", "format", format, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, nil
}

// RenderLayout renders l without caching.
func RenderLayout(ctx context.Context, l graph.Layout, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return graph.MarshalLayout(l)
	}

	d, err := LayoutGraph(l)
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(d, nodelink.Options{})
	if format == FormatDOT {
		return []byte(dot), nil
	}
	return nodelink.RenderSVG(ctx, dot)
}
