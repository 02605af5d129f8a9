package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/cache"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/observability"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/schema"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/source"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// Runner executes pipeline stages with a shared loader and layout cache.
//
// A Runner keeps no per-run state, so one Runner may serve concurrent runs
// with different options.
type Runner struct {
	Loader    *source.Loader
	Validator view.Validator
	Cache     cache.Cache
	Logger    *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil logger
// logs to the default logger.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Loader:    source.NewLoader(c, cache.DefaultTTL),
		Validator: schema.MustNew(),
		Cache:     c,
		Logger:    logger,
	}
}

// Execute runs the complete load → layout → view → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Artifacts: make(map[string][]byte)}

	loadStart := time.Now()
	eng, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	topo := eng.Topology()
	result.Engine = eng
	result.Diagnostics = topo.Diagnostics
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = len(topo.Nodes)
	result.Stats.EdgeCount = len(topo.Edges)

	r.Logger.Info("loaded topology",
		"name", topo.Meta.Name,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LoadTime)

	if !opts.SkipLayout {
		layoutStart := time.Now()
		res, hit, warn := r.Layout(ctx, eng, opts)
		result.Layout = res
		result.CacheInfo.LayoutHit = hit
		result.Stats.LayoutTime = time.Since(layoutStart)
		if warn != nil {
			result.Warnings = append(result.Warnings, warn)
			r.Logger.Warn("layout fallback", "err", warn)
		}
		r.Logger.Debug("computed layout",
			"engine", res.Engine,
			"cached", hit,
			"duration", result.Stats.LayoutTime)
	}

	if err := eng.Dispatch(opts.viewCommands()...); err != nil {
		return nil, fmt.Errorf("view: %w", err)
	}

	renderStart := time.Now()
	artifacts, err := Render(ctx, eng, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Load reads opts.Location and installs it in a new view engine. The
// embedded default topology is used when no location is given.
func (r *Runner) Load(ctx context.Context, opts Options) (*view.Engine, error) {
	engineOpts := []view.Option{view.WithLogger(r.Logger)}
	if opts.Validate && r.Validator != nil {
		engineOpts = append(engineOpts, view.WithValidator(r.Validator))
	}
	eng := view.New(engineOpts...)

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Location)
	start := time.Now()

	err := r.load(ctx, eng, opts)
	count := 0
	if err == nil {
		count = len(eng.Topology().Nodes)
	}
	hooks.OnLoadComplete(ctx, opts.Location, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return eng, nil
}

func (r *Runner) load(ctx context.Context, eng *view.Engine, opts Options) error {
	if opts.Location == "" {
		return eng.Load(topology.DefaultDocument())
	}
	loader := *r.Loader
	loader.Refresh = opts.Refresh
	doc, err := loader.Load(ctx, opts.Location)
	if err != nil {
		return err
	}
	return eng.SetData(doc.Tree)
}

// Layout places the engine's nodes with the engine named in opts, reusing
// a cached result for identical input. The returned error is a non-fatal
// fallback warning. Fallback layouts are not cached.
func (r *Runner) Layout(ctx context.Context, eng *view.Engine, opts Options) (*layout.Result, bool, error) {
	adapter, err := layout.NewAdapter(opts.Engine)
	if err != nil {
		adapter = layout.GridAdapter{}
	}
	timeout := opts.LayoutTimeout
	if timeout <= 0 {
		timeout = DefaultLayoutTimeout
	}

	boxes, links := layout.Inputs(eng.Topology())
	key := cache.Key("layout", adapter.Name(), boxes, links)
	gen := eng.Generation()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Result
			if json.Unmarshal(data, &cached) == nil && eng.ApplyLayout(gen, &cached) {
				return &cached, true, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, warn := eng.RunLayout(ctx, adapter)
	if warn == nil {
		if data, err := json.Marshal(res); err == nil {
			_ = r.Cache.Set(ctx, key, data, TTLLayout)
		}
	}
	return res, false, warn
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
