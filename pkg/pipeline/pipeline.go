// Package pipeline runs the load → validate → normalize → layout → render
// pipeline shared by the CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read a file, URL or stdin via pkg/source
//  2. Validate: check the raw document against the JSON Schema (optional)
//  3. Normalize: install the document in a view engine
//  4. Layout: place nodes with Graphviz or the grid, cached by input
//  5. Render: produce artifacts for the requested formats
//
// # Usage
//
//	runner := pipeline.NewRunner(store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Location: "topology.json",
//	    Formats:  []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// A layout failure is not fatal: the grid is used instead and the reason is
// recorded in [Result.Warnings].
package pipeline

import (
	"slices"
	"time"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/layout"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultEngine is the layout engine used when none is named.
	DefaultEngine = layout.EngineGraphviz

	// DefaultLayoutTimeout bounds one layout run.
	DefaultLayoutTimeout = 10 * time.Second

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// TTLLayout is how long computed layouts stay cached.
	TTLLayout = 7 * 24 * time.Hour
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It is JSON-serializable for API
// requests.
type Options struct {
	// Load options
	Location string `json:"location,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
	Validate bool   `json:"validate,omitempty"`

	// Layout options
	Engine        string        `json:"engine,omitempty"`
	LayoutTimeout time.Duration `json:"layout_timeout,omitempty"`
	SkipLayout    bool          `json:"skip_layout,omitempty"`

	// View options, applied before rendering
	Level  topology.Level `json:"level,omitempty"`
	Focus  string         `json:"focus,omitempty"`
	Search string         `json:"search,omitempty"`
	Type   string         `json:"type,omitempty"`
	Tag    string         `json:"tag,omitempty"`
	Intent string         `json:"intent,omitempty"`
	Select string         `json:"select,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Detailed     bool     `json:"detailed,omitempty"`
	HideFiltered bool     `json:"hide_filtered,omitempty"`
	Legend       bool     `json:"legend,omitempty"`
	Scale        float64  `json:"scale,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if _, err := layout.NewAdapter(o.Engine); err != nil {
		return err
	}
	if o.LayoutTimeout <= 0 {
		o.LayoutTimeout = DefaultLayoutTimeout
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Level != "" && !o.Level.Valid() {
		return errs.New(errs.ErrCodeInvalidLevel, "unknown level %q (want high, medium or low)", o.Level)
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	o.validated = true
	return nil
}

// ValidateFormats checks that every format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !render.ValidFormat(f) {
			return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (must be one of: %v)", f, render.Formats)
		}
	}
	return nil
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// viewCommands turns the view options into engine commands.
func (o *Options) viewCommands() []view.Command {
	var cmds []view.Command
	if o.Level != "" {
		cmds = append(cmds, view.ActivateLevel(o.Level))
	}
	if o.Focus != "" {
		cmds = append(cmds, view.Drill(o.Focus))
	}
	if o.Search != "" {
		cmds = append(cmds, view.Search(o.Search))
	}
	for _, f := range [...][2]string{{view.FilterType, o.Type}, {view.FilterTag, o.Tag}, {view.FilterIntent, o.Intent}} {
		if f[1] != "" {
			cmds = append(cmds, view.FilterBy(f[0], f[1]))
		}
	}
	if o.Select != "" {
		cmds = append(cmds, view.Select(o.Select))
	}
	return cmds
}

// =============================================================================
// Result
// =============================================================================

// Result is the output of a pipeline run.
type Result struct {
	// Engine holds the loaded topology and the applied view state.
	Engine *view.Engine

	// Layout is the applied layout, or nil when layout was skipped.
	Layout *layout.Result

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Diagnostics lists the repairs the normalizer made.
	Diagnostics []topology.Diagnostic

	// Warnings lists non-fatal problems such as a layout fallback.
	Warnings []error

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	LayoutHit bool
}
