package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/observability"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render/dot"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// Render produces an artifact for every format in opts.Formats from the
// engine's current scene. The SVG is rendered once and shared by the PDF
// and PNG converters.
func Render(ctx context.Context, eng *view.Engine, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	out, err := renderFormats(ctx, eng, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return out, err
}

func renderFormats(ctx context.Context, eng *view.Engine, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))

	if opts.Wants(render.FormatJSON) {
		data, err := topology.MarshalExport(eng.Topology())
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		out[render.FormatJSON] = data
	}

	needsSVG := opts.Wants(render.FormatSVG) || opts.Wants(render.FormatPDF) || opts.Wants(render.FormatPNG)
	if !opts.Wants(render.FormatDOT) && !needsSVG {
		return out, nil
	}

	src := dot.ToDOT(eng.Scene(), dot.Options{
		Detailed:     opts.Detailed,
		HideFiltered: opts.HideFiltered,
		Legend:       opts.Legend,
	})
	if opts.Wants(render.FormatDOT) {
		out[render.FormatDOT] = []byte(src)
	}
	if !needsSVG {
		return out, nil
	}

	svg, err := dot.RenderSVG(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("svg: %w", err)
	}
	if opts.Wants(render.FormatSVG) {
		out[render.FormatSVG] = svg
	}
	if opts.Wants(render.FormatPDF) {
		pdf, err := render.ToPDF(ctx, svg)
		if err != nil {
			return nil, fmt.Errorf("pdf: %w", err)
		}
		out[render.FormatPDF] = pdf
	}
	if opts.Wants(render.FormatPNG) {
		png, err := render.ToPNG(ctx, svg, opts.Scale)
		if err != nil {
			return nil, fmt.Errorf("png: %w", err)
		}
		out[render.FormatPNG] = png
	}
	return out, nil
}
