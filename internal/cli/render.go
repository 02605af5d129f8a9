package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	view         viewFlags
	formats      string
	output       string
	engine       string
	detailed     bool
	legend       bool
	hideFiltered bool
	scale        float64
	noCache      bool
	refresh      bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|url|-]",
		Short: "Draw the current view of a topology",
		Long: `Render lays out a topology and draws one level of it as DOT, SVG, PDF or PNG,
or writes the normalized document as JSON.

View flags choose what is drawn: --level picks the level, --focus drills into
a node, and --search, --type, --tag and --intent dim everything that does not
match. Without a file the bundled reference topology is used.

PDF and PNG output require rsvg-convert (librsvg) on PATH.`,
		Example: `  topoviz render topology.json
  topoviz render topology.yaml -f svg,png --focus payments --legend
  topoviz render - -f dot -o out < topology.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), locationArg(args), opts)
		},
	}

	opts.view.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", fmt.Sprintf("output formats, comma-separated (%s)", strings.Join(render.Formats, ", ")))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or directory")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: graphviz or grid (default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show type and tags inside nodes")
	cmd.Flags().BoolVar(&opts.legend, "legend", false, "draw the intent legend")
	cmd.Flags().BoolVar(&opts.hideFiltered, "hide-filtered", false, "omit edges excluded by the intent filter")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached layouts and documents")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, location string, opts renderOpts) error {
	popts := c.baseOptions(location)
	popts.Formats = parseFormats(opts.formats)
	popts.Detailed = opts.detailed
	popts.Legend = opts.legend
	popts.HideFiltered = opts.hideFiltered
	popts.Scale = opts.scale
	popts.Refresh = opts.refresh
	if opts.engine != "" {
		popts.Engine = opts.engine
	}
	if err := opts.view.apply(&popts); err != nil {
		return err
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, "Rendering "+describeLocation(location)+"...")
	spinner.Start()
	progress := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	progress.done(fmt.Sprintf("Rendered %d formats", len(result.Artifacts)))
	for _, w := range result.Warnings {
		printWarning("%v", w)
	}

	topo := result.Engine.Topology()
	base := util.Slugify(topo.Meta.Name)
	if base == "" {
		base = "topology"
	}
	paths, err := writeArtifacts(result.Artifacts, popts.Formats, opts.output, base)
	if err != nil || opts.output == "-" {
		return err
	}

	printSuccess("Rendered %s at the %s level", StyleHighlight.Render(topo.Meta.Name), levelBadge(result.Engine.State().ActiveLevel))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	for _, p := range paths {
		printFile(p)
	}
	printDiagnostics(result.Diagnostics)
	return nil
}

// writeArtifacts writes one file per format. A single format with an output
// that is not an existing directory is written to that exact path;
// otherwise files are named base.<format> inside output (or the working
// directory).
func writeArtifacts(artifacts map[string][]byte, formats []string, output, base string) ([]string, error) {
	if output == "-" {
		if len(formats) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one format")
		}
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	single := len(formats) == 1 && output != "" && !isDir(output)
	dir := output
	if single {
		dir = filepath.Dir(output)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	var paths []string
	for _, f := range formats {
		path := filepath.Join(dir, base+"."+f)
		if single {
			path = output
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
