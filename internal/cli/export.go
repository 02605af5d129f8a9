package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/render"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// exportOpts holds options for the export command.
type exportOpts struct {
	output   string
	engine   string
	noLayout bool
	noCache  bool
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [file|url|-]",
		Short: "Write the normalized, laid-out document as JSON",
		Long: `Export normalizes a topology, lays it out and writes it back as JSON with
every node's position folded into its layout hints. The result re-imports to
the same drawing; pinned nodes stay pinned.

With -o pointing at a directory the file is named after the topology.`,
		Example: `  topoviz export topology.yaml > normalized.json
  topoviz export topology.json -o exports/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd, locationArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or directory (default: stdout)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: graphviz or grid (default from config)")
	cmd.Flags().BoolVar(&opts.noLayout, "no-layout", false, "keep existing layout hints without laying out")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, cmd *cobra.Command, location string, opts exportOpts) error {
	popts := c.baseOptions(location)
	popts.Formats = []string{render.FormatJSON}
	popts.SkipLayout = opts.noLayout
	if opts.engine != "" {
		popts.Engine = opts.engine
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		loggerFromContext(ctx).Warn("layout fallback", "err", w)
	}
	data := result.Artifacts[render.FormatJSON]

	if opts.output == "" || opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path := opts.output
	if isDir(path) {
		path = filepath.Join(path, topology.ExportFilename(result.Engine.Topology()))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Exported %s", StyleHighlight.Render(result.Engine.Topology().Meta.Name))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printFile(path)
	printDiagnostics(result.Diagnostics)
	return nil
}
