package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/inspect"
)

// inspectOpts holds options for the inspect command.
type inspectOpts struct {
	json    bool
	html    bool
	noCache bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file|url|-] <node-id>",
		Short: "Show the detail panel of one node",
		Long: `Inspect prints everything known about one node: its status, children,
incoming and outgoing connections grouped by intent, source location, linked
issues and pull requests, insights and details.

With a single argument the node is looked up in the bundled reference
topology.`,
		Example: `  topoviz inspect topology.json payments
  topoviz inspect topology.json payments --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, id := "", args[0]
			if len(args) == 2 {
				location, id = args[0], args[1]
			}
			return c.runInspect(cmd.Context(), cmd, location, id, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the panel as JSON")
	cmd.Flags().BoolVar(&opts.html, "html", false, "print the node details rendered as HTML")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching of remote documents")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, cmd *cobra.Command, location, id string, opts inspectOpts) error {
	if err := errs.ValidateNodeID(id); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	eng, err := runner.Load(ctx, c.baseOptions(location))
	if err != nil {
		return err
	}
	panel, err := inspect.Inspect(eng, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(panel)
	case opts.html:
		_, err := fmt.Fprint(out, panel.DetailsHTML)
		return err
	}
	_, err = fmt.Fprintln(out, renderPanel(panel, 0))
	return err
}
