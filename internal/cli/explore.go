package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/pipeline"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/view"
)

// exploreOpts holds options for the explore command.
type exploreOpts struct {
	view    viewFlags
	noCache bool
}

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore [file|url|-]",
		Short: "Browse a topology level by level in the terminal",
		Long: `Explore opens an interactive browser over a topology. Move with the arrow
keys, press enter to open a node's panel, d to drill into it and backspace to
go back up. 1, 2 and 3 switch levels and / searches.

Without a file the bundled reference topology is explored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), locationArg(args), opts)
		},
	}

	opts.view.register(cmd.Flags())
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching of remote documents")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, location string, opts exploreOpts) error {
	popts := c.baseOptions(location)
	if err := opts.view.apply(&popts); err != nil {
		return err
	}

	eng, err := c.loadView(ctx, popts, opts.noCache)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewExploreModel(eng), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// loadView loads a topology and applies the view options without laying it
// out or rendering.
func (c *CLI) loadView(ctx context.Context, popts pipeline.Options, noCache bool) (*view.Engine, error) {
	popts.SkipLayout = true
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return nil, err
	}
	printDiagnostics(result.Diagnostics)
	return result.Engine, nil
}
