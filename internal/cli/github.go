package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/forge/github"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// githubOpts holds options for the github command.
type githubOpts struct {
	output  string
	limit   int
	baseURL string
	refresh bool
	noCache bool
}

// githubCommand creates the github command.
func (c *CLI) githubCommand() *cobra.Command {
	var opts githubOpts

	cmd := &cobra.Command{
		Use:   "github [owner/name]",
		Short: "Turn a GitHub repository into a topology",
		Long: `Github reads a repository with its milestones, issues and pull requests from
the GitHub API and writes a three-level topology: the repository at the high
level, milestones at the medium level, and issues and pull requests at the
low level.

Without an argument the origin remote of the current git repository is used.
Set GITHUB_TOKEN (or github.token in the config file) to raise the rate limit
and read private repositories.`,
		Example: `  topoviz github charmbracelet/bubbletea -o bubbletea.json
  topoviz github | topoviz render - -f svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGitHub(cmd.Context(), cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum milestones, issues and pull requests (default from config)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "API root for GitHub Enterprise")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGitHub(ctx context.Context, cmd *cobra.Command, args []string, opts githubOpts) error {
	slug := locationArg(args)
	if slug == "" {
		detected, err := github.DetectRepo(".")
		if err != nil {
			return err
		}
		slug = detected
	}
	if _, _, err := github.SplitSlug(slug); err != nil {
		return err
	}
	limit := opts.limit
	if limit <= 0 {
		limit = c.cfg.GitHub.Limit
	}

	store, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	client := github.NewClient(store, c.cfg.GitHub.Token, c.cfg.Cache.TTL)
	if opts.baseURL != "" {
		client.WithBaseURL(opts.baseURL)
	}

	spinner := newSpinner(ctx, "Reading "+slug+" from GitHub...")
	spinner.Start()
	topo, err := client.Export(ctx, slug, limit, opts.refresh)
	spinner.Stop()
	if err != nil {
		return err
	}

	if opts.output == "" || opts.output == "-" {
		return topology.Write(topo, cmd.OutOrStdout())
	}
	if err := topology.WriteFile(topo, opts.output); err != nil {
		return err
	}
	printSuccess("Exported %s", StyleHighlight.Render(slug))
	printStats(len(topo.Nodes), len(topo.Edges), false)
	printFile(opts.output)
	printNextStep("Explore it", "topoviz explore "+opts.output)
	return nil
}
