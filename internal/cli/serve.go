package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fadel-segaf-developer/Topology-Visualizer/internal/server"
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	addr            string
	engine          string
	watch           bool
	allowAllOrigins bool
	noCache         bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file|url]",
		Short: "Serve a topology and its view state over HTTP",
		Long: `Serve loads a topology and exposes its scene, view commands, node panels,
layout and rendered outputs as a JSON API under /api. All clients share one
view.

With --watch a local file is reloaded whenever it changes. Defaults come from
the [server] section of the configuration file.`,
		Example: `  topoviz serve topology.yaml --watch
  topoviz serve --addr :9000 --allow-all-origins`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, locationArg(args), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: graphviz or grid (default from config)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the file when it changes")
	cmd.Flags().BoolVar(&opts.allowAllOrigins, "allow-all-origins", false, "accept cross-origin requests from any origin")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, location string, opts serveOpts) error {
	cfg := server.Config{
		Addr:            c.cfg.Server.Addr,
		AllowAllOrigins: c.cfg.Server.AllowAllOrigins,
		Watch:           c.cfg.Server.Watch,
		Location:        location,
		Engine:          c.cfg.Layout.Engine,
		LayoutTimeout:   c.cfg.Layout.Timeout,
		Validate:        c.cfg.Schema.Enabled,
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = opts.addr
	}
	if flags.Changed("engine") {
		cfg.Engine = opts.engine
	}
	if flags.Changed("watch") {
		cfg.Watch = opts.watch
	}
	if flags.Changed("allow-all-origins") {
		cfg.AllowAllOrigins = opts.allowAllOrigins
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(cfg, runner, c.Logger)
	if err := srv.Load(ctx); err != nil {
		return err
	}
	printSuccess("Serving %s on %s", describeLocation(location), StyleLink.Render("http://"+cfg.Addr+"/api/scene"))
	if cfg.Watch {
		printDetail("Watching for changes")
	}
	return srv.Run(ctx)
}
