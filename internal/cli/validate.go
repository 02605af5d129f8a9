package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/schema"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/source"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// validateParallelism bounds concurrent document loads.
const validateParallelism = 8

// validateOpts holds options for the validate command.
type validateOpts struct {
	noSchema bool
	strict   bool
	noCache  bool
}

// validateResult is the outcome for one document.
type validateResult struct {
	location string
	nodes    int
	edges    int
	diags    []topology.Diagnostic
	err      error
}

func (r validateResult) failed(strict bool) bool {
	return r.err != nil || (strict && len(r.diags) > 0)
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var opts validateOpts

	cmd := &cobra.Command{
		Use:   "validate [file|glob|url]...",
		Short: "Check topology documents and report repairs",
		Long: `Validate loads each document, checks it against the topology JSON Schema and
normalizes it, listing every repair the normalizer had to make (missing ids,
duplicate ids, ambiguous parents, parent cycles, dangling edges).

Arguments may be files, ** globs, URLs or "-" for stdin. Without arguments
the bundled reference topology is checked.`,
		Example: `  topoviz validate topology.json
  topoviz validate 'docs/**/*.yaml' --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noSchema, "no-schema", false, "skip JSON Schema validation")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat normalizer repairs as failures")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching of remote documents")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, args []string, opts validateOpts) error {
	locations, err := expandLocations(args)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var validator *schema.Validator
	if !opts.noSchema && c.cfg.Schema.Enabled {
		validator = schema.MustNew()
	}

	results := make([]validateResult, len(locations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(validateParallelism)
	for i, loc := range locations {
		g.Go(func() error {
			results[i] = validateOne(gctx, runner.Loader, validator, loc)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		name := describeLocation(r.location)
		if r.failed(opts.strict) {
			failed++
		}
		if r.err != nil {
			printError("%s: %s", name, errs.UserMessage(r.err))
			for _, f := range errs.Fields(r.err) {
				path := f.Path
				if path == "" {
					path = "/"
				}
				printDetail("%s: %s", path, f.Message)
			}
			continue
		}
		if len(r.diags) == 0 {
			printSuccess("%s", name)
		} else {
			printWarning("%s: %d repairs", name, len(r.diags))
		}
		printStats(r.nodes, r.edges, false)
		printDiagnostics(r.diags)
	}

	if failed > 0 {
		return errs.New(errs.ErrCodeSchemaValidation, "%d of %d documents failed validation", failed, len(results))
	}
	return nil
}

// validateOne loads, validates and normalizes one document. An empty
// location checks the bundled reference topology.
func validateOne(ctx context.Context, loader *source.Loader, validator *schema.Validator, location string) validateResult {
	res := validateResult{location: location}

	var doc *source.Document
	if location == "" {
		doc, res.err = source.Decode("default.json", topology.DefaultDocument())
	} else {
		doc, res.err = loader.Load(ctx, location)
	}
	if res.err != nil {
		return res
	}
	if validator != nil {
		if res.err = validator.Validate(doc.Tree); res.err != nil {
			return res
		}
	}

	topo := topology.Normalize(doc.Tree)
	res.nodes, res.edges = len(topo.Nodes), len(topo.Edges)
	res.diags = topo.Diagnostics
	return res
}

// expandLocations expands ** globs against the file system. URLs, stdin
// and plain paths pass through unchanged so that missing files are
// reported by the loader. No arguments yield one empty location.
func expandLocations(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{""}, nil
	}
	var out []string
	for _, arg := range args {
		if arg == source.Stdin || source.IsRemote(arg) || !strings.ContainsAny(arg, "*?[{") {
			if err := errs.ValidateLocation(arg); err != nil && arg != source.Stdin {
				return nil, err
			}
			out = append(out, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "bad pattern %q", arg)
		}
		if len(matches) == 0 {
			return nil, errs.New(errs.ErrCodeFileNotFound, "no files match %q", arg)
		}
		out = append(out, matches...)
	}
	return out, nil
}

// describeLocation names a location for messages.
func describeLocation(location string) string {
	switch location {
	case "":
		return "bundled reference topology"
	case source.Stdin:
		return "stdin"
	}
	return fmt.Sprintf("%q", location)
}
