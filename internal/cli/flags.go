package cli

import (
	"github.com/spf13/pflag"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/pipeline"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// viewFlags are the view state options shared by render, export and
// inspect.
type viewFlags struct {
	level  string
	focus  string
	search string
	typ    string
	tag    string
	intent string
	sel    string
}

func (f *viewFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.level, "level", "", "active level: high, medium or low")
	fs.StringVar(&f.focus, "focus", "", "drill into this node id")
	fs.StringVar(&f.search, "search", "", "highlight nodes matching this term")
	fs.StringVar(&f.typ, "type", "", "only match nodes of this type")
	fs.StringVar(&f.tag, "tag", "", "only match nodes with this tag")
	fs.StringVar(&f.intent, "intent", "", "only match edges with this intent")
	fs.StringVar(&f.sel, "select", "", "select this node id")
}

// apply copies the flags into opts.
func (f *viewFlags) apply(opts *pipeline.Options) error {
	if f.level != "" {
		level, ok := topology.ParseLevel(f.level)
		if !ok {
			return errs.New(errs.ErrCodeInvalidLevel, "unknown level %q (want high, medium or low)", f.level)
		}
		opts.Level = level
	}
	for _, id := range []string{f.focus, f.sel} {
		if id == "" {
			continue
		}
		if err := errs.ValidateNodeID(id); err != nil {
			return err
		}
	}
	opts.Focus = f.focus
	opts.Search = f.search
	opts.Type = f.typ
	opts.Tag = f.tag
	opts.Intent = f.intent
	opts.Select = f.sel
	return nil
}
