// Package source reads topology documents from files, URLs and stdin.
//
// A location is a file path, an http or https URL, or "-" for stdin. YAML
// is chosen by a .yaml or .yml suffix, or by content when the body does not
// start with a JSON object. Remote documents are fetched with retries and
// cached; see [Loader].
package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/cache"
	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/httputil"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/topology"
)

// Stdin is the location that reads from standard input.
const Stdin = "-"

// Format identifies the document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a loaded, decoded but not yet normalized topology.
type Document struct {
	Location string
	Format   Format
	Data     []byte
	Tree     any
}

// Loader resolves locations to documents.
type Loader struct {
	http  *httputil.Client
	stdin io.Reader

	// Refresh bypasses the cache for remote documents.
	Refresh bool
}

// NewLoader creates a loader whose remote fetches are cached in c for ttl.
// c may be nil.
func NewLoader(c cache.Cache, ttl time.Duration) *Loader {
	return &Loader{
		http:  httputil.NewClient(c, "source", ttl, map[string]string{"Accept": "application/json, application/yaml;q=0.9, */*;q=0.5"}),
		stdin: os.Stdin,
	}
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads and decodes the document at location.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	data, err := l.read(ctx, location)
	if err != nil {
		return nil, err
	}
	return Decode(location, data)
}

// Topology loads location and normalizes it.
func (l *Loader) Topology(ctx context.Context, location string) (*topology.Topology, error) {
	doc, err := l.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	return topology.Normalize(doc.Tree), nil
}

func (l *Loader) read(ctx context.Context, location string) ([]byte, error) {
	switch {
	case location == "":
		return nil, errs.New(errs.ErrCodeInvalidPath, "no topology location given")
	case location == Stdin:
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	case IsRemote(location):
		var data []byte
		err := l.http.Cached(ctx, cache.Key("doc", location), l.Refresh, &data, func() error {
			body, err := l.http.GetBytes(ctx, location)
			data = body
			return err
		})
		return data, err
	}

	data, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "topology file %s not found", location)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "read %s", location)
	}
	return data, nil
}

// Decode decodes data, using location to pick the format.
func Decode(location string, data []byte) (*Document, error) {
	doc := &Document{Location: location, Data: data, Format: DetectFormat(location, data)}
	var err error
	if doc.Format == FormatYAML {
		doc.Tree, err = topology.DecodeYAML(data)
	} else {
		doc.Tree, err = topology.Decode(data)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DetectFormat picks YAML for .yaml and .yml locations, JSON for .json, and
// otherwise sniffs the first non-blank byte.
func DetectFormat(location string, data []byte) Format {
	path := location
	if u, err := url.Parse(location); err == nil && IsRemote(location) {
		path = u.Path
	}
	lower := strings.ToLower(path)
	switch {
	case topology.IsYAMLPath(lower):
		return FormatYAML
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}
