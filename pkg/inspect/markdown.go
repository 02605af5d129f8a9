package inspect

import (
	"bytes"
	"sync"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

// md renders node details. Raw HTML in documents is escaped, since
// topologies may come from untrusted sources.
var md = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
})

// Markdown renders markdown source to HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md().Convert([]byte(src), &buf); err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidFormat, err, "render markdown")
	}
	return buf.String(), nil
}
