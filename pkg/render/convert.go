package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
)

// Formats produced by the renderers.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// rsvgConvert is the converter binary; tests replace it.
var rsvgConvert = "rsvg-convert"

// ToPDF converts SVG to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "-f", "pdf")
}

// ToPNG converts SVG to PNG at the given scale. A scale of 0 means 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	z := strconv.FormatFloat(scale, 'f', -1, 64)
	return convert(ctx, svg, "-f", "png", "-z", z)
}

func convert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeUnsupported, err,
			"%s not found; install librsvg (brew install librsvg, apt install librsvg2-bin)", rsvgConvert)
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "%s: %s", rsvgConvert, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
