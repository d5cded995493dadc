package sink

import (
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/peerplot/pkg/canvas"
	"github.com/matzehuels/peerplot/pkg/errors"
)

// Format is an output format for a single render target.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported per-target format.
var Formats = []Format{FormatSVG, FormatJSON, FormatPNG, FormatPDF}

// ParseFormat converts a file extension or flag value into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg, json, png or pdf)", s)
	}
	return f, nil
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Options carries the settings shared by every format.
type Options struct {
	Scale      float64      // PNG scale factor
	Animate    bool         // SVG: embed the bar transition script
	RSVG       bool         // PNG: rasterise through rsvg-convert
	Background canvas.Color // SVG and PNG background; zero is transparent
}

// Render writes t in format f.
func Render(ctx context.Context, t *canvas.Target, f Format, opts Options) ([]byte, error) {
	var svgOpts []SVGOption
	if !opts.Background.IsZero() {
		svgOpts = append(svgOpts, WithBackground(opts.Background))
	}

	switch f {
	case FormatSVG:
		if opts.Animate {
			svgOpts = append(svgOpts, WithAnimation())
		} else {
			svgOpts = append(svgOpts, WithFinalState())
		}
		return RenderSVG(t, svgOpts...), nil
	case FormatJSON:
		return RenderTargetJSON(t)
	case FormatPNG:
		pngOpts := []PNGOption{WithPNGBackground(opts.Background)}
		if opts.Scale > 0 {
			pngOpts = append(pngOpts, WithScale(opts.Scale))
		}
		if opts.RSVG {
			pngOpts = append(pngOpts, WithRSVG())
		}
		return RenderPNG(ctx, t, pngOpts...)
	case FormatPDF:
		return RenderPDF(ctx, t, WithPDFSVGOptions(svgOpts...))
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q", f)
}
