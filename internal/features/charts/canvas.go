package charts

import (
	"fmt"
	"image/color"
	"io"
	"strings"
)

// Format is an output file format, also used as the file extension.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// DefaultFormats are written when none are configured.
var DefaultFormats = []Format{FormatSVG, FormatPDF}

// ParseFormats validates format names such as "svg", "PDF" or ".png".
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	var out []Format
	for _, name := range names {
		f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")))
		switch f {
		case FormatSVG, FormatPDF, FormatPNG:
		default:
			return nil, fmt.Errorf("unsupported output format %q", name)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// LineStyle describes a stroke. Dash lengths are in points; nil is solid.
type LineStyle struct {
	Color color.RGBA
	Width float64
	Dash  []float64
}

// Canvas is a drawing surface in points with the origin at the top left.
type Canvas interface {
	SetLineStyle(s LineStyle)
	Line(x1, y1, x2, y2 float64)
	Polyline(xs, ys []float64)
	StrokeRect(x, y, w, h float64)
	// Text draws s with its baseline starting at (x, y). Rotated text runs
	// bottom to top, turned about (x, y).
	Text(s string, x, y, size float64, c color.RGBA, rotated bool)
	// Encode writes the finished document.
	Encode(w io.Writer) error
}

// Metadata is embedded in outputs that support it.
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Creator string
}

func newCanvas(format Format, width, height float64, f *Font, dpi float64, meta Metadata) (Canvas, error) {
	switch format {
	case FormatSVG:
		return newSVGCanvas(width, height, f, meta), nil
	case FormatPDF:
		return newPDFCanvas(width, height, f, meta)
	case FormatPNG:
		return newPNGCanvas(width, height, f, dpi), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
