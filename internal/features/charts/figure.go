package charts

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"polo-charts/internal/table"
)

// ErrInvalidFigure is returned for figures that cannot be laid out.
var ErrInvalidFigure = errors.New("invalid figure")

// Panel is one subplot: which columns feed the axes and how it is labelled.
type Panel struct {
	X      table.Column
	Y      table.Column
	XLabel string
	YLabel string
	Title  string
	// Source overrides Figure.Input for this panel.
	Source string
}

// Figure is a grid of panels written to <Name>.<format>.
type Figure struct {
	Name   string
	Input  string
	Panels []Panel
	ShareY bool
	// Rows and Cols override the automatic grid when both are set.
	Rows int
	Cols int
}

// Grid returns the rows and columns used for n panels: one row for up to two
// panels, otherwise a near-square grid (four panels give 2x2).
func Grid(n int) (rows, cols int) {
	if n <= 0 {
		return 1, 1
	}
	if n <= 2 {
		return 1, n
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return rows, cols
}

func (f Figure) grid() (rows, cols int) {
	if f.Rows > 0 && f.Cols > 0 {
		return f.Rows, f.Cols
	}
	return Grid(len(f.Panels))
}

// Validate checks the figure can be rendered.
func (f Figure) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: empty output name", ErrInvalidFigure)
	}
	if strings.ContainsAny(f.Name, `/\`) {
		return fmt.Errorf("%w: output name %q must not contain a path separator", ErrInvalidFigure, f.Name)
	}
	if len(f.Panels) == 0 {
		return fmt.Errorf("%w: %s has no panels", ErrInvalidFigure, f.Name)
	}
	if (f.Rows > 0) != (f.Cols > 0) {
		return fmt.Errorf("%w: %s: rows and cols must be set together", ErrInvalidFigure, f.Name)
	}
	rows, cols := f.grid()
	if rows*cols < len(f.Panels) {
		return fmt.Errorf("%w: %s: %dx%d grid cannot hold %d panels", ErrInvalidFigure, f.Name, rows, cols, len(f.Panels))
	}
	for i, p := range f.Panels {
		if p.X.Index < 0 || p.Y.Index < 0 {
			return fmt.Errorf("%w: %s panel %d: negative column index", ErrInvalidFigure, f.Name, i)
		}
		if p.Source == "" && f.Input == "" {
			return fmt.Errorf("%w: %s panel %d has no input file", ErrInvalidFigure, f.Name, i)
		}
	}
	return nil
}

func (f Figure) source(p Panel) string {
	if p.Source != "" {
		return p.Source
	}
	return f.Input
}

// Inputs lists the distinct files the figure reads, in panel order.
func (f Figure) Inputs() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range f.Panels {
		src := f.source(p)
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		out = append(out, src)
	}
	return out
}

// DefaultVariantTemplate derives variant inputs as <base>-<variant>.csv.
const DefaultVariantTemplate = "{base}-{variant}.csv"

// VariantInput expands {base} and {variant} in tmpl.
func VariantInput(tmpl, base, variant string) string {
	if tmpl == "" {
		tmpl = DefaultVariantTemplate
	}
	return strings.NewReplacer("{base}", base, "{name}", base, "{variant}", variant).Replace(tmpl)
}

// VariantFigure builds one panel per variant from panel, each reading its own
// input file and titled with the variant name. Variants share the y axis.
func VariantFigure(base string, variants []string, panel Panel, inputTemplate string) Figure {
	fig := Figure{Name: base, ShareY: true}
	for _, v := range variants {
		p := panel
		p.Source = VariantInput(inputTemplate, base, v)
		p.Title = v
		fig.Panels = append(fig.Panels, p)
	}
	return fig
}
