package commands

// Command to render one CSV log into a figure
// Each --panel picks an x and a y column; without --panel the logger layout
// (loss against iteration and against time, shared y axis) is used

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/infra/log"
	"polo-charts/internal/table"
)

var (
	renderPanels []string
	renderOut    string
	renderShareY bool
	renderRows   int
	renderCols   int
)

var renderCmd = &cobra.Command{
	Use:   "render INPUT",
	Short: "Render a CSV log to <out>.svg and <out>.pdf",
	Long: `Render reads INPUT once and draws one line panel per --panel.

A panel is X:Y[:XLABEL[:YLABEL[:TITLE]]]. X and Y are zero-based column
indexes; append "i" to parse a column as integers (for example 0i).
Labels accept simple math text such as $k$ or $f(\cdot)$.`,
	Example: `  polo-charts render logger.csv
  polo-charts render terminator.csv --out terminator \
    --panel '0i:2:Iteration ($k$):Total Loss' --panel '1:2:Time ($t$) [ms]' --share-y`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringArrayVarP(&renderPanels, "panel", "p", nil, "panel spec X:Y[:XLABEL[:YLABEL[:TITLE]]], repeatable")
	f.StringVar(&renderOut, "out", "", "output base name (default: input name without extension)")
	f.BoolVar(&renderShareY, "share-y", false, "share the y axis between panels")
	f.IntVar(&renderRows, "rows", 0, "grid rows (with --cols)")
	f.IntVar(&renderCols, "cols", 0, "grid columns (with --rows)")
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]

	fig := charts.Figure{
		Name:   renderOut,
		Input:  input,
		ShareY: renderShareY,
		Rows:   renderRows,
		Cols:   renderCols,
	}
	if fig.Name == "" {
		fig.Name = baseName(input)
	}

	if len(renderPanels) == 0 {
		fig.Panels = loggerPanels()
		fig.ShareY = true
	}
	for _, spec := range renderPanels {
		p, err := parsePanel(spec)
		if err != nil {
			return err
		}
		fig.Panels = append(fig.Panels, p)
	}

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	res, err := r.Render(cmd.Context(), fig)
	if err != nil {
		log.LogError("Render failed", zap.String("input", input), zap.Error(err))
		return err
	}
	reportResult(res)
	return nil
}

// loggerPanels plots the loss column against step and against elapsed time.
func loggerPanels() []charts.Panel {
	return []charts.Panel{
		{
			X:      table.Column{Index: table.ColStep, Kind: table.Int},
			Y:      table.Column{Index: table.ColValue},
			XLabel: `$k$`,
			YLabel: `$f(\cdot)$`,
		},
		{
			X:      table.Column{Index: table.ColElapsed},
			Y:      table.Column{Index: table.ColValue},
			XLabel: `$t$ [ms]`,
		},
	}
}

// parsePanel reads X:Y[:XLABEL[:YLABEL[:TITLE]]]. The title may contain colons.
func parsePanel(spec string) (charts.Panel, error) {
	parts := strings.SplitN(spec, ":", 5)
	if len(parts) < 2 {
		return charts.Panel{}, fmt.Errorf("panel %q: want X:Y[:XLABEL[:YLABEL[:TITLE]]]", spec)
	}
	x, err := parseColumn(parts[0])
	if err != nil {
		return charts.Panel{}, fmt.Errorf("panel %q: x: %w", spec, err)
	}
	y, err := parseColumn(parts[1])
	if err != nil {
		return charts.Panel{}, fmt.Errorf("panel %q: y: %w", spec, err)
	}
	p := charts.Panel{X: x, Y: y}
	labels := []*string{&p.XLabel, &p.YLabel, &p.Title}
	for i, label := range parts[2:] {
		*labels[i] = label
	}
	return p, nil
}

// parseColumn reads an index with an optional "i" (integer) or "f" (float) suffix.
func parseColumn(s string) (table.Column, error) {
	s = strings.TrimSpace(s)
	kind := table.Float
	switch {
	case strings.HasSuffix(s, "i"):
		kind = table.Int
		s = strings.TrimSuffix(s, "i")
	case strings.HasSuffix(s, "f"):
		s = strings.TrimSuffix(s, "f")
	}
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return table.Column{}, fmt.Errorf("invalid column %q", s)
	}
	return table.Column{Index: idx, Kind: kind}, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func reportResult(res *charts.Result) {
	rows := 0
	for _, s := range res.Series {
		rows += len(s.X)
	}
	paths := make([]string, len(res.Files))
	for i, f := range res.Files {
		paths[i] = f.Path
	}
	log.LogSuccess(fmt.Sprintf("%s: %d panels, %d points -> %s",
		res.Figure, len(res.Series), rows, strings.Join(paths, ", ")))
}

// renderAll renders figures one after another, stopping at the first error.
func renderAll(ctx context.Context, r *charts.Renderer, figs []charts.Figure) error {
	for _, fig := range figs {
		res, err := r.Render(ctx, fig)
		if err != nil {
			return fmt.Errorf("%s: %w", fig.Name, err)
		}
		reportResult(res)
	}
	return nil
}
