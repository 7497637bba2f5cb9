package commands

// Shared helpers: build a chart renderer from configuration and load the manifest

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"polo-charts/internal/config"
	"polo-charts/internal/features/charts"
	"polo-charts/internal/infra/log"
	"polo-charts/internal/manifest"
)

func newRenderer(c *config.Config, extra ...charts.Format) (*charts.Renderer, error) {
	formats, err := charts.ParseFormats(c.Chart.Formats)
	if err != nil {
		return nil, err
	}
	for _, f := range extra {
		if !hasFormat(formats, f) {
			formats = append(formats, f)
		}
	}

	font := charts.DefaultFont()
	if c.Chart.FontPath != "" {
		if font, err = charts.LoadFont(c.Chart.FontPath); err != nil {
			return nil, err
		}
	}

	style := charts.DefaultStyle()
	if c.Chart.FontSize > 0 {
		style.TitleSize = c.Chart.FontSize * style.TitleSize / style.FontSize
		style.FontSize = c.Chart.FontSize
	}
	if c.Chart.LineWidth > 0 {
		style.LineWidth = c.Chart.LineWidth
	}

	return charts.NewRenderer(charts.Options{
		OutputDir: c.Chart.OutputDir,
		Formats:   formats,
		HeightIn:  c.Chart.HeightIn,
		DPI:       c.Chart.DPI,
		Font:      font,
		Style:     style,
		Meta: charts.Metadata{
			Author:  c.Project.Author,
			Creator: "polo-charts",
		},
	}), nil
}

func hasFormat(formats []charts.Format, f charts.Format) bool {
	for _, have := range formats {
		if have == f {
			return true
		}
	}
	return false
}

// loadManifest reads the configured manifest. When the default manifest file
// is absent the built-in figures are used.
func loadManifest(c *config.Config) (*manifest.Manifest, error) {
	m, err := manifest.Load(c.Manifest)
	if err == nil {
		return m, nil
	}
	if errors.Is(err, os.ErrNotExist) && c.Manifest == "charts.yaml" {
		log.LogInfo("No charts.yaml found, using built-in figures", zap.String("manifest", c.Manifest))
		return manifest.DefaultManifest(), nil
	}
	return nil, fmt.Errorf("failed to load manifest: %w", err)
}

// selectFigures returns the named figures, or all of them when names is empty.
func selectFigures(m *manifest.Manifest, names []string) ([]charts.Figure, error) {
	if len(names) == 0 {
		return m.Expand()
	}
	figs := make([]charts.Figure, 0, len(names))
	for _, name := range names {
		spec, ok := m.Find(name)
		if !ok {
			return nil, fmt.Errorf("figure %q is not in the manifest", name)
		}
		fig, err := spec.Figure()
		if err != nil {
			return nil, err
		}
		figs = append(figs, fig)
	}
	return figs, nil
}
