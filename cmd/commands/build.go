package commands

// Command to render every figure in the manifest
// Figures are rendered in parallel, limited by chart.workers

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/infra/log"
)

var buildCmd = &cobra.Command{
	Use:   "build [FIGURE...]",
	Short: "Render the figures declared in the manifest",
	Long: `Build renders every figure in the manifest (charts.yaml), or only the
named figures. Without a manifest file the built-in getting-started and
serial figures are rendered.`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()

	m, err := loadManifest(cfg)
	if err != nil {
		return err
	}
	figs, err := selectFigures(m, args)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}

	results := make([]*charts.Result, len(figs))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Chart.Workers)
	for i, fig := range figs {
		i, fig := i, fig
		g.Go(func() error {
			res, err := r.Render(ctx, fig)
			if err != nil {
				return fmt.Errorf("%s: %w", fig.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.LogError("Build failed", zap.Error(err))
		return err
	}

	for _, res := range results {
		reportResult(res)
	}
	log.LogSuccess(fmt.Sprintf("Built %d figures", len(figs)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
