package commands

// Command to render a figure and send its PNG preview to Telegram
// Uses telegram.bot_token and telegram.chat_id from config or environment

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/features/publish"
	"polo-charts/internal/infra/log"
)

var publishCaption string

var publishCmd = &cobra.Command{
	Use:   "publish FIGURE...",
	Short: "Render figures and send PNG previews to a Telegram chat",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishCaption, "caption", "", "caption (default: figure name and sample counts)")
}

func runPublish(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateTelegram(); err != nil {
		return err
	}

	m, err := loadManifest(cfg)
	if err != nil {
		return err
	}
	figs, err := selectFigures(m, args)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg, charts.FormatPNG)
	if err != nil {
		return err
	}
	pub, err := publish.NewBot(cfg.Telegram)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	for _, fig := range figs {
		res, err := r.Render(ctx, fig)
		if err != nil {
			return fmt.Errorf("%s: %w", fig.Name, err)
		}
		png, ok := res.File(charts.FormatPNG)
		if !ok {
			return fmt.Errorf("%s: no PNG rendered", fig.Name)
		}
		if err := pub.SendChartFile(ctx, png.Path, caption(res)); err != nil {
			return err
		}
		log.LogSuccess("Published "+fig.Name, zap.String("file", png.Path))
	}
	return nil
}

func caption(res *charts.Result) string {
	if publishCaption != "" {
		return publishCaption
	}
	points := 0
	for _, s := range res.Series {
		points += len(s.X)
	}
	return fmt.Sprintf("%s: %d panels, %d points", res.Figure, len(res.Series), points)
}
