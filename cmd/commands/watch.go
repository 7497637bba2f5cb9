package commands

// Command to re-render manifest figures whenever their inputs change
// Implements graceful shutdown for proper termination

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/features/watch"
	"polo-charts/internal/infra/log"
)

var watchInitial bool

var watchCmd = &cobra.Command{
	Use:   "watch [FIGURE...]",
	Short: "Re-render figures when their CSV inputs change",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "render every figure once before watching")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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

	if watchInitial {
		if err := renderAll(ctx, r, figs); err != nil {
			// a missing or half-written input should not stop the watcher
			log.LogWarn("Initial render incomplete", zap.Error(err))
		}
	}

	w, err := watch.New(figs, func(ctx context.Context, fig charts.Figure) error {
		_, err := r.Render(ctx, fig)
		return err
	}, watch.Options{
		Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		Settle:   time.Duration(cfg.Watch.SettleMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}

	log.LogSuccess("Watching inputs", zap.Int("figures", len(figs)))

	<-ctx.Done()
	log.LogInfo("Shutdown signal received, gracefully stopping...")

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
		stats := w.Stats()
		log.LogSuccess("Watcher stopped gracefully",
			zap.Int("renders", stats.Renders),
			zap.Int("errors", stats.Errors))
	case <-time.After(10 * time.Second):
		log.LogWarn("Timeout waiting for watcher to stop")
	}
	return nil
}
