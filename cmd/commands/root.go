package commands

// Root command for Cobra CLI
// Loads configuration and logging before any subcommand runs
// Registers all subcommands (render, variants, build, watch, publish, docs, init)

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polo-charts/internal/config"
	"polo-charts/internal/infra/log"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "polo-charts",
	Short: "Render optimizer logs to SVG and PDF figures",
	Long: `polo-charts reads the CSV logs written by POLO optimizers and renders
line charts (loss against iteration and time, algorithm variants side by side)
to SVG and PDF. It also builds the Sphinx manual and can publish previews to Telegram.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		if err := log.Init(log.Options{Dir: cfg.Log.Dir, Debug: cfg.Log.Debug, Console: true}); err != nil {
			return err
		}
		log.LogDebug("Config loaded",
			zap.String("command", cmd.Name()),
			zap.String("output_dir", cfg.Chart.OutputDir),
			zap.Strings("formats", cfg.Chart.Formats))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	pf.String("manifest", "charts.yaml", "figure manifest")
	pf.StringP("output-dir", "o", ".", "directory for rendered files")
	pf.StringSlice("format", []string{"svg", "pdf"}, "output formats: svg, pdf, png")
	pf.Float64("height", 4.8, "figure height in inches")
	pf.Float64("dpi", 100, "PNG resolution")
	pf.String("font", "", "TrueType font file (default: embedded Go Regular)")
	pf.Float64("font-size", 10, "base font size in points")
	pf.Int("workers", 4, "figures rendered in parallel by build")
	pf.String("log-dir", "logs", "directory for app.log")
	pf.Bool("debug", false, "write debug entries to the log file")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(variantsCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(initCmd)
}
