package commands

// Commands for the Sphinx manual: write conf.py or run a full build

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polo-charts/internal/features/docs"
	"polo-charts/internal/infra/log"
)

var confStdout bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate and build the documentation",
}

var docsConfCmd = &cobra.Command{
	Use:   "conf",
	Short: "Write <docs.source_dir>/conf.py from the project and docs settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if confStdout {
			return docs.WriteConf(cmd.OutOrStdout(), cfg.Project, cfg.Docs)
		}
		path, err := docs.SaveConf(cfg.Project, cfg.Docs)
		if err != nil {
			return err
		}
		log.LogSuccess("Wrote " + path)
		return nil
	},
}

var docsBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Regenerate conf.py and run sphinx-build",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := docs.Build(cmd.Context(), cfg.Project, cfg.Docs)
		if err != nil {
			return err
		}
		log.LogInfo("Documentation output", zap.String("dir", out))
		return nil
	},
}

func init() {
	docsConfCmd.Flags().BoolVar(&confStdout, "stdout", false, "print conf.py instead of writing it")
	docsCmd.AddCommand(docsConfCmd)
	docsCmd.AddCommand(docsBuildCmd)
}
