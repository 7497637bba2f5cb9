package commands

// Command to write a starter manifest with the built-in figures

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"polo-charts/internal/infra/fs"
	"polo-charts/internal/infra/log"
	"polo-charts/internal/manifest"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in figures to the manifest file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Manifest
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		var buf bytes.Buffer
		if err := manifest.DefaultManifest().Encode(&buf); err != nil {
			return err
		}
		if err := fs.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
			return err
		}
		log.LogSuccess("Wrote " + path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing manifest")
}
