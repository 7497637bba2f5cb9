package commands

// Command to render one panel per algorithm variant into a shared grid
// Inputs are derived from the base name and each variant

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/infra/log"
	"polo-charts/internal/manifest"
)

var (
	variantNames    []string
	variantTemplate string
	variantPanel    string
)

var variantsCmd = &cobra.Command{
	Use:   "variants BASE",
	Short: "Render BASE-<variant>.csv files into one grid titled by variant",
	Example: `  polo-charts variants logistic
  polo-charts variants logistic-l1-l2 --panel '0i:2:Iteration ($k$):Total Loss'`,
	Args: cobra.ExactArgs(1),
	RunE: runVariants,
}

func init() {
	f := variantsCmd.Flags()
	f.StringSliceVar(&variantNames, "variant", manifest.DefaultVariants, "variant names, in panel order")
	f.StringVar(&variantTemplate, "template", charts.DefaultVariantTemplate, "input file template with {base} and {variant}")
	f.StringVarP(&variantPanel, "panel", "p", `0i:2:$k$:$f(\cdot)$`, "panel spec X:Y[:XLABEL[:YLABEL]] used for every variant")
}

func runVariants(cmd *cobra.Command, args []string) error {
	base := args[0]

	panel, err := parsePanel(variantPanel)
	if err != nil {
		return err
	}
	fig := charts.VariantFigure(base, variantNames, panel, variantTemplate)

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	res, err := r.Render(cmd.Context(), fig)
	if err != nil {
		log.LogError("Variant render failed", zap.String("base", base), zap.Error(err))
		return err
	}
	reportResult(res)
	return nil
}
