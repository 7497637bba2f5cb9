package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"polo-charts/internal/features/charts"
	"polo-charts/internal/infra/fs"
	"polo-charts/internal/manifest"
)

// go run ./etc/tools -dir etc/samples
// writes synthetic optimizer logs for the built-in figures and renders them
func main() {
	dir := flag.String("dir", "etc/samples", "output directory")
	iters := flag.Int("iters", 200, "iterations per log")
	flag.Parse()

	if err := run(*dir, *iters); err != nil {
		fmt.Printf("Error generating samples: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sample charts written to %s\n", *dir)
}

func run(dir string, iters int) error {
	rates := map[string]float64{"momentum": 0.03, "nesterov": 0.04, "adagrad": 0.02, "adam": 0.05}

	logs := map[string]float64{"logger": 0.03, "terminator": 0.02}
	for _, base := range []string{"logistic", "logistic-l1-l2"} {
		for v, r := range rates {
			logs[base+"-"+v] = r
		}
	}
	for name, rate := range logs {
		if err := fs.WriteFileAtomic(filepath.Join(dir, name+".csv"), []byte(synthetic(iters, rate)), 0644); err != nil {
			return err
		}
	}

	figs, err := manifest.DefaultManifest().Expand()
	if err != nil {
		return err
	}
	r := charts.NewRenderer(charts.Options{
		OutputDir: dir,
		Formats:   []charts.Format{charts.FormatSVG, charts.FormatPDF, charts.FormatPNG},
	})
	for _, fig := range figs {
		fig.Input = inDir(dir, fig.Input)
		for i := range fig.Panels {
			fig.Panels[i].Source = inDir(dir, fig.Panels[i].Source)
		}
		if _, err := r.Render(context.Background(), fig); err != nil {
			return err
		}
	}
	return nil
}

func inDir(dir, path string) string {
	if path == "" {
		return ""
	}
	return filepath.Join(dir, path)
}

// synthetic writes k,t,f rows of a noisy exponentially decaying loss.
func synthetic(iters int, rate float64) string {
	var b strings.Builder
	b.WriteString("k,t,f\n")
	elapsed := 0.0
	for k := 0; k < iters; k++ {
		elapsed += 0.5 + rand.Float64()
		f := 0.1 + math.Exp(-rate*float64(k))*(1+0.05*rand.NormFloat64())
		fmt.Fprintf(&b, "%d,%.3f,%.6f\n", k, elapsed, f)
	}
	return b.String()
}
