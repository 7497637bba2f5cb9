package docs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"polo-charts/internal/config"
	"polo-charts/internal/infra/exec"
	"polo-charts/internal/infra/log"
)

// Build regenerates conf.py and runs sphinx-build on the documentation
// sources, writing into <build_dir>/<builder>. It returns the output directory.
func Build(ctx context.Context, project config.ProjectConfig, docs config.DocsConfig) (string, error) {
	start := time.Now()

	if _, err := SaveConf(project, docs); err != nil {
		return "", err
	}

	builder := docs.Builder
	if builder == "" {
		builder = "html"
	}
	tool := docs.SphinxBuild
	if tool == "" {
		tool = "sphinx-build"
	}
	outDir := filepath.Join(docs.BuildDir, builder)
	timeout := time.Duration(docs.Timeout) * time.Second

	output, err := exec.RunTool(ctx, "", timeout, tool, "-b", builder, docs.SourceDir, outDir)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.LogError("Documentation build failed",
			zap.String("builder", builder),
			zap.Int64("duration_ms", duration),
			zap.ByteString("output", tail(output, 2048)),
			zap.Error(err))
		return "", fmt.Errorf("sphinx build: %w", err)
	}

	log.LogSuccess("Documentation built",
		zap.String("builder", builder),
		zap.String("output", outDir),
		zap.Int64("duration_ms", duration))
	return outDir, nil
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
