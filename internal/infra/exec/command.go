package exec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ErrToolNotFound is returned when the executable is not on PATH.
var ErrToolNotFound = errors.New("tool not found")

// RunTool executes an external program in dir with a timeout.
// Returns combined output and error
func RunTool(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) ([]byte, error) {
	path, err := validateInstalled(name)
	if err != nil {
		return nil, err
	}

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		if info, err := os.Stat(absDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("working directory not found: %s", absDir)
		}
		dir = absDir
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, fmt.Errorf("%s timed out after %v", name, timeout)
	}
	if ctx.Err() != nil {
		return output, ctx.Err()
	}
	if err != nil {
		return output, fmt.Errorf("%s failed: %w", name, err)
	}
	return output, nil
}

func validateInstalled(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not installed or not in PATH", ErrToolNotFound, name)
	}
	return path, nil
}
