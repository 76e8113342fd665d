package check

import (
	"context"
	"fmt"
	"os"
)

// EnsureResult reports what EnsureVenv did.
type EnsureResult struct {
	Path    string
	Created bool
}

// EnsureVenv creates the isolated dependency environment at path if it does
// not exist. It is idempotent: a second call is a no-op, not an error. This
// is the only check-layer operation with a filesystem side effect.
func EnsureVenv(ctx context.Context, interpreter, path string, runner CommandRunner) (EnsureResult, error) {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return EnsureResult{}, fmt.Errorf("%s exists but is not a directory", path)
		}
		return EnsureResult{Path: path, Created: false}, nil
	}
	if !os.IsNotExist(err) {
		return EnsureResult{}, fmt.Errorf("inspecting %s: %w", path, err)
	}

	if runner == nil {
		runner = OSRunner()
	}
	if _, stderr, err := runner.Run(ctx, interpreter, "-m", "venv", path); err != nil {
		if msg := lastLine(stderr); msg != "" {
			return EnsureResult{}, fmt.Errorf("creating venv at %s: %s", path, msg)
		}
		return EnsureResult{}, fmt.Errorf("creating venv at %s: %w", path, err)
	}
	return EnsureResult{Path: path, Created: true}, nil
}
