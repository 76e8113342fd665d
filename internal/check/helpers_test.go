package check_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// runnerFunc adapts a function to check.CommandRunner.
type runnerFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func (f runnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return f(ctx, name, args...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
