package check

import (
	"context"
	"os/exec"
)

// CommandRunner abstracts external command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// LookPathFunc resolves an executable name on the search path.
type LookPathFunc func(name string) (string, error)

// osRunner is the real CommandRunner that uses os/exec.
type osRunner struct{}

// OSRunner returns a CommandRunner backed by os/exec.
func OSRunner() CommandRunner {
	return &osRunner{}
}

func (e *osRunner) Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err = cmd.Output()
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderr = exitErr.Stderr
	}
	return stdout, stderr, err
}
