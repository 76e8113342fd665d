package launch

import (
	"os"
	"os/exec"
)

// Executor hands the current process over to the launch command.
type Executor interface {
	// Exec replaces the current process with cmd. On Unix this uses
	// syscall.Exec; on Windows it returns an error.
	Exec(cmd Command) error
}

// OSExecutor is the production Executor.
type OSExecutor struct{}

func lookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func environ(extra []string) []string {
	return append(os.Environ(), extra...)
}
