//go:build unix

package launch

import (
	"fmt"
	"syscall"
)

// Exec replaces the current process with cmd. Control does not return on
// success; readyprobe's lifecycle ends here.
func (e *OSExecutor) Exec(cmd Command) error {
	binary, err := lookPath(cmd.Name)
	if err != nil {
		return fmt.Errorf("%s not found on PATH: %w", cmd.Name, err)
	}
	return syscall.Exec(binary, cmd.Argv(), environ(cmd.Env))
}
