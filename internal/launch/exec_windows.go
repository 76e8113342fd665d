//go:build windows

package launch

import "fmt"

// Exec is not supported on Windows: there is no process replacement
// primitive equivalent to execve.
func (e *OSExecutor) Exec(cmd Command) error {
	return fmt.Errorf("process replacement is not supported on windows")
}
