package check

import (
	"context"
	"fmt"
	"strings"
)

// ImportCheck verifies that a dependency is importable with the target
// interpreter. Import failure is converted into a failed (or, for optional
// dependencies, warning) result and never propagates as an error.
type ImportCheck struct {
	Interpreter string
	Module      string
	Description string
	Optional    bool

	Runner CommandRunner
}

func (c *ImportCheck) Run(ctx context.Context) Result {
	name := "dep:" + c.Module

	runner := c.Runner
	if runner == nil {
		runner = OSRunner()
	}

	_, _, err := runner.Run(ctx, c.Interpreter, "-c", "import "+c.Module)
	if err != nil {
		if c.Optional {
			return warn(name, fmt.Sprintf("%s — %s [not installed, some features disabled]", c.Module, c.Description))
		}
		return fail(name, fmt.Sprintf("%s — %s [not installed] — run: pip install -r requirements.txt", c.Module, c.Description))
	}
	return pass(name, fmt.Sprintf("%s — %s", c.Module, c.Description))
}

// AppImportCheck smoke-tests that the application object can be imported,
// e.g. "from main import app".
type AppImportCheck struct {
	Interpreter string
	Module      string
	Attr        string

	Runner CommandRunner
}

func (c *AppImportCheck) Run(ctx context.Context) Result {
	const name = "app-import"

	runner := c.Runner
	if runner == nil {
		runner = OSRunner()
	}

	expr := fmt.Sprintf("from %s import %s", c.Module, c.Attr)
	_, stderr, err := runner.Run(ctx, c.Interpreter, "-c", expr)
	if err != nil {
		msg := lastLine(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return fail(name, fmt.Sprintf("cannot import %s from %s: %s", c.Attr, c.Module, msg))
	}
	return pass(name, fmt.Sprintf("%s imports cleanly from %s", c.Attr, c.Module))
}

// lastLine returns the final non-empty line of command output, which for
// interpreter tracebacks is the actual error.
func lastLine(b []byte) string {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
