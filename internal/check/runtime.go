package check

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RuntimeCheck verifies that the target interpreter is resolvable on the
// search path and satisfies the minimum version.
type RuntimeCheck struct {
	Interpreter string // e.g. "python3"
	MinVersion  string // e.g. "3.10"

	LookPath LookPathFunc // defaults to exec.LookPath
	Runner   CommandRunner
}

func (c *RuntimeCheck) Run(ctx context.Context) Result {
	const name = "runtime"

	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	runner := c.Runner
	if runner == nil {
		runner = OSRunner()
	}

	path, err := lookPath(c.Interpreter)
	if err != nil {
		return fail(name, fmt.Sprintf("%s not found on PATH — install it before continuing", c.Interpreter))
	}

	stdout, _, err := runner.Run(ctx, c.Interpreter, "--version")
	if err != nil {
		return fail(name, fmt.Sprintf("%s --version failed: %v", c.Interpreter, err))
	}

	reported := strings.TrimSpace(string(stdout))
	version, err := parseReportedVersion(reported)
	if err != nil {
		return fail(name, fmt.Sprintf("could not parse version from %q: %v", reported, err))
	}

	if c.MinVersion != "" {
		constraint, err := semver.NewConstraint(">= " + c.MinVersion)
		if err != nil {
			return fail(name, fmt.Sprintf("invalid minimum version %q: %v", c.MinVersion, err))
		}
		if !constraint.Check(version) {
			return fail(name, fmt.Sprintf("%s %s found at %s, but %s or newer is required", c.Interpreter, version, path, c.MinVersion))
		}
	}

	return pass(name, fmt.Sprintf("%s %s at %s", c.Interpreter, version, path))
}

// parseReportedVersion extracts a semantic version from interpreter output
// like "Python 3.11.4".
func parseReportedVersion(reported string) (*semver.Version, error) {
	fields := strings.Fields(reported)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty version output")
	}
	raw := strings.TrimSuffix(fields[len(fields)-1], "+")
	return semver.NewVersion(raw)
}
