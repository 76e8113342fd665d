package check

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ProcConfigCheck verifies that the process file declares the configured app
// server and that the server is listed as a dependency.
type ProcConfigCheck struct {
	Procfile     string // e.g. "Procfile"
	Requirements string // e.g. "requirements.txt"
	Server       string // e.g. "gunicorn"
}

func (c *ProcConfigCheck) Run(_ context.Context) Result {
	const name = "proc-config"

	procData, err := os.ReadFile(c.Procfile)
	if err != nil {
		return fail(name, fmt.Sprintf("%s not found — required by the deployment platform", c.Procfile))
	}
	if !strings.Contains(string(procData), c.Server) {
		return fail(name, fmt.Sprintf("%s does not mention %s", c.Procfile, c.Server))
	}

	reqData, err := os.ReadFile(c.Requirements)
	if err != nil {
		return fail(name, fmt.Sprintf("%s not found", c.Requirements))
	}
	if !strings.Contains(strings.ToLower(string(reqData)), strings.ToLower(c.Server)) {
		return fail(name, fmt.Sprintf("%s is not in %s", c.Server, c.Requirements))
	}

	return pass(name, fmt.Sprintf("%s configured in %s and %s", c.Server, c.Procfile, c.Requirements))
}
