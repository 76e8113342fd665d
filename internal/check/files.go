package check

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileCheck verifies that a required file or directory exists in the
// application checkout.
type FileCheck struct {
	Path        string
	Description string
}

func (c *FileCheck) Run(_ context.Context) Result {
	name := "file:" + strings.TrimSuffix(c.Path, "/")

	if _, err := os.Stat(c.Path); err != nil {
		return fail(name, fmt.Sprintf("%s — %s [missing]", c.Path, c.Description))
	}
	return pass(name, fmt.Sprintf("%s — %s", c.Path, c.Description))
}
