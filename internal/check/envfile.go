package check

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvFileCheck verifies that the application's env file exists.
type EnvFileCheck struct {
	Path     string
	Template string // template file the operator should copy, e.g. ".env.example"
}

func (c *EnvFileCheck) Run(_ context.Context) Result {
	const name = "env-file"

	if _, err := os.Stat(c.Path); err != nil {
		if c.Template != "" {
			return fail(name, fmt.Sprintf("%s not found — copy %s to %s and edit it", c.Path, c.Template, c.Path))
		}
		return fail(name, fmt.Sprintf("%s not found", c.Path))
	}
	return pass(name, fmt.Sprintf("%s present", c.Path))
}

// SecretCheck verifies that the required secret is set in the env file and is
// not the placeholder value shipped with the template. The secret's value is
// never included in the result message.
type SecretCheck struct {
	Path        string
	Key         string
	Placeholder string
}

func (c *SecretCheck) Run(_ context.Context) Result {
	name := "secret:" + c.Key

	vars, err := godotenv.Read(c.Path)
	if err != nil {
		return fail(name, fmt.Sprintf("cannot read %s: set %s there before launching", c.Path, c.Key))
	}

	value, ok := vars[c.Key]
	if !ok || value == "" {
		return fail(name, fmt.Sprintf("%s is not set in %s — generate a random secret and add it", c.Key, c.Path))
	}
	if c.Placeholder != "" && value == c.Placeholder {
		return fail(name, fmt.Sprintf("%s is still the template placeholder — generate a real secret", c.Key))
	}
	return pass(name, fmt.Sprintf("%s is configured", c.Key))
}

// EnvKeyCheck verifies that a key is present in the given environment
// snapshot. Missing required keys fail; missing recommended keys warn.
// Values are never printed.
type EnvKeyCheck struct {
	Vars        map[string]string
	Key         string
	Description string
	Required    bool
}

func (c *EnvKeyCheck) Run(_ context.Context) Result {
	name := "env:" + c.Key

	if v, ok := c.Vars[c.Key]; ok && v != "" {
		return pass(name, fmt.Sprintf("%s — %s [set]", c.Key, c.Description))
	}
	if c.Required {
		return fail(name, fmt.Sprintf("%s — %s [not set]", c.Key, c.Description))
	}
	return warn(name, fmt.Sprintf("%s — %s [not set]", c.Key, c.Description))
}

// ReadEnvFile parses a flat KEY=value file into a map. A missing file is not
// an error; it yields an empty snapshot.
func ReadEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return vars, nil
}
