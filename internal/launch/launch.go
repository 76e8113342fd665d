// Package launch maps the operator's menu selection to an external command
// and hands the process over to it.
package launch

import (
	"strconv"
	"strings"

	"github.com/hazz-dev/readyprobe/internal/config"
)

// Mode selects how the application is started.
type Mode int

const (
	ModeDevelopment Mode = iota + 1
	ModeProduction
	ModeCustomPort
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeCustomPort:
		return "custom-port"
	default:
		return "development"
	}
}

// Selection is the operator's launch choice.
type Selection struct {
	Mode Mode
	Port int
}

// Command describes the external process to hand off to.
type Command struct {
	Name string
	Args []string
	Env  []string // extra KEY=value pairs appended to the environment
}

// Argv returns the full argument vector including the command name.
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Plan maps a selection to the command to run. It is a pure function of its
// inputs; nothing is spawned here.
func Plan(sel Selection, cfg config.LaunchConfig) Command {
	port := sel.Port
	if port == 0 {
		port = cfg.Port
	}

	var argv []string
	switch sel.Mode {
	case ModeProduction, ModeCustomPort:
		argv = cfg.Production
	default:
		argv = cfg.Development
	}

	expanded := make([]string, len(argv))
	for i, a := range argv {
		expanded[i] = strings.ReplaceAll(a, "{port}", strconv.Itoa(port))
	}

	return Command{
		Name: expanded[0],
		Args: expanded[1:],
		Env:  []string{"PORT=" + strconv.Itoa(port)},
	}
}
