package launch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	menuOptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

// ParseChoice maps a menu answer to a Mode. Anything other than "2" or "3"
// falls back to development.
func ParseChoice(answer string) Mode {
	switch strings.TrimSpace(answer) {
	case "2":
		return ModeProduction
	case "3":
		return ModeCustomPort
	default:
		return ModeDevelopment
	}
}

// ParsePort maps a port answer to a port number. Blank or unparsable input
// falls back to the default; there is no further validation.
func ParsePort(answer string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// Prompt shows the launch menu, reads one selection from in, and, for the
// custom-port mode, reads a port number. It never rejects input: every
// answer maps to a selection.
func Prompt(in io.Reader, out io.Writer, defaultPort int) (Selection, error) {
	fmt.Fprintf(out, "\n%s\n", menuTitleStyle.Render("How do you want to launch?"))
	fmt.Fprintf(out, "  %s development (auto-reload)\n", menuOptionStyle.Render("1)"))
	fmt.Fprintf(out, "  %s production\n", menuOptionStyle.Render("2)"))
	fmt.Fprintf(out, "  %s production on a custom port\n", menuOptionStyle.Render("3)"))
	fmt.Fprintf(out, "Select [1-3, default 1]: ")

	reader := bufio.NewReader(in)
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return Selection{}, fmt.Errorf("reading selection: %w", err)
	}

	sel := Selection{Mode: ParseChoice(answer), Port: defaultPort}
	if sel.Mode == ModeCustomPort {
		fmt.Fprintf(out, "Port [default %d]: ", defaultPort)
		portAnswer, err := reader.ReadString('\n')
		if err != nil && portAnswer == "" {
			return Selection{}, fmt.Errorf("reading port: %w", err)
		}
		sel.Port = ParsePort(portAnswer, defaultPort)
	}
	return sel, nil
}
