// Package report renders readiness reports for the console.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/hazz-dev/readyprobe/internal/check"
)

var (
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

const (
	glyphPass = "✓"
	glyphFail = "✗"
	glyphWarn = "⚠"
)

// Printer writes check results and summaries to a console stream.
type Printer struct {
	out io.Writer
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Header prints a section title.
func (p *Printer) Header(title string) {
	fmt.Fprintf(p.out, "\n%s\n", headerStyle.Render(title))
}

// Result prints one check line: a colored glyph, the check name, and its
// message.
func (p *Printer) Result(r check.Result) {
	var glyph string
	switch r.Status {
	case check.StatusFail:
		glyph = failStyle.Render(glyphFail)
	case check.StatusWarn:
		glyph = warnStyle.Render(glyphWarn)
	default:
		glyph = passStyle.Render(glyphPass)
	}
	fmt.Fprintf(p.out, "%s %-18s %s\n", glyph, r.Name, r.Message)
}

// Summary prints the final score line and, when checks failed, the list of
// failures to fix.
func (p *Printer) Summary(rep *check.Report) {
	fmt.Fprintf(p.out, "\n%s\n", dimStyle.Render(fmt.Sprintf("%d/%d checks passed", rep.Passed(), rep.Total())))

	if rep.AllPassed() {
		fmt.Fprintf(p.out, "%s\n", passStyle.Render("All checks passed — ready to launch"))
		return
	}

	fmt.Fprintf(p.out, "%s\n", failStyle.Render("Some checks failed — fix the issues below and re-run"))
	for _, r := range rep.Failures() {
		fmt.Fprintf(p.out, "  %s %s\n", failStyle.Render(glyphFail), r.Message)
	}
}
