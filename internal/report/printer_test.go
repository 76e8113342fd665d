package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hazz-dev/readyprobe/internal/check"
	"github.com/hazz-dev/readyprobe/internal/report"
)

func TestPrinter_Result(t *testing.T) {
	tests := []struct {
		name   string
		result check.Result
		glyph  string
	}{
		{"pass", check.Result{Name: "runtime", Status: check.StatusPass, Message: "Python 3.12.1"}, "✓"},
		{"fail", check.Result{Name: "secret", Status: check.StatusFail, Message: "SESSION_SECRET is not set"}, "✗"},
		{"warn", check.Result{Name: "database", Status: check.StatusWarn, Message: "unreachable"}, "⚠"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			report.NewPrinter(&out).Result(tt.result)

			got := out.String()
			if !strings.Contains(got, tt.glyph) {
				t.Errorf("expected glyph %q in output, got %q", tt.glyph, got)
			}
			if !strings.Contains(got, tt.result.Name) {
				t.Errorf("expected name %q in output, got %q", tt.result.Name, got)
			}
			if !strings.Contains(got, tt.result.Message) {
				t.Errorf("expected message %q in output, got %q", tt.result.Message, got)
			}
		})
	}
}

func TestPrinter_Header(t *testing.T) {
	var out bytes.Buffer
	report.NewPrinter(&out).Header("Verifying roboto deployment readiness")
	if !strings.Contains(out.String(), "Verifying roboto deployment readiness") {
		t.Errorf("expected title in output, got %q", out.String())
	}
}

func TestPrinter_Summary_AllPassed(t *testing.T) {
	rep := check.NewReport()
	rep.Add(check.Result{Name: "runtime", Status: check.StatusPass, Message: "ok"})
	rep.Add(check.Result{Name: "database", Status: check.StatusWarn, Message: "unreachable"})

	var out bytes.Buffer
	report.NewPrinter(&out).Summary(rep)

	got := out.String()
	if !strings.Contains(got, "2/2 checks passed") {
		t.Errorf("expected score line in output, got %q", got)
	}
	if !strings.Contains(got, "ready to launch") {
		t.Errorf("expected ready banner in output, got %q", got)
	}
}

func TestPrinter_Summary_Failures(t *testing.T) {
	rep := check.NewReport()
	rep.Add(check.Result{Name: "runtime", Status: check.StatusPass, Message: "ok"})
	rep.Add(check.Result{Name: "env-file", Status: check.StatusFail, Message: ".env not found"})
	rep.Add(check.Result{Name: "secret", Status: check.StatusFail, Message: "SESSION_SECRET is not set"})

	var out bytes.Buffer
	report.NewPrinter(&out).Summary(rep)

	got := out.String()
	if !strings.Contains(got, "1/3 checks passed") {
		t.Errorf("expected score line in output, got %q", got)
	}
	if !strings.Contains(got, "fix the issues below") {
		t.Errorf("expected failure banner in output, got %q", got)
	}
	if !strings.Contains(got, ".env not found") || !strings.Contains(got, "SESSION_SECRET is not set") {
		t.Errorf("expected failure messages listed, got %q", got)
	}
}
