package check_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hazz-dev/readyprobe/internal/check"
)

func versionRunner(output string) runnerFunc {
	return func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		return []byte(output), nil, nil
	}
}

func TestRuntimeCheck_NotOnPath(t *testing.T) {
	c := &check.RuntimeCheck{
		Interpreter: "python3",
		MinVersion:  "3.10",
		LookPath:    func(string) (string, error) { return "", fmt.Errorf("not found") },
	}
	r := c.Run(context.Background())
	if r.Status != check.StatusFail {
		t.Fatalf("expected fail, got %s", r.Status)
	}
	if !strings.Contains(r.Message, "python3") {
		t.Errorf("message should name the missing runtime: %q", r.Message)
	}
}

func TestRuntimeCheck_VersionOK(t *testing.T) {
	c := &check.RuntimeCheck{
		Interpreter: "python3",
		MinVersion:  "3.10",
		LookPath:    func(string) (string, error) { return "/usr/bin/python3", nil },
		Runner:      versionRunner("Python 3.12.1\n"),
	}
	r := c.Run(context.Background())
	if r.Status != check.StatusPass {
		t.Fatalf("expected pass, got %s: %s", r.Status, r.Message)
	}
	if !strings.Contains(r.Message, "3.12.1") {
		t.Errorf("message should report the version: %q", r.Message)
	}
}

func TestRuntimeCheck_VersionTooOld(t *testing.T) {
	c := &check.RuntimeCheck{
		Interpreter: "python3",
		MinVersion:  "3.10",
		LookPath:    func(string) (string, error) { return "/usr/bin/python3", nil },
		Runner:      versionRunner("Python 3.8.10\n"),
	}
	r := c.Run(context.Background())
	if r.Status != check.StatusFail {
		t.Fatalf("expected fail for 3.8 < 3.10, got %s", r.Status)
	}
	if !strings.Contains(r.Message, "3.10") {
		t.Errorf("message should name the required version: %q", r.Message)
	}
}

func TestRuntimeCheck_UnparsableVersion(t *testing.T) {
	c := &check.RuntimeCheck{
		Interpreter: "python3",
		MinVersion:  "3.10",
		LookPath:    func(string) (string, error) { return "/usr/bin/python3", nil },
		Runner:      versionRunner("something went wrong\n"),
	}
	r := c.Run(context.Background())
	if r.Status != check.StatusFail {
		t.Fatalf("expected fail for unparsable version, got %s", r.Status)
	}
}

func TestRuntimeCheck_NoMinVersion(t *testing.T) {
	c := &check.RuntimeCheck{
		Interpreter: "python3",
		LookPath:    func(string) (string, error) { return "/usr/bin/python3", nil },
		Runner:      versionRunner("Python 3.4.0\n"),
	}
	r := c.Run(context.Background())
	if r.Status != check.StatusPass {
		t.Fatalf("expected pass without min version, got %s: %s", r.Status, r.Message)
	}
}
