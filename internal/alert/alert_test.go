package alert_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hazz-dev/readyprobe/internal/alert"
	"github.com/hazz-dev/readyprobe/internal/check"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func report(ready bool) *check.Report {
	rep := check.NewReport()
	rep.Add(check.Result{Name: "runtime", Status: check.StatusPass, Message: "ok"})
	if !ready {
		rep.Add(check.Result{Name: "secret", Status: check.StatusFail, Message: "missing"})
	}
	return rep
}

func boolPtr(b bool) *bool { return &b }

func TestNotify_ReadinessFlip(t *testing.T) {
	var calls int32
	var payload struct {
		App           string   `json:"app"`
		Ready         bool     `json:"ready"`
		PreviousReady bool     `json:"previous_ready"`
		Failures      []string `json:"failures"`
		Source        string   `json:"source"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := alert.New(srv.URL, time.Minute, testLogger())
	a.Notify("roboto", report(false), boolPtr(true))

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 webhook, got %d", got)
	}
	if payload.App != "roboto" {
		t.Errorf("expected app roboto, got %q", payload.App)
	}
	if payload.Ready || !payload.PreviousReady {
		t.Errorf("expected ready=false previous=true, got %+v", payload)
	}
	if len(payload.Failures) != 1 || payload.Failures[0] != "secret" {
		t.Errorf("unexpected failures: %v", payload.Failures)
	}
	if payload.Source != "readyprobe" {
		t.Errorf("unexpected source: %q", payload.Source)
	}
}

func TestNotify_FirstRunNeverAlerts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	a := alert.New(srv.URL, time.Minute, testLogger())
	a.Notify("roboto", report(false), nil)

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no webhook on first run, got %d", got)
	}
}

func TestNotify_NoChangeNoAlert(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	a := alert.New(srv.URL, time.Minute, testLogger())
	a.Notify("roboto", report(true), boolPtr(true))
	a.Notify("roboto", report(false), boolPtr(false))

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no webhooks without a flip, got %d", got)
	}
}

func TestNotify_CooldownSuppresses(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	a := alert.New(srv.URL, time.Hour, testLogger())
	a.Notify("roboto", report(false), boolPtr(true))
	a.Notify("roboto", report(true), boolPtr(false))

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected second alert suppressed by cooldown, got %d webhooks", got)
	}
}

func TestNotify_ZeroCooldownAllowsBackToBack(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	a := alert.New(srv.URL, 0, testLogger())
	a.Notify("roboto", report(false), boolPtr(true))
	a.Notify("roboto", report(true), boolPtr(false))

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 webhooks with zero cooldown, got %d", got)
	}
}
