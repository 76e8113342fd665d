// Package alert sends webhook notifications when readiness changes between
// watch-mode verification runs.
package alert

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hazz-dev/readyprobe/internal/check"
)

// Alerter sends a webhook when overall readiness flips.
type Alerter struct {
	webhookURL string
	cooldown   time.Duration
	client     *http.Client
	lastAlert  time.Time
	mu         sync.Mutex
	logger     *slog.Logger
}

// New creates a new Alerter. Pass nil logger to use the default logger.
func New(webhookURL string, cooldown time.Duration, logger *slog.Logger) *Alerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Alerter{
		webhookURL: webhookURL,
		cooldown:   cooldown,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type webhookPayload struct {
	App           string   `json:"app"`
	Ready         bool     `json:"ready"`
	PreviousReady bool     `json:"previous_ready"`
	Passed        int      `json:"passed"`
	Total         int      `json:"total"`
	Failures      []string `json:"failures"`
	CheckedAt     string   `json:"checked_at"`
	Source        string   `json:"source"`
}

// Notify sends a webhook if readiness changed and the cooldown has elapsed.
// prevReady is nil on the first run, which never alerts.
func (a *Alerter) Notify(app string, rep *check.Report, prevReady *bool) {
	if prevReady == nil {
		return
	}
	ready := rep.AllPassed()
	if ready == *prevReady {
		return
	}

	a.mu.Lock()
	if !a.lastAlert.IsZero() && time.Since(a.lastAlert) < a.cooldown {
		a.mu.Unlock()
		a.logger.Info("alert suppressed by cooldown", "app", app)
		return
	}
	a.lastAlert = time.Now()
	a.mu.Unlock()

	// Send asynchronously so Notify doesn't block the watch loop.
	go a.send(app, rep, *prevReady)
}

func (a *Alerter) send(app string, rep *check.Report, prevReady bool) {
	var failures []string
	for _, r := range rep.Failures() {
		failures = append(failures, r.Name)
	}

	payload := webhookPayload{
		App:           app,
		Ready:         rep.AllPassed(),
		PreviousReady: prevReady,
		Passed:        rep.Passed(),
		Total:         rep.Total(),
		Failures:      failures,
		CheckedAt:     rep.StartedAt.UTC().Format(time.RFC3339),
		Source:        "readyprobe",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		a.logger.Error("marshaling webhook payload", "app", app, "error", err)
		return
	}

	resp, err := a.client.Post(a.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		a.logger.Error("sending webhook", "app", app, "url", a.webhookURL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.logger.Warn("webhook returned non-2xx status",
			"app", app,
			"status", resp.StatusCode,
		)
	}
}
