package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazz-dev/readyprobe/internal/check"
	"github.com/hazz-dev/readyprobe/internal/config"
	"github.com/hazz-dev/readyprobe/internal/server"
	"github.com/hazz-dev/readyprobe/internal/storage"
)

type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)

func (f runnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return f(ctx, name, args...)
}

// fakeInterpreter answers --version and venv creation and succeeds for every
// import probe.
func fakeInterpreter() runnerFunc {
	return func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		if len(args) == 1 && args[0] == "--version" {
			return []byte("Python 3.12.1\n"), nil, nil
		}
		if len(args) >= 2 && args[0] == "-m" && args[1] == "venv" {
			return nil, nil, os.MkdirAll(args[len(args)-1], 0o755)
		}
		return nil, nil, nil
	}
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// TestIntegration_FullFlow runs the whole chain: a populated checkout is
// verified by the pipeline, the report is persisted, and the HTTP API serves
// it back.
func TestIntegration_FullFlow(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, ".env", "SESSION_SECRET=real-secret\nDATABASE_URL=sqlite:///"+filepath.Join(dir, "app.db")+"\n")
	writeFixture(t, dir, "app.db", "")
	writeFixture(t, dir, "main.py", "app = object()\n")
	writeFixture(t, dir, "Procfile", "web: gunicorn main:app\n")
	writeFixture(t, dir, "requirements.txt", "flask\ngunicorn\n")

	cfg := config.Default()
	cfg.EnvFile.Path = filepath.Join(dir, ".env")
	cfg.EnvFile.Template = filepath.Join(dir, ".env.example")
	cfg.Files = []config.FileEntry{
		{Path: filepath.Join(dir, "main.py"), Description: "application entry point"},
		{Path: filepath.Join(dir, "requirements.txt"), Description: "dependency manifest"},
	}
	cfg.Proc.Procfile = filepath.Join(dir, "Procfile")
	cfg.Proc.Requirements = filepath.Join(dir, "requirements.txt")
	cfg.Venv.Path = filepath.Join(dir, ".venv")

	lookPath := func(name string) (string, error) { return "/usr/bin/" + name, nil }

	pipeline := check.NewPipeline(cfg, fakeInterpreter(), lookPath)
	rep, err := pipeline.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("running pipeline: %v", err)
	}
	if !rep.AllPassed() {
		t.Fatalf("expected ready report, failures: %+v", rep.Failures())
	}

	db, err := storage.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("opening storage: %v", err)
	}
	defer db.Close()

	if _, err := db.InsertRun(context.Background(), rep); err != nil {
		t.Fatalf("storing run: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := server.New(db, cfg.App.Name, logger)
	srv := httptest.NewServer(api.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/report")
	if err != nil {
		t.Fatalf("fetching report: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /api/report, got %d", resp.StatusCode)
	}

	var env struct {
		Data struct {
			App string `json:"app"`
			Run struct {
				Ready  bool `json:"ready"`
				Passed int  `json:"passed"`
				Total  int  `json:"total"`
			} `json:"run"`
			Results []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
			} `json:"results"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if env.Data.App != cfg.App.Name {
		t.Errorf("expected app %q, got %q", cfg.App.Name, env.Data.App)
	}
	if !env.Data.Run.Ready {
		t.Error("expected ready run in API response")
	}
	if env.Data.Run.Passed != rep.Passed() || env.Data.Run.Total != rep.Total() {
		t.Errorf("API score %d/%d does not match report %d/%d",
			env.Data.Run.Passed, env.Data.Run.Total, rep.Passed(), rep.Total())
	}
	if len(env.Data.Results) != rep.Total() {
		t.Errorf("expected %d results in API response, got %d", rep.Total(), len(env.Data.Results))
	}
}
