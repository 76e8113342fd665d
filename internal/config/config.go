// Package config loads the verification profile: what to check, how to
// launch the application, and where to keep run history.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from a YAML string like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

// AppConfig identifies the application being verified.
type AppConfig struct {
	Name string `yaml:"name"`
}

// RuntimeConfig describes the interpreter the application needs.
type RuntimeConfig struct {
	Interpreter string `yaml:"interpreter"`
	MinVersion  string `yaml:"min_version"`
}

// KeyEntry names an environment key and what it is for.
type KeyEntry struct {
	Key         string `yaml:"key"`
	Description string `yaml:"description"`
}

// EnvFileConfig describes the application's flat KEY=value env file.
type EnvFileConfig struct {
	Path        string     `yaml:"path"`
	Template    string     `yaml:"template"`
	SecretKey   string     `yaml:"secret_key"`
	Placeholder string     `yaml:"placeholder"`
	Required    []KeyEntry `yaml:"required"`
	Recommended []KeyEntry `yaml:"recommended"`
}

// FileEntry is a file or directory that must exist in the checkout.
type FileEntry struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description"`
}

// DepEntry is an importable dependency.
type DepEntry struct {
	Module      string `yaml:"module"`
	Description string `yaml:"description"`
}

// DepsConfig splits dependencies into hard requirements and optional extras.
type DepsConfig struct {
	Critical []DepEntry `yaml:"critical"`
	Optional []DepEntry `yaml:"optional"`
}

// ProcConfig describes the process file and the app server it must declare.
type ProcConfig struct {
	Procfile     string `yaml:"procfile"`
	Requirements string `yaml:"requirements"`
	Server       string `yaml:"server"`
}

// DatabaseConfig names the env key carrying the database URL and the URL
// assumed when the key is unset.
type DatabaseConfig struct {
	URLKey     string `yaml:"url_key"`
	DefaultURL string `yaml:"default_url"`
}

// SmokeConfig describes the application import smoke test.
type SmokeConfig struct {
	Module string `yaml:"module"`
	Attr   string `yaml:"attr"`
}

// VenvConfig locates the isolated dependency environment.
type VenvConfig struct {
	Path string `yaml:"path"`
}

// LaunchConfig holds the launchable command lines. The literal token
// "{port}" in production arguments is replaced with the chosen port.
type LaunchConfig struct {
	Port        int      `yaml:"port"`
	Development []string `yaml:"development"`
	Production  []string `yaml:"production"`
}

// WebhookConfig holds alert webhook settings for watch mode.
type WebhookConfig struct {
	URL      string   `yaml:"url"`
	Cooldown Duration `yaml:"cooldown"`
}

// AlertsConfig holds all alert configuration.
type AlertsConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// ServerConfig holds HTTP server settings for the report API.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// StorageConfig holds run-history storage settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// Config is the root verification profile.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	EnvFile  EnvFileConfig  `yaml:"env_file"`
	Files    []FileEntry    `yaml:"files"`
	Deps     DepsConfig     `yaml:"dependencies"`
	Proc     ProcConfig     `yaml:"proc"`
	Database DatabaseConfig `yaml:"database"`
	Smoke    SmokeConfig    `yaml:"smoke"`
	Venv     VenvConfig     `yaml:"venv"`
	Launch   LaunchConfig   `yaml:"launch"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Default returns the built-in profile for a conventional Flask checkout.
func Default() *Config {
	cfg := &Config{
		App: AppConfig{Name: "app"},
		EnvFile: EnvFileConfig{
			Recommended: []KeyEntry{
				{Key: "FLASK_ENV", Description: "environment (development/production)"},
				{Key: "DATABASE_URL", Description: "database connection string"},
			},
		},
		Files: []FileEntry{
			{Path: "main.py", Description: "application entry point"},
			{Path: "requirements.txt", Description: "dependency manifest"},
		},
		Deps: DepsConfig{
			Critical: []DepEntry{
				{Module: "flask", Description: "web framework"},
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "app"
	}
	if cfg.Runtime.Interpreter == "" {
		cfg.Runtime.Interpreter = "python3"
	}
	if cfg.Runtime.MinVersion == "" {
		cfg.Runtime.MinVersion = "3.10"
	}
	if cfg.EnvFile.Path == "" {
		cfg.EnvFile.Path = ".env"
	}
	if cfg.EnvFile.Template == "" {
		cfg.EnvFile.Template = ".env.example"
	}
	if cfg.EnvFile.SecretKey == "" {
		cfg.EnvFile.SecretKey = "SESSION_SECRET"
	}
	if cfg.EnvFile.Placeholder == "" {
		cfg.EnvFile.Placeholder = "your-secret-key-here"
	}
	if cfg.Proc.Procfile == "" {
		cfg.Proc.Procfile = "Procfile"
	}
	if cfg.Proc.Requirements == "" {
		cfg.Proc.Requirements = "requirements.txt"
	}
	if cfg.Proc.Server == "" {
		cfg.Proc.Server = "gunicorn"
	}
	if cfg.Database.URLKey == "" {
		cfg.Database.URLKey = "DATABASE_URL"
	}
	if cfg.Database.DefaultURL == "" {
		cfg.Database.DefaultURL = "sqlite:///" + cfg.App.Name + ".db"
	}
	if cfg.Smoke.Module == "" {
		cfg.Smoke.Module = "main"
	}
	if cfg.Smoke.Attr == "" {
		cfg.Smoke.Attr = "app"
	}
	if cfg.Venv.Path == "" {
		cfg.Venv.Path = ".venv"
	}
	if cfg.Launch.Port == 0 {
		cfg.Launch.Port = 5000
	}
	if len(cfg.Launch.Development) == 0 {
		cfg.Launch.Development = []string{cfg.Runtime.Interpreter, "main.py"}
	}
	if len(cfg.Launch.Production) == 0 {
		cfg.Launch.Production = []string{cfg.Proc.Server, "--bind", "0.0.0.0:{port}", "--workers", "2", "main:app"}
	}
	if cfg.Alerts.Webhook.Cooldown.Duration == 0 {
		cfg.Alerts.Webhook.Cooldown = Duration{5 * time.Minute}
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "readyprobe.db"
	}
}

// Load reads, parses, and validates the profile at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads the profile at path, falling back to the built-in
// profile when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func validate(cfg *Config) error {
	if _, err := semver.NewConstraint(">= " + cfg.Runtime.MinVersion); err != nil {
		return fmt.Errorf("runtime: invalid min_version %q: %w", cfg.Runtime.MinVersion, err)
	}

	seen := make(map[string]bool, len(cfg.Files))
	for i, f := range cfg.Files {
		if f.Path == "" {
			return fmt.Errorf("files[%d]: path is required", i)
		}
		key := strings.TrimSuffix(f.Path, "/")
		if seen[key] {
			return fmt.Errorf("duplicate file entry %q", f.Path)
		}
		seen[key] = true
	}

	for i, d := range cfg.Deps.Critical {
		if d.Module == "" {
			return fmt.Errorf("dependencies.critical[%d]: module is required", i)
		}
	}
	for i, d := range cfg.Deps.Optional {
		if d.Module == "" {
			return fmt.Errorf("dependencies.optional[%d]: module is required", i)
		}
	}

	if cfg.Launch.Port < 1 || cfg.Launch.Port > 65535 {
		return fmt.Errorf("launch: port %d is out of range", cfg.Launch.Port)
	}
	return nil
}
