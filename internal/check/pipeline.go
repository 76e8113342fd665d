package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/hazz-dev/readyprobe/internal/config"
)

// ErrRuntimeMissing is returned when the interpreter itself is unavailable.
// No other check is meaningful without it, so the pipeline stops there.
var ErrRuntimeMissing = errors.New("required runtime is not available")

// Pipeline builds and runs the full ordered set of readiness checks for a
// profile. Checks are independent: apart from the runtime short-circuit, a
// failure never prevents later checks from running.
type Pipeline struct {
	cfg      *config.Config
	runner   CommandRunner
	lookPath LookPathFunc
}

// NewPipeline creates a pipeline for the given profile. runner and lookPath
// may be nil to use the real implementations.
func NewPipeline(cfg *config.Config, runner CommandRunner, lookPath LookPathFunc) *Pipeline {
	if runner == nil {
		runner = OSRunner()
	}
	return &Pipeline{cfg: cfg, runner: runner, lookPath: lookPath}
}

// Run executes every check in order, invoking observe (if non-nil) as each
// result lands. The report is always returned, even on early abort.
func (p *Pipeline) Run(ctx context.Context, observe func(Result)) (*Report, error) {
	rep := NewReport()
	add := func(r Result) {
		rep.Add(r)
		if observe != nil {
			observe(r)
		}
	}

	// Runtime first: nothing else can be checked without an interpreter.
	runtime := &RuntimeCheck{
		Interpreter: p.cfg.Runtime.Interpreter,
		MinVersion:  p.cfg.Runtime.MinVersion,
		LookPath:    p.lookPath,
		Runner:      p.runner,
	}
	r := runtime.Run(ctx)
	add(r)
	if !r.Passed() {
		return rep, ErrRuntimeMissing
	}

	for _, c := range p.environmentChecks() {
		add(c.Run(ctx))
	}
	for _, c := range p.dependencyChecks(ctx, add) {
		add(c.Run(ctx))
	}

	return rep, nil
}

// environmentChecks covers config file, secret, environment keys, and
// required files. All reads, no side effects.
func (p *Pipeline) environmentChecks() []Check {
	cfg := p.cfg
	checks := []Check{
		&EnvFileCheck{Path: cfg.EnvFile.Path, Template: cfg.EnvFile.Template},
		&SecretCheck{
			Path:        cfg.EnvFile.Path,
			Key:         cfg.EnvFile.SecretKey,
			Placeholder: cfg.EnvFile.Placeholder,
		},
	}

	// The env snapshot is loaded once and threaded into each key check so
	// they stay pure functions of their inputs.
	vars, err := ReadEnvFile(cfg.EnvFile.Path)
	if err != nil {
		vars = map[string]string{}
	}
	for _, k := range cfg.EnvFile.Required {
		checks = append(checks, &EnvKeyCheck{Vars: vars, Key: k.Key, Description: k.Description, Required: true})
	}
	for _, k := range cfg.EnvFile.Recommended {
		checks = append(checks, &EnvKeyCheck{Vars: vars, Key: k.Key, Description: k.Description})
	}

	for _, f := range cfg.Files {
		checks = append(checks, &FileCheck{Path: f.Path, Description: f.Description})
	}
	return checks
}

// dependencyChecks covers the venv, importable dependencies, process config,
// database, and the application import smoke test. Venv creation is the only
// side effect and is reported inline.
func (p *Pipeline) dependencyChecks(ctx context.Context, add func(Result)) []Check {
	cfg := p.cfg

	ensured, err := EnsureVenv(ctx, cfg.Runtime.Interpreter, cfg.Venv.Path, p.runner)
	switch {
	case err != nil:
		add(fail("venv", err.Error()))
	case ensured.Created:
		add(pass("venv", fmt.Sprintf("created isolated environment at %s", ensured.Path)))
	default:
		add(pass("venv", fmt.Sprintf("isolated environment present at %s", ensured.Path)))
	}

	var checks []Check
	for _, d := range cfg.Deps.Critical {
		checks = append(checks, &ImportCheck{
			Interpreter: cfg.Runtime.Interpreter,
			Module:      d.Module,
			Description: d.Description,
			Runner:      p.runner,
		})
	}
	for _, d := range cfg.Deps.Optional {
		checks = append(checks, &ImportCheck{
			Interpreter: cfg.Runtime.Interpreter,
			Module:      d.Module,
			Description: d.Description,
			Optional:    true,
			Runner:      p.runner,
		})
	}

	checks = append(checks, &ProcConfigCheck{
		Procfile:     cfg.Proc.Procfile,
		Requirements: cfg.Proc.Requirements,
		Server:       cfg.Proc.Server,
	})

	vars, err := ReadEnvFile(cfg.EnvFile.Path)
	if err != nil {
		vars = map[string]string{}
	}
	dbURL := vars[cfg.Database.URLKey]
	if dbURL == "" {
		dbURL = cfg.Database.DefaultURL
	}
	checks = append(checks, &DatabaseCheck{URL: dbURL})

	checks = append(checks, &AppImportCheck{
		Interpreter: cfg.Runtime.Interpreter,
		Module:      cfg.Smoke.Module,
		Attr:        cfg.Smoke.Attr,
		Runner:      p.runner,
	})
	return checks
}
