package setup

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"git.home.luguber.info/inful/branchlaunch/internal/config"
	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
)

// Backend prepares and describes the Python API subsystem.
type Backend struct {
	cfg  config.BackendConfig
	root string
	exec executor
}

// NewBackend creates a backend preparer rooted at root (the backend directory).
func NewBackend(cfg config.BackendConfig, root string, runner StepRunner) *Backend {
	return &Backend{cfg: cfg, root: root, exec: executor{runner: runner, recorder: metrics.NoopRecorder{}}}
}

// WithRecorder injects a metrics recorder.
func (b *Backend) WithRecorder(r metrics.Recorder) *Backend {
	if r != nil {
		b.exec.recorder = r
	}
	return b
}

// Root returns the backend working directory.
func (b *Backend) Root() string { return b.root }

// Manifests returns the dependency manifests whose change requires reinstalling.
func (b *Backend) Manifests() []string {
	return []string{filepath.Join(b.root, b.cfg.Requirements)}
}

// VenvPython returns the interpreter inside the virtual environment.
func (b *Backend) VenvPython() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(b.root, b.cfg.VenvDir, "Scripts", "python.exe")
	}
	return filepath.Join(b.root, b.cfg.VenvDir, "bin", "python")
}

// Prepare ensures the virtual environment exists, installs pinned requirements
// and seeds the database when no database file is present yet.
func (b *Backend) Prepare(ctx context.Context) (Report, error) {
	var report Report

	if exists(filepath.Join(b.root, b.cfg.VenvDir)) {
		b.exec.skip(StepCreateVenv, "virtual environment exists", &report)
	} else {
		step := Step{Name: StepCreateVenv, Dir: b.root, Command: []string{b.cfg.Python, "-m", "venv", b.cfg.VenvDir}}
		if err := b.exec.run(ctx, step, &report); err != nil {
			return report, err
		}
	}

	if err := b.Install(ctx, &report); err != nil {
		return report, err
	}

	if exists(filepath.Join(b.root, b.cfg.Database)) {
		b.exec.skip(StepSeed, "database exists", &report)
	} else {
		step := Step{Name: StepSeed, Dir: b.root, Command: []string{b.VenvPython(), b.cfg.SeedScript}, Env: b.Env()}
		if err := b.exec.run(ctx, step, &report); err != nil {
			return report, err
		}
	}

	return report, nil
}

// Install (re)installs pinned requirements into the virtual environment.
func (b *Backend) Install(ctx context.Context, report *Report) error {
	step := Step{
		Name:    StepPipInstall,
		Dir:     b.root,
		Command: []string{b.VenvPython(), "-m", "pip", "install", "-r", b.cfg.Requirements},
	}
	return b.exec.run(ctx, step, report)
}

// Command returns the server command: auto-reload on, bound to the configured host and port.
func (b *Backend) Command() []string {
	return []string{
		b.VenvPython(), "-m", "uvicorn", b.cfg.App,
		"--reload",
		"--host", b.cfg.Host,
		"--port", strconv.Itoa(b.cfg.Port),
	}
}

// Env returns the extra environment for backend processes in KEY=VALUE form.
func (b *Backend) Env() []string {
	return envList(b.cfg.Env)
}

func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
