package setup

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/branchlaunch/internal/config"
	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
)

// Frontend prepares and describes the JavaScript dev server subsystem.
type Frontend struct {
	cfg  config.FrontendConfig
	root string
	exec executor
}

// NewFrontend creates a frontend preparer rooted at root (the frontend directory).
func NewFrontend(cfg config.FrontendConfig, root string, runner StepRunner) *Frontend {
	return &Frontend{cfg: cfg, root: root, exec: executor{runner: runner, recorder: metrics.NoopRecorder{}}}
}

// WithRecorder injects a metrics recorder.
func (f *Frontend) WithRecorder(r metrics.Recorder) *Frontend {
	if r != nil {
		f.exec.recorder = r
	}
	return f
}

// Root returns the frontend working directory.
func (f *Frontend) Root() string { return f.root }

// Manifests returns the dependency manifests whose change requires reinstalling.
func (f *Frontend) Manifests() []string {
	return []string{filepath.Join(f.root, "package.json")}
}

// Prepare installs dependencies unless the module cache directory already exists.
func (f *Frontend) Prepare(ctx context.Context) (Report, error) {
	var report Report
	if exists(filepath.Join(f.root, f.cfg.ModulesDir)) {
		f.exec.skip(StepNPMInstall, "dependency directory exists", &report)
		return report, nil
	}
	return report, f.Install(ctx, &report)
}

// Install runs the package manager's install unconditionally.
func (f *Frontend) Install(ctx context.Context, report *Report) error {
	step := Step{Name: StepNPMInstall, Dir: f.root, Command: []string{f.cfg.PackageManager, "install"}, Env: f.Env()}
	return f.exec.run(ctx, step, report)
}

// Command returns the dev server command.
func (f *Frontend) Command() []string {
	return []string{f.cfg.PackageManager, "run", f.cfg.Script}
}

// Env returns the extra environment for frontend processes in KEY=VALUE form.
func (f *Frontend) Env() []string {
	return envList(f.cfg.Env)
}
