package setup

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/branchlaunch/internal/config"
	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
)

// fakeRunner records steps and creates the artifacts the real commands would.
type fakeRunner struct {
	steps  []Step
	failAt string
	code   int
}

type exitErr struct{ code int }

func (e exitErr) Error() string { return "exit status" }
func (e exitErr) ExitCode() int { return e.code }

func (f *fakeRunner) Run(_ context.Context, step Step) error {
	f.steps = append(f.steps, step)
	if step.Name == f.failAt {
		return exitErr{code: f.code}
	}
	switch step.Name {
	case StepCreateVenv:
		return os.MkdirAll(filepath.Join(step.Dir, "venv", "bin"), 0o750)
	case StepSeed:
		return os.WriteFile(filepath.Join(step.Dir, "branch_messaging.db"), []byte("db"), 0o600)
	case StepNPMInstall:
		return os.MkdirAll(filepath.Join(step.Dir, "node_modules"), 0o750)
	}
	return nil
}

func (f *fakeRunner) names() []string {
	out := make([]string, 0, len(f.steps))
	for _, s := range f.steps {
		out = append(out, s.Name)
	}
	return out
}

func TestBackendPrepareIsIdempotent(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{}
	b := NewBackend(config.Defaults().Backend, root, runner)

	first, err := b.Prepare(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{StepCreateVenv, StepPipInstall, StepSeed}, first.Ran)

	runner.steps = nil
	second, err := b.Prepare(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{StepPipInstall}, runner.names(), "second run only reinstalls")
	assert.ElementsMatch(t, []string{StepCreateVenv, StepSeed}, second.Skipped)
	assert.NotContains(t, second.Ran, StepSeed)
}

func TestBackendExistingDatabaseSkipsSeed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "branch_messaging.db"), nil, 0o600))
	runner := &fakeRunner{}

	report, err := NewBackend(config.Defaults().Backend, root, runner).Prepare(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{StepCreateVenv, StepPipInstall}, runner.names())
	assert.Contains(t, report.Ran, StepPipInstall)
	assert.Contains(t, report.Skipped, StepSeed)
}

func TestBackendStepCommands(t *testing.T) {
	root := t.TempDir()
	cfg := config.Defaults().Backend
	cfg.Env = map[string]string{"DATABASE_URL": "sqlite+aiosqlite:///./x.db", "CORS_ORIGINS": "http://localhost:3000"}
	runner := &fakeRunner{}
	b := NewBackend(cfg, root, runner)

	_, err := b.Prepare(t.Context())
	require.NoError(t, err)
	require.Len(t, runner.steps, 3)

	venvPython := b.VenvPython()
	assert.Equal(t, []string{"python3", "-m", "venv", "venv"}, runner.steps[0].Command)
	assert.Equal(t, []string{venvPython, "-m", "pip", "install", "-r", "requirements.txt"}, runner.steps[1].Command)
	assert.Equal(t, []string{venvPython, "seed_data.py"}, runner.steps[2].Command)
	assert.Equal(t, []string{"CORS_ORIGINS=http://localhost:3000", "DATABASE_URL=sqlite+aiosqlite:///./x.db"}, runner.steps[2].Env)
	for _, s := range runner.steps {
		assert.Equal(t, root, s.Dir)
	}

	assert.Equal(t, []string{venvPython, "-m", "uvicorn", "app.main:app", "--reload", "--host", "0.0.0.0", "--port", "8000"}, b.Command())
}

func TestBackendFailureStopsAndPropagatesExitCode(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{failAt: StepPipInstall, code: 3}

	_, err := NewBackend(config.Defaults().Backend, root, runner).Prepare(t.Context())
	require.Error(t, err)
	assert.Equal(t, []string{StepCreateVenv, StepPipInstall}, runner.names(), "seed must not run after a failed install")
	assert.Equal(t, ferrors.CategorySetup, ferrors.GetCategory(err))

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	code, _ := ce.Context().GetInt(ferrors.ContextExitCode)
	assert.Equal(t, 3, code)
	step, _ := ce.Context().GetString(ferrors.ContextStep)
	assert.Equal(t, StepPipInstall, step)
}

func TestFrontendPrepareIsIdempotent(t *testing.T) {
	root := t.TempDir()
	runner := &fakeRunner{}
	f := NewFrontend(config.Defaults().Frontend, root, runner)

	first, err := f.Prepare(t.Context())
	require.NoError(t, err)
	assert.Contains(t, first.Ran, StepNPMInstall)

	second, err := f.Prepare(t.Context())
	require.NoError(t, err)
	assert.Empty(t, second.Ran)
	assert.Equal(t, []string{StepNPMInstall}, runner.names())

	assert.Equal(t, []string{"npm", "run", "dev"}, f.Command())
	assert.Equal(t, []string{filepath.Join(root, "package.json")}, f.Manifests())
}

func TestExecRunnerReportsExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	runner := &ExecRunner{}
	err := runner.Run(t.Context(), Step{Name: "fail", Dir: t.TempDir(), Command: []string{"sh", "-c", "exit 5"}})
	require.Error(t, err)

	var ee *exec.ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 5, ee.ExitCode())
}
