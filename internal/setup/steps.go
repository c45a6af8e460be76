package setup

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
)

// Step names, also used as metric labels and journal payloads.
const (
	StepCreateVenv = "create-venv"
	StepPipInstall = "pip-install"
	StepSeed       = "seed"
	StepNPMInstall = "npm-install"
)

// Report records which steps ran during one preparation.
type Report struct {
	Ran     []string
	Skipped []string
	Elapsed map[string]time.Duration
}

type executor struct {
	runner   StepRunner
	recorder metrics.Recorder
}

func (e executor) run(ctx context.Context, step Step, report *Report) error {
	slog.Info("Running setup step", logfields.Step(step.Name), logfields.Dir(step.Dir), logfields.Command(step.String()))
	start := time.Now()
	err := e.runner.Run(ctx, step)
	elapsed := time.Since(start)
	e.recorder.ObserveStepDuration(step.Name, elapsed)

	if err != nil {
		e.recorder.IncStepResult(step.Name, metrics.ResultFailed)
		b := ferrors.SetupError(step.Name+" failed").
			WithCause(err).
			WithContext(ferrors.ContextStep, step.Name)
		var ec exitCoder
		if stderrors.As(err, &ec) && ec.ExitCode() > 0 {
			b = b.WithContext(ferrors.ContextExitCode, ec.ExitCode())
		}
		return b.Build()
	}

	e.recorder.IncStepResult(step.Name, metrics.ResultSuccess)
	report.Ran = append(report.Ran, step.Name)
	if report.Elapsed == nil {
		report.Elapsed = make(map[string]time.Duration)
	}
	report.Elapsed[step.Name] = elapsed
	slog.Info("Setup step completed", logfields.Step(step.Name), logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

func (e executor) skip(step, reason string, report *Report) {
	e.recorder.IncStepResult(step, metrics.ResultSkipped)
	report.Skipped = append(report.Skipped, step)
	slog.Info("Skipping setup step", logfields.Step(step), slog.String("reason", reason))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
