package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/eventstore"
	"git.home.luguber.info/inful/branchlaunch/internal/layout"
	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
	"git.home.luguber.info/inful/branchlaunch/internal/prereq"
	"git.home.luguber.info/inful/branchlaunch/internal/setup"
	"git.home.luguber.info/inful/branchlaunch/internal/supervisor"
)

// Process names used for logs, metrics and the journal.
const (
	ProcessBackend  = "backend"
	ProcessFrontend = "frontend"
)

// Preparer provisions a subsystem and describes how to start it.
type Preparer interface {
	Prepare(ctx context.Context) (setup.Report, error)
	Root() string
	Command() []string
	Env() []string
}

// EventSink receives lifecycle events. Sink failures are logged, never fatal.
type EventSink interface {
	Record(ctx context.Context, e eventstore.Event) error
}

// Service runs next to the subsystems while the launcher waits.
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

// Endpoints are the URLs announced once both subsystems are started.
type Endpoints struct {
	Backend  string
	Docs     string
	Frontend string
}

// Options wires a Launcher. Layout, Prerequisites, Backend, Frontend and
// Supervisor are required.
type Options struct {
	RunID         string
	Layout        layout.Layout
	Prerequisites *prereq.Checker
	Backend       Preparer
	Frontend      Preparer
	Supervisor    *supervisor.Supervisor
	StartupDelay  time.Duration
	Endpoints     Endpoints
	Commit        string
	Version       string

	Clock    clockwork.Clock
	Recorder metrics.Recorder
	Sinks    []EventSink
	Services []Service
	Out      io.Writer
}

// Launcher owns the handles of every process it started.
type Launcher struct {
	opts    Options
	clock   clockwork.Clock
	rec     metrics.Recorder
	started time.Time
}

// New validates opts and returns a launcher.
func New(opts Options) (*Launcher, error) {
	if opts.Prerequisites == nil || opts.Backend == nil || opts.Frontend == nil || opts.Supervisor == nil {
		return nil, ferrors.InternalError("launcher requires prerequisites, backend, frontend and supervisor").Build()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Launcher{opts: opts, clock: opts.Clock, rec: opts.Recorder}, nil
}

// Processes returns the handles started so far, in start order.
func (l *Launcher) Processes() []*supervisor.ManagedProcess {
	return l.opts.Supervisor.Processes()
}

// Run executes the whole launch sequence and blocks until ctx is canceled.
// It returns nil after a clean shutdown.
func (l *Launcher) Run(ctx context.Context) (err error) {
	l.started = l.clock.Now()
	l.emit(ctx, func() (eventstore.Event, error) {
		return eventstore.NewRunStarted(l.opts.RunID, l.opts.Layout.Root, l.opts.Commit, l.opts.Version)
	})
	defer func() {
		if err != nil {
			l.recordFailure(err)
		}
	}()

	if err := l.start(ctx); err != nil {
		if ctx.Err() != nil {
			slog.Info("Interrupted during startup", logfields.Error(err))
			l.Shutdown(context.WithoutCancel(ctx))
			return nil
		}
		l.reportOrphans()
		return err
	}

	stopServices := l.startServices(ctx)
	l.awaitShutdownSignal(ctx)
	stopServices()

	l.Shutdown(context.WithoutCancel(ctx))
	return nil
}

// start runs everything up to and including the frontend spawn.
func (l *Launcher) start(ctx context.Context) error {
	if err := l.opts.Layout.Verify(); err != nil {
		return err
	}

	checks, err := l.opts.Prerequisites.Run()
	for _, c := range checks {
		l.rec.IncPrerequisiteResult(c.Tool, c.Satisfied)
	}
	if err != nil {
		return err
	}

	if err := l.prepare(ctx, ProcessBackend, l.opts.Backend); err != nil {
		return err
	}
	if _, err := l.spawn(ctx, ProcessBackend, l.opts.Backend); err != nil {
		return err
	}

	if err := l.startupDelay(ctx); err != nil {
		return err
	}

	if err := l.prepare(ctx, ProcessFrontend, l.opts.Frontend); err != nil {
		return err
	}
	if _, err := l.spawn(ctx, ProcessFrontend, l.opts.Frontend); err != nil {
		return err
	}

	l.printBanner()
	return nil
}

func (l *Launcher) prepare(ctx context.Context, name string, p Preparer) error {
	slog.Info("Preparing environment", logfields.Process(name), logfields.Dir(p.Root()))
	report, err := p.Prepare(ctx)
	for _, step := range report.Ran {
		l.emit(ctx, func() (eventstore.Event, error) {
			return eventstore.NewStepCompleted(l.opts.RunID, step, false, report.Elapsed[step])
		})
	}
	for _, step := range report.Skipped {
		l.emit(ctx, func() (eventstore.Event, error) {
			return eventstore.NewStepCompleted(l.opts.RunID, step, true, 0)
		})
	}
	return err
}

func (l *Launcher) spawn(ctx context.Context, name string, p Preparer) (*supervisor.ManagedProcess, error) {
	proc, err := l.opts.Supervisor.Spawn(supervisor.Spec{
		Name:    name,
		Dir:     p.Root(),
		Command: p.Command(),
		Env:     p.Env(),
	})
	if err != nil {
		return nil, err
	}
	l.emit(ctx, func() (eventstore.Event, error) {
		return eventstore.NewProcessStarted(l.opts.RunID, name, proc.PID(), proc.CommandLine())
	})
	return proc, nil
}

// startupDelay gives the backend a fixed head start. It does not check readiness.
func (l *Launcher) startupDelay(ctx context.Context) error {
	if l.opts.StartupDelay <= 0 {
		return nil
	}
	slog.Debug("Waiting before starting frontend", slog.Duration("delay", l.opts.StartupDelay))
	select {
	case <-l.clock.After(l.opts.StartupDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// awaitShutdownSignal blocks until the signal layer cancels ctx.
func (l *Launcher) awaitShutdownSignal(ctx context.Context) {
	slog.Info("Launcher running; waiting for interrupt")
	<-ctx.Done()
	slog.Info("Shutdown requested")
}

// Shutdown sends one termination request to every started process and
// journals the outcome. It does not wait for the processes to exit.
func (l *Launcher) Shutdown(ctx context.Context) []supervisor.TerminationResult {
	results := l.opts.Supervisor.Shutdown()
	for _, res := range results {
		l.emit(ctx, func() (eventstore.Event, error) {
			return eventstore.NewProcessTerminated(l.opts.RunID, res.Process, res.PID, string(res.Outcome))
		})
	}
	l.emit(ctx, func() (eventstore.Event, error) {
		return eventstore.NewRunStopped(l.opts.RunID, l.clock.Since(l.started))
	})
	fmt.Fprintln(l.opts.Out, "All services stopped")
	return results
}

func (l *Launcher) startServices(ctx context.Context) func() {
	var running []Service
	for _, svc := range l.opts.Services {
		if err := svc.Start(ctx); err != nil {
			slog.Warn("Auxiliary service failed to start", logfields.Error(err))
			continue
		}
		running = append(running, svc)
	}
	return func() {
		for _, svc := range running {
			if err := svc.Stop(); err != nil {
				slog.Warn("Auxiliary service failed to stop", logfields.Error(err))
			}
		}
	}
}

// reportOrphans warns about processes left running after a failed startup.
func (l *Launcher) reportOrphans() {
	for _, p := range l.Processes() {
		if p.Exited() || p.TerminationRequested() {
			continue
		}
		slog.Warn("Process left running after startup failure",
			logfields.Process(p.Name),
			logfields.PID(p.PID()))
	}
}

func (l *Launcher) recordFailure(err error) {
	category := string(ferrors.GetCategory(err))
	message := err.Error()
	if ce, ok := ferrors.AsClassified(err); ok {
		message = ce.Message()
	}
	for _, key := range []string{ferrors.ContextTool, ferrors.ContextDir, ferrors.ContextStep} {
		if v, ok := ferrors.ContextString(err, key); ok {
			message += " (" + key + " " + v + ")"
		}
	}
	l.emit(context.Background(), func() (eventstore.Event, error) {
		return eventstore.NewRunFailed(l.opts.RunID, category, message)
	})
}

func (l *Launcher) emit(ctx context.Context, build func() (eventstore.Event, error)) {
	if len(l.opts.Sinks) == 0 {
		return
	}
	e, err := build()
	if err != nil {
		slog.Warn("Failed to build lifecycle event", logfields.Error(err))
		return
	}
	for _, sink := range l.opts.Sinks {
		if err := sink.Record(ctx, e); err != nil {
			slog.Warn("Failed to record lifecycle event", slog.String("type", e.Type()), logfields.Error(err))
		}
	}
}
