package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/branchlaunch/internal/config"
	"git.home.luguber.info/inful/branchlaunch/internal/eventstore"
	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/launcher"
	"git.home.luguber.info/inful/branchlaunch/internal/layout"
	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
	"git.home.luguber.info/inful/branchlaunch/internal/metrics"
	"git.home.luguber.info/inful/branchlaunch/internal/monitor"
	"git.home.luguber.info/inful/branchlaunch/internal/notify"
	"git.home.luguber.info/inful/branchlaunch/internal/prereq"
	"git.home.luguber.info/inful/branchlaunch/internal/setup"
	"git.home.luguber.info/inful/branchlaunch/internal/statedir"
	"git.home.luguber.info/inful/branchlaunch/internal/supervisor"
	"git.home.luguber.info/inful/branchlaunch/internal/version"
	"git.home.luguber.info/inful/branchlaunch/internal/watch"
)

// UpCmd implements the default 'up' command.
type UpCmd struct {
	Delay     *time.Duration `name:"delay" help:"Override the pause between backend start and frontend setup (e.g. 5s, 0 to disable)"`
	NoJournal bool           `name:"no-journal" help:"Do not record this run in the run journal"`
	Watch     bool           `name:"watch" help:"Reinstall dependencies when requirements.txt or package.json change"`
}

func (u *UpCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if u.Delay != nil {
		cfg.StartupDelay = u.Delay
	}
	if u.NoJournal {
		cfg.Journal.Disabled = true
	}
	if u.Watch {
		cfg.Watch.Manifests = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	wd, err := os.Getwd()
	if err != nil {
		return ferrors.FileSystemError("cannot determine working directory").WithCause(err).Build()
	}
	return RunUp(ctx, cfg, wd)
}

// RunUp wires the launcher for the project rooted at wd and runs it until ctx
// is canceled.
func RunUp(ctx context.Context, cfg *config.Config, wd string) error {
	runID := uuid.NewString()
	lay := layout.Layout{Root: wd, BackendDir: cfg.Backend.Dir, FrontendDir: cfg.Frontend.Dir}
	slog.Info("Starting Branch Messaging App", logfields.RunID(runID), logfields.Path(wd))

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path, reg)
		if err := srv.Start(); err != nil {
			slog.Warn("Metrics listener unavailable", logfields.Error(err))
		} else {
			slog.Info("Serving metrics", logfields.URL("http://"+srv.Addr()+cfg.Metrics.Path))
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer stopCancel()
				_ = srv.Stop(stopCtx)
			}()
		}
	}

	commit := layout.HeadCommit(wd)
	sinks, closeSinks := openSinks(cfg, lay, runID, commit)
	defer closeSinks()

	runner := setup.NewExecRunner()
	backend := setup.NewBackend(cfg.Backend, lay.BackendPath(), runner).WithRecorder(recorder)
	frontend := setup.NewFrontend(cfg.Frontend, lay.FrontendPath(), runner).WithRecorder(recorder)
	sup := supervisor.New(supervisor.NewExecStarter()).WithRecorder(recorder)

	l, err := launcher.New(launcher.Options{
		RunID:         runID,
		Layout:        lay,
		Prerequisites: prereq.NewChecker(cfg.Prerequisites),
		Backend:       backend,
		Frontend:      frontend,
		Supervisor:    sup,
		StartupDelay:  *cfg.StartupDelay,
		Endpoints:     launcher.DefaultEndpoints(cfg.Backend.Port, cfg.Frontend.Port),
		Commit:        commit,
		Version:       version.Resolved(),
		Recorder:      recorder,
		Sinks:         sinks,
		Services:      services(cfg, backend, frontend, sup, recorder),
		Out:           stdout,
	})
	if err != nil {
		return err
	}
	return l.Run(ctx)
}

// openSinks opens the run journal and the NATS publisher when configured.
// Neither is fatal: a run without a journal is still a valid run.
func openSinks(cfg *config.Config, lay layout.Layout, runID, commit string) ([]launcher.EventSink, func()) {
	var sinks []launcher.EventSink
	var closers []func() error

	// Only journal from a valid project root so a wrong-directory run leaves no state behind.
	if !cfg.Journal.Disabled && lay.Present() {
		dir := statedir.NewManager(lay.Root, cfg.StateDir)
		if err := dir.Create(); err != nil {
			slog.Warn("Run journal disabled", logfields.Error(err))
		} else if store, err := eventstore.NewSQLiteStore(dir.File(cfg.Journal.File)); err != nil {
			slog.Warn("Run journal disabled", logfields.Error(err))
		} else {
			meta := map[string]string{"version": version.Resolved()}
			if commit != "" {
				meta["commit"] = commit
			}
			journal := eventstore.NewJournal(store, meta)
			sinks = append(sinks, journal)
			closers = append(closers, journal.Close)
		}
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Event notifications disabled", logfields.Error(err))
		} else {
			sinks = append(sinks, pub)
			closers = append(closers, pub.Close)
		}
	}

	return sinks, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Debug("Failed to close event sink", logfields.Error(err))
			}
		}
	}
}

// services builds the optional watchers that run while the launcher waits.
func services(cfg *config.Config, backend *setup.Backend, frontend *setup.Frontend, sup *supervisor.Supervisor, rec metrics.Recorder) []launcher.Service {
	var out []launcher.Service

	if cfg.Watch.Manifests {
		var targets []watch.Target
		for _, path := range backend.Manifests() {
			targets = append(targets, watch.Target{Name: launcher.ProcessBackend, Path: path, Install: func(ctx context.Context) error {
				return backend.Install(ctx, &setup.Report{})
			}})
		}
		for _, path := range frontend.Manifests() {
			targets = append(targets, watch.Target{Name: launcher.ProcessFrontend, Path: path, Install: func(ctx context.Context) error {
				return frontend.Install(ctx, &setup.Report{})
			}})
		}
		mw, err := watch.NewManifestWatcher(targets, cfg.Watch.Debounce)
		if err != nil {
			slog.Warn("Manifest watching disabled", logfields.Error(err))
		} else {
			out = append(out, mw)
		}
	}

	if cfg.Monitor.Interval > 0 {
		m, err := monitor.New(sup, rec, cfg.Monitor.Interval)
		if err != nil {
			slog.Warn("Process monitor disabled", logfields.Error(err))
		} else {
			out = append(out, m)
		}
	}

	return out
}
