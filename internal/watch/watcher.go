// Package watch re-runs dependency installation when a subsystem manifest
// (requirements.txt, package.json) changes while the launcher is running.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
)

// Target is a manifest file and the install action it drives.
type Target struct {
	Name    string
	Path    string
	Install func(ctx context.Context) error
}

// ManifestWatcher monitors manifest files and triggers debounced installs.
type ManifestWatcher struct {
	targets      map[string]Target // absolute path -> target
	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	mu       sync.Mutex
	timers   map[string]*time.Timer
	stopping bool
	wg       sync.WaitGroup
}

// NewManifestWatcher creates a watcher for targets.
func NewManifestWatcher(targets []Target, debounce time.Duration) (*ManifestWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	byPath := make(map[string]Target, len(targets))
	for _, t := range targets {
		abs, err := filepath.Abs(t.Path)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
		}
		t.Path = abs
		byPath[abs] = t
	}

	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	return &ManifestWatcher{
		targets:      byPath,
		watcher:      watcher,
		debounceTime: debounce,
		timers:       make(map[string]*time.Timer),
	}, nil
}

// Start watches the manifests' directories until ctx is done.
func (mw *ManifestWatcher) Start(ctx context.Context) error {
	dirs := make(map[string]struct{})
	for path := range mw.targets {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	// Watch directories, not files: editors replace files on save.
	for dir := range dirs {
		if err := mw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	slog.Info("Watching dependency manifests", slog.Int("count", len(mw.targets)))

	mw.wg.Add(1)
	go func() {
		defer mw.wg.Done()
		mw.watchLoop(ctx)
	}()
	return nil
}

// Stop closes the watcher, cancels pending installs and waits for a
// running install to finish.
func (mw *ManifestWatcher) Stop() error {
	err := mw.watcher.Close()

	mw.mu.Lock()
	mw.stopping = true
	for _, timer := range mw.timers {
		timer.Stop()
	}
	mw.mu.Unlock()

	mw.wg.Wait()
	return err
}

func (mw *ManifestWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-mw.watcher.Events:
			if !ok {
				return
			}
			target, tracked := mw.targets[filepath.Clean(event.Name)]
			if !tracked {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Manifest change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			mw.schedule(ctx, target)

		case err, ok := <-mw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Manifest watcher error", logfields.Error(err))
		}
	}
}

// schedule (re)starts the debounce timer for target.
func (mw *ManifestWatcher) schedule(ctx context.Context, target Target) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if timer, ok := mw.timers[target.Path]; ok {
		timer.Stop()
	}
	if mw.stopping {
		return
	}
	mw.timers[target.Path] = time.AfterFunc(mw.debounceTime, func() {
		if !mw.begin(ctx) {
			return
		}
		defer mw.wg.Done()
		slog.Info("Reinstalling dependencies", logfields.Process(target.Name), logfields.Path(target.Path))
		if err := target.Install(ctx); err != nil {
			slog.Error("Dependency reinstall failed", logfields.Process(target.Name), logfields.Error(err))
		}
	})
}

// begin registers a fired install with the wait group unless the watcher is
// stopping. Stop waits for every install begin admitted.
func (mw *ManifestWatcher) begin(ctx context.Context) bool {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	if mw.stopping || ctx.Err() != nil {
		return false
	}
	mw.wg.Add(1)
	return true
}
