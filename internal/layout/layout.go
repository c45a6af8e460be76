// Package layout checks that the launcher runs from the project root.
package layout

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
	"git.home.luguber.info/inful/branchlaunch/internal/logfields"
)

// Layout names the two subsystem roots relative to Root.
type Layout struct {
	Root        string
	BackendDir  string
	FrontendDir string
}

// BackendPath returns the backend root joined to Root.
func (l Layout) BackendPath() string { return filepath.Join(l.Root, l.BackendDir) }

// FrontendPath returns the frontend root joined to Root.
func (l Layout) FrontendPath() string { return filepath.Join(l.Root, l.FrontendDir) }

// Present reports whether both subsystem roots exist, without logging.
func (l Layout) Present() bool {
	return isDir(l.BackendPath()) && isDir(l.FrontendPath())
}

// Verify fails with a layout error naming the first missing subsystem root.
func (l Layout) Verify() error {
	for _, dir := range []string{l.BackendDir, l.FrontendDir} {
		if isDir(filepath.Join(l.Root, dir)) {
			continue
		}
		b := ferrors.LayoutError(fmt.Sprintf("%s directory not found; run from the project root", dir)).
			WithContext(ferrors.ContextDir, dir)
		if hint := l.rootHint(); hint != "" {
			b = b.WithContext(ferrors.ContextHint, hint)
		}
		slog.Error("Working directory check failed", logfields.Dir(dir), logfields.Path(l.Root))
		return b.Build()
	}
	slog.Debug("Working directory verified", logfields.Path(l.Root))
	return nil
}

// rootHint suggests the enclosing git worktree when it has the expected layout.
func (l Layout) rootHint() string {
	top, err := RepositoryRoot(l.Root)
	if err != nil {
		return ""
	}
	abs, _ := filepath.Abs(l.Root)
	if top == abs {
		return ""
	}
	if isDir(filepath.Join(top, l.BackendDir)) && isDir(filepath.Join(top, l.FrontendDir)) {
		return "run branchlaunch from " + top
	}
	return ""
}

// RepositoryRoot returns the worktree root of the git repository enclosing dir.
func RepositoryRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	return filepath.Abs(wt.Filesystem.Root())
}

// HeadCommit returns the abbreviated HEAD commit of the repository enclosing dir,
// or an empty string outside a repository.
func HeadCommit(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	ref, err := repo.Head()
	if err != nil {
		return ""
	}
	return ref.Hash().String()[:12]
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
