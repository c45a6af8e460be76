package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}
}

func TestVerifyValidLayout(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "backend", "frontend")

	l := Layout{Root: root, BackendDir: "backend", FrontendDir: "frontend"}
	require.NoError(t, l.Verify())
	assert.True(t, l.Present())
	assert.Equal(t, filepath.Join(root, "backend"), l.BackendPath())
	assert.Equal(t, filepath.Join(root, "frontend"), l.FrontendPath())
}

func TestVerifyMissingFrontend(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "backend")

	l := Layout{Root: root, BackendDir: "backend", FrontendDir: "frontend"}
	assert.False(t, l.Present())
	err := l.Verify()
	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryLayout, ferrors.GetCategory(err))
	dir, _ := ferrors.ContextString(err, ferrors.ContextDir)
	assert.Equal(t, "frontend", dir)
}

func TestVerifyFileIsNotDirectory(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "frontend")
	require.NoError(t, os.WriteFile(filepath.Join(root, "backend"), []byte("x"), 0o600))

	err := Layout{Root: root, BackendDir: "backend", FrontendDir: "frontend"}.Verify()
	dir, _ := ferrors.ContextString(err, ferrors.ContextDir)
	assert.Equal(t, "backend", dir)
}

func TestVerifyHintsRepositoryRoot(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	mkdirs(t, root, "backend/app", "frontend")

	sub := filepath.Join(root, "backend", "app")
	err = Layout{Root: sub, BackendDir: "backend", FrontendDir: "frontend"}.Verify()
	require.Error(t, err)

	hint, ok := ferrors.ContextString(err, ferrors.ContextHint)
	require.True(t, ok)
	top, _ := filepath.EvalSymlinks(root)
	assert.Contains(t, []string{"run branchlaunch from " + root, "run branchlaunch from " + top}, hint)
}

func TestHeadCommitOutsideRepository(t *testing.T) {
	assert.Empty(t, HeadCommit(t.TempDir()))
}
