package prereq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/branchlaunch/internal/foundation/errors"
)

func fakeLookPath(available ...string) (LookPathFunc, *[]string) {
	var asked []string
	set := make(map[string]bool, len(available))
	for _, a := range available {
		set[a] = true
	}
	return func(file string) (string, error) {
		asked = append(asked, file)
		if set[file] {
			return "/usr/bin/" + file, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}, &asked
}

func TestRunAllPresent(t *testing.T) {
	lookPath, _ := fakeLookPath("python3", "node", "npm")
	checks, err := NewChecker([]string{"python3", "node", "npm"}).WithLookPath(lookPath).Run()

	require.NoError(t, err)
	require.Len(t, checks, 3)
	for _, c := range checks {
		assert.True(t, c.Satisfied, c.Tool)
		assert.Equal(t, "/usr/bin/"+c.Tool, c.Path)
	}
}

func TestRunNamesFirstMissingTool(t *testing.T) {
	lookPath, asked := fakeLookPath("python3")
	_, err := NewChecker([]string{"python3", "node", "npm"}).WithLookPath(lookPath).Run()

	require.Error(t, err)
	assert.Equal(t, ferrors.CategoryPrerequisite, ferrors.GetCategory(err))
	tool, ok := ferrors.ContextString(err, ferrors.ContextTool)
	require.True(t, ok)
	assert.Equal(t, "node", tool)
	assert.Equal(t, []string{"python3", "node"}, *asked, "checking stops at the first missing tool")
}

func TestEvaluateReportsEveryTool(t *testing.T) {
	lookPath, _ := fakeLookPath("npm")
	checks := NewChecker([]string{"python3", "npm"}).WithLookPath(lookPath).Evaluate()

	require.Len(t, checks, 2)
	assert.False(t, checks[0].Satisfied)
	assert.True(t, checks[1].Satisfied)
}
