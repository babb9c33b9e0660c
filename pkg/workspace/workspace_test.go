package workspace_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/pkg/locator"
	"github.com/repolens/repolens/pkg/workspace"
)

// newFixtureRepo creates a local git repository with the given files and a
// single commit, returning its path for use as a clone URL.
func newFixtureRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	run := func(args ...string) {
		t.Helper()

		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test User")
	run("add", ".")
	run("commit", "-m", "fixture")

	return dir
}

func TestAcquire_ClonesRepository(t *testing.T) {
	t.Parallel()

	src := newFixtureRepo(t, map[string]string{
		"main.py":       "import os\n",
		"pkg/helper.py": "x = 1\n",
	})

	ws, err := workspace.Acquire(context.Background(), locator.Locator{
		Owner:    "acme",
		Name:     "widget",
		CloneURL: src,
	})
	require.NoError(t, err)

	defer func() { require.NoError(t, ws.Close()) }()

	assert.FileExists(t, filepath.Join(ws.Root(), "main.py"))
	assert.FileExists(t, filepath.Join(ws.Root(), "pkg", "helper.py"))
}

func TestAcquire_CloneFailure(t *testing.T) {
	t.Parallel()

	_, err := workspace.Acquire(context.Background(), locator.Locator{
		Owner:    "acme",
		Name:     "missing",
		CloneURL: filepath.Join(t.TempDir(), "does-not-exist"),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, workspace.ErrCloneFailed))
}

func TestClose_RemovesWorkspace(t *testing.T) {
	t.Parallel()

	src := newFixtureRepo(t, map[string]string{"a.txt": "a\n"})

	ws, err := workspace.Acquire(context.Background(), locator.Locator{CloneURL: src})
	require.NoError(t, err)

	root := ws.Root()
	require.DirExists(t, root)

	require.NoError(t, ws.Close())
	assert.NoDirExists(t, root)

	// Idempotent.
	assert.NoError(t, ws.Close())
}
