package commands_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/cmd/repolens/commands"
	"github.com/repolens/repolens/pkg/ingest"
	"github.com/repolens/repolens/pkg/language"
	"github.com/repolens/repolens/pkg/locator"
	"github.com/repolens/repolens/pkg/repotree"
	"github.com/repolens/repolens/pkg/snapshot"
)

// writeSnapshot persists a small fixture result and returns its path.
func writeSnapshot(t *testing.T) string {
	t.Helper()

	tree := &repotree.FileNode{
		Path:  repotree.RootPath,
		IsDir: true,
		Children: []*repotree.FileNode{
			{
				Path:     "main.py",
				Language: language.Python,
				Content:  "import os\nfrom pkg.sub import x\n",
			},
			{
				Path:  "pkg",
				IsDir: true,
				Children: []*repotree.FileNode{
					{
						Path:  "pkg/sub",
						IsDir: true,
						Children: []*repotree.FileNode{
							{Path: "pkg/sub/x.py", Language: language.Python, Content: "value = 1\n"},
						},
					},
				},
			},
		},
	}

	result := &ingest.Result{
		Locator: locator.Locator{Host: "github.com", Owner: "acme", Name: "widget"},
		Tree:    tree,
	}

	path := filepath.Join(t.TempDir(), "widget.json")
	require.NoError(t, snapshot.Save(path, snapshot.FromResult(result)))

	return path
}

func runCommand(t *testing.T, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	var buf bytes.Buffer

	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return buf.String(), err
}

func TestTreeCommand_FromSnapshot(t *testing.T) {
	path := writeSnapshot(t)

	out, err := runCommand(t, commands.NewTreeCommand(),
		[]string{"--snapshot", path, "--format", "paths"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"main.py", "pkg", "pkg/sub", "pkg/sub/x.py"}, lines)
}

func TestTreeCommand_DepthLimit(t *testing.T) {
	path := writeSnapshot(t)

	out, err := runCommand(t, commands.NewTreeCommand(),
		[]string{"--snapshot", path, "--format", "paths", "--depth", "1"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"main.py", "pkg"}, lines)
}

func TestTreeCommand_InvalidFormat(t *testing.T) {
	path := writeSnapshot(t)

	_, err := runCommand(t, commands.NewTreeCommand(),
		[]string{"--snapshot", path, "--format", "dot"})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrInvalidTreeFormat)
}

func TestTreeCommand_NoSource(t *testing.T) {
	_, err := runCommand(t, commands.NewTreeCommand(), []string{})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrNoSource)
}

func TestDepsCommand_TextOutput(t *testing.T) {
	path := writeSnapshot(t)

	out, err := runCommand(t, commands.NewDepsCommand(), []string{"--snapshot", path})
	require.NoError(t, err)

	assert.Contains(t, out, "internal:")
	assert.Contains(t, out, "from pkg.sub import x")
	assert.Contains(t, out, "external:")
	assert.Contains(t, out, "import os")
}

func TestDepsCommand_ScopeExternal(t *testing.T) {
	path := writeSnapshot(t)

	out, err := runCommand(t, commands.NewDepsCommand(),
		[]string{"--snapshot", path, "--scope", "external"})
	require.NoError(t, err)

	assert.Contains(t, out, "import os")
	assert.NotContains(t, out, "from pkg.sub import x")
}

func TestDepsCommand_JSONOutput(t *testing.T) {
	path := writeSnapshot(t)

	out, err := runCommand(t, commands.NewDepsCommand(),
		[]string{"--snapshot", path, "--format", "json"})
	require.NoError(t, err)

	assert.Contains(t, out, `"main.py"`)
	assert.Contains(t, out, `"import os"`)
}

func TestDepsCommand_InvalidScope(t *testing.T) {
	path := writeSnapshot(t)

	_, err := runCommand(t, commands.NewDepsCommand(),
		[]string{"--snapshot", path, "--scope", "sideways"})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrInvalidDepsScope)
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	t.Parallel()

	root := commands.NewRootCommand()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"ingest", "tree", "deps", "info", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}
