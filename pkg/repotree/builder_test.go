package repotree_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/pkg/language"
	"github.com/repolens/repolens/pkg/repotree"
)

// writeFixture materializes files (path -> content) under a temp root.
func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func TestBuild_MirrorsFilesystemShape(t *testing.T) {
	t.Parallel()

	root := writeFixture(t, map[string]string{
		"main.py":         "import os\n",
		"pkg/helper.py":   "x = 1\n",
		"pkg/sub/util.py": "y = 2\n",
		"docs/guide.md":   "# Guide\n",
	})

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	assert.Equal(t, repotree.RootPath, tree.Path)
	assert.True(t, tree.IsDir)

	// Root children: docs, main.py, pkg.
	require.Len(t, tree.Children, 3)

	pkg := tree.Find("pkg")
	require.NotNil(t, pkg)
	assert.True(t, pkg.IsDir)
	assert.Len(t, pkg.Children, 2)

	helper := tree.Find("pkg/helper.py")
	require.NotNil(t, helper)
	assert.False(t, helper.IsDir)
	assert.Equal(t, "x = 1\n", helper.Content)
	assert.Equal(t, language.Python, helper.Language)

	util := tree.Find("pkg/sub/util.py")
	require.NotNil(t, util)
	assert.Equal(t, "y = 2\n", util.Content)
}

func TestBuild_OneNodePerPath(t *testing.T) {
	t.Parallel()

	root := writeFixture(t, map[string]string{
		"a/one.txt": "1",
		"a/two.txt": "2",
		"b/one.txt": "1",
	})

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	seen := map[string]int{}
	tree.Walk(func(n *repotree.FileNode) { seen[n.Path]++ })

	for path, count := range seen {
		assert.Equal(t, 1, count, "path %q", path)
	}
}

func TestBuild_SkipsHiddenAndVCS(t *testing.T) {
	t.Parallel()

	root := writeFixture(t, map[string]string{
		".git/config":    "[core]\n",
		".env":           "SECRET=1\n",
		".github/ci.yml": "on: push\n",
		"src/app.js":     "import React from 'react'\n",
		"README.md":      "# readme\n",
	})

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	assert.Nil(t, tree.Find(".git"))
	assert.Nil(t, tree.Find(".env"))
	assert.Nil(t, tree.Find(".github"))

	// Visible entries remain; child count matches the non-hidden,
	// non-VCS immediate entries of the root.
	require.Len(t, tree.Children, 2)
	assert.NotNil(t, tree.Find("src/app.js"))
	assert.NotNil(t, tree.Find("README.md"))
}

func TestBuild_KeepsVendorLikeDirsByDefault(t *testing.T) {
	t.Parallel()

	root := writeFixture(t, map[string]string{
		"app.py":        "import vendor.dep\n",
		"vendor/dep.py": "x = 1\n",
		"dist/out.js":   "var x = 1\n",
	})

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	// Child count equals the non-hidden, non-VCS entries on disk; a
	// project directory named vendor or dist is real content.
	require.Len(t, tree.Children, 3)
	assert.NotNil(t, tree.Find("vendor"))
	assert.NotNil(t, tree.Find("vendor/dep.py"))
	assert.NotNil(t, tree.Find("dist/out.js"))
}

func TestBuild_SkipVendoredOption(t *testing.T) {
	t.Parallel()

	root := writeFixture(t, map[string]string{
		"app.py":            "import sys\n",
		"node_modules/x.js": "module.exports = {}\n",
		"vendor/dep.py":     "x = 1\n",
		"__pycache__/a.pyc": "\x00\x01",
	})

	tree, err := repotree.Build(root, repotree.SkipVendored())
	require.NoError(t, err)

	assert.Nil(t, tree.Find("node_modules"))
	assert.Nil(t, tree.Find("vendor"))
	assert.Nil(t, tree.Find("__pycache__"))

	require.Len(t, tree.Children, 1)
	assert.NotNil(t, tree.Find("app.py"))
}

func TestBuild_BinaryContentEmpty(t *testing.T) {
	t.Parallel()

	root := writeFixture(t, map[string]string{
		"logo.png": "\x89PNG\x0d\x0a\x1a\x0a\x00\x00binary",
		"app.py":   "import sys\n",
	})

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	logo := tree.Find("logo.png")
	require.NotNil(t, logo)
	assert.Empty(t, logo.Content)

	app := tree.Find("app.py")
	require.NotNil(t, app)
	assert.Equal(t, "import sys\n", app.Content)
}

func TestBuild_ChildrenSorted(t *testing.T) {
	t.Parallel()

	root := writeFixture(t, map[string]string{
		"zeta.txt":  "z",
		"alpha.txt": "a",
		"mid/x.txt": "x",
	})

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	require.Len(t, tree.Children, 3)
	assert.Equal(t, "alpha.txt", tree.Children[0].Path)
	assert.Equal(t, "mid", tree.Children[1].Path)
	assert.Equal(t, "zeta.txt", tree.Children[2].Path)
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"a.py":      "import a\n",
		"b/c.py":    "import c\n",
		"b/d.py":    "import d\n",
		"e/f/g.js":  "import g from 'g'\n",
		"README.md": "# hi\n",
	}

	root := writeFixture(t, files)

	sequential, err := repotree.Build(root)
	require.NoError(t, err)

	parallel, err := repotree.Build(root, repotree.WithWorkers(4))
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestBuild_EmptyDirectoryKeepsChildrenSlice(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	empty := tree.Find("empty")
	require.NotNil(t, empty)
	assert.True(t, empty.IsDir)
	assert.NotNil(t, empty.Children)
	assert.Empty(t, empty.Children)
}
