package repotree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/pkg/repotree"
)

func buildSample(t *testing.T) *repotree.FileNode {
	t.Helper()

	root := writeFixture(t, map[string]string{
		"main.py":         "import os\n",
		"pkg/helper.py":   "x = 1\n",
		"pkg/sub/deep.py": "z = 3\n",
	})

	tree, err := repotree.Build(root)
	require.NoError(t, err)

	return tree
}

func TestProject_Unbounded_IdenticalCopy(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	clone := repotree.Project(tree, repotree.Unbounded)

	assert.Equal(t, tree, clone)

	// Structurally independent: mutating the copy leaves the original alone.
	clone.Find("pkg/helper.py").Content = "mutated"
	assert.Equal(t, "x = 1\n", tree.Find("pkg/helper.py").Content)
}

func TestProject_DepthLimitsNodes(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	depthOf := func(path string) int {
		if path == repotree.RootPath {
			return 0
		}

		depth := 1
		for _, c := range path {
			if c == '/' {
				depth++
			}
		}

		return depth
	}

	limited := repotree.Project(tree, 2)

	maxSeen := 0
	limited.Walk(func(n *repotree.FileNode) {
		if d := depthOf(n.Path); d > maxSeen {
			maxSeen = d
		}
	})

	assert.LessOrEqual(t, maxSeen, 2)

	// pkg/sub sits exactly at the cutoff: an empty directory shell.
	sub := limited.Find("pkg/sub")
	require.NotNil(t, sub)
	assert.True(t, sub.IsDir)
	assert.Empty(t, sub.Children)

	// Nothing below the cutoff survives.
	assert.Nil(t, limited.Find("pkg/sub/deep.py"))
}

func TestProject_CutoffStripsContent(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	limited := repotree.Project(tree, 1)

	main := limited.Find("main.py")
	require.NotNil(t, main)
	assert.False(t, main.IsDir)
	assert.Empty(t, main.Content)
	assert.Equal(t, tree.Find("main.py").Language, main.Language)
}

func TestProject_WithinBoundKeepsContent(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	limited := repotree.Project(tree, 2)

	main := limited.Find("main.py")
	require.NotNil(t, main)
	assert.Equal(t, "import os\n", main.Content)

	helper := limited.Find("pkg/helper.py")
	require.NotNil(t, helper)
	assert.Empty(t, helper.Content, "node at the cutoff loses content")
}

func TestProject_DepthZero(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	shell := repotree.Project(tree, 0)

	assert.Equal(t, repotree.RootPath, shell.Path)
	assert.True(t, shell.IsDir)
	assert.Empty(t, shell.Children)
}
