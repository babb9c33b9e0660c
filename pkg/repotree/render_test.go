package repotree_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/pkg/repotree"
)

func TestPathList_PreorderPathsOnly(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	paths := repotree.PathList(tree)

	assert.Equal(t, []string{
		"main.py",
		"pkg",
		"pkg/helper.py",
		"pkg/sub",
		"pkg/sub/deep.py",
	}, paths)
}

func TestRenderPaths_OnePerLine(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	rendered := repotree.RenderPaths(repotree.Project(tree, 1))

	lines := strings.Split(rendered, "\n")
	assert.Equal(t, []string{"main.py", "pkg"}, lines)

	// Paths only; no content leaks into the rendering.
	assert.NotContains(t, rendered, "import os")
}

func TestRenderTree_ContainsEntryNames(t *testing.T) {
	t.Parallel()

	tree := buildSample(t)

	rendered := repotree.RenderTree(tree)
	require.NotEmpty(t, rendered)

	assert.Contains(t, rendered, "main.py")
	assert.Contains(t, rendered, "helper.py")
	assert.Contains(t, rendered, "deep.py")
}
