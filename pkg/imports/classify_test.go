package imports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens/repolens/pkg/imports"
	"github.com/repolens/repolens/pkg/language"
	"github.com/repolens/repolens/pkg/repotree"
)

// sampleTree builds an in-memory tree: a top-level module `pkg` plus a
// main.py importing both stdlib and the project module.
func sampleTree() *repotree.FileNode {
	return &repotree.FileNode{
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
							{
								Path:     "pkg/sub/x.py",
								Language: language.Python,
								Content:  "value = 1\n",
							},
						},
					},
				},
			},
			{
				Path:     "README.md",
				Language: language.Markdown,
				Content:  "# sample\n",
			},
		},
	}
}

func TestClassify_InternalVersusExternal(t *testing.T) {
	t.Parallel()

	deps := imports.NewDependencySet(sampleTree())

	// `os` is no project module; `pkg` is a top-level directory.
	assert.Equal(t, []string{"import os"}, deps.External("main.py"))
	assert.Equal(t, []string{"from pkg.sub import x"}, deps.Internal("main.py"))
}

func TestQueries_EmptyNotMissing(t *testing.T) {
	t.Parallel()

	deps := imports.NewDependencySet(sampleTree())

	// pkg/sub/x.py has no recognized imports; README.md has no extractor.
	for _, path := range []string{"pkg/sub/x.py", "README.md"} {
		assert.NotNil(t, deps.Raw(path), "path %q", path)
		assert.Empty(t, deps.Raw(path), "path %q", path)
		assert.Empty(t, deps.Internal(path), "path %q", path)
		assert.Empty(t, deps.External(path), "path %q", path)
	}
}

func TestAllInternal_OnlyFilesWithMatches(t *testing.T) {
	t.Parallel()

	deps := imports.NewDependencySet(sampleTree())

	internal := deps.AllInternal()
	require.Len(t, internal, 1)
	assert.Equal(t, []string{"from pkg.sub import x"}, internal["main.py"])

	external := deps.AllExternal()
	require.Len(t, external, 1)
	assert.Equal(t, []string{"import os"}, external["main.py"])
}

func TestModulePathSet_DerivedFromTree(t *testing.T) {
	t.Parallel()

	deps := imports.NewDependencySet(sampleTree())

	assert.Equal(t, []string{"README", "main", "pkg", "pkg.sub", "pkg.sub.x"}, deps.Modules())
}

func TestFiles_SortedWithImports(t *testing.T) {
	t.Parallel()

	deps := imports.NewDependencySet(sampleTree())

	assert.Equal(t, []string{"main.py"}, deps.Files())
}

func TestLeadingModule(t *testing.T) {
	t.Parallel()

	cases := []struct {
		stmt string
		want string
	}{
		{"import os", "os"},
		{"import os.path", "os"},
		{"from pkg.sub import x", "pkg"},
		{"from . import sibling", ""},
		{"import com.example.App;", "com"},
		{"use std::collections::HashMap;", "std"},
		{"extern crate serde;", "serde"},
		{"import static com.foo.Bar;", "com"},
		{"import React from 'react'", "react"},
		{"import { join } from 'node:path'", "node:path"},
		{"const fs = require('fs')", "fs"},
		{"require 'json'", "json"},
		{"require_relative './util'", ""},
		{"import \"net/http\"", "net"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, imports.LeadingModule(tc.stmt), "stmt %q", tc.stmt)
	}
}

func TestRaw_CallerMutationDoesNotLeakBack(t *testing.T) {
	t.Parallel()

	deps := imports.NewDependencySet(sampleTree())

	stmts := deps.Raw("main.py")
	require.Equal(t, []string{"import os", "from pkg.sub import x"}, stmts)

	stmts[0] = "import mangled"

	assert.Equal(t, []string{"import os", "from pkg.sub import x"}, deps.Raw("main.py"))
	assert.Equal(t, []string{"import os"}, deps.External("main.py"))
	assert.Equal(t, []string{"from pkg.sub import x"}, deps.Internal("main.py"))
}

func TestClassify_ProjectDirNamedVendorIsInternal(t *testing.T) {
	t.Parallel()

	tree := &repotree.FileNode{
		Path:  repotree.RootPath,
		IsDir: true,
		Children: []*repotree.FileNode{
			{
				Path:     "app.py",
				Language: language.Python,
				Content:  "import vendor.dep\n",
			},
			{
				Path:  "vendor",
				IsDir: true,
				Children: []*repotree.FileNode{
					{
						Path:     "vendor/dep.py",
						Language: language.Python,
						Content:  "x = 1\n",
					},
				},
			},
		},
	}

	deps := imports.NewDependencySet(tree)

	assert.Equal(t, []string{"import vendor.dep"}, deps.Internal("app.py"))
	assert.Empty(t, deps.External("app.py"))
}

func TestClassify_OrderPreservedWithinFile(t *testing.T) {
	t.Parallel()

	tree := &repotree.FileNode{
		Path:  repotree.RootPath,
		IsDir: true,
		Children: []*repotree.FileNode{
			{
				Path:     "app.py",
				Language: language.Python,
				Content:  "import zlib\nfrom pkg import a\nimport json\nfrom pkg import b\n",
			},
			{Path: "pkg", IsDir: true, Children: []*repotree.FileNode{}},
		},
	}

	deps := imports.NewDependencySet(tree)

	assert.Equal(t, []string{
		"import zlib",
		"from pkg import a",
		"import json",
		"from pkg import b",
	}, deps.Raw("app.py"))

	assert.Equal(t, []string{"from pkg import a", "from pkg import b"}, deps.Internal("app.py"))
	assert.Equal(t, []string{"import zlib", "import json"}, deps.External("app.py"))
}
