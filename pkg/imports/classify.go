package imports

import (
	"sort"
	"strings"

	"github.com/repolens/repolens/pkg/repotree"
)

// DependencySet holds the extracted import statements of every file in a
// tree together with the project's module-path set. It is immutable after
// construction; all queries are read-only and repeatable.
type DependencySet struct {
	// records maps file path to its raw import statements in source order.
	// Every file node has an entry, possibly empty.
	records map[string][]string

	// modules is the derived module-path set: every tree path with its
	// extension stripped and separators converted to dots.
	modules map[string]struct{}
}

// NewDependencySet extracts imports from every file in the finished tree
// and derives the module-path set used for internal/external
// classification. The set includes directory paths, so a top-level package
// directory counts as a project module.
func NewDependencySet(tree *repotree.FileNode) *DependencySet {
	set := &DependencySet{
		records: map[string][]string{},
		modules: map[string]struct{}{},
	}

	tree.Walk(func(node *repotree.FileNode) {
		if node.Path == repotree.RootPath {
			return
		}

		set.modules[modulePath(node.Path, node.IsDir)] = struct{}{}

		if !node.IsDir {
			set.records[node.Path] = Extract(node.Language, node.Content)
		}
	})

	return set
}

// modulePath converts a tree path into a dotted module identifier:
// the extension is stripped (files only) and path separators become dots.
func modulePath(path string, isDir bool) string {
	if !isDir {
		if idx := strings.LastIndex(path, "."); idx > strings.LastIndex(path, "/") {
			path = path[:idx]
		}
	}

	return strings.ReplaceAll(path, "/", ".")
}

// Raw returns the file's raw import statements in source order. Files with
// no recognized imports return an empty list, not a missing entry. The
// returned slice is a copy; mutating it does not affect the set.
func (d *DependencySet) Raw(path string) []string {
	stmts := make([]string, len(d.records[path]))
	copy(stmts, d.records[path])

	return stmts
}

// Internal returns the file's import statements classified as
// project-local, preserving source order.
func (d *DependencySet) Internal(path string) []string {
	return d.filter(path, true)
}

// External returns the file's import statements classified as third-party,
// preserving source order.
func (d *DependencySet) External(path string) []string {
	return d.filter(path, false)
}

// AllInternal maps file path to internal import list for every file with at
// least one internal dependency.
func (d *DependencySet) AllInternal() map[string][]string {
	return d.collect(true)
}

// AllExternal maps file path to external import list for every file with at
// least one external dependency.
func (d *DependencySet) AllExternal() map[string][]string {
	return d.collect(false)
}

// Files returns the sorted paths of all files with at least one recorded
// import statement.
func (d *DependencySet) Files() []string {
	var paths []string

	for path, stmts := range d.records {
		if len(stmts) > 0 {
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)

	return paths
}

// Modules returns the sorted module-path set, mainly for diagnostics.
func (d *DependencySet) Modules() []string {
	modules := make([]string, 0, len(d.modules))
	for m := range d.modules {
		modules = append(modules, m)
	}

	sort.Strings(modules)

	return modules
}

func (d *DependencySet) filter(path string, internal bool) []string {
	filtered := []string{}

	for _, stmt := range d.records[path] {
		if d.isInternal(stmt) == internal {
			filtered = append(filtered, stmt)
		}
	}

	return filtered
}

func (d *DependencySet) collect(internal bool) map[string][]string {
	out := map[string][]string{}

	for path := range d.records {
		stmts := d.filter(path, internal)
		if len(stmts) > 0 {
			out[path] = stmts
		}
	}

	return out
}

// isInternal classifies one statement: internal exactly when its leading
// module identifier equals an entry of the module-path set. This is a
// single-segment syntactic test; relative imports, aliases, and namespace
// packages are not resolved, and a coincidental name collision with a
// project file misclassifies.
func (d *DependencySet) isInternal(stmt string) bool {
	module := LeadingModule(stmt)
	if module == "" {
		return false
	}

	_, ok := d.modules[module]

	return ok
}

// LeadingModule extracts the leading module identifier of a raw import
// statement per its surface form: a from-import yields the first dotted
// segment of the source module; a bare or call-like import yields the first
// segment of the named module.
func LeadingModule(stmt string) string {
	s := strings.TrimSpace(stmt)
	s = strings.TrimSuffix(s, ";")

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	// from-import form: the source module follows the keyword.
	if fields[0] == "from" && len(fields) > 1 {
		return firstSegment(fields[1])
	}

	// Two-keyword forms (extern crate serde, import static com.foo.Bar)
	// name the module after the secondary keyword.
	if len(fields) > 2 {
		switch fields[0] + " " + fields[1] {
		case "extern crate", "import static":
			return firstSegment(fields[2])
		}
	}

	// Quoted module names cover call-like forms (require('x')) and
	// string-path imports (import "net/http", import React from 'react').
	if quoted := firstQuoted(s); quoted != "" {
		return firstSegment(quoted)
	}

	if len(fields) < 2 {
		return ""
	}

	return firstSegment(fields[1])
}

// firstSegment returns the module token up to the first dot, path, or
// namespace separator.
func firstSegment(module string) string {
	module = strings.Trim(module, "\"'`,;")

	cut := len(module)

	for _, sep := range []string{"::", "/", "."} {
		if idx := strings.Index(module, sep); idx >= 0 && idx < cut {
			cut = idx
		}
	}

	return module[:cut]
}

// firstQuoted returns the first single- or double-quoted substring of s, or
// an empty string.
func firstQuoted(s string) string {
	for _, quote := range []byte{'\'', '"'} {
		start := strings.IndexByte(s, quote)
		if start < 0 {
			continue
		}

		end := strings.IndexByte(s[start+1:], quote)
		if end < 0 {
			continue
		}

		return s[start+1 : start+1+end]
	}

	return ""
}
