package repotree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/src-d/enry/v2"

	"github.com/repolens/repolens/pkg/language"
)

// vcsDirs are version-control metadata directories, never descended into.
var vcsDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// vendoredDirs are dependency trees excluded only when SkipVendored is set.
var vendoredDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"venv":         true,
	"__pycache__":  true,
}

// buildConfig holds walk options.
type buildConfig struct {
	workers      int
	skipVendored bool
}

// Option configures Build.
type Option func(*buildConfig)

// WithWorkers sets the number of concurrent file readers. Values below two
// keep the fully sequential walk. Reads are independent per path, so the
// resulting tree is identical either way; only wall time changes.
func WithWorkers(n int) Option {
	return func(cfg *buildConfig) {
		cfg.workers = n
	}
}

// SkipVendored additionally excludes vendored dependency trees
// (node_modules, vendor, venv, __pycache__) and anything enry recognizes as
// vendored. Off by default: a directory node's children otherwise match the
// non-hidden, non-VCS entries on disk, and a project directory named vendor
// stays part of the module-path set.
func SkipVendored() Option {
	return func(cfg *buildConfig) {
		cfg.skipVendored = true
	}
}

// Build walks the workspace rooted at root and returns its file tree. The
// walk skips VCS metadata and hidden entries; SkipVendored extends that to
// vendored dependency trees. Children are sorted lexicographically so
// downstream rendering is deterministic across filesystems.
func Build(root string, opts ...Option) (*FileNode, error) {
	cfg := buildConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	rootNode := &FileNode{Path: RootPath, IsDir: true, Children: []*FileNode{}}

	var pending []*FileNode

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries degrade to absence, not failure.
			return nil
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if skipDir(name, rel, cfg.skipVendored) {
				return filepath.SkipDir
			}

			ensureDir(rootNode, rel)

			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		node := &FileNode{
			Path:     rel,
			Language: language.Classify(rel),
		}

		parent := ensureDir(rootNode, parentPath(rel))
		parent.Children = append(parent.Children, node)
		pending = append(pending, node)

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk workspace: %w", walkErr)
	}

	readContents(root, pending, cfg.workers)
	sortChildren(rootNode)

	return rootNode, nil
}

// skipDir reports whether a directory is VCS metadata, hidden, or, when
// vendored exclusion is on, a vendored dependency tree.
func skipDir(name, rel string, skipVendored bool) bool {
	if vcsDirs[name] || strings.HasPrefix(name, ".") {
		return true
	}

	if !skipVendored {
		return false
	}

	return vendoredDirs[name] || enry.IsVendor(rel+"/")
}

// readContents fills Content for every pending file node, sequentially or
// through a bounded worker pool. Nodes are distinct per path, so workers
// never share a write target.
func readContents(root string, nodes []*FileNode, workers int) {
	if workers < 2 || len(nodes) < 2 {
		for _, node := range nodes {
			node.Content = readFileContent(filepath.Join(root, filepath.FromSlash(node.Path)))
		}

		return
	}

	jobs := make(chan *FileNode)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for node := range jobs {
				node.Content = readFileContent(filepath.Join(root, filepath.FromSlash(node.Path)))
			}
		}()
	}

	for _, node := range nodes {
		jobs <- node
	}

	close(jobs)
	wg.Wait()
}

// readFileContent returns the file's text. Binary payloads and read errors
// yield an empty string; invalid UTF-8 decodes lossily.
func readFileContent(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	if enry.IsBinary(data) {
		return ""
	}

	return strings.ToValidUTF8(string(data), "�")
}

// ensureDir resolves the directory node for rel, creating intermediate
// directory nodes as needed. Passing RootPath or "" returns the root.
func ensureDir(root *FileNode, rel string) *FileNode {
	if rel == "" || rel == RootPath {
		return root
	}

	current := root

	var prefix string

	for _, part := range strings.Split(rel, "/") {
		if prefix == "" {
			prefix = part
		} else {
			prefix = prefix + "/" + part
		}

		var next *FileNode

		for _, child := range current.Children {
			if child.IsDir && child.Path == prefix {
				next = child

				break
			}
		}

		if next == nil {
			next = &FileNode{Path: prefix, IsDir: true, Children: []*FileNode{}}
			current.Children = append(current.Children, next)
		}

		current = next
	}

	return current
}

// parentPath returns the slash-separated parent of rel, or "" at top level.
func parentPath(rel string) string {
	idx := strings.LastIndex(rel, "/")
	if idx < 0 {
		return ""
	}

	return rel[:idx]
}

// sortChildren orders every directory's children lexicographically by path.
func sortChildren(node *FileNode) {
	if !node.IsDir {
		return
	}

	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Path < node.Children[j].Path
	})

	for _, child := range node.Children {
		sortChildren(child)
	}
}
