// Package repotree builds and projects the normalized file tree of a
// repository workspace. The tree is built in a single eager pass that reads
// every file's content into memory, because the workspace it mirrors is torn
// down immediately after the pass.
package repotree

import (
	"github.com/repolens/repolens/pkg/language"
)

// RootPath is the path assigned to the tree's root node.
const RootPath = "."

// FileNode represents one filesystem entry. Each node exclusively owns its
// children; the tree has no cycles and no shared nodes, and exactly one node
// exists per distinct path.
type FileNode struct {
	// Path is the workspace-relative, slash-separated path. The root node
	// uses RootPath.
	Path string `json:"path"`

	// IsDir marks directory nodes.
	IsDir bool `json:"is_dir"`

	// Children is non-nil (possibly empty) exactly when IsDir is true.
	// Serialized without omitempty so an empty directory survives a
	// snapshot round trip distinct from a file's nil.
	Children []*FileNode `json:"children"`

	// Content holds the full text of file nodes. Read or decode failures
	// produce a lossy or empty string, never a missing field.
	Content string `json:"content,omitempty"`

	// Language is the classification tag, or the Unknown sentinel.
	Language language.Language `json:"language,omitempty"`
}

// Walk visits n and all descendants in preorder.
func (n *FileNode) Walk(visit func(*FileNode)) {
	if n == nil {
		return
	}

	visit(n)

	for _, child := range n.Children {
		child.Walk(visit)
	}
}

// Files returns all leaf (file) nodes in preorder.
func (n *FileNode) Files() []*FileNode {
	var files []*FileNode

	n.Walk(func(node *FileNode) {
		if !node.IsDir {
			files = append(files, node)
		}
	})

	return files
}

// Find returns the node with the given path, or nil.
func (n *FileNode) Find(path string) *FileNode {
	var found *FileNode

	n.Walk(func(node *FileNode) {
		if found == nil && node.Path == path {
			found = node
		}
	})

	return found
}
