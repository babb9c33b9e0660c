package repotree

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
)

// PathList returns the slash-separated paths of every node except the root,
// in preorder. This is the paths-only surface the downstream diagram
// pipeline consumes.
func PathList(node *FileNode) []string {
	var paths []string

	node.Walk(func(n *FileNode) {
		if n.Path == RootPath {
			return
		}

		paths = append(paths, n.Path)
	})

	return paths
}

// RenderPaths renders PathList as one path per line.
func RenderPaths(node *FileNode) string {
	return strings.Join(PathList(node), "\n")
}

// RenderTree renders the tree as an indented, connected listing of entry
// names, suitable for terminal display.
func RenderTree(node *FileNode) string {
	writer := list.NewWriter()
	writer.SetStyle(list.StyleConnectedLight)

	appendListItems(writer, node)

	return writer.Render()
}

func appendListItems(writer list.Writer, node *FileNode) {
	writer.AppendItem(baseName(node.Path))

	if len(node.Children) == 0 {
		return
	}

	writer.Indent()

	for _, child := range node.Children {
		appendListItems(writer, child)
	}

	writer.UnIndent()
}

func baseName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}

	return path[idx+1:]
}
