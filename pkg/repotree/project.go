package repotree

// Unbounded requests a projection with no depth limit.
const Unbounded = -1

// Project returns a structurally independent copy of the tree truncated at
// maxDepth. Nodes exactly at the cutoff keep their directory flag and
// language tag but lose content and children, so directories at the boundary
// become empty shells. Passing Unbounded (or any negative depth) yields a
// deep copy structurally identical to the original.
func Project(node *FileNode, maxDepth int) *FileNode {
	return projectNode(node, maxDepth, 0)
}

func projectNode(node *FileNode, maxDepth, depth int) *FileNode {
	if node == nil {
		return nil
	}

	if maxDepth >= 0 && depth >= maxDepth {
		shell := &FileNode{
			Path:     node.Path,
			IsDir:    node.IsDir,
			Language: node.Language,
		}

		if node.IsDir {
			shell.Children = []*FileNode{}
		}

		return shell
	}

	clone := &FileNode{
		Path:     node.Path,
		IsDir:    node.IsDir,
		Content:  node.Content,
		Language: node.Language,
	}

	if node.Children != nil {
		clone.Children = make([]*FileNode, 0, len(node.Children))
		for _, child := range node.Children {
			clone.Children = append(clone.Children, projectNode(child, maxDepth, depth+1))
		}
	}

	return clone
}
