package vast

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/vast/internal/compiler"
)

// buildFile produces the summary subtree for one compiled source file. The
// node's name is the file's basename; intermediate directories are
// reconstructed later by insert.
func (s *Summarizer) buildFile(f *compiler.SourceFile, relPath string) *TreeNode {
	node := &TreeNode{
		Name: path.Base(relPath),
		Type: TypeFile,
		Size: len(f.Src),
	}
	root := f.Root()
	if root == nil {
		return node
	}
	node.Children = s.buildChildren(root, f.Src)
	return node
}

// build summarizes one syntax node. Returns nil for noise and for suppressed
// anonymous leaves. The size span is measured over the outermost wrapper
// (export/declare), so an exported class's span includes its modifiers.
func (s *Summarizer) build(outer *sitter.Node, src []byte) *TreeNode {
	inner := unwrap(outer)
	if inner == nil {
		return nil
	}
	cls := s.classify(inner, src)
	if cls.Noise {
		return nil
	}
	if !cls.Composite && cls.Name == "" && !s.unnamed {
		return nil
	}

	node := &TreeNode{
		Name: cls.Name,
		Type: cls.Type,
		Size: fullSpan(outer),
	}
	if cls.Composite {
		node.Children = s.buildChildren(inner, src)
	}
	return node
}

// buildChildren summarizes a composite node's direct children in source
// order. Body containers (class_body, interface_body) are flattened: their
// members hang directly off the declaration.
func (s *Summarizer) buildChildren(node *sitter.Node, src []byte) []*TreeNode {
	var out []*TreeNode
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if bodyContainers[child.Type()] {
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if built := s.build(child.NamedChild(j), src); built != nil {
					out = append(out, built)
				}
			}
			continue
		}
		if built := s.build(child, src); built != nil {
			out = append(out, built)
		}
	}
	return out
}

// fullSpan is the character length of a node's full source text, counting
// the trivia between the previous sibling's end and the node itself, the way
// the front-end's full-text accessor would.
func fullSpan(node *sitter.Node) int {
	start := node.StartByte()
	if prev := node.PrevSibling(); prev != nil {
		start = prev.EndByte()
	} else if parent := node.Parent(); parent != nil && parent.Type() == "program" {
		start = parent.StartByte()
	}
	return int(node.EndByte() - start)
}

// insert places a file subtree under root according to its project-relative
// path, creating one dir node per distinct path segment. Sibling order is
// first-encountered; two files sharing a prefix share exactly one dir node
// for it.
func insert(root *TreeNode, node *TreeNode, relPath string) {
	relPath = strings.TrimPrefix(relPath, "/")
	segment, rest, nested := strings.Cut(relPath, "/")
	if !nested {
		root.Children = append(root.Children, node)
		return
	}

	var dir *TreeNode
	for _, child := range root.Children {
		if child.Type == TypeDir && child.Name == segment {
			dir = child
			break
		}
	}
	if dir == nil {
		dir = &TreeNode{Name: segment, Type: TypeDir}
		root.Children = append(root.Children, dir)
	}
	insert(dir, node, rest)
}
