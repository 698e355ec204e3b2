// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"errors"
	"io"
	"slices"
)

var errNegativeOffset = errors.New("vfs: negative offset")

const (
	// KindFile marks a node holding file content.
	KindFile Kind = iota
	// KindDir marks a node holding named children.
	KindDir
)

type (
	// Kind is the variant tag of a Node. It is fixed when the node is built.
	Kind int

	// Node is one entry of the tree: either a file or a directory.
	// Nodes are only built by the loader and are read-only afterwards.
	Node struct {
		kind    Kind
		content []byte

		// names keeps document order; children is keyed by the same names.
		names    []string
		children map[string]*Node
	}

	// Tree is an immutable virtual filesystem with a directory root.
	Tree struct {
		root *Node
	}
)

// String returns "file" or "dir".
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "unknown"
	}
}

func newFile(content []byte) *Node {
	return &Node{kind: KindFile, content: content}
}

func newDir() *Node {
	return &Node{kind: KindDir, children: make(map[string]*Node)}
}

// add appends a child. Names are unique: the decoder rejects conflicting
// duplicate keys before any node is built.
func (n *Node) add(name string, child *Node) {
	n.names = append(n.names, name)
	n.children[name] = child
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool { return n.kind == KindDir }

// Content returns a copy of the file content. It is nil for directories.
func (n *Node) Content() []byte {
	if n.kind != KindFile {
		return nil
	}
	return slices.Clone(n.content)
}

// ReadAt copies file content starting at off into p without cloning the whole
// file. It implements io.ReaderAt; directories read as empty.
func (n *Node) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if n.kind != KindFile || off >= int64(len(n.content)) {
		return 0, io.EOF
	}
	c := copy(p, n.content[off:])
	if c < len(p) {
		return c, io.EOF
	}
	return c, nil
}

// Size returns the content length of a file, or the entry count of a directory.
func (n *Node) Size() int {
	if n.kind == KindFile {
		return len(n.content)
	}
	return len(n.names)
}

// Names returns the child names of a directory in document order.
func (n *Node) Names() []string {
	return slices.Clone(n.names)
}

// Child returns the named child of a directory.
func (n *Node) Child(name string) (*Node, bool) {
	if n.kind != KindDir {
		return nil, false
	}
	child, ok := n.children[name]
	return child, ok
}

// EmptyTree returns a tree whose root directory has no entries.
func EmptyTree() *Tree {
	return &Tree{root: newDir()}
}

// Root returns the root directory. It is never nil.
func (t *Tree) Root() *Node {
	return t.root
}
