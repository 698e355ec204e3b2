// SPDX-License-Identifier: MPL-2.0

package vfs

import "strings"

type (
	// Engine answers path queries against a loaded Tree.
	// It holds no mutable state and is safe for concurrent readers.
	Engine struct {
		tree *Tree
	}

	// WalkFunc is called by Walk for every node below the root. The path is
	// absolute ("/d/f").
	WalkFunc func(path string, n *Node) error
)

// NewEngine creates an engine over tree. A nil tree is treated as empty.
func NewEngine(tree *Tree) *Engine {
	if tree == nil || tree.root == nil {
		tree = EmptyTree()
	}
	return &Engine{tree: tree}
}

// Tree returns the tree the engine queries.
func (e *Engine) Tree() *Tree {
	return e.tree
}

// splitPath splits on "/" and drops empty segments.
func splitPath(p string) []string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return parts
}

// Resolve returns the node named by p. Every segment but the last must be an
// existing directory; the last may name either kind. A path with no segments
// names nothing and yields ErrNotFound.
func (e *Engine) Resolve(p string) (*Node, error) {
	parts := splitPath(p)
	if len(parts) == 0 {
		return nil, &NotFoundError{Path: p}
	}

	dir := e.tree.root
	for _, seg := range parts[:len(parts)-1] {
		next, ok := dir.Child(seg)
		if !ok || !next.IsDir() {
			return nil, &NotFoundError{Path: p}
		}
		dir = next
	}

	node, ok := dir.Child(parts[len(parts)-1])
	if !ok {
		return nil, &NotFoundError{Path: p}
	}
	return node, nil
}

// GetFileContent returns the decoded content of the file at p.
func (e *Engine) GetFileContent(p string) ([]byte, error) {
	node, err := e.Resolve(p)
	if err != nil {
		return nil, err
	}
	if node.Kind() != KindFile {
		return nil, &NotFoundError{Path: p}
	}
	return node.Content(), nil
}

// ListDirectory returns the child names of the directory at p in document order.
// "/" and "" name the root. A missing path, or one crossing a file, yields an
// empty result, the same as an empty directory.
func (e *Engine) ListDirectory(p string) []string {
	dir := e.tree.root
	if p != "/" && p != "" {
		for _, seg := range splitPath(p) {
			next, ok := dir.Child(seg)
			if !ok || !next.IsDir() {
				return []string{}
			}
			dir = next
		}
	}

	names := dir.Names()
	if names == nil {
		return []string{}
	}
	return names
}

// Walk visits every node depth-first in document order. Returning an error from
// fn stops the walk and returns that error.
func (e *Engine) Walk(fn WalkFunc) error {
	return walk("/", e.tree.root, fn)
}

func walk(dirPath string, dir *Node, fn WalkFunc) error {
	for _, name := range dir.names {
		child := dir.children[name]
		p := strings.TrimSuffix(dirPath, "/") + "/" + name
		if err := fn(p, child); err != nil {
			return err
		}
		if child.IsDir() {
			if err := walk(p, child, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
