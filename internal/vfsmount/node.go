// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin

package vfsmount

import (
	"context"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"

	"vshell-cli/internal/vfs"
)

type (
	// dirNode exposes a VFS directory.
	dirNode struct {
		fs.Inode
		node *vfs.Node
		opts *Options
	}

	// fileNode exposes a VFS file. Content is immutable, so reads need no
	// file handle.
	fileNode struct {
		fs.Inode
		node *vfs.Node
		opts *Options
	}
)

var (
	_ = (fs.NodeLookuper)((*dirNode)(nil))
	_ = (fs.NodeReaddirer)((*dirNode)(nil))
	_ = (fs.NodeGetattrer)((*dirNode)(nil))
	_ = (fs.NodeOpener)((*fileNode)(nil))
	_ = (fs.NodeReader)((*fileNode)(nil))
	_ = (fs.NodeGetattrer)((*fileNode)(nil))
)

// newRoot returns the inode embedder for the tree's root directory.
func newRoot(tree *vfs.Tree, opts *Options) fs.InodeEmbedder {
	return &dirNode{node: tree.Root(), opts: opts}
}

func newChild(node *vfs.Node, opts *Options) fs.InodeEmbedder {
	if node.IsDir() {
		return &dirNode{node: node, opts: opts}
	}
	return &fileNode{node: node, opts: opts}
}

func modeOf(node *vfs.Node) uint32 {
	if node.IsDir() {
		return fuse.S_IFDIR
	}
	return fuse.S_IFREG
}

func (n *dirNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	child, ok := n.node.Child(name)
	if !ok {
		return nil, syscall.ENOENT
	}

	fillAttr(&out.Attr, child, n.opts.ModTime)
	if t := n.opts.CacheTimeout; t > 0 {
		out.SetEntryTimeout(t)
		out.SetAttrTimeout(t)
	}
	return n.NewInode(ctx, newChild(child, n.opts), fs.StableAttr{Mode: modeOf(child)}), 0
}

func (n *dirNode) Readdir(_ context.Context) (fs.DirStream, syscall.Errno) {
	names := n.node.Names()
	entries := make([]fuse.DirEntry, 0, len(names))
	for _, name := range names {
		child, _ := n.node.Child(name)
		entries = append(entries, fuse.DirEntry{Name: name, Mode: modeOf(child)})
	}
	return fs.NewListDirStream(entries), 0
}

func (n *dirNode) Getattr(_ context.Context, _ fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	fillAttr(&out.Attr, n.node, n.opts.ModTime)
	if t := n.opts.CacheTimeout; t > 0 {
		out.SetTimeout(t)
	}
	return 0
}

func (n *fileNode) Open(_ context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_TRUNC|syscall.O_APPEND) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (n *fileNode) Read(_ context.Context, _ fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	c, _ := n.node.ReadAt(dest, off)
	return fuse.ReadResultData(dest[:c]), 0
}

func (n *fileNode) Getattr(_ context.Context, _ fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	fillAttr(&out.Attr, n.node, n.opts.ModTime)
	if t := n.opts.CacheTimeout; t > 0 {
		out.SetTimeout(t)
	}
	return 0
}

// fillAttr sets read-only permissions, size and timestamps.
func fillAttr(attr *fuse.Attr, node *vfs.Node, t time.Time) {
	if node.IsDir() {
		attr.Mode = fuse.S_IFDIR | 0o555
		attr.Nlink = 2
	} else {
		attr.Mode = fuse.S_IFREG | 0o444
		attr.Nlink = 1
		attr.Size = uint64(node.Size())
	}
	attr.Atime = uint64(t.Unix())
	attr.Atimensec = uint32(t.Nanosecond())
	attr.Mtime = attr.Atime
	attr.Mtimensec = attr.Atimensec
	attr.Ctime = attr.Atime
	attr.Ctimensec = attr.Atimensec
}
