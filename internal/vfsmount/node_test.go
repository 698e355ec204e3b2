// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin

package vfsmount

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"syscall"
	"testing"
	"time"

	"github.com/hanwen/go-fuse/v2/fuse"

	"vshell-cli/internal/vfs"
)

// "aGVsbG8gd29ybGQ=" is base64 for "hello world".
const testDoc = `{"root":{"entries":{
	"zeta":{"type":"file","content":"aGVsbG8gd29ybGQ="},
	"alpha":{"type":"dir","entries":{"inner":{"type":"file","content":""}}},
	"mid":{"type":"file","content":"eA=="}
}}}`

func testTree(t *testing.T) *vfs.Tree {
	t.Helper()
	tree, err := vfs.Parse([]byte(testDoc), "test.json")
	if err != nil {
		t.Fatalf("vfs.Parse() error: %v", err)
	}
	return tree
}

func testOptions() *Options {
	opts := Options{ModTime: time.Unix(1700000000, 0)}.withDefaults()
	return &opts
}

func TestDirNode_ReaddirDocumentOrder(t *testing.T) {
	t.Parallel()

	root := &dirNode{node: testTree(t).Root(), opts: testOptions()}
	stream, errno := root.Readdir(context.Background())
	if errno != 0 {
		t.Fatalf("Readdir() errno = %v", errno)
	}

	var names []string
	modes := map[string]uint32{}
	for stream.HasNext() {
		entry, errno := stream.Next()
		if errno != 0 {
			t.Fatalf("Next() errno = %v", errno)
		}
		names = append(names, entry.Name)
		modes[entry.Name] = entry.Mode
	}

	if want := []string{"zeta", "alpha", "mid"}; !slices.Equal(names, want) {
		t.Errorf("Readdir() names = %v, want %v", names, want)
	}
	if modes["alpha"] != fuse.S_IFDIR {
		t.Errorf("alpha mode = %o, want directory", modes["alpha"])
	}
	if modes["zeta"] != fuse.S_IFREG {
		t.Errorf("zeta mode = %o, want regular file", modes["zeta"])
	}
}

func TestDirNode_Getattr(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	root := &dirNode{node: testTree(t).Root(), opts: opts}

	var out fuse.AttrOut
	if errno := root.Getattr(context.Background(), nil, &out); errno != 0 {
		t.Fatalf("Getattr() errno = %v", errno)
	}
	if out.Mode != fuse.S_IFDIR|0o555 {
		t.Errorf("Getattr() mode = %o, want %o", out.Mode, fuse.S_IFDIR|0o555)
	}
	if out.Mtime != uint64(opts.ModTime.Unix()) {
		t.Errorf("Getattr() mtime = %d, want %d", out.Mtime, opts.ModTime.Unix())
	}
}

func TestFileNode_GetattrAndRead(t *testing.T) {
	t.Parallel()

	child, ok := testTree(t).Root().Child("zeta")
	if !ok {
		t.Fatal("zeta not found")
	}
	f := &fileNode{node: child, opts: testOptions()}

	var out fuse.AttrOut
	if errno := f.Getattr(context.Background(), nil, &out); errno != 0 {
		t.Fatalf("Getattr() errno = %v", errno)
	}
	if out.Mode != fuse.S_IFREG|0o444 {
		t.Errorf("Getattr() mode = %o, want %o", out.Mode, fuse.S_IFREG|0o444)
	}
	if out.Size != uint64(len("hello world")) {
		t.Errorf("Getattr() size = %d, want %d", out.Size, len("hello world"))
	}

	tests := []struct {
		name string
		off  int64
		size int
		want string
	}{
		{"whole file", 0, 64, "hello world"},
		{"offset", 6, 64, "world"},
		{"short buffer", 0, 5, "hello"},
		{"past end", 100, 64, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dest := make([]byte, tt.size)
			res, errno := f.Read(context.Background(), nil, dest, tt.off)
			if errno != 0 {
				t.Fatalf("Read() errno = %v", errno)
			}
			got, status := res.Bytes(make([]byte, tt.size))
			if !status.Ok() {
				t.Fatalf("Bytes() status = %v", status)
			}
			if string(got) != tt.want {
				t.Errorf("Read(off=%d) = %q, want %q", tt.off, got, tt.want)
			}
		})
	}
}

func TestFileNode_OpenRejectsWrites(t *testing.T) {
	t.Parallel()

	child, _ := testTree(t).Root().Child("mid")
	f := &fileNode{node: child, opts: testOptions()}

	if _, _, errno := f.Open(context.Background(), syscall.O_RDONLY); errno != 0 {
		t.Errorf("Open(O_RDONLY) errno = %v, want 0", errno)
	}
	for _, flags := range []uint32{syscall.O_WRONLY, syscall.O_RDWR, syscall.O_RDONLY | syscall.O_TRUNC} {
		if _, _, errno := f.Open(context.Background(), flags); errno != syscall.EROFS {
			t.Errorf("Open(%#x) errno = %v, want EROFS", flags, errno)
		}
	}
}

func fusermountAvailable() bool {
	for _, p := range []string{"/usr/bin/fusermount3", "/usr/bin/fusermount", "/bin/fusermount"} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func TestMount_Browse(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping FUSE mount in short mode")
	}
	if !fusermountAvailable() {
		t.Skip("fusermount not available")
	}

	mnt := t.TempDir()
	srv, err := Mount(testTree(t), mnt, Options{})
	if err != nil {
		t.Skipf("Mount() unavailable in this environment: %v", err)
	}
	t.Cleanup(func() {
		if err := srv.Unmount(); err != nil {
			t.Logf("Unmount() error: %v", err)
		}
	})

	got, err := os.ReadFile(filepath.Join(mnt, "zeta"))
	if err != nil {
		t.Fatalf("ReadFile(zeta) error: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("ReadFile(zeta) = %q, want %q", got, "hello world")
	}

	entries, err := os.ReadDir(filepath.Join(mnt, "alpha"))
	if err != nil {
		t.Fatalf("ReadDir(alpha) error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "inner" {
		t.Errorf("ReadDir(alpha) = %v, want [inner]", entries)
	}

	if err := os.WriteFile(filepath.Join(mnt, "new"), []byte("x"), 0o644); err == nil {
		t.Error("WriteFile() on read-only mount succeeded, want error")
	}
}
