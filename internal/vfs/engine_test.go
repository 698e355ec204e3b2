// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"slices"
	"testing"
)

const sampleDoc = `{"root":{"entries":{"d":{"type":"dir","entries":{"f":{"type":"file","content":"aGk="}}}}}}`

func mustParse(t *testing.T, doc string) *Engine {
	t.Helper()
	tree, err := Parse([]byte(doc), "test.json")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return NewEngine(tree)
}

func TestEngine_SampleDocument(t *testing.T) {
	t.Parallel()

	e := mustParse(t, sampleDoc)

	content, err := e.GetFileContent("/d/f")
	if err != nil {
		t.Fatalf("GetFileContent(/d/f) error: %v", err)
	}
	if string(content) != "hi" {
		t.Errorf("GetFileContent(/d/f) = %q, want %q", content, "hi")
	}

	if got := e.ListDirectory("/d"); !slices.Equal(got, []string{"f"}) {
		t.Errorf("ListDirectory(/d) = %v, want [f]", got)
	}

	if _, err := e.GetFileContent("/d/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFileContent(/d/missing) error = %v, want ErrNotFound", err)
	}
}

func TestEngine_GetFileContent_RoundTrip(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		[]byte("plain text"),
		{0x00, 0xff, 0x10, 0x80},
		{},
		bytes.Repeat([]byte("line\n"), 64),
	}

	for i, want := range payloads {
		t.Run(fmt.Sprintf("payload_%d", i), func(t *testing.T) {
			t.Parallel()

			doc := fmt.Sprintf(`{"root":{"entries":{"blob":{"type":"file","content":%q}}}}`,
				base64.StdEncoding.EncodeToString(want))
			e := mustParse(t, doc)

			got, err := e.GetFileContent("/blob")
			if err != nil {
				t.Fatalf("GetFileContent() error: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("GetFileContent() = %v, want %v", got, want)
			}
		})
	}
}

func TestEngine_GetFileContent_RawFallback(t *testing.T) {
	t.Parallel()

	e := mustParse(t, `{"root":{"entries":{"note":{"type":"file","content":"not base64!"}}}}`)

	got, err := e.GetFileContent("note")
	if err != nil {
		t.Fatalf("GetFileContent() error: %v", err)
	}
	if string(got) != "not base64!" {
		t.Errorf("GetFileContent() = %q, want raw payload", got)
	}
}

func TestEngine_GetFileContent_NotFound(t *testing.T) {
	t.Parallel()

	e := mustParse(t, sampleDoc)

	tests := []struct {
		name string
		path string
	}{
		{name: "empty path", path: ""},
		{name: "root only", path: "/"},
		{name: "directory", path: "/d"},
		{name: "missing parent", path: "/x/f"},
		{name: "file as parent", path: "/d/f/g"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := e.GetFileContent(tt.path)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("GetFileContent(%q) error = %v, want ErrNotFound", tt.path, err)
			}
			var nf *NotFoundError
			if errors.As(err, &nf) && nf.Path != tt.path {
				t.Errorf("NotFoundError.Path = %q, want %q", nf.Path, tt.path)
			}
		})
	}
}

func TestEngine_Resolve_SeparatorsCollapse(t *testing.T) {
	t.Parallel()

	e := mustParse(t, sampleDoc)

	for _, p := range []string{"/d/f", "d/f", "/d//f/", "//d/f"} {
		n, err := e.Resolve(p)
		if err != nil {
			t.Errorf("Resolve(%q) error: %v", p, err)
			continue
		}
		if n.Kind() != KindFile {
			t.Errorf("Resolve(%q) kind = %s, want file", p, n.Kind())
		}
	}
}

func TestEngine_Resolve_FileIntermediate(t *testing.T) {
	t.Parallel()

	e := mustParse(t, `{"root":{"entries":{"f":{"type":"file","content":""},"d":{"type":"dir"}}}}`)

	for _, p := range []string{"/f/x", "/f/d", "/f/x/y/z"} {
		if _, err := e.Resolve(p); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", p, err)
		}
	}
}

func TestEngine_ListDirectory(t *testing.T) {
	t.Parallel()

	e := mustParse(t, `{"root":{"entries":{
		"zeta":{"type":"file","content":""},
		"alpha":{"type":"dir","entries":{"inner":{"type":"dir"}}},
		"mid":{"type":"file","content":""}
	}}}`)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{name: "root slash", path: "/", want: []string{"zeta", "alpha", "mid"}},
		{name: "root empty", path: "", want: []string{"zeta", "alpha", "mid"}},
		{name: "nested", path: "/alpha", want: []string{"inner"}},
		{name: "empty directory", path: "/alpha/inner", want: []string{}},
		{name: "missing", path: "/nope", want: []string{}},
		{name: "file", path: "/zeta", want: []string{}},
		{name: "through file", path: "/zeta/x", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.ListDirectory(tt.path)
			if got == nil {
				t.Fatalf("ListDirectory(%q) returned nil", tt.path)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ListDirectory(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestEngine_ListDirectory_RootAliases(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{sampleDoc, `{}`, `{"root":{}}`} {
		e := mustParse(t, doc)
		if a, b := e.ListDirectory("/"), e.ListDirectory(""); !slices.Equal(a, b) {
			t.Errorf("doc %s: ListDirectory(\"/\") = %v, ListDirectory(\"\") = %v", doc, a, b)
		}
	}
}

func TestEngine_Walk(t *testing.T) {
	t.Parallel()

	e := mustParse(t, `{"root":{"entries":{
		"a":{"type":"dir","entries":{"b":{"type":"file","content":""},"c":{"type":"dir"}}},
		"z":{"type":"file","content":""}
	}}}`)

	var visited []string
	if err := e.Walk(func(p string, _ *Node) error {
		visited = append(visited, p)
		return nil
	}); err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{"/a", "/a/b", "/a/c", "/z"}
	if !slices.Equal(visited, want) {
		t.Errorf("Walk() visited %v, want %v", visited, want)
	}

	stop := errors.New("stop")
	err := e.Walk(func(p string, _ *Node) error {
		if p == "/a/b" {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want stop", err)
	}
}

func TestNewEngine_NilTree(t *testing.T) {
	t.Parallel()

	e := NewEngine(nil)
	if got := e.ListDirectory("/"); len(got) != 0 {
		t.Errorf("ListDirectory(/) on nil tree = %v, want empty", got)
	}
	if e.Tree().Root() == nil {
		t.Error("Root() should never be nil")
	}
}

func TestNode_ReadAt(t *testing.T) {
	t.Parallel()

	file := newFile([]byte("abcdef"))
	tests := []struct {
		name    string
		off     int64
		size    int
		want    string
		wantErr error
	}{
		{name: "middle", off: 2, size: 3, want: "cde"},
		{name: "tail short", off: 4, size: 3, want: "ef", wantErr: io.EOF},
		{name: "at end", off: 6, size: 3, want: "", wantErr: io.EOF},
		{name: "negative", off: -1, size: 3, want: "", wantErr: errNegativeOffset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := make([]byte, tt.size)
			n, err := file.ReadAt(buf, tt.off)
			if got := string(buf[:n]); got != tt.want {
				t.Errorf("ReadAt() = %q, want %q", got, tt.want)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadAt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	buf := make([]byte, 2)
	_, _ = file.ReadAt(buf, 0)
	buf[0] = 'X'
	if got := string(file.Content()); got != "abcdef" {
		t.Errorf("ReadAt buffer aliases content: %q", got)
	}

	if n, err := newDir().ReadAt(buf, 0); n != 0 || err != io.EOF {
		t.Errorf("directory ReadAt() = %d, %v", n, err)
	}
}
