// SPDX-License-Identifier: MPL-2.0

package vfs

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"vshell-cli/pkg/cueutil"

	"cuelang.org/go/cue"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

const (
	// NodeTypeFile is the "type" value of a file node.
	NodeTypeFile = "file"
	// NodeTypeDir is the "type" value of a directory node.
	NodeTypeDir = "dir"
)

// LoadOptions controls how a document is read.
type LoadOptions struct {
	// Fs is the filesystem the document is read from. Defaults to the OS filesystem.
	Fs afero.Fs
	// MaxSize caps the document size in bytes, after decompression.
	// Zero uses cueutil.DefaultMaxFileSize; a negative value disables the cap.
	MaxSize int64
	// Logger receives load diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.MaxSize == 0 {
		o.MaxSize = cueutil.DefaultMaxFileSize
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

// Load reads the document at path and builds a tree from it.
//
// The returned tree is never nil. When the document cannot be read or does not
// match the schema, Load logs the problem, returns an empty tree and a *LoadError.
// An empty path means no document was requested: the tree is empty and the error nil.
func Load(path string, opts LoadOptions) (*Tree, error) {
	opts = opts.withDefaults()
	if path == "" {
		return EmptyTree(), nil
	}

	tree, err := load(path, opts)
	if err != nil {
		loadErr := &LoadError{Path: path, Cause: err}
		opts.Logger.Error("vfs load failed, continuing with an empty tree", "path", path, "err", err)
		return EmptyTree(), loadErr
	}

	opts.Logger.Debug("vfs loaded", "path", path, "entries", tree.root.Names())
	return tree, nil
}

func load(path string, opts LoadOptions) (*Tree, error) {
	data, err := afero.ReadFile(opts.Fs, path)
	if err != nil {
		return nil, err
	}
	if err := cueutil.CheckFileSize(data, opts.MaxSize, path); err != nil {
		return nil, err
	}

	data, err = decompress(path, data, opts.MaxSize)
	if err != nil {
		return nil, err
	}

	return Parse(data, path)
}

// decompress inflates .gz and .zst documents; other names pass through.
func decompress(path string, data []byte, maxSize int64) ([]byte, error) {
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer func() { _ = zr.Close() }() // read-only stream; close error carries nothing

		r := io.Reader(zr)
		if maxSize > 0 {
			r = io.LimitReader(zr, maxSize+1)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, cueutil.CheckFileSize(out, maxSize, path)
	case strings.HasSuffix(path, ".zst"):
		var zopts []zstd.DOption
		if maxSize > 0 {
			zopts = append(zopts, zstd.WithDecoderMaxMemory(uint64(maxSize)))
		}
		dec, err := zstd.NewReader(nil, zopts...)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()

		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, cueutil.CheckFileSize(out, maxSize, path)
	default:
		return data, nil
	}
}

// Parse builds a tree from document bytes. Unlike Load it reports every problem
// as an error and never substitutes an empty tree. filename is used in messages.
func Parse(data []byte, filename string) (*Tree, error) {
	doc, err := cueutil.CompileJSON(data, filename)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != cue.StructKind {
		return nil, malformed("", "document must be an object, got %s", doc.Kind())
	}

	rootDoc := doc.LookupPath(cue.MakePath(cue.Str("root")))
	if !rootDoc.Exists() {
		return EmptyTree(), nil
	}
	if rootDoc.Kind() != cue.StructKind {
		return nil, malformed("root", "expected object, got %s", rootDoc.Kind())
	}

	root, err := decodeEntries(rootDoc, "root")
	if err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

// decodeEntries builds a directory from the "entries" field of v.
// A missing field is an empty directory.
func decodeEntries(v cue.Value, where string) (*Node, error) {
	dir := newDir()

	entries := v.LookupPath(cue.MakePath(cue.Str("entries")))
	if !entries.Exists() {
		return dir, nil
	}
	where += ".entries"
	if entries.Kind() != cue.StructKind {
		return nil, malformed(where, "expected object, got %s", entries.Kind())
	}

	iter, err := entries.Fields()
	if err != nil {
		return nil, malformed(where, "%v", err)
	}
	for iter.Next() {
		name := iter.Selector().Unquoted()
		child, err := decodeNode(iter.Value(), where+"."+name)
		if err != nil {
			return nil, err
		}
		dir.add(name, child)
	}
	return dir, nil
}

func decodeNode(v cue.Value, where string) (*Node, error) {
	if v.Kind() != cue.StructKind {
		return nil, malformed(where, "expected object, got %s", v.Kind())
	}

	typ, err := stringField(v, "type", where)
	if err != nil {
		return nil, err
	}

	switch typ {
	case NodeTypeFile:
		payload, err := stringField(v, "content", where)
		if err != nil {
			return nil, err
		}
		return newFile(decodeContent(payload)), nil
	case NodeTypeDir:
		return decodeEntries(v, where)
	case "":
		return nil, malformed(where, "missing node type")
	default:
		return nil, malformed(where, "unknown node type %q", typ)
	}
}

// stringField returns the string at v.name, or "" when the field is absent.
func stringField(v cue.Value, name, where string) (string, error) {
	f := v.LookupPath(cue.MakePath(cue.Str(name)))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", malformed(where+"."+name, "expected string, got %s", f.Kind())
	}
	return s, nil
}

// decodeContent base64-decodes a file payload, keeping the raw payload when it
// is not valid base64.
func decodeContent(payload string) []byte {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return []byte(payload)
	}
	return decoded
}
