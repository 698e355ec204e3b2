// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

// CompileJSON parses a JSON document into a CUE value.
//
// Unlike encoding/json, the resulting value keeps object keys in document order,
// which cue.Value.Fields reports back when iterating. A key repeated with a
// different value anywhere in the document is a conflict error; a key repeated
// with an identical value collapses into one field.
func CompileJSON(data []byte, filename string) (cue.Value, error) {
	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	v := cuecontext.New().BuildExpr(expr, cue.Filename(filename))
	if err := v.Validate(); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return v, nil
}
