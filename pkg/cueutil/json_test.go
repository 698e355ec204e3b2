// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

func TestCompileJSON_PreservesFieldOrder(t *testing.T) {
	t.Parallel()

	v, err := CompileJSON([]byte(`{"zeta": 1, "alpha": 2, "mid": 3}`), "order.json")
	if err != nil {
		t.Fatalf("CompileJSON() error: %v", err)
	}

	iter, err := v.Fields()
	if err != nil {
		t.Fatalf("Fields() error: %v", err)
	}
	var got []string
	for iter.Next() {
		got = append(got, iter.Selector().Unquoted())
	}

	want := []string{"zeta", "alpha", "mid"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("field order = %v, want %v", got, want)
	}
}

func TestCompileJSON_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := CompileJSON([]byte(`{"root": `), "broken.json")
	if err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("error should name the file, got: %v", err)
	}
}
