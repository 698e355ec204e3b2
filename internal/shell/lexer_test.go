// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"slices"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	env := map[string]string{"HOME": "/home/operator", "NAME": "vfs"}
	lookup := func(k string) string { return env[k] }

	tests := []struct {
		line string
		want []string
	}{
		{line: "ls /d", want: []string{"ls", "/d"}},
		{line: "  echo   a    b  ", want: []string{"echo", "a", "b"}},
		{line: `echo "a b" 'c d'`, want: []string{"echo", "a b", "c d"}},
		{line: `cat my\ file`, want: []string{"cat", "my file"}},
		{line: "echo $NAME", want: []string{"echo", "vfs"}},
		{line: "ls ~", want: []string{"ls", "~"}},
		{line: "cat ~/notes.txt", want: []string{"cat", "~/notes.txt"}},
		{line: "echo '~'", want: []string{"echo", "~"}},
		{line: "echo ${NAME}", want: []string{"echo", "vfs"}},
		{line: "# not a comment here", want: []string{"#", "not", "a", "comment", "here"}},
		{line: "echo hi # c", want: []string{"echo", "hi", "#", "c"}},
		{line: "cat /d/f#2", want: []string{"cat", "/d/f#2"}},
		{line: "echo a;b", want: []string{"echo", "a;b"}},
		{line: "echo a|b", want: []string{"echo", "a|b"}},
		{line: "echo a > x", want: []string{"echo", "a", ">", "x"}},
		{line: "echo a && b", want: []string{"echo", "a", "&&", "b"}},
		{line: "echo (a)", want: []string{"echo", "(a)"}},
		{line: "echo {a,b}", want: []string{"echo", "{a,b}"}},
		{line: "echo $(whoami) `id`", want: []string{"echo", "$(whoami)", "`id`"}},
		{line: `echo "a;b" '#' \#`, want: []string{"echo", "a;b", "#", "#"}},
		{line: "", want: nil},
	}

	for _, tt := range tests {
		got, err := Tokenize(tt.line, lookup)
		if err != nil {
			t.Errorf("Tokenize(%q) error: %v", tt.line, err)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	for _, line := range []string{`echo "unterminated`, `echo 'open`, `echo "$(whoami)"`} {
		if _, err := Tokenize(line, func(string) string { return "" }); err == nil {
			t.Errorf("Tokenize(%q) expected error", line)
		}
	}
}

func TestTokenize_NoPathnameExpansion(t *testing.T) {
	t.Parallel()

	got, err := Tokenize("find /**/*.txt", func(string) string { return "" })
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if want := []string{"find", "/**/*.txt"}; !slices.Equal(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestTokenize_DefaultIFS(t *testing.T) {
	t.Parallel()

	env := map[string]string{"IFS": ":", "LIST": "a:b c"}
	got, err := Tokenize("echo $LIST", func(k string) string { return env[k] })
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if want := []string{"echo", "a:b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Tokenize() = %q, want %q", got, want)
	}
}

func TestEscapeOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want string
	}{
		{line: "echo a;b", want: `echo a\;b`},
		{line: `echo "a;b"`, want: `echo "a;b"`},
		{line: `echo 'a|b'`, want: `echo 'a|b'`},
		{line: `echo \#`, want: `echo \#`},
		{line: "echo ${HOME}", want: "echo ${HOME}"},
		{line: "echo $(x)", want: `echo \$\(x\)`},
		{line: "echo ${open", want: `echo \$\{open`},
	}

	for _, tt := range tests {
		if got := escapeOperators(tt.line); got != tt.want {
			t.Errorf("escapeOperators(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
