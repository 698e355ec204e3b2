// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// Tokenize splits a command line into words using POSIX shell rules: quotes and
// backslashes group and escape, and "$VAR" is expanded using lookup. A nil
// lookup reads the process environment.
//
// Only quoting splits words. Operators, "#" and braces outside quotes are
// ordinary word text, so "echo a > b" yields four words and "# x" is a
// command named "#". A leading "~" and glob characters are kept verbatim.
// Commands decide what they mean: "~" must not turn into an absolute host
// path, because absolute paths address the virtual filesystem. Command
// substitution inside double quotes is rejected rather than executed.
// Unquoted expansions split on the default IFS whatever lookup returns.
func Tokenize(line string, lookup func(string) string) ([]string, error) {
	if lookup == nil {
		lookup = os.Getenv
	}

	var words []*syntax.Word
	err := syntax.NewParser().Words(strings.NewReader(escapeOperators(line)), func(w *syntax.Word) bool {
		words = append(words, literalTilde(w))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("argument parse error: %w", err)
	}

	// ReadDir stays nil: no pathname expansion.
	cfg := &expand.Config{Env: expand.FuncEnviron(func(name string) string {
		if name == "IFS" {
			return defaultIFS
		}
		return lookup(name)
	})}
	fields, err := expand.Fields(cfg, words...)
	if err != nil {
		return nil, fmt.Errorf("argument parse error: %w", err)
	}
	return fields, nil
}

const (
	// shellOperators are the characters the parser reads as syntax outside
	// quotes.
	shellOperators = "#;|&<>(){}`"

	defaultIFS = " \t\n"
)

// escapeOperators backslash-escapes every unquoted shell operator in line.
// Quoted text, existing escapes and "${NAME}" expansions pass through.
// A "$" directly before an operator is escaped with it.
func escapeOperators(line string) string {
	runes := []rune(line)
	var b strings.Builder
	b.Grow(len(line) + 8)

	var quote rune
	escaped := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '$' && i+1 < len(runes) && strings.ContainsRune(shellOperators, runes[i+1]):
			if runes[i+1] == '{' {
				if end := slices.Index(runes[i+1:], '}'); end >= 0 {
					b.WriteString(string(runes[i : i+2+end]))
					i += 1 + end
					continue
				}
			}
			b.WriteByte('\\')
		case strings.ContainsRune(shellOperators, r):
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// literalTilde rewrites a word starting with an unquoted "~" so that the tilde
// is single-quoted and survives expansion unchanged.
func literalTilde(w *syntax.Word) *syntax.Word {
	if len(w.Parts) == 0 {
		return w
	}
	lit, ok := w.Parts[0].(*syntax.Lit)
	if !ok || !strings.HasPrefix(lit.Value, "~") {
		return w
	}

	parts := make([]syntax.WordPart, 0, len(w.Parts)+1)
	parts = append(parts, &syntax.SglQuoted{Value: "~"})
	if rest := lit.Value[1:]; rest != "" {
		parts = append(parts, &syntax.Lit{Value: rest})
	}
	parts = append(parts, w.Parts[1:]...)
	return &syntax.Word{Parts: parts}
}
