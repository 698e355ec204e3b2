// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bytes"
	"context"
	"testing"

	"vshell-cli/internal/hostfs"
	"vshell-cli/internal/vfs"

	"github.com/spf13/afero"
)

const testDoc = `{"root":{"entries":{
	"d":{"type":"dir","entries":{"f":{"type":"file","content":"aGk="},"g.txt":{"type":"file","content":"raw text"}}},
	"empty":{"type":"dir"},
	"top.txt":{"type":"file","content":"dG9w"}
}}}`

func newTestEnv(t *testing.T) *Env {
	t.Helper()

	tree, err := vfs.Parse([]byte(testDoc), "test.json")
	if err != nil {
		t.Fatalf("vfs.Parse: %v", err)
	}

	mem := afero.NewMemMapFs()
	files := map[string]string{
		"/work/hello.txt":       "hello from host",
		"/work/sub/nested.txt":  "nested",
		"/home/operator/.vimrc": "set nu",
	}
	for name, content := range files {
		if err := afero.WriteFile(mem, name, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}

	return &Env{
		Session: NewSession(),
		VFS:     vfs.NewEngine(tree),
		Host:    hostfs.New(mem, hostfs.WithWorkDir("/work"), hostfs.WithHomeDir("/home/operator")),
	}
}

// run dispatches one command through the default registry.
func run(t *testing.T, env *Env, name string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := DefaultRegistry.Dispatch(context.Background(), env, &out, name, args)
	return out.String(), err
}
