// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	if ConfigLoadFailedId != 1 {
		t.Errorf("ConfigLoadFailedId = %d, want 1", ConfigLoadFailedId)
	}
	seen := make(map[Id]bool)
	for _, id := range []Id{ConfigLoadFailedId, VFSLoadFailedId, ScriptNotFoundId, MountFailedId, ServeFailedId} {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	for _, is := range Values() {
		if got := Get(is.Id()); got != is {
			t.Errorf("Get(%d) = %v, want %v", is.Id(), got, is)
		}
	}
	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestValues_SortedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not sorted at %d", i)
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	is := Get(MountFailedId)
	links := is.ExtLinks()
	if len(links) == 0 {
		t.Fatal("mount issue should carry an external link")
	}
	links[0] = "modified"
	if is.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a clone")
	}
	if is.DocLinks() != nil {
		t.Error("DocLinks() should be nil when none are set")
	}
}

func TestAllIssuesHaveContent(t *testing.T) {
	t.Parallel()

	for _, is := range Values() {
		if strings.TrimSpace(string(is.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no message", is.Id())
		}
	}
}

func TestIssue_RenderAppendsLinks(t *testing.T) {
	// Replaces the package-level renderer; not parallel.
	original := render
	t.Cleanup(func() { render = original })
	render = func(in, _ string) (string, error) { return in, nil }

	out, err := Get(MountFailedId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "## See also") || !strings.Contains(out, "https://github.com/hanwen/go-fuse") {
		t.Errorf("Render() output missing links:\n%s", out)
	}

	out, err = Get(ScriptNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(out, "See also") {
		t.Error("issues without links should not get a See also section")
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	t.Parallel()

	for _, is := range Values() {
		// glamour directly: the render var may be swapped by another test.
		out, err := glamour.Render(string(is.MarkdownMsg()), "notty")
		if err != nil {
			t.Errorf("issue %d failed to render: %v", is.Id(), err)
			continue
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("issue %d rendered empty", is.Id())
		}
	}
}
