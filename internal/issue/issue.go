// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	VFSLoadFailedId
	ScriptNotFoundId
	MountFailedId
	ServeFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the long-form guidance of an issue.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a catalog entry rendered when a matching failure reaches the
	// operator.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue as terminal-formatted markdown using the glamour
// style at stylePath ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

vshell reads ` + "`config.cue`" + ` from the platform config directory, then from the
current directory. Values must match the built-in schema.

## Things you can try:
- Print the file vshell is reading:
~~~
$ vshell config path
~~~
- Compare it with the defaults:
~~~
$ vshell config show --format cue
~~~
- Unset any ` + "`VSHELL_*`" + ` environment variables you do not need`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	vfsLoadFailedIssue = &Issue{
		id: VFSLoadFailedId,
		mdMsg: `
# Virtual filesystem document rejected

The shell started with an empty virtual filesystem.

## Expected document shape:
~~~json
{"root": {"entries": {
  "docs": {"type": "dir", "entries": {
    "readme": {"type": "file", "content": "aGVsbG8="}
  }}
}}}
~~~

## Things you can try:
- Validate the JSON syntax of the document
- Make sure every node has ` + "`type`" + ` set to ` + "`file`" + ` or ` + "`dir`" + `
- Raise ` + "`vfs.max_size`" + ` for very large documents`,
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Startup script not found

The script phase was skipped and the shell continued interactively.

## Things you can try:
- Pass a path relative to the current directory or an absolute path
- Check the ` + "`script`" + ` key in your configuration`,
	}

	mountFailedIssue = &Issue{
		id: MountFailedId,
		mdMsg: `
# The virtual filesystem could not be mounted

Mounting needs FUSE support on the host.

## Things you can try:
- Linux: install ` + "`fuse3`" + ` and check that ` + "`/dev/fuse`" + ` exists
- macOS: install macFUSE
- Use an existing, empty directory as the mountpoint
- Unmount a stale mount first:
~~~
$ fusermount3 -u MOUNTPOINT
~~~`,
		extLinks: []HttpLink{"https://github.com/hanwen/go-fuse"},
	}

	serveFailedIssue = &Issue{
		id: ServeFailedId,
		mdMsg: `
# The SSH server could not start

## Things you can try:
- Choose a free port with ` + "`--listen 127.0.0.1:2223`" + `
- Check that the host key file is readable and is a valid private key
- Delete a corrupt host key; a new one is generated on the next start`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id(): configLoadFailedIssue,
		vfsLoadFailedIssue.Id():    vfsLoadFailedIssue,
		scriptNotFoundIssue.Id():   scriptNotFoundIssue,
		mountFailedIssue.Id():      mountFailedIssue,
		serveFailedIssue.Id():      serveFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
