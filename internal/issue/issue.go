// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	stdslices "slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoWorkspaceId Id = iota + 1
	ScriptPathUnresolvedId
	InterpreterNotFoundId
	ConfigLoadFailedId
	ScriptListingFailedId
	TerminalStartFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

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

// Render renders the help card with glamour. stylePath is a glamour style
// name ("dark", "light", "notty") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	noWorkspaceIssue = &Issue{
		id: NoWorkspaceId,
		mdMsg: `
# No workspace is open

lunescripts looks for script directories relative to a workspace root.
No root was given and none of the usual workspace markers were found
above the current directory.

## Things you can try:
- Point at the workspace explicitly:
~~~
$ lunescripts --workspace /path/to/project tree
~~~
- Or create a marker file in the project root:
~~~
$ touch .lunescripts.toml
~~~`,
	}

	scriptPathUnresolvedIssue = &Issue{
		id: ScriptPathUnresolvedId,
		mdMsg: `
# Could not determine which script to run

No script path was given and the active document is not a Lua or Luau file.

## Things you can try:
- Pass the script explicitly:
~~~
$ lunescripts run lune/build.luau
~~~
- Or name the active document and its language:
~~~
$ lunescripts run --active-file lune/build.luau --language luau
~~~`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Lune is not installed

The ` + "`lune`" + ` executable could not be found in your PATH.

## Things you can try:
- Install it with a toolchain manager:
~~~
$ rokit add lune-org/lune
~~~
- Verify it is reachable:
~~~
$ which lune
~~~
- If it is installed under another name, set ` + "`interpreter`" + ` in your config.`,
		extLinks: []HttpLink{"https://lune-org.github.io/docs/getting-started/1-installation"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ lunescripts config show
~~~
- Recreate a default configuration:
~~~
$ lunescripts config init
~~~`,
	}

	scriptListingFailedIssue = &Issue{
		id: ScriptListingFailedId,
		mdMsg: `
# Failed to list a script directory

A directory in the script tree could not be read.

## Things you can try:
- Check the directory permissions
- Run with ` + "`--verbose`" + ` to see the full error chain`,
	}

	terminalStartFailedIssue = &Issue{
		id: TerminalStartFailedId,
		mdMsg: `
# Failed to start the script terminal

The shell backing the script terminal could not be started.

## Things you can try:
- Check that ` + "`$SHELL`" + ` points to a working shell
- Use the built-in shell instead:
~~~
$ lunescripts run --terminal virtual lune/build.luau
~~~`,
	}

	issues = map[Id]*Issue{
		noWorkspaceIssue.Id():          noWorkspaceIssue,
		scriptPathUnresolvedIssue.Id(): scriptPathUnresolvedIssue,
		interpreterNotFoundIssue.Id():  interpreterNotFoundIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		scriptListingFailedIssue.Id():  scriptListingFailedIssue,
		terminalStartFailedIssue.Id():  terminalStartFailedIssue,
	}
)

// Values returns every catalog issue ordered by id.
func Values() []*Issue {
	return stdslices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
