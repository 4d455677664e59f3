// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CatalogNotFoundId Id = iota + 1
	UnknownCatalogFormatId
	MalformedCatalogId
	DanglingReferenceId
	ConfigLoadFailedId
	ReadmeSectionMissingId
	ForeignLinkId
	WriteFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

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

// Render renders the issue as terminal Markdown with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	catalogNotFoundIssue = &Issue{
		id: CatalogNotFoundId,
		mdMsg: `
# Catalog not found!

emupack could not read the catalog document.

## Lookup order:
1. The path given with ` + "`--catalog`" + `
2. The ` + "`catalog`" + ` key of your config file
3. ` + "`obtainium-emulation-pack.json`" + ` in the current directory

## Things you can try:
- Run emupack from the repository root
- Point it at the catalog explicitly:
~~~
$ emupack build --catalog src/applications.json
~~~`,
		extLinks: []HttpLink{"https://github.com/ImranR98/Obtainium"},
	}

	unknownCatalogFormatIssue = &Issue{
		id: UnknownCatalogFormatId,
		mdMsg: `
# Unknown catalog format!

The catalog format is picked from the file extension.

## Supported extensions:
- ` + "`.json`" + `
- ` + "`.cue`" + `
- ` + "`.yaml`" + ` / ` + "`.yml`" + `

## Things you can try:
- Rename the catalog to one of the extensions above`,
	}

	malformedCatalogIssue = &Issue{
		id: MalformedCatalogId,
		mdMsg: `
# The catalog is malformed!

The catalog was rejected as a whole and no artifact was written.

## Common causes:
- A required field (` + "`id`, `url`, `author`, `name`, `categories`" + `) is missing or empty
- Two apps share the same ` + "`id`" + `
- A category is not part of the vocabulary
- ` + "`preferredApkIndex`" + ` points past the end of ` + "`apkUrls`" + `
- ` + "`additionalSettings`" + ` is a string instead of an object

## Things you can try:
- Check each reported path in the catalog
- Validate without writing anything:
~~~
$ emupack validate
~~~`,
	}

	danglingReferenceIssue = &Issue{
		id: DanglingReferenceId,
		mdMsg: `
# Some apps use categories missing from settings!

Those apps were listed under the fallback group of the table.

## Things you can try:
- Add the category to ` + "`settings.categories`" + `:
~~~json
"settings": {
  "groupByCategory": true,
  "categories": { "Emulator": 4288423856 }
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your emupack configuration file could not be read or is invalid.

## Things you can try:
- Check the file with a CUE validator:
~~~
$ cue vet ~/.config/emupack/config.cue
~~~

- Print where emupack looks for it:
~~~
$ emupack config path
~~~

- Write a fresh default file:
~~~
$ emupack config init
~~~`,
	}

	readmeSectionMissingIssue = &Issue{
		id: ReadmeSectionMissingId,
		mdMsg: `
# README section not found!

One of the files listed in ` + "`readme.sections`" + ` does not exist.

## Things you can try:
- Check the paths in your config; they are relative to the working directory
- Keep the ` + "`@table`" + ` marker where the table should go:
~~~cue
readme: sections: ["pages/init.md", "@table", "pages/faq.md"]
~~~`,
	}

	foreignLinkIssue = &Issue{
		id: ForeignLinkId,
		mdMsg: `
# Not an emupack link!

The link does not start with the configured base address.

## Things you can try:
- Check ` + "`link.base_url`" + ` in your config
- Pass the whole link, quoted:
~~~
$ emupack inspect 'https://apps.obtainium.imranr.dev/redirect?r=obtainium://app/...'
~~~`,
	}

	writeFailedIssue = &Issue{
		id: WriteFailedId,
		mdMsg: `
# Failed to write the artifacts!

Every artifact is staged before any is replaced. A failure while staging
leaves the previous files untouched; the message above says how many were
replaced otherwise.

## Things you can try:
- Check that the output directories exist
- Check the free disk space`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The output file is read-only
- The output directory belongs to another user

## Things you can try:
- Check file/directory permissions
- Run emupack from a directory you own`,
	}

	issues = map[Id]*Issue{
		catalogNotFoundIssue.Id():      catalogNotFoundIssue,
		unknownCatalogFormatIssue.Id(): unknownCatalogFormatIssue,
		malformedCatalogIssue.Id():     malformedCatalogIssue,
		danglingReferenceIssue.Id():    danglingReferenceIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		readmeSectionMissingIssue.Id(): readmeSectionMissingIssue,
		foreignLinkIssue.Id():          foreignLinkIssue,
		writeFailedIssue.Id():          writeFailedIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	ids := make([]Id, 0, len(issues))
	for id := range issues {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]*Issue, len(ids))
	for i, id := range ids {
		out[i] = issues[id]
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
