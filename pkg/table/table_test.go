// SPDX-License-Identifier: MPL-2.0

package table

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/emupack/emupack/pkg/catalog"
	"github.com/emupack/emupack/pkg/deeplink"
)

const testBase = "https://links.test/app"

func app(id, name string, categories ...catalog.Category) catalog.App {
	return catalog.App{
		ID:         id,
		URL:        "https://github.com/x/" + id,
		Author:     "dev",
		Name:       name,
		Categories: categories,
	}
}

func settings(group bool, names ...catalog.Category) catalog.Settings {
	s := catalog.Settings{GroupByCategory: group, Categories: catalog.CategorySettings{}}
	for i, n := range names {
		s.Categories = append(s.Categories, catalog.CategorySetting{Name: n, Color: int64(i)})
	}
	return s
}

func ids(rows []Row) string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.App.ID
	}
	return strings.Join(out, ",")
}

func titles(groups []Group) string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Title
	}
	return strings.Join(out, ",")
}

func TestRender_GroupedScenario(t *testing.T) {
	t.Parallel()

	apps := []catalog.App{
		app("com.two", "Two", "A", "B"),
		app("com.one", "One", "A"),
	}
	res, err := New(deeplink.New(testBase)).Render(apps, settings(true, "A", "B"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got := titles(res.Groups); got != "A,B" {
		t.Fatalf("groups = %q, want A,B", got)
	}
	if got := ids(res.Groups[0].Rows); got != "com.one,com.two" {
		t.Errorf("group A = %q, want com.one,com.two", got)
	}
	if got := ids(res.Groups[1].Rows); got != "com.two" {
		t.Errorf("group B = %q, want com.two", got)
	}
	if len(res.Dangling) != 0 {
		t.Errorf("unexpected dangling references: %v", res.Dangling)
	}

	a := strings.Index(res.Markdown, "### A\n")
	b := strings.Index(res.Markdown, "### B\n")
	if a < 0 || b < 0 || a > b {
		t.Errorf("headings missing or out of order:\n%s", res.Markdown)
	}
}

func TestRender_GroupOrderFollowsSettings(t *testing.T) {
	t.Parallel()

	apps := []catalog.App{
		app("a", "Alpha", catalog.CategoryEmulator),
		app("b", "Beta", catalog.CategoryStreaming),
		app("c", "Gamma", catalog.CategoryFrontend),
	}
	s := settings(true, catalog.CategoryStreaming, catalog.CategoryUtilities, catalog.CategoryEmulator, catalog.CategoryFrontend)

	res, err := New(nil).Render(apps, s)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// Utilities has no apps and is skipped.
	if got, want := titles(res.Groups), "Streaming,Emulator,Frontend"; got != want {
		t.Errorf("groups = %q, want %q", got, want)
	}
}

func TestRender_Partition(t *testing.T) {
	t.Parallel()

	apps := []catalog.App{
		app("multi", "Multi", "A", "B", "C"),
		app("dup", "Dup", "A", "A"),
		app("partial", "Partial", "A", "Missing"),
		app("lost", "Lost", "Missing", "Gone"),
	}
	res, err := New(nil).Render(apps, settings(true, "A", "B", "C"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := map[string]string{
		"A":                  "dup,multi,partial",
		"B":                  "multi",
		"C":                  "multi",
		DefaultFallbackGroup: "lost",
	}
	if got := titles(res.Groups); got != "A,B,C,"+DefaultFallbackGroup {
		t.Fatalf("groups = %q", got)
	}
	for _, g := range res.Groups {
		if got := ids(g.Rows); got != want[g.Title] {
			t.Errorf("group %s = %q, want %q", g.Title, got, want[g.Title])
		}
	}

	if len(res.Dangling) != 3 {
		t.Fatalf("expected 3 dangling references, got %d: %v", len(res.Dangling), res.Dangling)
	}
	for _, d := range res.Dangling {
		if !errors.Is(d, catalog.ErrDanglingReference) {
			t.Errorf("%v does not wrap ErrDanglingReference", d)
		}
		if d.Fatal {
			t.Errorf("%v should be recoverable", d)
		}
	}
	if got := res.Dangling[0].Path; got != "apps[3].categories[0]" && got != "apps[2].categories[1]" {
		t.Errorf("unexpected dangling path %q", got)
	}
}

func TestRender_FallbackGroupOption(t *testing.T) {
	t.Parallel()

	apps := []catalog.App{app("x", "X", "Nope")}
	res, err := New(nil, WithFallbackGroup("Other"), WithHeadingLevel(2)).Render(apps, settings(true, "A"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.HasPrefix(res.Markdown, "## Other\n\n") {
		t.Errorf("unexpected markdown:\n%s", res.Markdown)
	}
}

func TestRender_Flat(t *testing.T) {
	t.Parallel()

	apps := []catalog.App{
		app("b", "beta", "A"),
		app("z", "Alpha", "B"),
		app("a", "alpha", "A"),
		app("h", "Hidden", "A"),
	}
	apps[3].Meta = &catalog.Meta{ExcludeFromTable: true}
	apps[0].Meta = &catalog.Meta{NameOverride: "Ærø"}

	res, err := New(nil).Render(apps, settings(false, "A", "B"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(res.Groups) != 1 || res.Groups[0].Title != "" {
		t.Fatalf("expected one untitled group, got %q", titles(res.Groups))
	}
	// Case-folded "alpha" ties are broken by id; non-ASCII sorts after ASCII.
	if got, want := ids(res.Groups[0].Rows), "a,z,b"; got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
	if strings.Contains(res.Markdown, "#") {
		t.Errorf("flat table should have no headings:\n%s", res.Markdown)
	}
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	res, err := New(nil).Render(nil, settings(false))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if res.Markdown != header {
		t.Errorf("flat empty table = %q, want header only", res.Markdown)
	}

	res, err = New(nil).Render(nil, settings(true, "A"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if res.Markdown != "" || len(res.Groups) != 0 {
		t.Errorf("grouped empty table = %q, want empty", res.Markdown)
	}
}

func TestRender_Row(t *testing.T) {
	t.Parallel()

	enc := deeplink.New(testBase)
	a := catalog.App{
		ID:         "com.x",
		URL:        "https://example.com/a b",
		Author:     "A|B <c>",
		Name:       "N_1 [beta]",
		Categories: []catalog.Category{"A"},
		Meta:       &catalog.Meta{URLOverride: "https://example.com/(site)"},
	}
	link, err := enc.Encode(a)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	res, err := New(enc).Render([]catalog.App{a}, settings(false))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := header + `| [N\_1 \[beta\]](` + link + `) | A\|B \<c\> | [Source](https://example.com/%28site%29) |` + "\n"
	if res.Markdown != want {
		t.Errorf("Markdown mismatch\n got: %q\nwant: %q", res.Markdown, want)
	}
}

func TestRender_EncoderFailure(t *testing.T) {
	t.Parallel()

	bad := app("bad", "Bad", "A")
	bad.AdditionalSettings = json.RawMessage(`{broken`)

	res, err := New(nil).Render([]catalog.App{app("ok", "Ok", "A"), bad}, settings(true, "A"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if res != nil {
		t.Error("no result should be returned on failure")
	}
	if !strings.Contains(err.Error(), "apps[1]") {
		t.Errorf("error should name the app, got %v", err)
	}
}

func TestEscapeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a|b", `a\|b`},
		{"*bold* _it_", `\*bold\* \_it\_`},
		{"<script>&amp;", `\<script\>\&amp;`},
		{"`code` ~x~", "\\`code\\` \\~x\\~"},
		{`back\slash`, `back\\slash`},
		{"line\none\r\ntwo", "line one two"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := EscapeText(tt.in); got != tt.want {
				t.Errorf("EscapeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeTarget(t *testing.T) {
	t.Parallel()

	got := EscapeTarget("https://x.test/a (b)|<c>")
	want := "https://x.test/a%20%28b%29%7C%3Cc%3E"
	if got != want {
		t.Errorf("EscapeTarget() = %q, want %q", got, want)
	}
}
