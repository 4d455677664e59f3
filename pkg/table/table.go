// SPDX-License-Identifier: MPL-2.0

package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/emupack/emupack/pkg/catalog"
	"github.com/emupack/emupack/pkg/deeplink"
)

const (
	// DefaultHeadingLevel is the Markdown heading level of group titles.
	DefaultHeadingLevel = 3
	// DefaultFallbackGroup holds apps none of whose categories are configured.
	DefaultFallbackGroup = "Uncategorized"

	header = "| Name | Author | Source |\n| --- | --- | --- |\n"
)

type (
	// Renderer turns apps into a Markdown table.
	Renderer struct {
		enc           *deeplink.Encoder
		headingLevel  int
		fallbackGroup string
	}

	// Option configures a Renderer.
	Option func(*Renderer)

	// Row is one rendered app.
	Row struct {
		App  catalog.App
		Name string
		Link string
		URL  string
	}

	// Group is one section of the table. Title is empty in flat mode.
	Group struct {
		Title string
		Rows  []Row
	}

	// Result is the outcome of Render.
	Result struct {
		// Markdown is the rendered fragment, ending in a newline unless empty.
		Markdown string
		// Groups lists the sections in display order.
		Groups []Group
		// Dangling holds the recoverable category references found while
		// grouping. Apps with no configured category end up in the fallback group.
		Dangling []*catalog.DanglingReferenceError
	}

	// entry is an app with its precomputed sort key and link.
	entry struct {
		index int
		key   string
		row   Row
	}
)

// WithHeadingLevel sets the heading level of group titles. Values outside
// 1..6 are ignored.
func WithHeadingLevel(level int) Option {
	return func(r *Renderer) {
		if level >= 1 && level <= 6 {
			r.headingLevel = level
		}
	}
}

// WithFallbackGroup sets the title of the group for apps with no configured
// category. An empty title is ignored.
func WithFallbackGroup(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.fallbackGroup = title
		}
	}
}

// New returns a Renderer that links each app through enc.
// A nil enc uses deeplink.DefaultBase.
func New(enc *deeplink.Encoder, opts ...Option) *Renderer {
	if enc == nil {
		enc = deeplink.New("")
	}
	r := &Renderer{
		enc:           enc,
		headingLevel:  DefaultHeadingLevel,
		fallbackGroup: DefaultFallbackGroup,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays out apps according to settings. Apps flagged
// meta.excludeFromTable are left out. A link encoding failure aborts the
// render and no Markdown is returned.
func (r *Renderer) Render(apps []catalog.App, settings catalog.Settings) (*Result, error) {
	entries, err := r.entries(apps)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if settings.GroupByCategory {
		res.Groups, res.Dangling = r.group(entries, settings.Categories)
	} else {
		res.Groups = []Group{{Rows: rows(entries)}}
	}
	res.Markdown = r.markdown(res.Groups)
	return res, nil
}

// entries resolves and links every listed app, sorted for display.
func (r *Renderer) entries(apps []catalog.App) ([]entry, error) {
	fold := cases.Fold()
	out := make([]entry, 0, len(apps))
	for i, app := range apps {
		if app.ExcludedFromTable() {
			continue
		}
		link, err := r.enc.Encode(app)
		if err != nil {
			return nil, fmt.Errorf("apps[%d] (%s): %w", i, app.ID, err)
		}
		name := catalog.EffectiveName(app)
		out = append(out, entry{
			index: i,
			key:   fold.String(name),
			row: Row{
				App:  app,
				Name: name,
				Link: link,
				URL:  catalog.EffectiveURL(app),
			},
		})
	}

	slices.SortStableFunc(out, func(a, b entry) int {
		return cmp.Or(
			strings.Compare(a.key, b.key),
			strings.Compare(a.row.App.ID, b.row.App.ID),
		)
	})
	return out, nil
}

// group partitions sorted entries into the configured categories. An app
// appears once in each of its configured categories; apps with none go to
// the fallback group, which is placed last.
func (r *Renderer) group(entries []entry, categories catalog.CategorySettings) ([]Group, []*catalog.DanglingReferenceError) {
	buckets := make([][]Row, len(categories))
	var fallback []Row
	var dangling []*catalog.DanglingReferenceError

	for _, e := range entries {
		placed := false
		seen := make(map[int]bool, len(e.row.App.Categories))
		for j, category := range e.row.App.Categories {
			idx := categories.Index(category)
			if idx < 0 {
				dangling = append(dangling, &catalog.DanglingReferenceError{
					AppID:     e.row.App.ID,
					Path:      fmt.Sprintf("apps[%d].categories[%d]", e.index, j),
					Reference: string(category),
					Target:    "settings.categories entry",
				})
				continue
			}
			placed = true
			if seen[idx] {
				continue
			}
			seen[idx] = true
			buckets[idx] = append(buckets[idx], e.row)
		}
		if !placed {
			fallback = append(fallback, e.row)
		}
	}

	groups := make([]Group, 0, len(categories)+1)
	for i, c := range categories {
		if len(buckets[i]) == 0 {
			continue
		}
		groups = append(groups, Group{Title: string(c.Name), Rows: buckets[i]})
	}
	if len(fallback) > 0 {
		groups = append(groups, Group{Title: r.fallbackGroup, Rows: fallback})
	}
	return groups, dangling
}

func (r *Renderer) markdown(groups []Group) string {
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if g.Title != "" {
			sb.WriteString(strings.Repeat("#", r.headingLevel))
			sb.WriteByte(' ')
			sb.WriteString(EscapeText(g.Title))
			sb.WriteString("\n\n")
		}
		sb.WriteString(header)
		for _, row := range g.Rows {
			fmt.Fprintf(&sb, "| [%s](%s) | %s | [Source](%s) |\n",
				EscapeText(row.Name),
				EscapeTarget(row.Link),
				EscapeText(row.App.Author),
				EscapeTarget(row.URL),
			)
		}
	}
	return sb.String()
}

func rows(entries []entry) []Row {
	out := make([]Row, len(entries))
	for i, e := range entries {
		out[i] = e.row
	}
	return out
}
