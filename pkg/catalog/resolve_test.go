// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"testing"

	"pgregory.net/rapid"
)

func TestEffectiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		app  App
		want string
	}{
		{"no meta", App{Name: "Dolphin"}, "Dolphin"},
		{"meta without override", App{Name: "Dolphin", Meta: &Meta{ExcludeFromTable: true}}, "Dolphin"},
		{"empty override falls back", App{Name: "Dolphin", Meta: &Meta{NameOverride: ""}}, "Dolphin"},
		{"override wins", App{Name: "Dolphin", Meta: &Meta{NameOverride: "Dolphin (MMJR2)"}}, "Dolphin (MMJR2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := EffectiveName(tt.app); got != tt.want {
				t.Errorf("EffectiveName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectiveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		app  App
		want string
	}{
		{"no meta", App{URL: "https://a"}, "https://a"},
		{"empty override falls back", App{URL: "https://a", Meta: &Meta{URLOverride: ""}}, "https://a"},
		{"override wins", App{URL: "https://a", Meta: &Meta{URLOverride: "https://b"}}, "https://b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := EffectiveURL(tt.app); got != tt.want {
				t.Errorf("EffectiveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectiveFields_Law(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		app := App{
			Name: rapid.String().Draw(t, "name"),
			URL:  rapid.String().Draw(t, "url"),
		}
		if rapid.Bool().Draw(t, "hasMeta") {
			app.Meta = &Meta{
				NameOverride: rapid.String().Draw(t, "nameOverride"),
				URLOverride:  rapid.String().Draw(t, "urlOverride"),
			}
		}

		wantName, wantURL := app.Name, app.URL
		if app.Meta != nil && app.Meta.NameOverride != "" {
			wantName = app.Meta.NameOverride
		}
		if app.Meta != nil && app.Meta.URLOverride != "" {
			wantURL = app.Meta.URLOverride
		}

		if got := EffectiveName(app); got != wantName {
			t.Fatalf("EffectiveName() = %q, want %q", got, wantName)
		}
		if got := EffectiveURL(app); got != wantURL {
			t.Fatalf("EffectiveURL() = %q, want %q", got, wantURL)
		}
	})
}
