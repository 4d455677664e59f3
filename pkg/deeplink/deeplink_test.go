// SPDX-License-Identifier: MPL-2.0

package deeplink

import (
	"encoding/json"
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/emupack/emupack/pkg/catalog"

	"pgregory.net/rapid"
)

var payloadKeys = []string{
	"id", "url", "author", "name", "otherAssetUrls", "apkUrls", "preferredApkIndex",
	"additionalSettings", "categories", "overrideSource", "allowIdChange",
}

func decodeRaw(t *testing.T, enc *Encoder, link string) map[string]json.RawMessage {
	t.Helper()

	encoded, ok := strings.CutPrefix(link, enc.Base+"/")
	if !ok {
		t.Fatalf("link %q does not start with base %q", link, enc.Base)
	}
	data, err := url.PathUnescape(encoded)
	if err != nil {
		t.Fatalf("PathUnescape error = %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("payload is not JSON: %v\n%s", err, data)
	}
	return raw
}

func TestEncode_MinimalAppHasNulls(t *testing.T) {
	t.Parallel()

	enc := New("")
	link, err := enc.Encode(catalog.App{ID: "com.a.b", URL: "https://x", Author: "A", Name: "N"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	raw := decodeRaw(t, enc, link)
	if len(raw) != len(payloadKeys) {
		t.Errorf("payload has %d keys, want %d: %v", len(raw), len(payloadKeys), raw)
	}
	for _, key := range payloadKeys {
		if _, ok := raw[key]; !ok {
			t.Errorf("payload is missing key %q", key)
		}
	}
	for _, key := range payloadKeys[4:] {
		if string(raw[key]) != "null" {
			t.Errorf("absent field %q = %s, want null", key, raw[key])
		}
	}
	if string(raw["id"]) != `"com.a.b"` {
		t.Errorf("id = %s", raw["id"])
	}
}

func TestEncode_ExactPayload(t *testing.T) {
	t.Parallel()

	idx := 0
	allow := false
	source := catalog.OverrideGitHub
	app := catalog.App{
		ID:                 "org.ppsspp.ppsspp",
		URL:                "https://github.com/hrydgard/ppsspp",
		Author:             "Henrik Rydgård",
		Name:               "PPSSPP & <Friends>",
		Categories:         []catalog.Category{catalog.CategoryEmulator, catalog.CategoryDualScreen},
		APKURLs:            []string{"https://a/ppsspp.apk"},
		OtherAssetURLs:     []string{},
		PreferredAPKIndex:  &idx,
		AdditionalSettings: json.RawMessage(`{ "includePrereleases": true, "filterReleaseTitlesByRegEx": "^v\\d" }`),
		OverrideSource:     &source,
		AllowIDChange:      &allow,
		Meta:               &catalog.Meta{NameOverride: "Display", URLOverride: "https://display"},
	}

	enc := New("obtainium://app")
	link, err := enc.Encode(app)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	encoded := strings.TrimPrefix(link, "obtainium://app/")
	data, err := url.PathUnescape(encoded)
	if err != nil {
		t.Fatalf("PathUnescape error = %v", err)
	}

	want := `{"id":"org.ppsspp.ppsspp","url":"https://github.com/hrydgard/ppsspp","author":"Henrik Rydgård",` +
		`"name":"PPSSPP & <Friends>","otherAssetUrls":[],"apkUrls":["https://a/ppsspp.apk"],"preferredApkIndex":0,` +
		`"additionalSettings":"{\"includePrereleases\":true,\"filterReleaseTitlesByRegEx\":\"^v\\\\d\"}",` +
		`"categories":["Emulator","Dual Screen"],"overrideSource":"GitHub","allowIdChange":false}`
	if data != want {
		t.Errorf("payload mismatch\n got: %s\nwant: %s", data, want)
	}
	if strings.Contains(data, "Display") || strings.Contains(data, "meta") {
		t.Errorf("payload leaked meta fields: %s", data)
	}
}

func TestEncode_EscapesMetacharacters(t *testing.T) {
	t.Parallel()

	enc := New("")
	link, err := enc.Encode(catalog.App{
		ID:     "a",
		URL:    "https://x/?q=1&r=2#frag",
		Author: `Quote "Me"`,
		Name:   "A B+C",
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tail := strings.TrimPrefix(link, enc.Base+"/")
	for _, c := range []string{"&", "?", "=", `"`, " ", "+", "#", "{", ":", "/"} {
		if strings.Contains(tail, c) {
			t.Errorf("encoded payload contains raw %q: %s", c, tail)
		}
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	enc := New(DefaultBase + "/")
	if enc.Base != DefaultBase {
		t.Fatalf("trailing slash not trimmed: %q", enc.Base)
	}

	idx := 1
	app := catalog.App{
		ID:                "io.github.lime3ds.android",
		URL:               "https://github.com/Lime3DS/Lime3DS",
		Author:            "Lime3DS",
		Name:              "Lime3DS",
		Categories:        []catalog.Category{catalog.CategoryEmulator},
		APKURLs:           []string{"a", "b"},
		PreferredAPKIndex: &idx,
	}

	link, err := enc.Encode(app)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := enc.Decode(link)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want, err := PayloadFor(app)
	if err != nil {
		t.Fatalf("PayloadFor() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecode_ForeignLink(t *testing.T) {
	t.Parallel()

	_, err := New("https://a").Decode("https://b/%7B%7D")
	if !errors.Is(err, ErrForeignLink) {
		t.Errorf("expected ErrForeignLink, got %v", err)
	}
}

func TestPayloadFor_InvalidSettings(t *testing.T) {
	t.Parallel()

	_, err := PayloadFor(catalog.App{ID: "a", AdditionalSettings: json.RawMessage(`{broken`)})
	if err == nil {
		t.Error("expected error for invalid additionalSettings")
	}
}

func TestEncode_Property(t *testing.T) {
	t.Parallel()

	enc := New("")
	rapid.Check(t, func(t *rapid.T) {
		app := catalog.App{
			ID:     rapid.StringMatching(`[a-z]{1,8}(\.[a-z]{1,8}){0,3}`).Draw(t, "id"),
			URL:    rapid.String().Draw(t, "url"),
			Author: rapid.String().Draw(t, "author"),
			Name:   rapid.String().Draw(t, "name"),
			Meta:   &catalog.Meta{NameOverride: rapid.String().Draw(t, "override")},
		}
		if rapid.Bool().Draw(t, "withCategories") {
			app.Categories = rapid.SliceOfN(rapid.SampledFrom(catalog.Vocabulary()), 1, 3).Draw(t, "categories")
		}
		if rapid.Bool().Draw(t, "withAPKs") {
			app.APKURLs = rapid.SliceOfN(rapid.String(), 1, 3).Draw(t, "apks")
			idx := rapid.IntRange(0, len(app.APKURLs)-1).Draw(t, "idx")
			app.PreferredAPKIndex = &idx
		}

		link, err := enc.Encode(app)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		tail := strings.TrimPrefix(link, enc.Base+"/")
		for i := 0; i < len(tail); i++ {
			if !unreserved(tail[i]) && tail[i] != '%' {
				t.Fatalf("unescaped byte %q in %s", tail[i], tail)
			}
		}

		got, err := enc.Decode(link)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		// Compare serialized forms: JSON may re-escape some runes.
		want, _ := PayloadFor(app)
		wantJSON, _ := Marshal(want)
		gotJSON, _ := Marshal(got)
		if string(gotJSON) != string(wantJSON) {
			t.Fatalf("round trip mismatch\n got: %s\nwant: %s", gotJSON, wantJSON)
		}
	})
}

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"AZaz09-._~", "AZaz09-._~"},
		{" ", "%20"},
		{"a&b=c?d", "a%26b%3Dc%3Fd"},
		{`{"k":"v"}`, "%7B%22k%22%3A%22v%22%7D"},
		{"!*'()+,;/#[]@$", "%21%2A%27%28%29%2B%2C%3B%2F%23%5B%5D%40%24"},
		{"å", "%C3%A5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := Escape(tt.in); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscape_InvertsWithPathUnescape(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		got, err := url.PathUnescape(Escape(s))
		if err != nil {
			t.Fatalf("PathUnescape error = %v", err)
		}
		if got != s {
			t.Fatalf("round trip changed %q into %q", s, got)
		}
	})
}
