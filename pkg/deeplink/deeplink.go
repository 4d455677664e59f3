// SPDX-License-Identifier: MPL-2.0

package deeplink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/emupack/emupack/pkg/catalog"
)

// DefaultBase is the installer's public redirect page followed by its app URL scheme.
const DefaultBase = "https://apps.obtainium.imranr.dev/redirect?r=obtainium://app"

// ErrForeignLink is returned by Decode when a link does not start with the encoder's base.
var ErrForeignLink = errors.New("link does not match encoder base")

type (
	// Payload is the installer-facing view of an app. Field order is the wire
	// key order; no field is omitted when empty.
	Payload struct {
		ID                 string                  `json:"id"`
		URL                string                  `json:"url"`
		Author             string                  `json:"author"`
		Name               string                  `json:"name"`
		OtherAssetURLs     []string                `json:"otherAssetUrls"`
		APKURLs            []string                `json:"apkUrls"`
		PreferredAPKIndex  *int                    `json:"preferredApkIndex"`
		AdditionalSettings *string                 `json:"additionalSettings"`
		Categories         []catalog.Category      `json:"categories"`
		OverrideSource     *catalog.OverrideSource `json:"overrideSource"`
		AllowIDChange      *bool                   `json:"allowIdChange"`
	}

	// Encoder turns apps into deep links rooted at Base.
	Encoder struct {
		// Base is the address the encoded payload is appended to, without a
		// trailing slash.
		Base string
	}
)

// New returns an Encoder for base. An empty base selects DefaultBase.
func New(base string) *Encoder {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBase
	}
	return &Encoder{Base: base}
}

// PayloadFor builds the payload for app from its canonical fields. Display
// overrides in meta never reach the installer.
func PayloadFor(app catalog.App) (Payload, error) {
	p := Payload{
		ID:                app.ID,
		URL:               app.URL,
		Author:            app.Author,
		Name:              app.Name,
		OtherAssetURLs:    app.OtherAssetURLs,
		APKURLs:           app.APKURLs,
		PreferredAPKIndex: app.PreferredAPKIndex,
		Categories:        app.Categories,
		OverrideSource:    app.OverrideSource,
		AllowIDChange:     app.AllowIDChange,
	}

	// The installer takes additionalSettings as an opaque JSON string.
	settings, err := app.EncodedSettings()
	if err != nil {
		return Payload{}, err
	}
	p.AdditionalSettings = settings

	return p, nil
}

// Marshal serializes p as compact JSON without HTML escaping.
func Marshal(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Encode returns the deep link for app.
func (e *Encoder) Encode(app catalog.App) (string, error) {
	p, err := PayloadFor(app)
	if err != nil {
		return "", err
	}
	data, err := Marshal(p)
	if err != nil {
		return "", fmt.Errorf("app %q: encode payload: %w", app.ID, err)
	}
	return e.Base + "/" + Escape(string(data)), nil
}

// Decode reverses Encode. It fails with ErrForeignLink when link was not
// produced for this encoder's base.
func (e *Encoder) Decode(link string) (Payload, error) {
	encoded, ok := strings.CutPrefix(link, e.Base+"/")
	if !ok {
		return Payload{}, fmt.Errorf("%w: %s", ErrForeignLink, e.Base)
	}

	data, err := url.PathUnescape(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}

	var p Payload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}
