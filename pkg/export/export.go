// SPDX-License-Identifier: MPL-2.0

package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/emupack/emupack/pkg/catalog"
)

type (
	// Document is the installer import document.
	Document struct {
		Apps     []catalog.App    `json:"apps"`
		Settings catalog.Settings `json:"settings"`
	}

	// importApp is an app in the shape the installer imports: no meta, and
	// additionalSettings as a JSON string.
	importApp struct {
		ID                 string                  `json:"id"`
		URL                string                  `json:"url"`
		Author             string                  `json:"author"`
		Name               string                  `json:"name"`
		Categories         []catalog.Category      `json:"categories"`
		OtherAssetURLs     []string                `json:"otherAssetUrls,omitempty"`
		APKURLs            []string                `json:"apkUrls,omitempty"`
		PreferredAPKIndex  *int                    `json:"preferredApkIndex,omitempty"`
		AdditionalSettings *string                 `json:"additionalSettings,omitempty"`
		OverrideSource     *catalog.OverrideSource `json:"overrideSource,omitempty"`
		AllowIDChange      *bool                   `json:"allowIdChange,omitempty"`
	}

	importDocument struct {
		Apps     []importApp      `json:"apps"`
		Settings catalog.Settings `json:"settings"`
	}
)

// Filter returns the apps meant for import, in their original order, each
// without its meta block. The input slice and its apps are not modified.
func Filter(apps []catalog.App) []catalog.App {
	out := make([]catalog.App, 0, len(apps))
	for _, app := range apps {
		if app.ExcludedFromExport() {
			continue
		}
		out = append(out, app.WithoutMeta())
	}
	return out
}

// Build returns the export document for c.
func Build(c *catalog.Catalog) Document {
	return Document{
		Apps:     Filter(c.Apps),
		Settings: c.Settings,
	}
}

// Marshal serializes doc as compact JSON with no trailing newline.
// additionalSettings is written as a JSON string, as the installer reads it.
func Marshal(doc Document) ([]byte, error) {
	out := importDocument{
		Apps:     make([]importApp, 0, len(doc.Apps)),
		Settings: doc.Settings,
	}
	for _, app := range doc.Apps {
		settings, err := app.EncodedSettings()
		if err != nil {
			return nil, err
		}
		out.Apps = append(out.Apps, importApp{
			ID:                 app.ID,
			URL:                app.URL,
			Author:             app.Author,
			Name:               app.Name,
			Categories:         app.Categories,
			OtherAssetURLs:     app.OtherAssetURLs,
			APKURLs:            app.APKURLs,
			PreferredAPKIndex:  app.PreferredAPKIndex,
			AdditionalSettings: settings,
			OverrideSource:     app.OverrideSource,
			AllowIDChange:      app.AllowIDChange,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Checksum returns the hex SHA-256 digest of an exported artifact.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
