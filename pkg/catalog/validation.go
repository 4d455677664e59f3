// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Validate checks the rules every catalog must satisfy. Parse calls it after
// schema validation; callers that build a Catalog in Go can call it directly.
// All violations are collected and joined; each matches ErrMalformedCatalog.
func (c *Catalog) Validate() error {
	return c.validate(defaultFilename)
}

func (c *Catalog) validate(file string) error {
	var errs []error
	seenIDs := make(map[string]int, len(c.Apps))

	for i, app := range c.Apps {
		base := fmt.Sprintf("apps[%d]", i)

		errs = append(errs, validateRequired(file, base, app)...)

		if first, exists := seenIDs[app.ID]; exists && app.ID != "" {
			errs = append(errs, &MalformedCatalogError{
				File:   file,
				Path:   base + ".id",
				Value:  strconv.Quote(app.ID),
				Reason: fmt.Sprintf("duplicate id, first defined at apps[%d]", first),
			})
		} else if !exists {
			seenIDs[app.ID] = i
		}

		for j, category := range app.Categories {
			if valid, fieldErrs := category.IsValid(); !valid {
				errs = append(errs, &MalformedCatalogError{
					File:   file,
					Path:   fmt.Sprintf("%s.categories[%d]", base, j),
					Value:  strconv.Quote(string(category)),
					Reason: "category is not in the vocabulary",
					Cause:  fieldErrs[0],
				})
			}
		}

		if app.OverrideSource != nil {
			if valid, fieldErrs := app.OverrideSource.IsValid(); !valid {
				errs = append(errs, &MalformedCatalogError{
					File:   file,
					Path:   base + ".overrideSource",
					Value:  strconv.Quote(string(*app.OverrideSource)),
					Reason: "unknown override source",
					Cause:  fieldErrs[0],
				})
			}
		}

		if err := validateAPKIndex(file, base, app); err != nil {
			errs = append(errs, err)
		}

		if len(app.AdditionalSettings) > 0 {
			trimmed := bytes.TrimSpace(app.AdditionalSettings)
			if len(trimmed) == 0 || trimmed[0] != '{' {
				errs = append(errs, &MalformedCatalogError{
					File:   file,
					Path:   base + ".additionalSettings",
					Value:  string(trimmed),
					Reason: "additional settings must be an object",
				})
			}
		}
	}

	seenCategories := make(map[Category]bool, len(c.Settings.Categories))
	for _, setting := range c.Settings.Categories {
		if seenCategories[setting.Name] {
			errs = append(errs, &MalformedCatalogError{
				File:   file,
				Path:   "settings.categories",
				Value:  strconv.Quote(string(setting.Name)),
				Reason: "duplicate category",
			})
		}
		seenCategories[setting.Name] = true
	}

	return errors.Join(errs...)
}

func validateRequired(file, base string, app App) []error {
	var errs []error
	required := []struct {
		field string
		value string
	}{
		{"id", app.ID},
		{"url", app.URL},
		{"name", app.Name},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, &MalformedCatalogError{
				File:   file,
				Path:   base + "." + r.field,
				Reason: "required field is empty",
			})
		}
	}
	if len(app.Categories) == 0 {
		errs = append(errs, &MalformedCatalogError{
			File:   file,
			Path:   base + ".categories",
			Reason: "at least one category is required",
		})
	}
	return errs
}

// validateAPKIndex rejects a preferredApkIndex that does not point into apkUrls.
func validateAPKIndex(file, base string, app App) error {
	if app.PreferredAPKIndex == nil {
		return nil
	}
	idx := *app.PreferredAPKIndex
	path := base + ".preferredApkIndex"

	if idx < 0 {
		return &MalformedCatalogError{
			File:   file,
			Path:   path,
			Value:  strconv.Itoa(idx),
			Reason: "index must not be negative",
		}
	}
	if app.APKURLs == nil || idx < len(app.APKURLs) {
		return nil
	}

	return &MalformedCatalogError{
		File:   file,
		Path:   path,
		Value:  strconv.Itoa(idx),
		Reason: fmt.Sprintf("index out of bounds for %d apk url(s)", len(app.APKURLs)),
		Cause: &DanglingReferenceError{
			AppID:     app.ID,
			Path:      path,
			Reference: strconv.Itoa(idx),
			Target:    "apkUrls entry",
			Fatal:     true,
		},
	}
}
