// SPDX-License-Identifier: MPL-2.0

package catalog

// EffectiveName returns the name shown to people: meta.nameOverride when it
// is set and non-empty, otherwise name. An empty override counts as absent.
func EffectiveName(app App) string {
	if app.Meta != nil && app.Meta.NameOverride != "" {
		return app.Meta.NameOverride
	}
	return app.Name
}

// EffectiveURL returns meta.urlOverride when it is set and non-empty,
// otherwise url.
func EffectiveURL(app App) string {
	if app.Meta != nil && app.Meta.URLOverride != "" {
		return app.Meta.URLOverride
	}
	return app.URL
}
