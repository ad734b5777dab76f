package html

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig is the resolved theme bundle the HTML renderers consume:
// merged design tokens, derived CSS custom properties, the partial template
// map with fallbacks applied, and an asset URL resolver.
type ThemeConfig struct {
	Theme    string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	Partials map[string]string
	AssetURL func(name string) string
}

// defaultPartialFallbacks maps logical partial names to the built-in
// templates used when a theme manifest does not override them.
func defaultPartialFallbacks() map[string]string {
	return map[string]string{
		"forms.input":       "fields/input",
		"forms.textarea":    "fields/textarea",
		"forms.select":      "fields/select",
		"forms.multiselect": "fields/multiselect",
		"forms.checkbox":    "fields/checkbox",
		"forms.radio":       "fields/radio",
		"forms.switch":      "fields/switch",
		"forms.slider":      "fields/slider",
		"forms.rating":      "fields/rating",
		"forms.file":        "fields/file",
		"forms.array":       "fields/array",
		"forms.object":      "fields/object",
	}
}

// BuildThemeConfig flattens a theme selection into a renderer-ready config.
// Variant tokens, templates, and asset files override the base manifest;
// partials missing from both fall back to the built-in templates.
func BuildThemeConfig(selection *theme.Selection) *ThemeConfig {
	cfg := &ThemeConfig{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: defaultPartialFallbacks(),
	}
	if selection == nil {
		return cfg
	}
	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	for key, value := range manifest.Tokens {
		cfg.Tokens[key] = value
	}
	for name, path := range manifest.Templates {
		cfg.Partials[name] = path
	}

	assetFiles := map[string]string{}
	for name, file := range manifest.Assets.Files {
		assetFiles[name] = file
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			cfg.Tokens[key] = value
		}
		for name, path := range variant.Templates {
			cfg.Partials[name] = path
		}
		for name, file := range variant.Assets.Files {
			assetFiles[name] = file
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+key] = value
	}

	prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
	cfg.AssetURL = func(name string) string {
		file, ok := assetFiles[name]
		if !ok {
			return ""
		}
		if prefix == "" {
			return file
		}
		return prefix + "/" + strings.TrimLeft(file, "/")
	}

	return cfg
}

// SelectTheme resolves a named theme and variant through a selector and
// flattens the result. A nil selector yields the fallback-only config.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (*ThemeConfig, error) {
	if selector == nil {
		return BuildThemeConfig(nil), nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return BuildThemeConfig(selection), nil
}
