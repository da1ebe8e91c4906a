package web

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	assetStylesheet = "web.stylesheet"
	staticPrefix    = "/static"
)

// DefaultManifest is the built-in theme with a light and a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "formflow",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":           "#2563eb",
			"surface":         "#ffffff",
			"text":            "#111827",
			"muted":           "#6b7280",
			"danger":          "#991b1b",
			"danger-surface":  "#fecaca",
			"notice-surface":  "#fde68a",
			"success-surface": "#bbf7d0",
		},
		Assets: theme.Assets{
			Prefix: staticPrefix,
			Files: map[string]string{
				assetStylesheet: "formflow.css",
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"brand":   "#0284c7",
					"surface": "#111827",
					"text":    "#f9fafb",
					"muted":   "#9ca3af",
					"danger":  "#fca5a5",
				},
			},
		},
	}
}

// ResolveTheme flattens the manifest and the chosen variant into renderer
// configuration. Variant tokens and asset files override the base ones. An
// empty variant selects the base theme.
func ResolveTheme(manifest *theme.Manifest, variant string) (*theme.RendererConfig, error) {
	if manifest == nil {
		return nil, errors.New("web: theme manifest is required")
	}
	tokens := copyStrings(manifest.Tokens)
	files := copyStrings(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	variant = strings.TrimSpace(variant)
	if variant != "" {
		v, ok := manifest.Variants[variant]
		if !ok {
			return nil, fmt.Errorf("web: theme %q has no variant %q", manifest.Name, variant)
		}
		for k, val := range v.Tokens {
			tokens[k] = val
		}
		for k, val := range v.Assets.Files {
			files[k] = val
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for k, val := range tokens {
		vars["--"+k] = val
	}

	return &theme.RendererConfig{
		Theme:   manifest.Name,
		Variant: variant,
		Tokens:  tokens,
		CSSVars: vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join("/", prefix, file)
		},
	}, nil
}

// cssVarsStyle renders custom properties in a stable order.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key]+";")
	}
	return strings.Join(parts, " ")
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
