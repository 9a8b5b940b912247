package dashassets

import (
	"fmt"
	"path"
	"strings"

	"github.com/andybalholm/cascadia"
)

// AssetKind identifies how an asset is attached to the document head.
type AssetKind string

// Asset kinds.
const (
	Script     AssetKind = "script"
	Stylesheet AssetKind = "stylesheet"
)

// AssetRef is one asset of a feature, relative to the static root.
type AssetRef struct {
	Kind  AssetKind
	Path  string // e.g. "js/tooltips.js"
	Async bool   // scripts only
}

// Feature gates a list of assets on the presence of a selector match.
// An empty Selector loads the assets unconditionally.
type Feature struct {
	Name     string
	Selector string
	Assets   []AssetRef
}

// AssetRequest is a single asset to append to the document head.
type AssetRequest struct {
	Feature string
	URL     string
	Kind    AssetKind
	Async   bool
}

// DefaultFeatures returns the dashboard feature table in load order.
// The returned slice is a fresh copy and may be modified by the caller.
func DefaultFeatures() []Feature {
	return []Feature{
		{
			Name: "scrollbar",
			Assets: []AssetRef{
				{Kind: Stylesheet, Path: "css/perfect-scrollbar.css"},
				{Kind: Script, Path: "js/perfect-scrollbar.js", Async: true},
			},
		},
		{
			Name:     "navbar-collapse",
			Selector: "nav [navbar-trigger]",
			Assets: []AssetRef{
				{Kind: Script, Path: "js/navbar-collapse.js", Async: true},
			},
		},
		{
			Name:     "tooltips",
			Selector: "[data-target='tooltip']",
			Assets: []AssetRef{
				{Kind: Script, Path: "js/tooltips.js", Async: true},
				{Kind: Stylesheet, Path: "css/tooltips.css"},
			},
		},
		{
			Name:     "nav-pills",
			Selector: "[nav-pills]",
			Assets: []AssetRef{
				{Kind: Script, Path: "js/nav-pills.js", Async: true},
			},
		},
		{
			Name:     "dropdown",
			Selector: "[dropdown-trigger]",
			Assets: []AssetRef{
				{Kind: Script, Path: "js/dropdown.js", Async: true},
			},
		},
		{
			Name:     "fixed-plugin",
			Selector: "[fixed-plugin]",
			Assets: []AssetRef{
				{Kind: Script, Path: "js/fixed-plugin.js", Async: true},
			},
		},
		{
			Name:     "navbar-main",
			Selector: "[navbar-main]",
			Assets: []AssetRef{
				{Kind: Script, Path: "js/sidenav-burger.js", Async: true},
				{Kind: Script, Path: "js/navbar-sticky.js", Async: true},
			},
		},
		{
			Name:     "charts",
			Selector: "canvas",
			Assets: []AssetRef{
				{Kind: Script, Path: "js/chart-1.js", Async: true},
				{Kind: Script, Path: "js/chart-2.js", Async: true},
			},
		},
	}
}

// compiledFeature pairs a feature with its parsed selector.
// A nil selector means the feature is unconditional.
type compiledFeature struct {
	Feature
	sel cascadia.Selector
}

// ValidateFeatures checks a feature table without compiling it for use.
func ValidateFeatures(features []Feature) error {
	_, err := compileFeatures(features)
	return err
}

// compileFeatures validates the table and parses every selector once.
func compileFeatures(features []Feature) ([]compiledFeature, error) {
	seen := make(map[string]bool, len(features))
	compiled := make([]compiledFeature, 0, len(features))

	for i, f := range features {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: feature %d has no name", ErrInvalidFeature, i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidFeature, f.Name)
		}
		seen[f.Name] = true

		if len(f.Assets) == 0 {
			return nil, fmt.Errorf("%w: %q has no assets", ErrInvalidFeature, f.Name)
		}
		for _, a := range f.Assets {
			if err := validateAssetRef(a); err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFeature, f.Name, err)
			}
		}

		cf := compiledFeature{Feature: f}
		if f.Selector != "" {
			sel, err := cascadia.Compile(f.Selector)
			if err != nil {
				return nil, fmt.Errorf("%w: %q selector %q: %v", ErrInvalidFeature, f.Name, f.Selector, err)
			}
			cf.sel = sel
		}
		compiled = append(compiled, cf)
	}

	return compiled, nil
}

// validateAssetRef rejects unknown kinds and paths that could leave the static root.
func validateAssetRef(a AssetRef) error {
	switch a.Kind {
	case Script, Stylesheet:
	default:
		return fmt.Errorf("unknown asset kind %q", a.Kind)
	}

	if a.Path == "" {
		return fmt.Errorf("empty asset path")
	}
	if strings.HasPrefix(a.Path, "/") || strings.Contains(a.Path, "\\") || strings.Contains(a.Path, "://") {
		return fmt.Errorf("asset path %q must be relative", a.Path)
	}
	if path.Clean(a.Path) != a.Path {
		return fmt.Errorf("asset path %q is not clean", a.Path)
	}
	if a.Path == ".." || strings.HasPrefix(a.Path, "../") {
		return fmt.Errorf("asset path %q escapes the static root", a.Path)
	}
	return nil
}
