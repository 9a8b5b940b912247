package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/config"
	"github.com/alnah/go-dashassets/internal/hints"
)

// buildLoader turns the loader section of the config into a Loader.
// A custom feature table replaces the built-in one; Disable then removes
// rows by name.
func buildLoader(lc config.LoaderConfig) (*dashassets.Loader, error) {
	features := dashassets.DefaultFeatures()
	if len(lc.Features) > 0 {
		features = featuresFromConfig(lc.Features)
	}

	for _, name := range lc.Disable {
		if !slices.ContainsFunc(features, func(f dashassets.Feature) bool { return f.Name == name }) {
			return nil, fmt.Errorf("%w: cannot disable unknown feature %q%s",
				dashassets.ErrInvalidFeature, name, hints.ForInvalidFeature())
		}
	}
	features = slices.DeleteFunc(features, func(f dashassets.Feature) bool {
		return slices.Contains(lc.Disable, f.Name)
	})

	loader, err := dashassets.New(
		dashassets.WithResolver(dashassets.Resolver{
			PagesSegment: lc.PagesSegment,
			DefaultPage:  lc.DefaultPage,
		}),
		dashassets.WithStaticRoot(lc.StaticRoot),
		dashassets.WithFeatures(features),
	)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForInvalidFeature())
	}
	return loader, nil
}

func featuresFromConfig(fcs []config.FeatureConfig) []dashassets.Feature {
	features := make([]dashassets.Feature, 0, len(fcs))
	for _, fc := range fcs {
		f := dashassets.Feature{Name: fc.Name, Selector: fc.Selector}
		for _, ac := range fc.Assets {
			f.Assets = append(f.Assets, dashassets.AssetRef{
				Kind:  dashassets.AssetKind(strings.ToLower(ac.Kind)),
				Path:  ac.Path,
				Async: ac.Async,
			})
		}
		features = append(features, f)
	}
	return features
}

// withConfigHint appends a lookup hint to config-not-found errors.
func withConfigHint(err error) error {
	if !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}
	var searched []string
	if dir, dirErr := config.UserConfigDir(); dirErr == nil {
		searched = append(searched, filepath.Join(dir, "config.yaml"))
	}
	return fmt.Errorf("%w%s", err, hints.ForConfigNotFound(searched))
}
