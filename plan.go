package dashassets

import (
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Plan evaluates every feature against doc and returns the assets to load,
// in table order. Each probe runs once; a URL already requested by an
// earlier feature is not requested again.
func Plan(doc *html.Node, pc PageContext, features []Feature) ([]AssetRequest, error) {
	compiled, err := compileFeatures(features)
	if err != nil {
		return nil, err
	}
	return plan(doc, pc, compiled), nil
}

func plan(doc *html.Node, pc PageContext, features []compiledFeature) []AssetRequest {
	var reqs []AssetRequest
	seen := make(map[string]bool)

	for _, f := range features {
		if !f.matches(doc) {
			continue
		}
		for _, a := range f.Assets {
			url := pc.StaticRoot + a.Path
			if seen[url] {
				continue
			}
			seen[url] = true

			reqs = append(reqs, AssetRequest{
				Feature: f.Name,
				URL:     url,
				Kind:    a.Kind,
				Async:   a.Kind == Script && a.Async,
			})
		}
	}

	return reqs
}

// matches reports whether the feature's predicate holds for doc.
func (f compiledFeature) matches(doc *html.Node) bool {
	if f.sel == nil {
		return true
	}
	return matchOutsideTemplates(f.sel, doc)
}

// matchOutsideTemplates reports whether sel matches n or a descendant of n.
// Template content is inert, so <template> subtrees are never searched.
func matchOutsideTemplates(sel cascadia.Selector, n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom == atom.Template {
			continue
		}
		if sel.Match(c) || matchOutsideTemplates(sel, c) {
			return true
		}
	}
	return false
}
