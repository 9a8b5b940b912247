package dashassets

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, s string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	return doc
}

func urls(reqs []AssetRequest) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.URL
	}
	return out
}

// ---------------------------------------------------------------------------
// TestPlan - Probe evaluation
// ---------------------------------------------------------------------------

func TestPlan(t *testing.T) {
	t.Parallel()

	pc := PageContext{Page: "dashboard", BasePath: "./", StaticRoot: "/static/"}

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty body loads scrollbar only",
			body: "",
			want: []string{"/static/css/perfect-scrollbar.css", "/static/js/perfect-scrollbar.js"},
		},
		{
			name: "fixed plugin and canvas",
			body: `<div fixed-plugin></div><canvas></canvas>`,
			want: []string{
				"/static/css/perfect-scrollbar.css",
				"/static/js/perfect-scrollbar.js",
				"/static/js/fixed-plugin.js",
				"/static/js/chart-1.js",
				"/static/js/chart-2.js",
			},
		},
		{
			name: "tooltip loads script before stylesheet",
			body: `<span data-target="tooltip">?</span>`,
			want: []string{
				"/static/css/perfect-scrollbar.css",
				"/static/js/perfect-scrollbar.js",
				"/static/js/tooltips.js",
				"/static/css/tooltips.css",
			},
		},
		{
			name: "navbar trigger must be inside nav",
			body: `<div navbar-trigger></div>`,
			want: []string{"/static/css/perfect-scrollbar.css", "/static/js/perfect-scrollbar.js"},
		},
		{
			name: "navbar trigger inside nav",
			body: `<nav><a navbar-trigger></a></nav>`,
			want: []string{
				"/static/css/perfect-scrollbar.css",
				"/static/js/perfect-scrollbar.js",
				"/static/js/navbar-collapse.js",
			},
		},
		{
			name: "every feature follows table order",
			body: `<canvas></canvas><div navbar-main></div><div fixed-plugin></div>
				<div dropdown-trigger></div><ul nav-pills></ul><i data-target="tooltip"></i>
				<nav><button navbar-trigger></button></nav>`,
			want: []string{
				"/static/css/perfect-scrollbar.css",
				"/static/js/perfect-scrollbar.js",
				"/static/js/navbar-collapse.js",
				"/static/js/tooltips.js",
				"/static/css/tooltips.css",
				"/static/js/nav-pills.js",
				"/static/js/dropdown.js",
				"/static/js/fixed-plugin.js",
				"/static/js/sidenav-burger.js",
				"/static/js/navbar-sticky.js",
				"/static/js/chart-1.js",
				"/static/js/chart-2.js",
			},
		},
		{
			name: "template content is inert",
			body: `<template><canvas></canvas><div dropdown-trigger></div></template>`,
			want: []string{"/static/css/perfect-scrollbar.css", "/static/js/perfect-scrollbar.js"},
		},
		{
			name: "marker beside template still matches",
			body: `<template><canvas></canvas></template><div dropdown-trigger></div>`,
			want: []string{
				"/static/css/perfect-scrollbar.css",
				"/static/js/perfect-scrollbar.js",
				"/static/js/dropdown.js",
			},
		},
		{
			name: "many matches load once",
			body: `<canvas></canvas><canvas></canvas><canvas></canvas>`,
			want: []string{
				"/static/css/perfect-scrollbar.css",
				"/static/js/perfect-scrollbar.js",
				"/static/js/chart-1.js",
				"/static/js/chart-2.js",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, "<html><head></head><body>"+tt.body+"</body></html>")
			reqs, err := Plan(doc, pc, DefaultFeatures())
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if got := urls(reqs); !slices.Equal(got, tt.want) {
				t.Errorf("Plan() urls =\n  %v\nwant\n  %v", got, tt.want)
			}
		})
	}
}

func TestPlan_RequestFields(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<body><span data-target="tooltip"></span></body>`)
	reqs, err := Plan(doc, PageContext{StaticRoot: "/assets/"}, DefaultFeatures())
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	for _, r := range reqs {
		if !strings.HasPrefix(r.URL, "/assets/") {
			t.Errorf("URL %q does not start with static root", r.URL)
		}
		switch r.Kind {
		case Script:
			if !r.Async {
				t.Errorf("%s: default scripts load async", r.URL)
			}
		case Stylesheet:
			if r.Async {
				t.Errorf("%s: stylesheets are never async", r.URL)
			}
		}
	}
	if reqs[2].Feature != "tooltips" || reqs[2].Kind != Script {
		t.Errorf("reqs[2] = %+v, want tooltips script", reqs[2])
	}
}

func TestPlan_DeduplicatesAcrossFeatures(t *testing.T) {
	t.Parallel()

	features := []Feature{
		{Name: "a", Assets: []AssetRef{{Kind: Script, Path: "js/shared.js", Async: true}}},
		{Name: "b", Assets: []AssetRef{
			{Kind: Script, Path: "js/shared.js"},
			{Kind: Script, Path: "js/b.js"},
		}},
	}

	reqs, err := Plan(mustParse(t, ""), PageContext{StaticRoot: "/static/"}, features)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if got := urls(reqs); !slices.Equal(got, []string{"/static/js/shared.js", "/static/js/b.js"}) {
		t.Errorf("urls = %v", got)
	}
	if reqs[0].Feature != "a" {
		t.Errorf("first request owned by %q, want a", reqs[0].Feature)
	}
}

func TestPlan_InvalidTable(t *testing.T) {
	t.Parallel()

	_, err := Plan(mustParse(t, ""), PageContext{}, []Feature{{Name: "x"}})
	if !errors.Is(err, ErrInvalidFeature) {
		t.Errorf("Plan() error = %v, want ErrInvalidFeature", err)
	}
}
