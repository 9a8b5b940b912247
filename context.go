package dashassets

import (
	"slices"
	"strings"
)

// Page context defaults.
const (
	// DefaultStaticRoot prefixes every asset URL.
	DefaultStaticRoot = "/static/"

	// DefaultPagesSegment marks paths that live under the pages directory.
	DefaultPagesSegment = "pages"

	// DefaultPage is used for any path outside the pages directory.
	DefaultPage = "dashboard"
)

// Base path prefixes for links built relative to the current page.
const (
	BasePathParent  = "../"
	BasePathCurrent = "./"
)

// PageContext describes the page being rendered.
type PageContext struct {
	Page       string // file name of the last path segment, without extension
	BasePath   string // "../" under the pages directory, "./" elsewhere
	StaticRoot string // prefix for every asset URL
}

// Resolver derives a PageContext from a URL path.
// The zero value uses the package defaults.
type Resolver struct {
	PagesSegment string
	DefaultPage  string
	StaticRoot   string // a missing trailing slash is added
}

// ResolvePageContext resolves urlPath with the default Resolver.
func ResolvePageContext(urlPath string) PageContext {
	return Resolver{}.Resolve(urlPath)
}

// Resolve computes the page context for urlPath.
// The candidate page is the last "/" segment cut at its first ".", so a
// trailing slash yields an empty candidate. Paths without the pages segment
// fall back to the default page.
func (r Resolver) Resolve(urlPath string) PageContext {
	pagesSegment := r.PagesSegment
	if pagesSegment == "" {
		pagesSegment = DefaultPagesSegment
	}

	segments := strings.Split(urlPath, "/")
	last := segments[len(segments)-1]
	page, _, _ := strings.Cut(last, ".")

	pc := PageContext{
		Page:       page,
		BasePath:   BasePathCurrent,
		StaticRoot: r.staticRoot(),
	}

	if slices.Contains(segments, pagesSegment) {
		pc.BasePath = BasePathParent
		return pc
	}

	pc.Page = r.DefaultPage
	if pc.Page == "" {
		pc.Page = DefaultPage
	}
	return pc
}

func (r Resolver) staticRoot() string {
	if r.StaticRoot == "" {
		return DefaultStaticRoot
	}
	if !strings.HasSuffix(r.StaticRoot, "/") {
		return r.StaticRoot + "/"
	}
	return r.StaticRoot
}
