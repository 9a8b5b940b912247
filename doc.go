// Package dashassets decides which scripts and stylesheets a dashboard page
// needs and appends them to the page's <head>.
//
// # Quick Start
//
// Create a loader and pass it each rendered page with its URL path:
//
//	loader, err := dashassets.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := loader.Inject(ctx, pageHTML, "/pages/billing.html")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Context.Page, res.Context.BasePath) // billing ../
//
// res.HTML is the rewritten document. res.Requests lists every appended
// element in order, which is the confirmation that the page asked for its
// assets.
//
// # Page Context
//
// The page name is the last URL segment up to its first ".". Paths that
// contain the pages segment keep that name and get a "../" base path.
// Every other path is the default page with a "./" base path:
//
//	dashassets.ResolvePageContext("/pages/tables.html") // {tables ../ /static/}
//	dashassets.ResolvePageContext("/index.html")        // {dashboard ./ /static/}
//
// # Feature Table
//
// Each Feature has a CSS selector probe and the assets it loads. Features
// are evaluated in table order against the document as parsed, and matching
// assets are appended in that order:
//
//	scrollbar        (always)                 perfect-scrollbar css, js
//	navbar-collapse  nav [navbar-trigger]     navbar-collapse js
//	tooltips         [data-target='tooltip']  tooltips js, css
//	nav-pills        [nav-pills]              nav-pills js
//	dropdown         [dropdown-trigger]       dropdown js
//	fixed-plugin     [fixed-plugin]           fixed-plugin js
//	navbar-main      [navbar-main]            sidenav-burger js, navbar-sticky js
//	charts           canvas                   chart-1 js, chart-2 js
//
// Use WithFeatures to replace the table:
//
//	loader, err := dashassets.New(
//	    dashassets.WithStaticRoot("/assets/"),
//	    dashassets.WithFeatures(append(dashassets.DefaultFeatures(), dashassets.Feature{
//	        Name:     "maps",
//	        Selector: "[data-map]",
//	        Assets:   []dashassets.AssetRef{{Kind: dashassets.Script, Path: "js/maps.js", Async: true}},
//	    })),
//	)
//
// # Verification
//
// A Verifier checks planned URLs against a static directory and reports
// the ones that do not resolve as a *MissingAssetsError:
//
//	v, err := dashassets.NewDirVerifier("static", dashassets.DefaultStaticRoot)
//	if err := v.Verify(ctx, res.Requests); errors.Is(err, dashassets.ErrAssetMissing) {
//	    log.Println(err)
//	}
//
// # Error Handling
//
// Sentinel errors support errors.Is:
//
//   - ErrParseHTML, ErrRenderHTML: the document could not be processed
//   - ErrInvalidFeature: a custom feature table failed validation
//   - ErrAssetMissing: verification found unresolved URLs
//   - ErrOutsideStaticRoot: a planned URL does not start with the static root
//   - ErrNoStore: a Verifier has no store
//
// A Loader is safe for concurrent use.
package dashassets
