package dashassets

import "context"

// Loader injects the assets a page needs into its <head>.
// A Loader is immutable after New and safe for concurrent use.
type Loader struct {
	resolver Resolver
	features []compiledFeature
}

// Option configures a Loader.
type Option func(*loaderConfig)

type loaderConfig struct {
	resolver Resolver
	features []Feature
}

// WithFeatures replaces the default feature table.
func WithFeatures(features []Feature) Option {
	return func(c *loaderConfig) {
		c.features = features
	}
}

// WithResolver sets how page context is derived from URL paths.
func WithResolver(r Resolver) Option {
	return func(c *loaderConfig) {
		c.resolver = r
	}
}

// WithStaticRoot sets the prefix for asset URLs. A missing trailing slash is added.
func WithStaticRoot(root string) Option {
	return func(c *loaderConfig) {
		c.resolver.StaticRoot = root
	}
}

// New creates a Loader with the default feature table.
// Returns ErrInvalidFeature if a custom table fails validation.
func New(opts ...Option) (*Loader, error) {
	cfg := loaderConfig{features: DefaultFeatures()}
	for _, opt := range opts {
		opt(&cfg)
	}

	compiled, err := compileFeatures(cfg.features)
	if err != nil {
		return nil, err
	}

	return &Loader{resolver: cfg.resolver, features: compiled}, nil
}

// Result is the outcome of an injection.
// Requests lists the appended assets in document order.
type Result struct {
	Context  PageContext
	Requests []AssetRequest
	HTML     string
}

// Context resolves the page context for urlPath.
func (l *Loader) Context(urlPath string) PageContext {
	return l.resolver.Resolve(urlPath)
}

// Features returns a copy of the loader's feature table.
func (l *Loader) Features() []Feature {
	out := make([]Feature, len(l.features))
	for i, f := range l.features {
		out[i] = f.Feature
	}
	return out
}

// PlanHTML returns the page context and the assets htmlContent would receive,
// without modifying it.
func (l *Loader) PlanHTML(ctx context.Context, htmlContent, urlPath string) (PageContext, []AssetRequest, error) {
	if err := ctx.Err(); err != nil {
		return PageContext{}, nil, err
	}

	doc, err := parseDocument(htmlContent)
	if err != nil {
		return PageContext{}, nil, err
	}

	pc := l.resolver.Resolve(urlPath)
	return pc, plan(doc, pc, l.features), nil
}

// Inject probes htmlContent, appends the matching assets to <head> in
// request order, and returns the rendered document.
// All probes see the document as parsed; injected elements never affect
// another probe.
func (l *Loader) Inject(ctx context.Context, htmlContent, urlPath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := parseDocument(htmlContent)
	if err != nil {
		return nil, err
	}

	pc := l.resolver.Resolve(urlPath)
	reqs := plan(doc, pc, l.features)

	head := findHead(doc)
	for _, req := range reqs {
		appendRequest(head, req)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := renderDocument(doc)
	if err != nil {
		return nil, err
	}

	return &Result{Context: pc, Requests: reqs, HTML: out}, nil
}
