// Package server serves the dashboard: static assets under the static root,
// page templates, and an injection layer that runs every HTML response
// through the asset loader.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/logging"
	"github.com/alnah/go-dashassets/internal/metrics"
)

// Sentinel errors for server operations.
var (
	ErrNoLoader     = errors.New("server requires a loader")
	ErrInvalidRoute = errors.New("invalid route option")
	ErrListen       = errors.New("failed to listen")
)

// Options configures a Server. Loader, Static and Templates are required.
type Options struct {
	Loader       *dashassets.Loader
	Verifier     *dashassets.Verifier // nil disables verification
	StaticRoot   string               // URL prefix of Static (default "/static/")
	PagesSegment string               // URL segment of sub pages (default "pages")
	DefaultPage  string               // served at / and /{DefaultPage} from {DefaultPage}.html (default "dashboard")
	Static       fs.FS
	Templates    fs.FS
	Logger       *zap.Logger      // nil = no-op
	Metrics      *metrics.Metrics // nil = no /metrics endpoint
}

// Server is the dashboard HTTP handler.
type Server struct {
	loader       *dashassets.Loader
	verifier     *dashassets.Verifier
	staticRoot   string
	pagesSegment string
	defaultPage  string
	static       fs.FS
	templates    fs.FS
	logger       *zap.Logger
	metrics      *metrics.Metrics
	handler      http.Handler
}

// New validates opts and builds the route table.
func New(opts Options) (*Server, error) {
	if opts.Loader == nil {
		return nil, ErrNoLoader
	}
	if opts.Static == nil || opts.Templates == nil {
		return nil, errors.New("server requires static and template filesystems")
	}

	s := &Server{
		loader:       opts.Loader,
		verifier:     opts.Verifier,
		staticRoot:   opts.StaticRoot,
		pagesSegment: opts.PagesSegment,
		defaultPage:  opts.DefaultPage,
		static:       opts.Static,
		templates:    opts.Templates,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
	}
	if s.staticRoot == "" {
		s.staticRoot = dashassets.DefaultStaticRoot
	}
	if !strings.HasSuffix(s.staticRoot, "/") {
		s.staticRoot += "/"
	}
	if s.pagesSegment == "" {
		s.pagesSegment = dashassets.DefaultPagesSegment
	}
	if s.defaultPage == "" {
		s.defaultPage = dashassets.DefaultPage
	}
	if err := s.validateRoutes(); err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.handler = logging.Middleware(s.logger)(s.injectHTML(s.routes()))
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", s.instrument("healthz", http.HandlerFunc(handleHealth)))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	staticPrefix := strings.TrimSuffix(s.staticRoot, "/")
	mux.Handle("GET "+s.staticRoot, s.instrument("static",
		http.StripPrefix(staticPrefix, http.FileServerFS(s.static))))

	defaultTemplate := s.defaultPage + ".html"
	home := s.instrument("page", s.pageHandler(func(*http.Request) (string, bool) {
		return defaultTemplate, true
	}))
	mux.Handle("GET /{$}", home)
	mux.Handle("GET /"+s.defaultPage, home)

	mux.Handle("GET /"+s.pagesSegment+"/{file}", s.instrument("page", s.pageHandler(func(r *http.Request) (string, bool) {
		return s.pageTemplate(r.PathValue("file"))
	})))

	return mux
}

// reservedPages are routes the default page cannot take over.
var reservedPages = []string{"healthz", "metrics"}

// validateRoutes rejects values that cannot be spliced into mux patterns.
func (s *Server) validateRoutes() error {
	if !strings.HasPrefix(s.staticRoot, "/") || !patternSafe(s.staticRoot) || strings.Contains(s.staticRoot, "//") {
		return fmt.Errorf("%w: static root %q", ErrInvalidRoute, s.staticRoot)
	}
	for _, seg := range []string{s.pagesSegment, s.defaultPage} {
		if !patternSafe(seg) || strings.Contains(seg, "/") || seg == "." || seg == ".." {
			return fmt.Errorf("%w: segment %q", ErrInvalidRoute, seg)
		}
	}
	if slices.Contains(reservedPages, s.defaultPage) {
		return fmt.Errorf("%w: default page %q is reserved", ErrInvalidRoute, s.defaultPage)
	}
	return nil
}

// patternSafe reports whether v holds no wildcard braces or whitespace.
func patternSafe(v string) bool {
	return !strings.ContainsAny(v, "{}") && strings.IndexFunc(v, unicode.IsSpace) < 0
}

func (s *Server) instrument(route string, h http.Handler) http.Handler {
	if s.metrics == nil {
		return h
	}
	return s.metrics.Middleware(route, h)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// Run listens on addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListen, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
