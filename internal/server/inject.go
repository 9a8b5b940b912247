package server

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/logging"
)

// htmlBuffer holds back 200 text/html bodies so they can be rewritten.
// Any other response passes straight through, without its body when
// noBody is set.
type htmlBuffer struct {
	w         http.ResponseWriter
	status    int
	decided   bool
	buffering bool
	noBody    bool
	buf       bytes.Buffer
}

func (b *htmlBuffer) Header() http.Header {
	return b.w.Header()
}

func (b *htmlBuffer) WriteHeader(code int) {
	if b.decided {
		return
	}
	b.decided = true
	b.status = code

	h := b.w.Header()
	b.buffering = code == http.StatusOK && isHTML(h.Get("Content-Type")) && h.Get("Content-Encoding") == ""
	if !b.buffering {
		b.w.WriteHeader(code)
	}
}

func (b *htmlBuffer) Write(p []byte) (int, error) {
	if !b.decided {
		if b.w.Header().Get("Content-Type") == "" {
			b.w.Header().Set("Content-Type", http.DetectContentType(p))
		}
		b.WriteHeader(http.StatusOK)
	}
	if b.buffering {
		return b.buf.Write(p)
	}
	if b.noBody {
		return len(p), nil
	}
	return b.w.Write(p)
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/html"
}

// injectHTML runs every buffered HTML response through the loader.
// If injection fails the original body is served and the error logged.
// HEAD is served as GET so its headers describe the rewritten body.
func (s *Server) injectHTML(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		head := r.Method == http.MethodHead
		inner := r
		if head {
			inner = r.Clone(r.Context())
			inner.Method = http.MethodGet
		}

		b := &htmlBuffer{w: w, noBody: head}
		next.ServeHTTP(b, inner)
		if !b.buffering {
			return
		}

		body := b.buf.Bytes()
		if out, ok := s.rewrite(r, body); ok {
			body = out
		}

		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(b.status)
		if !head {
			_, _ = w.Write(body)
		}
	})
}

func (s *Server) rewrite(r *http.Request, body []byte) ([]byte, bool) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	res, err := s.loader.Inject(ctx, string(body), r.URL.Path)
	if err != nil {
		logger.Error("asset injection failed", zap.String("path", r.URL.Path), zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordRewriteError()
		}
		return nil, false
	}

	if s.metrics != nil {
		s.metrics.RecordPageRewritten(res.Context.Page)
		for _, req := range res.Requests {
			s.metrics.RecordAssetInjected(req.Feature, string(req.Kind))
		}
	}
	logger.Debug("assets injected",
		zap.String("page", res.Context.Page),
		zap.Int("requests", len(res.Requests)),
	)

	if s.verifier != nil {
		s.verify(r, res)
	}
	return []byte(res.HTML), true
}

// verify logs injected URLs that do not resolve. The response is unaffected.
func (s *Server) verify(r *http.Request, res *dashassets.Result) {
	logger := logging.FromContext(r.Context())

	err := s.verifier.Verify(r.Context(), res.Requests)
	if err == nil {
		return
	}

	var missing *dashassets.MissingAssetsError
	if errors.As(err, &missing) {
		logger.Warn("injected assets missing",
			zap.String("page", res.Context.Page),
			zap.Strings("urls", missing.URLs),
		)
		if s.metrics != nil {
			s.metrics.RecordAssetsMissing(res.Context.Page, len(missing.URLs))
		}
		return
	}
	logger.Warn("asset verification failed", zap.String("page", res.Context.Page), zap.Error(err))
}
