package server

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"go.uber.org/zap"

	dashassets "github.com/alnah/go-dashassets"
	"github.com/alnah/go-dashassets/internal/fileutil"
	"github.com/alnah/go-dashassets/internal/logging"
)

// StaticPaths are the base assets every page template links directly.
// Each value is the static root joined with the asset path. The browser-side
// loader script is not among them: the server injects its assets instead.
type StaticPaths struct {
	AppleIcon    string
	Favicon      string
	NucleoIcons  string
	NucleoSVG    string
	Tailwind     string
	ScrollbarMin string
}

// NewStaticPaths builds the base asset URLs under staticRoot.
func NewStaticPaths(staticRoot string) StaticPaths {
	return StaticPaths{
		AppleIcon:    staticRoot + "img/apple-icon.png",
		Favicon:      staticRoot + "img/favicon.png",
		NucleoIcons:  staticRoot + "css/nucleo-icons.css",
		NucleoSVG:    staticRoot + "css/nucleo-svg.css",
		Tailwind:     staticRoot + "css/soft-ui-dashboard-tailwind.css",
		ScrollbarMin: staticRoot + "js/plugins/perfect-scrollbar.min.js",
	}
}

// PageData is the data passed to page templates.
type PageData struct {
	dashassets.PageContext
	Static StaticPaths
}

// pageTemplate maps a file under the pages segment to its template path.
// Only plain .html names are accepted.
func (s *Server) pageTemplate(file string) (string, bool) {
	if file == "" || path.Base(file) != file || !fileutil.IsHTML(file) {
		return "", false
	}
	return s.pagesSegment + "/" + file, true
}

// pageHandler renders the template chosen by pick with the request's page context.
func (s *Server) pageHandler(pick func(*http.Request) (string, bool)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.FromContext(r.Context())

		name, ok := pick(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		src, err := fs.ReadFile(s.templates, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			logger.Error("reading template", zap.String("template", name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		tmpl, err := template.New(name).Parse(string(src))
		if err != nil {
			logger.Error("parsing template", zap.String("template", name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		pc := s.loader.Context(r.URL.Path)
		data := PageData{PageContext: pc, Static: NewStaticPaths(pc.StaticRoot)}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			logger.Error("executing template", zap.String("template", name), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})
}
