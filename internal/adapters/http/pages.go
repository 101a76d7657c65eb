package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"churchsite/internal/adapters/http/middleware"
	"churchsite/internal/application/projections"
	"churchsite/internal/domain/account"
	"churchsite/internal/domain/menu"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var templateFuncs = template.FuncMap{
	"renderMarkdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"formatDay": func(s string) string {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return s
		}
		return t.Format("Mon, Jan 2, 2006")
	},
	"upper": strings.ToUpper,
	"pageQuery": func(page, perPage int) template.URL {
		return template.URL(fmt.Sprintf("page=%d&per_page=%d", page, perPage))
	},
}

// pageData is what every page template receives.
type pageData struct {
	SiteName   string
	Title      string
	Navigation []menu.Node
	CSRFField  template.HTML
	User       *account.User
	Notice     string
	Error      string
	Data       any
}

// pageRenderer holds one parsed template set per page, each including the layout
// and the shared partials.
type pageRenderer struct {
	siteName string
	pages    map[string]*template.Template
}

// newPageRenderer parses every embedded page against the layout.
// PRE: the embedded templates are well-formed; a parse failure panics at startup
func newPageRenderer(siteName string) *pageRenderer {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}
	pr := &pageRenderer{siteName: siteName, pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := strings.TrimPrefix(name, "templates/")
		if base == "layout.html" || base == "partials.html" {
			continue
		}
		pr.pages[base] = template.Must(template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/partials.html", name))
	}
	return pr
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// render writes a full page. Navigation failures degrade to an empty menu.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, pd pageData) {
	tpl, ok := s.pages.pages[name]
	if !ok {
		internalError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}
	pd.SiteName = s.pages.siteName
	pd.CSRFField = csrf.TemplateField(r)
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		u := p.User
		pd.User = &u
	}
	if pd.Navigation == nil {
		nav, err := projections.QueryGetNavigation(r.Context(), s.stores.MenuStore)
		if err != nil {
			log.Warn().Err(err).Msg("navigation_unavailable")
		}
		pd.Navigation = nav
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, pd); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// renderError shows err on the error page with its mapped status.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("internal_error")
		msg = "Something went wrong. Please try again later."
	case status == http.StatusNotFound:
		msg = "We couldn't find that page."
	}
	s.render(w, r, status, "error.html", pageData{Title: http.StatusText(status), Error: msg})
}
