package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "home", "tech", "personal", "cv", "admin"
	Admin   bool   // the request carries a bound admin session
}

// HomePageData is the template data for the landing page.
type HomePageData struct {
	PageData
	Author string
}

// BlogListPageData is the template data for a category blog list.
type BlogListPageData struct {
	PageData
	Category    blog.Category
	Path        string
	Description string
	Query       string
	Posts       []ListedPost
	Matches     int
	Error       string
}

// ListedPost is one row of a blog list. Every post of the category is
// rendered; rows not matching the query carry Hidden so the browser can
// re-filter without another request.
type ListedPost struct {
	blog.Post
	Hidden bool
}

// FilterTitle is the lower-cased title matched by the in-page search.
func (p ListedPost) FilterTitle() string {
	return strings.ToLower(p.Title)
}

// FilterTags is the lower-cased tag list, newline separated.
func (p ListedPost) FilterTags() string {
	return strings.ToLower(strings.Join(p.Tags, "\n"))
}

// DetailPageData is the template data for a single post.
type DetailPageData struct {
	PageData
	Post           *blog.Post
	RenderedHTML   template.HTML
	ReadingMinutes int
	BackPath       string
}

// CVPageData is the template data for the public CV page.
type CVPageData struct {
	PageData
	CV    *cv.Document
	Error string
}

// LoginPageData is the template data for the admin login form.
type LoginPageData struct {
	PageData
	Username string
	Error    string
}

// DashboardPageData is the template data for the admin dashboard.
type DashboardPageData struct {
	PageData
	Stats blog.Stats
}

// PostsPageData is the template data for the post management list.
type PostsPageData struct {
	PageData
	Posts []blog.Post
	Error string
}

// EditorPageData is the template data for the post editor.
type EditorPageData struct {
	PageData
	Draft      blog.Draft
	Categories []blog.Category
	Action     string
	// Visibility is "true", "false" or "" when the draft has no flag yet.
	Visibility string
	Preview    template.HTML
	Error      string
}

// CVEditorPageData is the template data for the CV editor.
type CVEditorPageData struct {
	PageData
	Doc    cv.Document
	Notice *cv.Notice
	// NoticeMillis is how long a transient notice stays up; zero for persistent ones.
	NoticeMillis int64
	Error        string
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
	log       *logging.Logger
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string, log *logging.Logger) *Renderer {
	if log == nil {
		log = logging.Nop()
	}
	funcMap := template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"joinTags": blog.JoinTags,
		"path":     fieldPath,
		"lower":    strings.ToLower,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"home":      "home.html",
		"bloglist":  "bloglist.html",
		"detail":    "detail.html",
		"cv":        "cv.html",
		"login":     "login.html",
		"dashboard": "dashboard.html",
		"posts":     "posts.html",
		"editor":    "editor.html",
		"cveditor":  "cveditor.html",
		"error":     "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
		log:       log,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP status code.
// For HTMX requests, only the "content" block is rendered to avoid duplicating the layout.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}
	r.renderBlock(w, status, name, block, data)
}

// renderBlock renders a specific named block from a page template.
// Used for htmx partial swaps that target a sub-section of the page.
func (r *Renderer) renderBlock(w http.ResponseWriter, status int, page, block string, data any) {
	t, ok := r.templates[page]
	if !ok {
		r.log.Error("web", "template not found", map[string]any{"page": page})
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		r.log.Error("web", "template execution failed", map[string]any{"page": page, "block": block, "error": err})
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var fErr *errors.FolioError
	if !stderrors.As(err, &fErr) {
		fErr = errors.NewInternal(err)
	}

	status := fErr.Status
	message := fErr.Message

	// HTMX request: return HTML fragment
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="error-message">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	// JSON request
	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		renderJSON(w, status, map[string]any{
			"error": map[string]any{
				"code":    string(fErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// fieldPath joins path segments into a CV field path, e.g. experience.0.role.
func fieldPath(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ".")
}

// errorMessage extracts the user-facing message from err.
func errorMessage(err error) string {
	var fErr *errors.FolioError
	if stderrors.As(err, &fErr) {
		return fErr.Message
	}
	return err.Error()
}
