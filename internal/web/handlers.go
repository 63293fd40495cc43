package web

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hpungsan/folio/internal/api"
	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/markdown"
)

// Handlers contains HTTP route handlers for the site.
type Handlers struct {
	api       *api.Client
	cfg       *config.Config
	renderer  *Renderer
	markdown  *markdown.Renderer
	chromaCSS []byte
	log       *logging.Logger
	limiter   *rate.Limiter
	now       func() time.Time

	// The CV draft lives across requests, like the admin session itself.
	cvMu     sync.Mutex
	cvEditor *cv.Editor
	cvLoaded bool
}

// page builds the common page fields for r.
func (h *Handlers) page(r *http.Request, title, nav string) PageData {
	return PageData{
		Title:   title,
		Version: h.renderer.version,
		Nav:     nav,
		Admin:   h.adminSession(r),
	}
}

// logFailure records a backend failure that the view reports inline.
func (h *Handlers) logFailure(r *http.Request, msg string, err error) {
	h.log.Error("web", msg, map[string]any{
		"request_id": requestID(r.Context()),
		"path":       r.URL.Path,
		"error":      err,
	})
}

// confirmFromForm maps the confirm=true form field set by the client-side
// dialog onto the confirmation capability the editors expect.
func confirmFromForm(r *http.Request) func(string) bool {
	confirmed := r.FormValue("confirm") == "true"
	return func(string) bool { return confirmed }
}

// wantsFragment reports whether r is an htmx request expecting a partial.
func wantsFragment(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// HandleChromaCSS serves the stylesheet for highlighted code blocks.
func (h *Handlers) HandleChromaCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(h.chromaCSS)
}
