package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/errors"
)

// Form keys that are not document paths.
const (
	cvActionField  = "action"
	cvConfirmField = "confirm"
)

// HandleCVEditor handles GET /admin/cv. The draft is fetched from the backend
// on first visit and again when ?reload is present.
func (h *Handlers) HandleCVEditor(w http.ResponseWriter, r *http.Request) {
	h.cvMu.Lock()
	defer h.cvMu.Unlock()

	if !h.cvLoaded || r.URL.Query().Has("reload") {
		h.loadCVDraft(r)
	}
	h.renderer.renderPage(w, r, "cveditor", h.cvEditorData(r, ""))
}

// HandleCVEditorSubmit handles POST /admin/cv. Every submitted document path
// is written to the draft first, then the requested action runs:
//
//	save
//	add:SECTION              remove:SECTION:N
//	add-group:N              remove-group:N:G
//	add-item:N:G             remove-item:N:G:I
//
// Removals only happen when the form carries confirm=true.
func (h *Handlers) HandleCVEditorSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("malformed form"))
		return
	}

	h.cvMu.Lock()
	defer h.cvMu.Unlock()

	if !h.cvLoaded {
		h.loadCVDraft(r)
	}
	h.cvEditor.SetConfirm(confirmFromForm(r))
	defer h.cvEditor.SetConfirm(nil)

	for key, values := range r.PostForm {
		if key == cvActionField || key == cvConfirmField || len(values) == 0 {
			continue
		}
		if err := h.cvEditor.SetScalar(key, values[0]); err != nil {
			h.log.Debug("web", "ignoring cv form field", map[string]any{"field": key, "error": err})
		}
	}

	action := r.PostForm.Get(cvActionField)
	err := h.applyCVAction(r.Context(), action)
	switch {
	case err == nil:
		h.renderer.renderPage(w, r, "cveditor", h.cvEditorData(r, ""))
	case action == "save":
		// The editor carries its own error notice.
		h.logFailure(r, "cv save failed", err)
		h.renderer.renderPage(w, r, "cveditor", h.cvEditorData(r, ""))
	default:
		h.renderer.renderPageStatus(w, r, errors.StatusOf(err), "cveditor", h.cvEditorData(r, errorMessage(err)))
	}
}

func (h *Handlers) applyCVAction(ctx context.Context, action string) error {
	if action == "" {
		return nil
	}
	name, args, _ := strings.Cut(action, ":")
	if name == "save" {
		return h.cvEditor.Save(ctx, h.api.CV)
	}

	switch name {
	case "add":
		return h.cvEditor.AddEntry(cv.Section(args))
	case "remove":
		section, idx, _ := strings.Cut(args, ":")
		n, err := actionInts(action, idx, 1)
		if err != nil {
			return err
		}
		_, err = h.cvEditor.RemoveEntry(cv.Section(section), n[0])
		return err
	}

	n, err := actionInts(action, args, map[string]int{
		"add-group": 1, "remove-group": 2, "add-item": 2, "remove-item": 3,
	}[name])
	if err != nil {
		return err
	}
	switch name {
	case "add-group":
		return h.cvEditor.AddHighlightGroup(n[0])
	case "remove-group":
		_, err = h.cvEditor.RemoveHighlightGroup(n[0], n[1])
	case "add-item":
		return h.cvEditor.AddHighlightItem(n[0], n[1])
	case "remove-item":
		_, err = h.cvEditor.RemoveHighlightItem(n[0], n[1], n[2])
	}
	return err
}

// actionInts parses want colon-separated indices from s.
func actionInts(action, s string, want int) ([]int, error) {
	parts := strings.Split(s, ":")
	if want == 0 || len(parts) != want {
		return nil, errors.NewInvalidRequest("unknown action: " + action)
	}
	out := make([]int, want)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, errors.NewInvalidRequest("bad index in action: " + action)
		}
		out[i] = n
	}
	return out, nil
}

// loadCVDraft replaces the draft with the stored CV. Callers hold cvMu.
func (h *Handlers) loadCVDraft(r *http.Request) {
	if err := h.cvEditor.Load(r.Context(), h.api.CV); err != nil {
		h.logFailure(r, "cv load failed", err)
	}
	h.cvLoaded = true
}

// resetCVDraft discards the draft so the next visit fetches afresh.
func (h *Handlers) resetCVDraft() {
	h.cvMu.Lock()
	defer h.cvMu.Unlock()
	h.cvEditor.Replace(cv.Blank())
	h.cvEditor.ClearNotice()
	h.cvLoaded = false
}

func (h *Handlers) cvEditorData(r *http.Request, errMsg string) CVEditorPageData {
	data := CVEditorPageData{
		PageData: h.page(r, "Edit CV", "admin"),
		Doc:      h.cvEditor.Document(),
		Error:    errMsg,
	}
	if n, ok := h.cvEditor.Notice(); ok {
		data.Notice = &n
		data.NoticeMillis = n.TTL(h.now()).Milliseconds()
	}
	return data
}
