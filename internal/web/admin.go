package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/errors"
)

const invalidCredentials = "Invalid credentials."

// HandleLoginPage handles GET /admin. A bound session goes straight to the dashboard.
func (h *Handlers) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.adminSession(r) {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	h.renderer.renderPage(w, r, "login", LoginPageData{PageData: h.page(r, "Admin Login", "admin")})
}

// HandleLogin handles POST /admin.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	data := LoginPageData{PageData: h.page(r, "Admin Login", "admin"), Username: username}

	if !h.limiter.Allow() {
		h.log.Warn("web", "login rate limited", map[string]any{"request_id": requestID(r.Context())})
		data.Error = "Too many login attempts. Try again later."
		h.renderer.renderPageStatus(w, r, http.StatusTooManyRequests, "login", data)
		return
	}

	ok, err := h.api.Auth.Login(r.Context(), username, password)
	if err != nil {
		status := errors.StatusOf(err)
		if errors.Is(err, errors.ErrUnauthorized) {
			data.Error = invalidCredentials
		} else {
			data.Error = errorMessage(err)
		}
		h.renderer.renderPageStatus(w, r, status, "login", data)
		return
	}
	if !ok {
		data.Error = invalidCredentials
		h.renderer.renderPageStatus(w, r, http.StatusUnauthorized, "login", data)
		return
	}

	h.resetCVDraft()
	setSessionCookie(w, r, h.api.Session().Binding())
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// HandleLogout handles POST /admin/logout. Only the bound browser can end the session.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if h.adminSession(r) {
		h.api.Auth.Logout()
		h.resetCVDraft()
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDashboard handles GET /admin/dashboard.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var stats blog.Stats
	posts, err := h.api.Blogs.ListAll(r.Context())
	if err != nil {
		h.logFailure(r, "dashboard stats failed", err)
	} else {
		stats = blog.ComputeStats(posts)
	}
	h.renderer.renderPage(w, r, "dashboard", DashboardPageData{
		PageData: h.page(r, "Dashboard", "admin"),
		Stats:    stats,
	})
}

// HandlePosts handles GET /admin/posts.
func (h *Handlers) HandlePosts(w http.ResponseWriter, r *http.Request) {
	data := PostsPageData{PageData: h.page(r, "Manage Posts", "admin")}
	m := blog.NewManager(h.api.Blogs, nil)
	if err := m.Load(r.Context()); err != nil {
		h.logFailure(r, "post list failed", err)
		data.Error = errorMessage(err)
	}
	data.Posts = m.Posts()
	h.renderer.renderPage(w, r, "posts", data)
}

// HandleDeletePost handles POST /admin/posts/{id}/delete. The form must carry
// confirm=true; otherwise nothing is deleted.
func (h *Handlers) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m := blog.NewManager(h.api.Blogs, confirmFromForm(r))

	deleted, err := m.Delete(r.Context(), id)
	if err != nil {
		h.logFailure(r, "delete failed", err)
		h.renderer.renderError(w, r, err)
		return
	}
	if deleted {
		h.log.Info("web", "post deleted", map[string]any{"id": id})
	}

	if wantsFragment(r) {
		if !deleted {
			// Declined: leave the row in place.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// HandleTogglePost handles POST /admin/posts/{id}/toggle. htmx requests get
// the updated row back.
func (h *Handlers) HandleTogglePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	m := blog.NewManager(h.api.Blogs, nil)

	updated, err := m.ToggleVisibility(r.Context(), id)
	if err != nil {
		h.logFailure(r, "toggle failed", err)
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsFragment(r) {
		h.renderer.renderBlock(w, http.StatusOK, "posts", "post-row", updated)
		return
	}
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// HandleEditor handles GET /admin/create and GET /admin/edit/{id}.
func (h *Handlers) HandleEditor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	draft, err := blog.LoadDraft(r.Context(), h.api.Blogs, id, h.cfg.DefaultAuthor, h.now())

	data := h.editorData(r, draft)
	if err != nil {
		h.logFailure(r, "post load failed", err)
		data.Error = errorMessage(err)
		h.renderer.renderPageStatus(w, r, errors.StatusOf(err), "editor", data)
		return
	}
	h.renderer.renderPage(w, r, "editor", data)
}

// HandleSavePost handles POST /admin/create and POST /admin/edit/{id}.
// On failure the form is shown again with the user's input intact.
func (h *Handlers) HandleSavePost(w http.ResponseWriter, r *http.Request) {
	draft := draftFromForm(r)

	if _, err := blog.SaveDraft(r.Context(), h.api.Blogs, draft); err != nil {
		h.logFailure(r, "post save failed", err)
		data := h.editorData(r, draft)
		data.Error = errorMessage(err)
		h.renderer.renderPageStatus(w, r, errors.StatusOf(err), "editor", data)
		return
	}

	h.log.Info("web", "post saved", map[string]any{"id": draft.ID, "title": draft.Title})
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// HandlePreview handles POST /admin/preview, returning the rendered content fragment.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	rendered, err := h.markdown.Render(r.FormValue("content"))
	if err != nil {
		h.logFailure(r, "preview render failed", err)
		h.renderer.renderError(w, r, errors.NewInvalidRequest("preview failed"))
		return
	}
	h.renderer.renderBlock(w, http.StatusOK, "editor", "preview", EditorPageData{Preview: rendered})
}

func (h *Handlers) editorData(r *http.Request, d blog.Draft) EditorPageData {
	title, action := "Create Post", "/admin/create"
	if d.IsEdit() {
		title, action = "Edit Post", "/admin/edit/"+d.ID
	}
	data := EditorPageData{
		PageData:   h.page(r, title, "admin"),
		Draft:      d,
		Categories: blog.Categories,
		Action:     action,
	}
	if d.IsVisible != nil {
		data.Visibility = strconv.FormatBool(*d.IsVisible)
	}
	if d.Content != "" {
		data.Preview, _ = h.markdown.Render(d.Content)
	}
	return data
}

// draftFromForm reads the editor form. The post id comes from the route.
func draftFromForm(r *http.Request) blog.Draft {
	d := blog.Draft{
		ID:       r.PathValue("id"),
		Title:    strings.TrimSpace(r.FormValue("title")),
		Summary:  r.FormValue("summary"),
		Content:  r.FormValue("content"),
		Category: blog.Category(r.FormValue("category")),
		Tags:     r.FormValue("tags"),
		Author:   strings.TrimSpace(r.FormValue("author")),
		Date:     r.FormValue("date"),
	}
	if !d.Category.Valid() {
		d.Category = blog.CategoryTech
	}
	if v, err := strconv.ParseBool(r.FormValue("is_visible")); err == nil {
		d.IsVisible = &v
	}
	return d
}
