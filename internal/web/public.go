package web

import (
	"net/http"

	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/cv"
)

// blogSection describes one category list page.
type blogSection struct {
	Category    blog.Category
	Path        string
	Nav         string
	Description string
}

var (
	categoryTech = blogSection{
		Category:    blog.CategoryTech,
		Path:        "/tech-blog",
		Nav:         "tech",
		Description: "Thoughts, tutorials, and snippets about coding and software.",
	}
	categoryPersonal = blogSection{
		Category:    blog.CategoryPersonal,
		Path:        "/about-blog",
		Nav:         "personal",
		Description: "Thoughts, tutorials, and snippets about my personal journey.",
	}
)

// sectionFor returns the list page a category belongs to.
func sectionFor(c blog.Category) blogSection {
	if c == blog.CategoryPersonal {
		return categoryPersonal
	}
	return categoryTech
}

// HandleHome handles GET /, the landing page.
func (h *Handlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "home", HomePageData{
		PageData: h.page(r, "Home", "home"),
		Author:   h.cfg.DefaultAuthor,
	})
}

// HandleBlogList handles GET /tech-blog and /about-blog. The visible set is
// fetched once when the page loads and every post of the category is
// rendered; ?q= only marks non-matching rows hidden, so the in-page search
// filters without further requests. htmx requests targeting #results
// receive only the results fragment.
func (h *Handlers) HandleBlogList(section blogSection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		data := BlogListPageData{
			PageData:    h.page(r, string(section.Category)+" Blog", section.Nav),
			Category:    section.Category,
			Path:        section.Path,
			Description: section.Description,
			Query:       query,
		}

		posts, err := h.api.Blogs.List(r.Context())
		if err != nil {
			h.logFailure(r, "blog list failed", err)
			data.Error = errorMessage(err)
		} else {
			data.Posts, data.Matches = listPosts(blog.Filter(posts, section.Category, ""), query)
		}

		if r.Header.Get("HX-Target") == "results" {
			h.renderer.renderBlock(w, http.StatusOK, "bloglist", "results", data)
			return
		}
		h.renderer.renderPage(w, r, "bloglist", data)
	}
}

func listPosts(posts []blog.Post, query string) ([]ListedPost, int) {
	out := make([]ListedPost, len(posts))
	matches := 0
	for i, p := range posts {
		hit := blog.Matches(p, query)
		if hit {
			matches++
		}
		out[i] = ListedPost{Post: p, Hidden: !hit}
	}
	return out, matches
}

// HandleBlogDetail handles GET /blog/{id}.
func (h *Handlers) HandleBlogDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	post, err := h.api.Blogs.Get(r.Context(), id)
	if err != nil {
		h.logFailure(r, "blog detail failed", err)
		h.renderer.renderError(w, r, err)
		return
	}

	rendered, err := h.markdown.Render(post.Content)
	if err != nil {
		h.logFailure(r, "markdown render failed", err)
		rendered = h.markdown.MustRender(post.Content)
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:       h.page(r, post.Title, sectionFor(post.Category).Nav),
		Post:           post,
		RenderedHTML:   rendered,
		ReadingMinutes: blog.ReadingMinutes(post.Content),
		BackPath:       sectionFor(post.Category).Path,
	})
}

// HandleCV handles GET /cv.
func (h *Handlers) HandleCV(w http.ResponseWriter, r *http.Request) {
	data := CVPageData{PageData: h.page(r, "CV", "cv")}

	doc, err := h.api.CV.Get(r.Context())
	if err != nil {
		h.logFailure(r, "cv load failed", err)
		data.Error = errorMessage(err)
	} else {
		normalized := cv.Normalize(*doc)
		data.CV = &normalized
	}
	h.renderer.renderPage(w, r, "cv", data)
}
