package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/hpungsan/folio/internal/api"
	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewHandlers wires the route handlers over a backend client.
func NewHandlers(client *api.Client, cfg *config.Config, version string, log *logging.Logger) (*Handlers, error) {
	if log == nil {
		log = logging.Nop()
	}

	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create template sub-FS: %w", err)
	}

	md := markdown.New()
	chromaCSS, err := md.StyleCSS()
	if err != nil {
		return nil, fmt.Errorf("failed to build highlight stylesheet: %w", err)
	}

	perMinute := cfg.LoginRatePerMinute
	if perMinute <= 0 {
		perMinute = config.DefaultConfig().LoginRatePerMinute
	}

	return &Handlers{
		api:       client,
		cfg:       cfg,
		renderer:  NewRenderer(templateSub, version, log),
		markdown:  md,
		chromaCSS: chromaCSS,
		log:       log,
		limiter:   rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		now:       time.Now,
		cvEditor:  cv.NewEditor(nil),
	}, nil
}

// Routes returns the routed handler wrapped with the standard middleware.
func (h *Handlers) Routes() http.Handler {
	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static sub-FS: %v", err))
	}

	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /{$}", h.HandleHome)
	mux.HandleFunc("GET /tech-blog", h.HandleBlogList(categoryTech))
	mux.HandleFunc("GET /about-blog", h.HandleBlogList(categoryPersonal))
	mux.HandleFunc("GET /blog/{id}", h.HandleBlogDetail)
	mux.HandleFunc("GET /cv", h.HandleCV)

	// Admin login is public
	mux.HandleFunc("GET /admin", h.HandleLoginPage)
	mux.HandleFunc("POST /admin", h.HandleLogin)
	mux.HandleFunc("POST /admin/logout", h.HandleLogout)

	// Session-gated admin area
	mux.Handle("GET /admin/dashboard", h.requireSession(h.HandleDashboard))
	mux.Handle("GET /admin/posts", h.requireSession(h.HandlePosts))
	mux.Handle("POST /admin/posts/{id}/delete", h.requireSession(h.HandleDeletePost))
	mux.Handle("POST /admin/posts/{id}/toggle", h.requireSession(h.HandleTogglePost))
	mux.Handle("GET /admin/create", h.requireSession(h.HandleEditor))
	mux.Handle("POST /admin/create", h.requireSession(h.HandleSavePost))
	mux.Handle("GET /admin/edit/{id}", h.requireSession(h.HandleEditor))
	mux.Handle("POST /admin/edit/{id}", h.requireSession(h.HandleSavePost))
	mux.Handle("POST /admin/preview", h.requireSession(h.HandlePreview))
	mux.Handle("GET /admin/cv", h.requireSession(h.HandleCVEditor))
	mux.Handle("POST /admin/cv", h.requireSession(h.HandleCVEditorSubmit))

	// Static files; the highlight stylesheet is generated from the chroma style
	mux.HandleFunc("GET /static/chroma.css", h.HandleChromaCSS)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return requestLogger(h.log, securityHeaders(mux))
}

// NewServer creates and configures the HTTP server for the portfolio site.
func NewServer(h *Handlers, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log *logging.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("web", "listening", map[string]any{"url": "http://" + srv.Addr})

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("web", "server is binding to all interfaces and may be accessible from the network", nil)
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("web", "shutting down", nil)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
