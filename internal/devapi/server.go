// Package devapi is a local stand-in for the portfolio's REST backend. It
// serves the same contract over sqlite so the site can run without the real
// service.
package devapi

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
)

const logModule = "devapi"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 24 * time.Hour

// Options configures a Server.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *logging.Logger
}

// Server serves the backend contract under /api.
type Server struct {
	db     *sql.DB
	tokens *Tokens
	log    *logging.Logger
}

// New creates a Server over an initialized database.
func New(conn *sql.DB, opts Options) *Server {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Server{db: conn, tokens: NewTokens(opts.JWTSecret, ttl), log: log}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/blogs", s.handleListPosts)
	mux.HandleFunc("GET /api/blogs/admin/all", s.requireAuth(s.handleListAllPosts))
	mux.HandleFunc("GET /api/blogs/{id}", s.handleGetPost)
	mux.HandleFunc("POST /api/blogs", s.requireAuth(s.handleCreatePost))
	mux.HandleFunc("PUT /api/blogs/{id}", s.requireAuth(s.handleUpdatePost))
	mux.HandleFunc("DELETE /api/blogs/{id}", s.requireAuth(s.handleDeletePost))
	mux.HandleFunc("PATCH /api/blogs/{id}/toggle-visibility", s.requireAuth(s.handleToggleVisibility))

	mux.HandleFunc("GET /api/cv", s.handleGetCV)
	mux.HandleFunc("PUT /api/cv", s.requireAuth(s.handlePutCV))

	return s.logRequests(mux)
}

// NewHTTPServer wraps the handler in an http.Server listening on addr.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

type userKey struct{}

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			writeError(w, errors.NewUnauthorized("No token provided"))
			return
		}
		user, err := s.tokens.Parse(raw)
		if err != nil {
			writeError(w, errors.NewUnauthorized("Invalid token"))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	}
}

// userFrom returns the username attached by requireAuth.
func userFrom(r *http.Request) string {
	u, _ := r.Context().Value(userKey{}).(string)
	return u
}

// authorized reports whether r carries a valid token, without rejecting it.
func (s *Server) authorized(r *http.Request) bool {
	raw := extractBearer(r.Header.Get("Authorization"))
	if raw == "" {
		return false
	}
	_, err := s.tokens.Parse(raw)
	return err == nil
}

func extractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug(logModule, "request", map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends {"message": ...} with the error's status.
func writeError(w http.ResponseWriter, err error) {
	var fErr *errors.FolioError
	if !stderrors.As(err, &fErr) {
		fErr = errors.NewInternal(err)
	}
	writeJSON(w, fErr.Status, map[string]string{"message": fErr.Message})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
