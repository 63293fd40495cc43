package devapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/db"
	"github.com/hpungsan/folio/internal/errors"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}

	hash, err := db.AdminPasswordHash(r.Context(), s.db, in.Username)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		writeError(w, err)
		return
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.Password)) != nil {
		s.log.Warn(logModule, "login rejected", map[string]any{"username": in.Username})
		writeError(w, errors.NewUnauthorized("Invalid credentials"))
		return
	}

	token, err := s.tokens.Issue(in.Username)
	if err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := db.ListPosts(r.Context(), s.db, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleListAllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := db.ListPosts(r.Context(), s.db, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// handleGetPost serves hidden posts only to authorized callers.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := db.GetPost(r.Context(), s.db, r.PathValue("id"), s.authorized(r))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			writeError(w, errors.NewNotFound("Blog", r.PathValue("id")))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var p blog.Post
	if err := decodeBody(r, &p); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePost(&p); err != nil {
		writeError(w, err)
		return
	}

	id, err := newID()
	if err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	p.ID = id
	if err := db.InsertPost(r.Context(), s.db, &p); err != nil {
		writeError(w, err)
		return
	}
	stored, err := db.GetPost(r.Context(), s.db, id, true)
	if err != nil {
		writeError(w, err)
		return
	}
	s.log.Info(logModule, "post created", map[string]any{"id": id, "by": userFrom(r)})
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var p blog.Post
	if err := decodeBody(r, &p); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePost(&p); err != nil {
		writeError(w, err)
		return
	}

	p.ID = r.PathValue("id")
	if err := db.UpdatePost(r.Context(), s.db, &p); err != nil {
		writeError(w, err)
		return
	}
	stored, err := db.GetPost(r.Context(), s.db, p.ID, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := db.DeletePost(r.Context(), s.db, id); err != nil {
		writeError(w, err)
		return
	}
	s.log.Info(logModule, "post deleted", map[string]any{"id": id, "by": userFrom(r)})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog deleted"})
}

func (s *Server) handleToggleVisibility(w http.ResponseWriter, r *http.Request) {
	p, err := db.ToggleVisibility(r.Context(), s.db, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	doc, err := db.GetCV(r.Context(), s.db, db.MainSlot)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// handlePutCV replaces the CV. The "main" marker that clients send is not
// stored with the document.
func (s *Server) handlePutCV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errors.NewInvalidRequest("could not read body"))
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body: "+err.Error()))
		return
	}
	delete(fields, "main")

	doc, err := json.Marshal(fields)
	if err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	if err := cv.ValidateJSON(doc); err != nil {
		writeError(w, err)
		return
	}
	if err := db.PutCV(r.Context(), s.db, db.MainSlot, doc); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func validatePost(p *blog.Post) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return errors.NewInvalidRequest("title is required")
	}
	if p.Category == "" {
		p.Category = blog.CategoryTech
	}
	if !p.Category.Valid() {
		return errors.NewInvalidRequest("category must be Tech or Personal")
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}
