package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/hpungsan/folio/internal/blog"
)

// BlogClient reads and writes posts.
type BlogClient struct {
	c *Client
}

// List returns the public post list.
func (b *BlogClient) List(ctx context.Context) ([]blog.Post, error) {
	var posts []blog.Post
	if err := b.c.do(ctx, public, http.MethodGet, "/blogs", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListAll returns every post, hidden ones included.
func (b *BlogClient) ListAll(ctx context.Context) ([]blog.Post, error) {
	var posts []blog.Post
	if err := b.c.do(ctx, protected, http.MethodGet, b.c.adminList, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get returns one post. The token is sent when held so the admin can open
// hidden posts.
func (b *BlogClient) Get(ctx context.Context, id string) (*blog.Post, error) {
	var p blog.Post
	if err := b.c.do(ctx, optional, http.MethodGet, "/blogs/"+escapeID(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create stores a new post and returns it with its assigned id.
func (b *BlogClient) Create(ctx context.Context, p blog.Post) (*blog.Post, error) {
	p.ID = ""
	var out blog.Post
	if err := b.c.do(ctx, protected, http.MethodPost, "/blogs", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the post stored under id.
func (b *BlogClient) Update(ctx context.Context, id string, p blog.Post) (*blog.Post, error) {
	p.ID = ""
	var out blog.Post
	if err := b.c.do(ctx, protected, http.MethodPut, "/blogs/"+escapeID(id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the post stored under id.
func (b *BlogClient) Delete(ctx context.Context, id string) error {
	return b.c.do(ctx, protected, http.MethodDelete, "/blogs/"+escapeID(id), nil, nil)
}

// ToggleVisibility flips the post's visibility and returns the updated post.
func (b *BlogClient) ToggleVisibility(ctx context.Context, id string) (*blog.Post, error) {
	path := strings.ReplaceAll(b.c.toggle, "{id}", escapeID(id))
	var out blog.Post
	if err := b.c.do(ctx, protected, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var (
	_ blog.Reader   = (*BlogClient)(nil)
	_ blog.Writer   = (*BlogClient)(nil)
	_ blog.AdminAPI = (*BlogClient)(nil)
)
