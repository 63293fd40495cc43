package blog

import (
	"context"
	"slices"
)

// DeletePrompt is shown before a post is deleted.
const DeletePrompt = "Are you sure you want to delete this post?"

// AdminAPI is the backend surface the management list needs.
type AdminAPI interface {
	ListAll(ctx context.Context) ([]Post, error)
	Delete(ctx context.Context, id string) error
	ToggleVisibility(ctx context.Context, id string) (*Post, error)
}

// Manager is the admin post list: every post, hidden ones included.
type Manager struct {
	api     AdminAPI
	confirm func(prompt string) bool
	posts   []Post
}

// NewManager creates a Manager. confirm is asked before destructive actions.
func NewManager(api AdminAPI, confirm func(prompt string) bool) *Manager {
	return &Manager{api: api, confirm: confirm}
}

// Load replaces the local list with the backend's admin list.
func (m *Manager) Load(ctx context.Context) error {
	posts, err := m.api.ListAll(ctx)
	if err != nil {
		return err
	}
	m.posts = posts
	return nil
}

// Posts returns a copy of the local list.
func (m *Manager) Posts() []Post {
	return slices.Clone(m.posts)
}

// Delete asks for confirmation, deletes on the backend, and only then drops the
// row locally. Returns false when the user declined.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	if m.confirm == nil || !m.confirm(DeletePrompt) {
		return false, nil
	}
	if err := m.api.Delete(ctx, id); err != nil {
		return false, err
	}
	m.posts = slices.DeleteFunc(m.posts, func(p Post) bool { return p.ID == id })
	return true, nil
}

// ToggleVisibility flips visibility on the backend and replaces the affected
// row with the post the backend returned.
func (m *Manager) ToggleVisibility(ctx context.Context, id string) (*Post, error) {
	updated, err := m.api.ToggleVisibility(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts[i] = *updated
			break
		}
	}
	return updated, nil
}
