package blog

import (
	"context"
	"fmt"
	"time"
)

// dateLayout is the long-form display date given to new posts.
const dateLayout = "January 2, 2006"

// Draft is the editor's local copy of a post. Tags are held as the single
// comma-joined string the form edits.
type Draft struct {
	ID        string
	Title     string
	Summary   string
	Content   string
	Category  Category
	Tags      string
	Author    string
	Date      string
	IsVisible *bool
}

// NewDraft returns a blank draft for create mode.
func NewDraft(author string, now time.Time) Draft {
	return Draft{
		Category: CategoryTech,
		Author:   author,
		Date:     now.Format(dateLayout),
	}
}

// DraftFromPost converts a persisted post into an editable draft.
func DraftFromPost(p Post) Draft {
	return Draft{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Category:  p.Category,
		Tags:      JoinTags(p.Tags),
		Author:    p.Author,
		Date:      p.Date,
		IsVisible: p.IsVisible,
	}
}

// IsEdit reports whether the draft targets an existing post.
func (d Draft) IsEdit() bool {
	return d.ID != ""
}

// Post converts the draft back into the wire form, splitting the tag string.
// The ID is left empty; it travels in the URL on update and is assigned by the
// backend on create.
func (d Draft) Post() Post {
	return Post{
		Title:     d.Title,
		Summary:   d.Summary,
		Content:   d.Content,
		Category:  d.Category,
		Tags:      SplitTags(d.Tags),
		Author:    d.Author,
		Date:      d.Date,
		IsVisible: d.IsVisible,
	}
}

// Writer persists posts in full.
type Writer interface {
	Create(ctx context.Context, p Post) (*Post, error)
	Update(ctx context.Context, id string, p Post) (*Post, error)
}

// Reader fetches a single post.
type Reader interface {
	Get(ctx context.Context, id string) (*Post, error)
}

// LoadDraft returns a blank draft when id is empty, otherwise the stored post
// converted for editing.
func LoadDraft(ctx context.Context, r Reader, id, author string, now time.Time) (Draft, error) {
	if id == "" {
		return NewDraft(author, now), nil
	}
	p, err := r.Get(ctx, id)
	if err != nil {
		return Draft{ID: id}, fmt.Errorf("load post %s: %w", id, err)
	}
	d := DraftFromPost(*p)
	d.ID = id
	return d, nil
}

// SaveDraft creates or updates depending on the draft's mode.
func SaveDraft(ctx context.Context, w Writer, d Draft) (*Post, error) {
	if d.IsEdit() {
		return w.Update(ctx, d.ID, d.Post())
	}
	return w.Create(ctx, d.Post())
}
