package blog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	created []Post
	updated map[string]Post
	err     error
}

func (f *fakeWriter) Create(_ context.Context, p Post) (*Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	p.ID = "new-id"
	return &p, nil
}

func (f *fakeWriter) Update(_ context.Context, id string, p Post) (*Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = make(map[string]Post)
	}
	f.updated[id] = p
	p.ID = id
	return &p, nil
}

type fakeReader map[string]Post

func (f fakeReader) Get(_ context.Context, id string) (*Post, error) {
	p, ok := f[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &p, nil
}

func TestNewDraft_Defaults(t *testing.T) {
	now := time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)
	d := NewDraft("Peter", now)

	assert.Equal(t, CategoryTech, d.Category)
	assert.Equal(t, "Peter", d.Author)
	assert.Equal(t, "February 15, 2026", d.Date)
	assert.False(t, d.IsEdit())
	assert.Equal(t, "", d.Tags)
}

func TestLoadDraft_EditModeJoinsTags(t *testing.T) {
	r := fakeReader{"42": {ID: "42", Title: "Hello", Tags: []string{"go", "web"}}}

	d, err := LoadDraft(context.Background(), r, "42", "Peter", time.Now())
	require.NoError(t, err)
	assert.True(t, d.IsEdit())
	assert.Equal(t, "go, web", d.Tags)
	assert.Equal(t, "Hello", d.Title)
}

func TestLoadDraft_CreateMode(t *testing.T) {
	d, err := LoadDraft(context.Background(), fakeReader{}, "", "Ann", time.Now())
	require.NoError(t, err)
	assert.False(t, d.IsEdit())
	assert.Equal(t, "Ann", d.Author)
}

func TestLoadDraft_NotFound(t *testing.T) {
	_, err := LoadDraft(context.Background(), fakeReader{}, "missing", "Peter", time.Now())
	assert.Error(t, err)
}

func TestSaveDraft_CreateSplitsTags(t *testing.T) {
	w := &fakeWriter{}
	d := Draft{Title: "New", Tags: " go , ,web ", Category: CategoryTech}

	saved, err := SaveDraft(context.Background(), w, d)
	require.NoError(t, err)
	assert.Equal(t, "new-id", saved.ID)
	require.Len(t, w.created, 1)
	assert.Equal(t, []string{"go", "web"}, w.created[0].Tags)
	assert.Empty(t, w.created[0].ID, "create sends no id")
	assert.Empty(t, w.updated)
}

func TestSaveDraft_UpdateRoutesByID(t *testing.T) {
	w := &fakeWriter{}
	d := Draft{ID: "7", Title: "Edited", Tags: "a"}

	_, err := SaveDraft(context.Background(), w, d)
	require.NoError(t, err)
	assert.Empty(t, w.created)
	assert.Equal(t, "Edited", w.updated["7"].Title)
}

func TestSaveDraft_ErrorSurfaces(t *testing.T) {
	w := &fakeWriter{err: errors.New("API Error: 500")}
	_, err := SaveDraft(context.Background(), w, Draft{Title: "x"})
	assert.EqualError(t, err, "API Error: 500")
}
