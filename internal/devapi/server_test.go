package devapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/folio/internal/api"
	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/session"
)

func startServer(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()
	srv, conn, err := Open(context.Background(), t.TempDir(), "admin", "password123", Options{JWTSecret: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, api.New(api.Options{BaseURL: ts.URL + "/api"}, session.New(), logging.Nop())
}

func TestSeed_Idempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, conn, err := Open(ctx, dir, "admin", "password123", Options{JWTSecret: "s"})
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, conn, "admin", "changed"))
	conn.Close()

	srv, conn, err := Open(ctx, dir, "admin", "password123", Options{JWTSecret: "s"})
	require.NoError(t, err)
	defer conn.Close()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	c := api.New(api.Options{BaseURL: ts.URL + "/api"}, session.New(), logging.Nop())

	posts, err := c.Blogs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3, "posts seeded once")

	ok, err := c.Auth.Login(ctx, "admin", "password123")
	require.NoError(t, err)
	assert.True(t, ok, "latest seeded password wins")
}

// Mirrors the service walkthrough: public reads, login, authorized writes,
// logout, rejected write.
func TestServiceWalkthrough(t *testing.T) {
	_, c := startServer(t)
	ctx := context.Background()

	doc, err := c.CV.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Peter - Software Engineer", doc.Personal.Title)

	blogs, err := c.Blogs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, blogs, 3)

	ok, err := c.Auth.Login(ctx, "admin", "password123")
	require.NoError(t, err)
	require.True(t, ok)

	updated := cv.Normalize(*doc)
	updated.Summary = "Updated summary via service test"
	saved, err := c.CV.Update(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, "Updated summary via service test", saved.Summary)

	created, err := c.Blogs.Create(ctx, blog.Post{Title: "First Blog", Content: "Hello World!"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, blog.CategoryTech, created.Category)

	c.Auth.Logout()
	_, err = c.Blogs.Create(ctx, blog.Post{Title: "Second Blog", Content: "This should fail"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errors.StatusOf(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	_, c := startServer(t)

	ok, err := c.Auth.Login(context.Background(), "admin", "nope")
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.False(t, c.Session().Active())
}

func TestHiddenPosts(t *testing.T) {
	_, c := startServer(t)
	ctx := context.Background()
	_, err := c.Auth.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	all, err := c.Blogs.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	id := all[0].ID

	toggled, err := c.Blogs.ToggleVisibility(ctx, id)
	require.NoError(t, err)
	assert.False(t, toggled.Visible())

	public, err := c.Blogs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 2)

	// Authorized detail still sees the hidden post; anonymous does not
	p, err := c.Blogs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	c.Auth.Logout()
	_, err = c.Blogs.Get(ctx, id)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUpdateAndDelete(t *testing.T) {
	_, c := startServer(t)
	ctx := context.Background()
	_, err := c.Auth.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	all, err := c.Blogs.ListAll(ctx)
	require.NoError(t, err)
	p := all[1]
	p.Title = "Renamed"
	p.Tags = blog.SplitTags("a, b")

	updated, err := c.Blogs.Update(ctx, p.ID, p)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, []string{"a", "b"}, updated.Tags)

	require.NoError(t, c.Blogs.Delete(ctx, p.ID))
	_, err = c.Blogs.Get(ctx, p.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = c.Blogs.Delete(ctx, p.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestCreate_Validation(t *testing.T) {
	_, c := startServer(t)
	ctx := context.Background()
	_, err := c.Auth.Login(ctx, "admin", "password123")
	require.NoError(t, err)

	_, err = c.Blogs.Create(ctx, blog.Post{Title: "  "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.StatusOf(err))

	_, err = c.Blogs.Create(ctx, blog.Post{Title: "x", Category: "Sports"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.StatusOf(err))
}

func TestPutCV_RejectsInvalidAndStripsMarker(t *testing.T) {
	ts, c := startServer(t)
	ctx := context.Background()
	_, err := c.Auth.Login(ctx, "admin", "password123")
	require.NoError(t, err)
	token, _ := c.Session().Token()

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/cv", strings.NewReader(`{"summary":"x","main":"main"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, err = c.CV.Update(ctx, cv.Blank())
	require.NoError(t, err)

	resp, err = http.Get(ts.URL + "/api/cv")
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, _ = buf.ReadFrom(resp.Body)
	assert.NotContains(t, buf.String(), `"main"`)
}

func TestTokens(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := NewTokens("secret", time.Hour)
	tk.now = func() time.Time { return now }

	raw, err := tk.Issue("admin")
	require.NoError(t, err)

	user, err := tk.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)

	_, err = NewTokens("other", time.Hour).Parse(raw)
	assert.Error(t, err, "wrong secret")

	now = now.Add(2 * time.Hour)
	_, err = tk.Parse(raw)
	assert.Error(t, err, "expired")
}

func TestRequireAuth_Messages(t *testing.T) {
	ts, _ := startServer(t)

	resp, err := http.Post(ts.URL+"/api/blogs", "application/json", strings.NewReader(`{"title":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
