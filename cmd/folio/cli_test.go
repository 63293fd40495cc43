package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/devapi"
	"github.com/hpungsan/folio/internal/logging"
)

// setupEnv starts a seeded stand-in backend and points a config at it.
func setupEnv(t *testing.T) *appEnv {
	t.Helper()
	dir := t.TempDir()

	backend, conn, err := devapi.Open(context.Background(), dir, "admin", "password123", devapi.Options{JWTSecret: "test"})
	if err != nil {
		t.Fatalf("failed to open devapi: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = ts.URL + "/api"
	return &appEnv{cfg: cfg, baseDir: dir, log: logging.Nop()}
}

// run executes the app with args and returns what it printed.
func run(t *testing.T, env *appEnv, args ...string) (string, error) {
	t.Helper()
	app := newCLIApp(env)
	var buf bytes.Buffer
	app.Writer = &buf
	err := app.Run(append([]string{"folio"}, args...))
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestBlogList(t *testing.T) {
	env := setupEnv(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "all", args: []string{"blog", "list"}, want: 3},
		{name: "tech", args: []string{"blog", "list", "--category", "Tech"}, want: 2},
		{name: "personal with query", args: []string{"blog", "list", "-c", "Personal", "-q", "career"}, want: 1},
		{name: "no match", args: []string{"blog", "list", "-q", "zzz"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, env, tt.args...)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}
			var posts []blog.Post
			if err := json.Unmarshal([]byte(out), &posts); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, out)
			}
			if len(posts) != tt.want {
				t.Errorf("got %d posts, want %d", len(posts), tt.want)
			}
		})
	}
}

func TestBlogList_InvalidCategory(t *testing.T) {
	env := setupEnv(t)

	_, err := run(t, env, "blog", "list", "--category", "Food")
	if err == nil || !strings.Contains(err.Error(), "[INVALID_REQUEST]") {
		t.Fatalf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestBlogShow(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, env, "blog", "list", "-c", "Tech", "-q", "glass")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var posts []blog.Post
	if err := json.Unmarshal([]byte(out), &posts); err != nil || len(posts) != 1 {
		t.Fatalf("expected one post, got %v (%v)", posts, err)
	}

	out, err = run(t, env, "blog", "show", posts[0].ID)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var p blog.Post
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p.Title != "The Future of Glassmorphism in Web Design" {
		t.Errorf("title = %q", p.Title)
	}

	out, err = run(t, env, "blog", "show", "--html", posts[0].ID)
	if err != nil {
		t.Fatalf("show --html: %v", err)
	}
	for _, want := range []string{`class="chroma"`, `<figure class="md-image">`, `<div class="md-video">`} {
		if !strings.Contains(out, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestBlogShow_Errors(t *testing.T) {
	env := setupEnv(t)

	if _, err := run(t, env, "blog", "show"); err == nil {
		t.Error("expected error without an id")
	}
	_, err := run(t, env, "blog", "show", "missing")
	if err == nil || !strings.Contains(err.Error(), "[NOT_FOUND]") {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestCVShow(t *testing.T) {
	env := setupEnv(t)

	out, err := run(t, env, "cv", "show")
	if err != nil {
		t.Fatalf("cv show: %v", err)
	}
	if !strings.Contains(out, `"title": "Peter - Software Engineer"`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCVValidate(t *testing.T) {
	env := &appEnv{cfg: config.DefaultConfig(), log: logging.Nop()}

	valid := writeFile(t, "cv.json", `{"personal":{"title":"T","email":"","github":"","linkedin":""},"summary":"","experience":[],"skills":[],"education":[]}`)
	out, err := run(t, env, "cv", "validate", valid)
	if err != nil {
		t.Fatalf("validate valid: %v", err)
	}
	if !strings.Contains(out, `"valid": true`) {
		t.Errorf("output = %s", out)
	}

	invalid := writeFile(t, "bad.json", `{"personal":"nope"}`)
	if _, err := run(t, env, "cv", "validate", invalid); err == nil {
		t.Error("expected validation error")
	}

	if _, err := run(t, env, "cv", "validate", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRender_FromStdin(t *testing.T) {
	env := &appEnv{cfg: config.DefaultConfig(), log: logging.Nop(), stdin: strings.NewReader("**hi** `x`")}

	out, err := run(t, env, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<strong>hi</strong>") || !strings.Contains(out, "<code>x</code>") {
		t.Errorf("output = %s", out)
	}
}

func TestRender_EmptyInput(t *testing.T) {
	env := &appEnv{cfg: config.DefaultConfig(), log: logging.Nop(), stdin: strings.NewReader("  \n")}

	if _, err := run(t, env, "render"); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestConfigCmd_MasksPassword(t *testing.T) {
	env := &appEnv{cfg: config.DefaultConfig(), log: logging.Nop()}

	out, err := run(t, env, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if strings.Contains(out, "password123") {
		t.Error("config output leaked the password")
	}
	if !strings.Contains(out, "api_base_url: http://localhost:5000/api") {
		t.Errorf("output = %s", out)
	}
}
