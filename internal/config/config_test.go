package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != DefaultConfig().APIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DefaultConfig().APIBaseURL)
	}
	if cfg.DefaultAuthor != "Peter" {
		t.Fatalf("DefaultAuthor = %q, want Peter", cfg.DefaultAuthor)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"api_base_url": "https://api.example.com/api/", "port": 9000}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/api" {
		t.Fatalf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.Port != 9000 {
		t.Fatalf("Port = %d, want 9000", cfg.Port)
	}
	// Untouched keys keep their defaults
	if cfg.TogglePath != DefaultConfig().TogglePath {
		t.Fatalf("TogglePath = %q, want default", cfg.TogglePath)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"default_author": "File Author", "port": 9000}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("FOLIO_DEFAULT_AUTHOR", "Env Author")
	t.Setenv("FOLIO_REQUEST_TIMEOUT_SECONDS", "7")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultAuthor != "Env Author" {
		t.Errorf("DefaultAuthor = %q, want env override", cfg.DefaultAuthor)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000 from file", cfg.Port)
	}
	if cfg.RequestTimeout() != 7*time.Second {
		t.Errorf("RequestTimeout() = %v, want 7s", cfg.RequestTimeout())
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"disabled_tools": ["cv_get", "markdown_render"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "cv_get" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "cv_get")
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{Port: 8080, LoginRatePerMinute: 5}
	overlay := &Config{Port: 9090} // LoginRatePerMinute is 0 (zero value)

	result := Merge(base, overlay)

	if result.Port != 9090 {
		t.Errorf("Port = %d, want 9090 (overlay)", result.Port)
	}
	if result.LoginRatePerMinute != 5 {
		t.Errorf("LoginRatePerMinute = %d, want 5 (base, overlay is zero)", result.LoginRatePerMinute)
	}
}

func TestMerge_BooleanOr(t *testing.T) {
	result := Merge(&Config{LogDev: true}, &Config{LogDev: false})
	if !result.LogDev {
		t.Error("LogDev should be true (base OR overlay)")
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"blog_list", "cv_get"}}
	overlay := &Config{DisabledTools: []string{"cv_get", " markdown_render "}}

	result := Merge(base, overlay)

	if len(result.DisabledTools) != 3 {
		t.Fatalf("DisabledTools length = %d, want 3 (merged, deduped)", len(result.DisabledTools))
	}
	if result.DisabledTools[2] != "markdown_render" {
		t.Errorf("DisabledTools[2] = %q, want trimmed markdown_render", result.DisabledTools[2])
	}
}

func TestString_MasksPassword(t *testing.T) {
	s := DefaultConfig().String()
	if want := "devapi_password: ********"; !strings.Contains(s, want) {
		t.Errorf("String() = %q, want it to contain %q", s, want)
	}
	if strings.Contains(s, "password123") {
		t.Error("String() leaked the password")
	}
}
