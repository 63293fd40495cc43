// Package api is the client for the external REST backend. Public calls go
// out bare; protected calls carry the bearer token held in the session store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/session"
)

const logModule = "api"

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL       string
	AdminListPath string
	TogglePath    string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	base      string
	http      *http.Client
	session   *session.Store
	log       *logging.Logger
	adminList string
	toggle    string

	Auth  *AuthClient
	Blogs *BlogClient
	CV    *CVClient
}

// New creates a Client. A nil logger discards output.
func New(opts Options, store *session.Store, log *logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}
	if store == nil {
		store = session.New()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	defaults := config.DefaultConfig()
	c := &Client{
		base:      strings.TrimRight(opts.BaseURL, "/"),
		http:      hc,
		session:   store,
		log:       log,
		adminList: pick(opts.AdminListPath, defaults.AdminListPath),
		toggle:    pick(opts.TogglePath, defaults.TogglePath),
	}
	c.Auth = &AuthClient{c: c}
	c.Blogs = &BlogClient{c: c}
	c.CV = &CVClient{c: c}
	return c
}

// FromConfig creates a Client from the application config.
func FromConfig(cfg *config.Config, store *session.Store, log *logging.Logger) *Client {
	return New(Options{
		BaseURL:       cfg.APIBaseURL,
		AdminListPath: cfg.AdminListPath,
		TogglePath:    cfg.TogglePath,
		Timeout:       cfg.RequestTimeout(),
	}, store, log)
}

// Session returns the credential store backing protected calls.
func (c *Client) Session() *session.Store {
	return c.session
}

// access marks whether a call attaches the bearer token.
type access int

const (
	public access = iota
	// optional attaches the token when one is held and stays silent otherwise.
	optional
	protected
)

// do sends a JSON request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, mode access, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternal(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if mode != public {
		if token, ok := c.session.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		} else if mode == protected {
			c.log.Warn(logModule, "authorized call without a token", map[string]any{
				"method": method,
				"path":   path,
			})
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(logModule, "request failed", map[string]any{
			"method": method,
			"path":   path,
			"error":  err,
		})
		return errors.NewNetwork(err)
	}
	defer resp.Body.Close()

	c.log.Debug(logModule, "request", map[string]any{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.NewUpstream(resp.StatusCode, fmt.Sprintf("invalid response body: %v", err))
	}
	return nil
}

// responseError maps a non-2xx response to a FolioError, preferring the
// server's own "message".
func responseError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(data, &payload)

	fErr := errors.NewUpstream(resp.StatusCode, payload.Message)
	switch resp.StatusCode {
	case http.StatusNotFound:
		fErr.Code = errors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		fErr.Code = errors.ErrUnauthorized
	}
	return fErr
}

func escapeID(id string) string {
	return url.PathEscape(id)
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
