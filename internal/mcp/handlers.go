package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/folio/internal/api"
	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/cv"
	"github.com/hpungsan/folio/internal/errors"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/markdown"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	api *api.Client
	md  *markdown.Renderer
	log *logging.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(client *api.Client, md *markdown.Renderer, log *logging.Logger) *Handlers {
	if log == nil {
		log = logging.Nop()
	}
	return &Handlers{api: client, md: md, log: log}
}

// BlogListRequest represents the arguments for blog_list.
type BlogListRequest struct {
	Category string `json:"category,omitempty"`
	Query    string `json:"query,omitempty"`
}

// BlogGetRequest represents the arguments for blog_get.
type BlogGetRequest struct {
	ID     string `json:"id"`
	Render bool   `json:"render,omitempty"`
}

// MarkdownRenderRequest represents the arguments for markdown_render.
type MarkdownRenderRequest struct {
	Markdown string `json:"markdown"`
}

// PostSummary is a list row; content is left out.
type PostSummary struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Summary  string        `json:"summary"`
	Category blog.Category `json:"category"`
	Tags     []string      `json:"tags"`
	Author   string        `json:"author"`
	Date     string        `json:"date"`
}

// BlogListOutput is the blog_list result.
type BlogListOutput struct {
	Posts []PostSummary `json:"posts"`
	Count int           `json:"count"`
}

// BlogGetOutput is the blog_get result.
type BlogGetOutput struct {
	blog.Post
	ReadingMinutes int    `json:"reading_minutes"`
	HTML           string `json:"html,omitempty"`
}

// MarkdownRenderOutput is the markdown_render result.
type MarkdownRenderOutput struct {
	HTML string `json:"html"`
}

// HandleBlogList handles the blog_list tool call.
func (h *Handlers) HandleBlogList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BlogListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	categories := blog.Categories
	if input.Category != "" {
		c := blog.Category(input.Category)
		if !c.Valid() {
			return errorResult(errors.NewInvalidRequest("category must be Tech or Personal")), nil
		}
		categories = []blog.Category{c}
	}

	posts, err := h.api.Blogs.List(ctx)
	if err != nil {
		return h.failed("blog_list", err), nil
	}

	out := BlogListOutput{Posts: []PostSummary{}}
	for _, c := range categories {
		for _, p := range blog.Filter(posts, c, input.Query) {
			out.Posts = append(out.Posts, PostSummary{
				ID:       p.ID,
				Title:    p.Title,
				Summary:  p.Summary,
				Category: p.Category,
				Tags:     p.Tags,
				Author:   p.Author,
				Date:     p.Date,
			})
		}
	}
	out.Count = len(out.Posts)
	return successResult(out)
}

// HandleBlogGet handles the blog_get tool call.
func (h *Handlers) HandleBlogGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BlogGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if strings.TrimSpace(input.ID) == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	p, err := h.api.Blogs.Get(ctx, input.ID)
	if err != nil {
		return h.failed("blog_get", err), nil
	}

	out := BlogGetOutput{Post: *p, ReadingMinutes: blog.ReadingMinutes(p.Content)}
	if input.Render {
		html, err := h.md.Render(p.Content)
		if err != nil {
			return h.failed("blog_get", errors.NewInternal(err)), nil
		}
		out.HTML = string(html)
	}
	return successResult(out)
}

// HandleCVGet handles the cv_get tool call.
func (h *Handlers) HandleCVGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := h.api.CV.Get(ctx)
	if err != nil {
		return h.failed("cv_get", err), nil
	}
	return successResult(cv.Normalize(*doc))
}

// HandleMarkdownRender handles the markdown_render tool call.
func (h *Handlers) HandleMarkdownRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MarkdownRenderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	html, err := h.md.Render(input.Markdown)
	if err != nil {
		return h.failed("markdown_render", errors.NewInternal(err)), nil
	}
	return successResult(MarkdownRenderOutput{HTML: string(html)})
}

func (h *Handlers) failed(tool string, err error) *mcp.CallToolResult {
	h.log.Warn("mcp", "tool failed", map[string]any{"tool": tool, "error": err})
	return errorResult(err)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var fErr *errors.FolioError
	if stderrors.As(err, &fErr) && fErr.Code != errors.ErrInternal {
		errorObj := map[string]any{
			"code":    fErr.Code,
			"message": fErr.Message,
			"status":  fErr.Status,
		}
		if fErr.Details != nil {
			errorObj["details"] = fErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
