package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/folio/internal/api"
	"github.com/hpungsan/folio/internal/config"
	"github.com/hpungsan/folio/internal/logging"
	"github.com/hpungsan/folio/internal/markdown"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"blog_list": {
		def:     blogListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlogList },
	},
	"blog_get": {
		def:     blogGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlogGet },
	},
	"cv_get": {
		def:     cvGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCVGet },
	},
	"markdown_render": {
		def:     markdownRenderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMarkdownRender },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server exposing the site's read tools.
// Tools listed in cfg.DisabledTools are not registered.
func NewServer(client *api.Client, cfg *config.Config, version string, log *logging.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"folio",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(client, markdown.New(), log)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			log.Debug("mcp", "tool disabled", map[string]any{"tool": name})
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the MCP tools over stdio.
func Run(client *api.Client, cfg *config.Config, version string, log *logging.Logger) error {
	s := NewServer(client, cfg, version, log)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
