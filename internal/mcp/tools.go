package mcp

import "github.com/mark3labs/mcp-go/mcp"

var blogListToolDef = mcp.NewTool("blog_list",
	mcp.WithDescription("List visible blog posts, optionally narrowed to one category and a search query matched against titles and tags."),
	mcp.WithString("category",
		mcp.Description("Tech or Personal. Omit for both."),
		mcp.Enum("Tech", "Personal"),
	),
	mcp.WithString("query",
		mcp.Description("Case-insensitive substring of a title or tag."),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var blogGetToolDef = mcp.NewTool("blog_get",
	mcp.WithDescription("Fetch one blog post by id, including its Markdown content."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Post id."),
	),
	mcp.WithBoolean("render",
		mcp.Description("Also return the content rendered to HTML."),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var cvGetToolDef = mcp.NewTool("cv_get",
	mcp.WithDescription("Fetch the CV document."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var markdownRenderToolDef = mcp.NewTool("markdown_render",
	mcp.WithDescription("Render Markdown to HTML the way blog posts are rendered: highlighted code, figure images, and [video](url) embeds."),
	mcp.WithString("markdown",
		mcp.Required(),
		mcp.Description("Markdown source."),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)
