// Package markdown turns post bodies into HTML with goldmark, overriding the
// default rendering of code, images, links, and the paragraphs around them.
package markdown

import (
	"bytes"
	"html/template"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DefaultStyle is the chroma style used for highlighted code and its stylesheet.
const DefaultStyle = "github"

// overridePriority beats goldmark's HTML renderer (1000) and the
// highlighting renderer (200).
const overridePriority = 100

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md    goldmark.Markdown
	style string
}

// New builds a Renderer with GFM and the code, image, and link overrides.
func New() *Renderer {
	return NewWithStyle(DefaultStyle)
}

// NewWithStyle is New with a specific chroma style name.
func NewWithStyle(style string) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(newCodeRenderer(style), overridePriority),
				util.Prioritized(&paragraphRenderer{}, overridePriority),
				util.Prioritized(&imageRenderer{}, overridePriority),
				util.Prioritized(&linkRenderer{}, overridePriority),
			),
		),
	)
	return &Renderer{md: md, style: style}
}

// Render converts src to HTML. Raw HTML in src is omitted.
func (r *Renderer) Render(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// MustRender renders src, falling back to the escaped source on error.
func (r *Renderer) MustRender(src string) template.HTML {
	out, err := r.Render(src)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return out
}

// StyleCSS returns the stylesheet matching the class names emitted for
// highlighted code.
func (r *Renderer) StyleCSS() ([]byte, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(r.style)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var defaultRenderer = New()

// Render converts src with the package default Renderer.
func Render(src string) (template.HTML, error) {
	return defaultRenderer.Render(src)
}
