package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// VideoLabel is the link text that turns a link into an embedded player.
const VideoLabel = "video"

const videoAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"

// paragraphRenderer drops the <p> wrapper around a paragraph holding only an
// image or a video link, so the figure or player sits at block level.
type paragraphRenderer struct{}

func (r *paragraphRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindParagraph, r.render)
}

func (r *paragraphRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if loneMedia(node, source) {
		if !entering {
			_ = w.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	}
	if !entering {
		_, _ = w.WriteString("</p>\n")
		return ast.WalkContinue, nil
	}
	if node.Attributes() != nil {
		_, _ = w.WriteString("<p")
		html.RenderAttributes(w, node, html.ParagraphAttributeFilter)
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("<p>")
	}
	return ast.WalkContinue, nil
}

// loneMedia reports whether p is a paragraph whose only content is one image
// or one video link.
func loneMedia(p ast.Node, source []byte) bool {
	if p == nil || p.Kind() != ast.KindParagraph {
		return false
	}
	media := 0
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		switch {
		case isMedia(c, source):
			media++
		case c.Kind() == ast.KindText && len(bytes.TrimSpace(c.(*ast.Text).Segment.Value(source))) == 0:
		default:
			return false
		}
	}
	return media == 1
}

func isMedia(n ast.Node, source []byte) bool {
	switch n := n.(type) {
	case *ast.Image:
		return true
	case *ast.Link:
		return isVideoLabel(plainText(n, source)) && !html.IsDangerousURL(n.Destination)
	}
	return false
}

// imageRenderer lazy loads images and captions them with their alt text. A
// lone image becomes a figure; one inside running text stays inline.
type imageRenderer struct{}

func (r *imageRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.render)
}

func (r *imageRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)
	alt := plainText(n, source)
	block := loneMedia(n.Parent(), source)

	if block {
		_, _ = w.WriteString(`<figure class="md-image"><img src="`)
	} else {
		_, _ = w.WriteString(`<span class="md-image"><img src="`)
	}
	if !html.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML([]byte(alt)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString(` loading="lazy">`)
	if !block {
		if alt != "" {
			_, _ = w.WriteString(`<span class="md-caption">`)
			_, _ = w.Write(util.EscapeHTML([]byte(alt)))
			_, _ = w.WriteString("</span>")
		}
		_, _ = w.WriteString("</span>")
		return ast.WalkSkipChildren, nil
	}
	if alt != "" {
		_, _ = w.WriteString("<figcaption>")
		_, _ = w.Write(util.EscapeHTML([]byte(alt)))
		_, _ = w.WriteString("</figcaption>")
	}
	_, _ = w.WriteString("</figure>")
	return ast.WalkSkipChildren, nil
}

// linkRenderer embeds links labelled "video" as an iframe and renders all
// other links normally.
type linkRenderer struct{}

func (r *linkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.render)
}

func (r *linkRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Link)
	dangerous := html.IsDangerousURL(n.Destination)

	if isVideoLabel(plainText(n, source)) && !dangerous {
		if entering {
			tag := "span"
			if loneMedia(n.Parent(), source) {
				tag = "div"
			}
			_, _ = w.WriteString(`<` + tag + ` class="md-video"><iframe src="`)
			_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
			_, _ = w.WriteString(`" title="YouTube video player" allow="` + videoAllow + `" allowfullscreen loading="lazy"></iframe></` + tag + `>`)
		}
		return ast.WalkSkipChildren, nil
	}

	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<a href="`)
	if !dangerous {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, html.LinkAttributeFilter)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func isVideoLabel(text string) bool {
	return strings.ToLower(strings.TrimSpace(text)) == VideoLabel
}

// plainText concatenates the literal text below n.
func plainText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
