package markdown

import (
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// funcTable captures the render funcs a NodeRenderer registers.
type funcTable map[ast.NodeKind]renderer.NodeRendererFunc

func (t funcTable) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	t[kind] = fn
}

// codeRenderer highlights fenced blocks that name a known language and
// renders every other code node as plain, escaped text.
type codeRenderer struct {
	highlight renderer.NodeRendererFunc
}

func newCodeRenderer(style string) *codeRenderer {
	hl := highlighting.NewHTMLRenderer(
		highlighting.WithStyle(style),
		highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
	)
	table := funcTable{}
	hl.RegisterFuncs(table)
	return &codeRenderer{highlight: table[ast.KindFencedCodeBlock]}
}

func (r *codeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFenced)
	reg.Register(ast.KindCodeBlock, r.renderIndented)
	reg.Register(ast.KindCodeSpan, r.renderSpan)
}

func (r *codeRenderer) renderFenced(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	if lang := n.Language(source); len(lang) > 0 && r.highlight != nil && lexers.Get(string(lang)) != nil {
		return r.highlight(w, source, node, entering)
	}
	if entering {
		writePlainBlock(w, source, n)
	}
	return ast.WalkSkipChildren, nil
}

func (r *codeRenderer) renderIndented(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		writePlainBlock(w, source, node)
	}
	return ast.WalkSkipChildren, nil
}

func writePlainBlock(w util.BufWriter, source []byte, n ast.Node) {
	_, _ = w.WriteString("<pre><code>")
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(line.Value(source)))
	}
	_, _ = w.WriteString("</code></pre>\n")
}

func (r *codeRenderer) renderSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</code>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<code>")
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		var segment []byte
		switch t := c.(type) {
		case *ast.Text:
			segment = t.Segment.Value(source)
		case *ast.String:
			segment = t.Value
		default:
			continue
		}
		_, _ = w.Write(util.EscapeHTML(segment))
	}
	return ast.WalkSkipChildren, nil
}
