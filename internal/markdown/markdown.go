// Package markdown renders post bodies to HTML and rewrites internal link
// destinations against the site base path.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer converts markdown bodies (front matter already removed) to HTML.
//
// Posts may embed raw HTML and code fences; raw HTML passes through
// unmodified. Internal link and image destinations are rewritten with the
// configured base path before rendering.
type Renderer struct {
	md       goldmark.Markdown
	basePath string
}

var sourceDirKey = parser.NewContextKey()

// NewRenderer creates a renderer for the given base path (may be empty).
func NewRenderer(basePath string) *Renderer {
	r := &Renderer{basePath: basePath}
	r.md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&linkRewriter{basePath: basePath}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	return r
}

// Render converts a markdown body to HTML. sourceDir is the post's directory
// relative to the source root ("" for root-level posts); relative link
// destinations are resolved against it.
func (r *Renderer) Render(body []byte, sourceDir string) ([]byte, error) {
	ctx := parser.NewContext()
	ctx.Set(sourceDirKey, sourceDir)

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf, parser.WithContext(ctx)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// linkRewriter rewrites Link and Image destinations in the parsed AST.
type linkRewriter struct {
	basePath string
}

func (t *linkRewriter) Transform(doc *gmast.Document, _ text.Reader, pc parser.Context) {
	sourceDir, _ := pc.Get(sourceDirKey).(string)

	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			node.Destination = []byte(RewriteDestination(string(node.Destination), t.basePath, sourceDir))
		case *gmast.Image:
			node.Destination = []byte(RewriteDestination(string(node.Destination), t.basePath, sourceDir))
		}
		return gmast.WalkContinue, nil
	})
}
