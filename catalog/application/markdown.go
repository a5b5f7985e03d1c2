package application

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const snippetLength = 120

// RenderedDetails is a product description prepared for display
type RenderedDetails struct {
	Snippet string
	HTML    []byte
}

// DetailsRenderer converts product details written in markdown to HTML.
type DetailsRenderer interface {
	Render(details string) (*RenderedDetails, error)
}

// assetImageTransformer points relative image references at the image asset URL
type assetImageTransformer struct {
	assetURL string
}

func (t *assetImageTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}

		if dest := string(img.Destination); isRelativeLink(dest) {
			img.Destination = []byte(strings.TrimSuffix(t.assetURL, "/") + "/" + path.Base(dest))
		}

		return ast.WalkContinue, nil
	})
}

func isRelativeLink(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "//") {
		return false
	}

	if strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}

	return !strings.Contains(dest, ":")
}

type markdownDetailsRenderer struct {
	renderer goldmark.Markdown
}

// NewDetailsRenderer builds a renderer that resolves relative images under assetURL.
// Raw HTML in details is escaped, never passed through.
func NewDetailsRenderer(assetURL string) DetailsRenderer {
	renderer := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&assetImageTransformer{assetURL: assetURL}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &markdownDetailsRenderer{
		renderer: renderer,
	}
}

func (r *markdownDetailsRenderer) Render(details string) (*RenderedDetails, error) {
	var buf bytes.Buffer
	if err := r.renderer.Convert([]byte(details), &buf); err != nil {
		return nil, fmt.Errorf("failed to convert details to HTML: %w", err)
	}

	return &RenderedDetails{
		Snippet: extractSnippet(details),
		HTML:    buf.Bytes(),
	}, nil
}

// extractSnippet returns the first prose paragraph, cut at a word boundary
func extractSnippet(details string) string {
	var paragraph []string

	for _, line := range strings.Split(details, "\n") {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || isBlockMarker(trimmed) {
			if len(paragraph) > 0 {
				break
			}
			continue
		}

		paragraph = append(paragraph, trimmed)
	}

	snippet := strings.Join(paragraph, " ")
	if utf8.RuneCountInString(snippet) <= snippetLength {
		return snippet
	}

	snippet = string([]rune(snippet)[:snippetLength])
	if lastSpace := strings.LastIndexAny(snippet, " \t"); lastSpace > 0 {
		snippet = snippet[:lastSpace]
	}
	return snippet + "..."
}

func isBlockMarker(line string) bool {
	for _, prefix := range []string{"#", "```", "---", "***", "- ", "* ", "+ ", "|", ">"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
