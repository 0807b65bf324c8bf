package parser

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// URLTransformer opens external links in a new tab, lazy-loads images and
// resolves root-relative destinations against BaseURL.
type URLTransformer struct {
	BaseURL string
}

func (t *URLTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch target := n.(type) {
		case *ast.Link:
			target.Destination = t.processDestination(target, target.Destination)
		case *ast.Image:
			target.Destination = t.processDestination(target, target.Destination)
		}
		return ast.WalkContinue, nil
	})
}

func (t *URLTransformer) processDestination(n ast.Node, dest []byte) []byte {
	href := strings.TrimSpace(string(dest))

	if _, isImage := n.(*ast.Image); isImage {
		n.SetAttribute([]byte("loading"), []byte("lazy"))
	}

	if isExternal(href) {
		if _, isLink := n.(*ast.Link); isLink {
			n.SetAttribute([]byte("target"), []byte("_blank"))
			n.SetAttribute([]byte("rel"), []byte("noopener noreferrer"))
		}
		return []byte(href)
	}

	// Protocol-relative URLs are left alone
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") && t.BaseURL != "" {
		return []byte(strings.TrimSuffix(t.BaseURL, "/") + href)
	}
	return []byte(strings.TrimPrefix(href, "./"))
}

func isExternal(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}
