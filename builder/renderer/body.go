package renderer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Kush-Singh-26/autopost/builder/parser"
)

var (
	blockTag     = regexp.MustCompile(`(?i)<(?:p|h[1-6]|ul|ol|div|table|blockquote|pre|section|article)[\s>]`)
	documentTag  = regexp.MustCompile(`(?i)<(?:!doctype|html|body)[\s>]`)
	bodyMarkdown = parser.New("")
	bodyPolicy   = newBodyPolicy()
)

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("code", "pre", "span", "div")
	p.AllowAttrs("data-lang").Matching(regexp.MustCompile(`^[\w+#.-]+$`)).OnElements("div")
	p.AllowAttrs("id").Matching(bluemonday.Paragraph).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^(?:lazy|eager)$`)).OnElements("img")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// PrepareBody turns a generated body into a safe HTML fragment. A full
// document is reduced to its body, markdown is converted and the result is
// sanitized. Text that fails to convert is kept as a single paragraph.
func PrepareBody(raw string) string {
	body := strings.TrimSpace(raw)
	if body == "" {
		return ""
	}

	if documentTag.MatchString(body) {
		body = innerBody(body)
	}

	if !blockTag.MatchString(body) {
		if out, err := parser.ToHTML(bodyMarkdown, body); err == nil {
			body = out
		} else {
			body = "<p>" + body + "</p>"
		}
	}

	return strings.TrimSpace(bodyPolicy.Sanitize(body))
}

func innerBody(doc string) string {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return doc
	}
	d.Find("script, style, head").Remove()
	inner, err := d.Find("body").Html()
	if err != nil || strings.TrimSpace(inner) == "" {
		return doc
	}
	return strings.TrimSpace(inner)
}
