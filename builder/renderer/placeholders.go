package renderer

import (
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// Placeholders maps every template marker to its value for post. Content
// and tag markup are inserted as HTML, everything else is escaped. A local
// image reference stays relative since documents sit beside the image
// directory.
func (r *Renderer) Placeholders(post *models.Post) map[string]string {
	postURL := r.PostURL(post.ID)

	esc := html.EscapeString
	q := url.QueryEscape
	return map[string]string{
		"{{SITE_NAME}}":        esc(r.site),
		"{{POST_ID}}":          strconv.FormatInt(post.ID, 10),
		"{{POST_URL}}":         esc(postURL),
		"{{POST_TITLE}}":       esc(post.Title),
		"{{POST_EXCERPT}}":     esc(post.Excerpt),
		"{{POST_DATE}}":        esc(post.Date),
		"{{POST_CATEGORY}}":    esc(post.Category),
		"{{POST_READ_TIME}}":   esc(post.ReadTime),
		"{{POST_IMAGE}}":       esc(post.Image),
		"{{POST_CONTENT}}":     post.Content,
		"{{POST_TAGS}}":        tagMarkup(post.Tags),
		"{{META_DESCRIPTION}}": esc(post.Meta.Description),
		"{{META_KEYWORDS}}":    esc(post.Meta.Keywords),
		"{{AUTHOR_NAME}}":      esc(post.Author),
		"{{AUTHOR_POSITION}}":  esc(post.AuthorPosition),
		"{{AUTHOR_BIO}}":       esc(post.AuthorBio),
		"{{AUTHOR_IMAGE}}":     esc(post.AuthorImage),
		"{{SHARE_FACEBOOK}}":   esc("https://www.facebook.com/sharer/sharer.php?u=" + q(postURL)),
		"{{SHARE_TWITTER}}":    esc("https://twitter.com/intent/tweet?url=" + q(postURL) + "&text=" + q(post.Title)),
		"{{SHARE_LINKEDIN}}":   esc("https://www.linkedin.com/shareArticle?mini=true&url=" + q(postURL) + "&title=" + q(post.Title)),
		"{{SHARE_EMAIL}}":      esc("mailto:?subject=" + url.PathEscape(post.Title) + "&body=" + url.PathEscape("Check out this article: "+postURL)),
	}
}

// replacer substitutes all markers in one pass, so a value that happens to
// contain a marker is never expanded again.
func (r *Renderer) replacer(post *models.Post) *strings.Replacer {
	values := r.Placeholders(post)
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...)
}

func tagMarkup(tags []string) string {
	var sb strings.Builder
	for _, t := range tags {
		sb.WriteString(`<span class="tag">`)
		sb.WriteString(html.EscapeString(t))
		sb.WriteString(`</span>`)
	}
	return sb.String()
}
