package content

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true, "by": true,
	"for": true, "from": true, "how": true, "in": true, "is": true, "it": true, "its": true, "new": true,
	"of": true, "on": true, "or": true, "the": true, "their": true, "this": true, "to": true, "what": true,
	"why": true, "with": true,
}

// fallbackDescription labels the derived text so it reads as a brief, not
// as a generated summary.
func fallbackDescription(t models.Topic) string {
	summary := strings.TrimSpace(t.Summary)
	if summary == "" || strings.EqualFold(summary, t.Title) {
		return truncateRunes(t.Title+": an industry brief for logistics professionals.", 160, "...")
	}
	return truncateRunes("Industry brief: "+summary, 160, "...")
}

// fallbackKeywords takes the significant words of the title and adds the
// two domain defaults.
func fallbackKeywords(t models.Topic) string {
	seen := map[string]bool{}
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(t.Title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		if len(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == 5 {
			break
		}
	}
	for _, w := range []string{"logistics", "trucking"} {
		if !seen[w] {
			out = append(out, w)
		}
	}
	return strings.Join(out, ", ")
}

// fallbackContent is a short, labelled brief built from the topic itself.
func fallbackContent(t models.Topic) string {
	var sb strings.Builder
	sb.WriteString("<p><em>Industry brief.</em></p>\n")
	fmt.Fprintf(&sb, "<h2>%s</h2>\n", html.EscapeString(t.Title))
	fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(t.Summary))
	if t.Relevance != "" {
		sb.WriteString("<h2>Why it matters</h2>\n")
		fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(t.Relevance))
	}
	return sb.String()
}

func truncateRunes(s string, n int, suffix string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-len([]rune(suffix))])) + suffix
}
