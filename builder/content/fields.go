package content

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

const (
	excerptRunes = 200
	wordsPerMin  = 200
	minReadTime  = 5
	maxReadTime  = 10
	maxTags      = 7
)

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]\s*|\d+[.)]\s+)`)

// Excerpt returns the plain text of the first non-empty paragraph of body,
// cut to 200 characters with "..." appended when cut.
func Excerpt(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var first string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		first = collapse(s.Text())
		return first == ""
	})
	if first == "" {
		first = collapse(doc.Text())
	}

	r := []rune(first)
	if len(r) <= excerptRunes {
		return first
	}
	return string(r[:excerptRunes]) + "..."
}

// ReadTime estimates "<n> min read" from the body word count, between 5 and 10.
func ReadTime(body string) string {
	words := 0
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		words = len(strings.Fields(doc.Text()))
	}
	n := (words + wordsPerMin - 1) / wordsPerMin
	n = max(minReadTime, min(maxReadTime, n))
	return fmt.Sprintf("%d min read", n)
}

// Tags turns a keyword list into at most seven title-cased, distinct tags.
func Tags(keywords string) []string {
	caser := cases.Title(language.English)
	seen := map[string]bool{}
	tags := []string{}
	for _, k := range strings.FieldsFunc(keywords, func(r rune) bool { return r == ',' || r == '\n' || r == ';' }) {
		k = listMarker.ReplaceAllString(k, "")
		k = strings.TrimSpace(strings.Trim(strings.TrimSpace(k), `"'`))
		if k == "" {
			continue
		}
		key := strings.ToLower(k)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, caser.String(key))
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

// PickAuthor chooses an author uniformly at random.
func PickAuthor(authors []models.Author, rng *rand.Rand) models.Author {
	if len(authors) == 0 {
		return models.Author{Name: "Editorial Team"}
	}
	return authors[rng.IntN(len(authors))]
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
