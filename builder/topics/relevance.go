package topics

import (
	"strings"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// Relevant reports whether any keyword appears in the title or summary,
// ignoring case. An empty keyword set accepts everything.
func Relevant(t models.Topic, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	text := strings.ToLower(t.Title + " " + t.Summary)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// FilterRelevant keeps the relevant topics.
func FilterRelevant(topics []models.Topic, keywords []string) []models.Topic {
	out := topics[:0:0]
	for _, t := range topics {
		if Relevant(t, keywords) {
			out = append(out, t)
		}
	}
	return out
}
