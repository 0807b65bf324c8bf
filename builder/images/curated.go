package images

import (
	"strings"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/models"
)

// DefaultImage is used when no curated entry matches and none is configured.
const DefaultImage = "https://images.unsplash.com/photo-1519003722824-194d4455a60c?ixlib=rb-4.0.3"

// CuratedTier matches the topic text against a static keyword table.
type CuratedTier struct {
	entries  []config.CuratedImage
	fallback string
}

func NewCuratedTier(entries []config.CuratedImage, fallback string) *CuratedTier {
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultImage
	}
	return &CuratedTier{entries: entries, fallback: fallback}
}

func (c *CuratedTier) Name() string { return "curated" }

// Pick returns the image of the longest keyword found in the title or
// summary, or the default image.
func (c *CuratedTier) Pick(topic models.Topic) string {
	text := strings.ToLower(topic.Title + " " + topic.Summary)
	best, bestLen := "", 0
	for _, e := range c.entries {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		if kw == "" || e.URL == "" {
			continue
		}
		if len(kw) > bestLen && strings.Contains(text, kw) {
			best, bestLen = e.URL, len(kw)
		}
	}
	if best == "" {
		return c.fallback
	}
	return best
}
