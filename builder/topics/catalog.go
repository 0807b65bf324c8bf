package topics

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// Catalog is the fixed set of blog categories.
type Catalog struct {
	categories []string
}

func NewCatalog(categories []string) *Catalog {
	return &Catalog{categories: categories}
}

// Categories returns the catalog entries.
func (c *Catalog) Categories() []string {
	return c.categories
}

// Normalize maps a free-form category to the catalog spelling, or title-cases
// it when the catalog has no match.
func (c *Catalog) Normalize(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	for _, cat := range c.categories {
		if strings.EqualFold(cat, hint) {
			return cat
		}
	}
	return cases.Title(language.English).String(strings.ToLower(hint))
}

// Classify returns the topic's category hint if it has one, otherwise a
// uniform random catalog entry.
func (c *Catalog) Classify(t models.Topic, rng *rand.Rand) string {
	if cat := c.Normalize(t.Category); cat != "" {
		return cat
	}
	if len(c.categories) == 0 {
		return "General"
	}
	return c.categories[rng.IntN(len(c.categories))]
}

// Sample returns n categories, without repeats until the catalog is used up.
func (c *Catalog) Sample(n int, rng *rand.Rand) []string {
	if len(c.categories) == 0 || n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for len(out) < n {
		for _, i := range rng.Perm(len(c.categories)) {
			if len(out) == n {
				break
			}
			out = append(out, c.categories[i])
		}
	}
	return out
}
