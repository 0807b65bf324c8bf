package topics

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/Kush-Singh-26/autopost/builder/llm"
	"github.com/Kush-Singh-26/autopost/builder/models"
)

// rawTopic is the loose shape the generative API answers with.
type rawTopic struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Relevance string `json:"relevance"`
	Category  string `json:"category"`
}

func (r rawTopic) topic() models.Topic {
	return models.NewTopic(r.Title, r.Summary, r.Relevance, r.Category)
}

func parseTopics(text string) ([]models.Topic, error) {
	var raw []rawTopic
	if err := llm.ExtractJSON(text, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Topic, 0, len(raw))
	for _, r := range raw {
		if t := r.topic(); t.Valid() {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, ErrTierEmpty
	}
	return out, nil
}

const topicListInstruction = `Return ONLY a JSON array. Each element must be an object with the keys
"title" (a specific, newsworthy headline), "summary" (one or two sentences) and
"relevance" (why it matters to trucking and logistics professionals).`

// BrowseTier asks a web-search capable model for current industry news and
// keeps the candidates that pass the keyword filter.
type BrowseTier struct {
	Gen      llm.Generator
	Keywords []string
	Logger   *slog.Logger
}

func (t *BrowseTier) Name() string { return "browse" }

func (t *BrowseTier) Attempt(ctx context.Context, n int) ([]models.Topic, error) {
	prompt := fmt.Sprintf(`Search the web for the %d most important news stories from the past week
about trucking, freight, logistics and supply chains in the United States.
%s`, n+2, topicListInstruction)

	text, err := t.Gen.Browse(ctx, prompt)
	if err != nil {
		return nil, err
	}
	found, err := parseTopics(text)
	if err != nil {
		return nil, err
	}
	relevant := FilterRelevant(found, t.Keywords)
	if dropped := len(found) - len(relevant); dropped > 0 && t.Logger != nil {
		t.Logger.Debug("dropped irrelevant topics", "tier", t.Name(), "dropped", dropped)
	}
	return relevant, nil
}

// SyntheticTier asks the cheaper text model to invent plausible current topics.
type SyntheticTier struct {
	Gen   llm.Generator
	Model string
}

func (t *SyntheticTier) Name() string { return "synthetic" }

func (t *SyntheticTier) Attempt(ctx context.Context, n int) ([]models.Topic, error) {
	text, err := t.Gen.Complete(ctx, llm.Request{
		Model:       t.Model,
		System:      "You are an editor for a trucking and logistics industry blog.",
		Prompt:      fmt.Sprintf("Suggest %d timely blog topics about current trends in trucking, freight and logistics.\n%s", n, topicListInstruction),
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}
	return parseTopics(text)
}

// CategoryTier asks for one topic per sampled catalog category and attaches
// the category as a hint.
type CategoryTier struct {
	Gen     llm.Generator
	Model   string
	Catalog *Catalog
	Rng     *rand.Rand
	Logger  *slog.Logger
}

func (t *CategoryTier) Name() string { return "category" }

func (t *CategoryTier) Attempt(ctx context.Context, n int) ([]models.Topic, error) {
	var out []models.Topic
	var lastErr error
	for _, category := range t.Catalog.Sample(n, t.Rng) {
		text, err := t.Gen.Complete(ctx, llm.Request{
			Model:       t.Model,
			System:      "You are an editor for a trucking and logistics industry blog.",
			Prompt:      fmt.Sprintf(`Suggest one timely blog topic in the category %q. Return ONLY a JSON object with the keys "title", "summary" and "relevance".`, category),
			Temperature: 0.9,
		})
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		var raw rawTopic
		if err := llm.ExtractJSON(text, &raw); err != nil {
			lastErr = err
			continue
		}
		raw.Category = category
		if topic := raw.topic(); topic.Valid() {
			out = append(out, topic)
		}
	}
	if len(out) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrTierEmpty
	}
	if lastErr != nil && t.Logger != nil {
		t.Logger.Debug("some categories failed", "tier", t.Name(), "error", lastErr)
	}
	return out, nil
}
