// Package content expands a topic into the text fields of a post: title,
// meta description, keywords and the HTML body.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kush-Singh-26/autopost/builder/llm"
	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/renderer"
)

const (
	FieldTitle       = "title"
	FieldDescription = "meta.description"
	FieldKeywords    = "meta.keywords"
	FieldContent     = "content"
)

const systemPrompt = "You write for the blog of a trucking and logistics company. Your readers are transportation and logistics professionals."

// Generator expands topics with one generative call per field.
type Generator struct {
	gen    llm.Generator
	site   string
	model  string
	logger *slog.Logger
}

func NewGenerator(gen llm.Generator, site, model string, logger *slog.Logger) *Generator {
	return &Generator{gen: gen, site: site, model: model, logger: logger.With("component", "content")}
}

// Expand never fails: a field whose call fails gets a value derived from the
// topic and is listed in Expansion.Degraded.
func (g *Generator) Expand(ctx context.Context, topic models.Topic, category, date string) models.Expansion {
	var exp models.Expansion

	exp.Meta.Description = g.field(ctx, &exp, FieldDescription, llm.Request{
		Prompt: fmt.Sprintf(`Write an SEO-optimized meta description for a blog post about %q in the logistics and transportation industry.
The description should be compelling, include keywords, and be under 160 characters. Reply with the description only.`, topic.Title),
		MaxTokens: 120,
	}, func() string { return fallbackDescription(topic) })
	exp.Meta.Description = truncateRunes(exp.Meta.Description, 160, "")

	exp.Meta.Keywords = g.field(ctx, &exp, FieldKeywords, llm.Request{
		Prompt: fmt.Sprintf(`Generate 5-7 SEO keywords or phrases for a blog post about %q in the logistics and transportation industry.
Format them as a comma-separated list only. No numbering or bullets.`, topic.Title),
		MaxTokens: 100,
	}, func() string { return fallbackKeywords(topic) })

	exp.Title = g.field(ctx, &exp, FieldTitle, llm.Request{
		Prompt: fmt.Sprintf(`Create an engaging, SEO-optimized title for a blog post about %q in the logistics industry.
The title should be compelling, include keywords, and be under 60 characters if possible.
Make it specific and action-oriented. Reply with the title only.`, topic.Title),
		MaxTokens: 60,
	}, func() string { return topic.Title })

	body := g.field(ctx, &exp, FieldContent, llm.Request{
		Prompt:    contentPrompt(g.site, topic, category, date, exp.Meta.Keywords),
		MaxTokens: 4000,
	}, func() string { return fallbackContent(topic) })
	exp.Content = renderer.PrepareBody(body)
	if strings.TrimSpace(exp.Content) == "" {
		exp.Content = renderer.PrepareBody(fallbackContent(topic))
		exp.Degraded = appendOnce(exp.Degraded, FieldContent)
	}

	return exp
}

func (g *Generator) field(ctx context.Context, exp *models.Expansion, name string, req llm.Request, fallback func() string) string {
	req.System = systemPrompt
	req.Model = g.model
	req.Temperature = 0.7

	text, err := g.gen.Complete(ctx, req)
	if err == nil {
		text = llm.CleanText(text)
	}
	if err != nil || text == "" {
		if err == nil {
			err = llm.ErrEmptyResponse
		}
		g.logger.Warn("content field degraded", "field", name, "error", err)
		exp.Degraded = appendOnce(exp.Degraded, name)
		return fallback()
	}
	return text
}

func contentPrompt(site string, topic models.Topic, category, date, keywords string) string {
	return fmt.Sprintf(`Write a comprehensive, detailed and informative blog post about %q for the %s company blog.
The post should be targeted at professionals in the transportation and logistics industry.

Background: %s
Why it matters: %s
Current date: %s

Follow this structure:
1. An engaging introduction explaining why this topic matters to logistics and transportation professionals
2. 2-3 main sections with descriptive headings (using H2 tags) covering different aspects of the topic
3. Include subsections with H3 tags where appropriate
4. For each section, include practical insights, data points and actionable advice
5. Use bullet points or numbered lists where appropriate to break up text
6. Include a relevant quote from an industry expert
7. A conclusion summarizing key takeaways and offering a forward-looking perspective

Make sure to:
- Aim for around 1500-2000 words
- Use industry-specific terminology appropriately
- Optimize for these SEO keywords: %s
- Format the content in HTML using appropriate tags (<p>, <h2>, <h3>, <ul>, <li>, <blockquote>)
- Avoid specific claims about real companies that cannot be verified

Category: %s`, topic.Title, site, topic.Summary, topic.Relevance, date, keywords, category)
}

func appendOnce(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}
