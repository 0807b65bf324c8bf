package images

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kush-Singh-26/autopost/builder/llm"
	"github.com/Kush-Singh-26/autopost/builder/models"
)

// GeneratedTier asks the text model for an image prompt, has the image model
// draw it and stores the result as images/<postID><ext>.
type GeneratedTier struct {
	Gen     llm.Generator
	Model   string
	Fetcher *Fetcher
	Logger  *slog.Logger
}

func (g *GeneratedTier) Name() string { return "generated" }

func (g *GeneratedTier) Attempt(ctx context.Context, topic models.Topic, postID int64) (string, error) {
	prompt := g.prompt(ctx, topic)

	img, err := g.Gen.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}

	data := img.Data
	if len(data) == 0 {
		data, _, err = g.Fetcher.Download(ctx, img.URL)
		if err != nil {
			return "", err
		}
	}
	return g.Fetcher.Persist(postID, data)
}

// prompt falls back to a fixed description when the text model fails.
func (g *GeneratedTier) prompt(ctx context.Context, topic models.Topic) string {
	text, err := g.Gen.Complete(ctx, llm.Request{
		Model: g.Model,
		Prompt: fmt.Sprintf(`Write a prompt for an image generator to create a professional header image for a logistics blog post titled %q.
Context: %s
Describe a realistic photographic scene in one paragraph. The image must not contain any text, logos or watermarks. Reply with the prompt only.`, topic.Title, topic.Summary),
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err == nil {
		if p := llm.CleanText(text); p != "" {
			return p
		}
	}
	if g.Logger != nil {
		g.Logger.Debug("image prompt fell back", "error", err)
	}
	return fmt.Sprintf("A professional, realistic photograph illustrating %q for a trucking and logistics company blog. No text, no logos.", topic.Title)
}
