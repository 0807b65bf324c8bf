package run

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Kush-Singh-26/autopost/builder/content"
	"github.com/Kush-Singh-26/autopost/builder/models"
)

// processTopic turns one topic into a saved record and rendered document.
// Generated fields and the image never fail; rendering and writing can, and
// then nothing written for the topic is left behind.
func (p *Pipeline) processTopic(ctx context.Context, log *slog.Logger, topic models.Topic, id int64) (*models.Post, string, int, error) {
	category := p.catalog.Classify(topic, p.deps.Rand)
	author := content.PickAuthor(p.cfg.Authors, p.deps.Rand)
	date := models.FormatDate(p.deps.Now())

	log.Info("generating post", "id", id, "title", topic.Title, "category", category)

	exp := p.deps.Content.Expand(ctx, topic, category, date)
	img := p.deps.Images.Resolve(ctx, topic, id)

	post := &models.Post{
		ID:       id,
		Title:    exp.Title,
		Excerpt:  content.Excerpt(exp.Content),
		Date:     date,
		Category: category,
		ReadTime: content.ReadTime(exp.Content),
		Content:  exp.Content,
		Image:    img.Ref,
		Meta:     exp.Meta,
		Tags:     content.Tags(exp.Meta.Keywords),
		Fallback: exp.Degraded,
	}
	post.SetAuthor(author)
	if len(exp.Degraded) > 0 {
		log.Warn("post uses fallback values", "id", id, "fields", exp.Degraded)
	}

	if err := p.persist(post); err != nil {
		if derr := p.deps.Store.Discard(id, img.Ref); derr != nil {
			log.Warn("failed to remove files of skipped post", "id", id, "error", derr)
		}
		return nil, "", 0, err
	}
	return post, img.Tier, len(exp.Degraded), nil
}

func (p *Pipeline) persist(post *models.Post) error {
	doc, err := p.deps.Renderer.Render(post)
	if err != nil {
		return fmt.Errorf("render post %d: %w", post.ID, err)
	}
	if _, err := p.deps.Store.Save(post); err != nil {
		return err
	}
	if _, err := p.deps.Store.WriteDocument(post.ID, doc); err != nil {
		return err
	}
	return nil
}
