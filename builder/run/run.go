package run

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kush-Singh-26/autopost/builder/cache"
	"github.com/Kush-Singh-26/autopost/builder/metrics"
	"github.com/Kush-Singh-26/autopost/builder/models"
)

// Run executes one pipeline run. Topic, content and image failures degrade;
// a local I/O failure skips only that topic. The summary is always returned;
// the error is only the context's.
func (p *Pipeline) Run(ctx context.Context) (*models.Summary, error) {
	m := metrics.NewRunMetrics()
	p.Metrics = m
	started := p.deps.Now()

	sum := &models.Summary{RunID: uuid.NewString()}
	log := p.logger.With("run", sum.RunID)

	if err := p.deps.Renderer.Check(); err != nil {
		log.Error("document template unavailable, posts will be skipped", "error", err)
	}

	batch, tier := p.deps.Topics.Acquire(ctx, p.cfg.PostsPerRun)
	sum.Topics = len(batch)
	m.TopicTier, m.TopicsAcquired = tier, len(batch)
	log.Info("topics acquired", "tier", tier, "count", len(batch))

	ids := newIDAllocator(p.deps.Now)
	for _, topic := range batch {
		if ctx.Err() != nil {
			break
		}

		post, imageTier, degraded, err := p.processTopic(ctx, log, topic, ids.Next())
		if err != nil {
			log.Error("topic skipped", "title", topic.Title, "error", err)
			sum.Skipped = append(sum.Skipped, topic.Title)
			m.RecordSkipped()
			continue
		}
		sum.Posts = append(sum.Posts, *post)
		m.RecordPost(degraded, imageTier)
	}

	if len(sum.Posts) == 0 {
		sum.Outcome = models.OutcomeNoContent
		return p.finish(log, sum, started), ctx.Err()
	}

	if _, err := p.deps.Store.MergeIndex(sum.Posts); err != nil {
		log.Error("index update failed, not publishing", "error", err)
		sum.Outcome = models.OutcomeNotPublished
		return p.finish(log, sum, started), ctx.Err()
	}

	// Posts already written stay indexed even when the run was interrupted
	if err := ctx.Err(); err != nil {
		sum.Outcome = models.OutcomeNotPublished
		return p.finish(log, sum, started), err
	}

	sum.Outcome = p.publish(ctx, log, sum)
	return p.finish(log, sum, started), ctx.Err()
}

// finish stamps the duration and records the run in the ledger.
func (p *Pipeline) finish(log *slog.Logger, sum *models.Summary, started time.Time) *models.Summary {
	if sum.Outcome == "" {
		sum.Outcome = models.OutcomeNotPublished
		if len(sum.Posts) == 0 {
			sum.Outcome = models.OutcomeNoContent
		}
	}
	sum.Duration = p.deps.Now().Sub(started)
	p.Metrics.RecordEnd()

	if p.deps.Cache != nil {
		ids := make([]int64, len(sum.Posts))
		for i, post := range sum.Posts {
			ids[i] = post.ID
		}
		err := p.deps.Cache.RecordRun(&cache.RunRecord{
			ID:        sum.RunID,
			StartedAt: started.Unix(),
			Duration:  int64(sum.Duration),
			Outcome:   string(sum.Outcome),
			Topics:    sum.Topics,
			PostIDs:   ids,
			Skipped:   sum.Skipped,
			Uploaded:  sum.Uploaded,
			Failed:    sum.Failed,
		})
		if err != nil {
			log.Warn("failed to record run", "error", err)
		}
	}

	log.Info("run finished", "outcome", sum.Outcome, "posts", len(sum.Posts), "skipped", len(sum.Skipped), "duration", sum.Duration)
	return sum
}
