package run

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// idAllocator hands out post ids from the clock in Unix seconds, bumped
// past the previous id when two posts land in the same second.
type idAllocator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newIDAllocator(now func() time.Time) *idAllocator {
	return &idAllocator{now: now}
}

func (a *idAllocator) Next() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.now().Unix()
	if id <= a.last {
		id = a.last + 1
	}
	a.last = id
	return id
}

// publish uploads the whole content directory and maps the result to an
// outcome. Any failed file means the run was not fully published.
func (p *Pipeline) publish(ctx context.Context, log *slog.Logger, sum *models.Summary) models.Outcome {
	if p.cfg.NoPublish || p.deps.Publisher == nil {
		log.Info("publishing skipped")
		return models.OutcomeNotPublished
	}

	files, err := p.deps.Store.Artifacts()
	if err != nil {
		log.Error("failed to list local content", "error", err)
		return models.OutcomeNotPublished
	}

	res, err := p.deps.Publisher.Publish(ctx, files)
	if res != nil {
		sum.Uploaded = len(res.Uploaded)
		sum.Failed = len(res.Failed)
		p.Metrics.RecordPublish(len(res.Uploaded), len(res.Skipped), len(res.Failed))
	}
	if err != nil {
		log.Error("publish aborted", "error", err)
		return models.OutcomeNotPublished
	}
	if !res.OK() {
		log.Error("some files failed to upload", "failed", len(res.Failed), "error", res.Err())
		return models.OutcomeNotPublished
	}

	sum.Published = true
	return models.OutcomePublished
}
