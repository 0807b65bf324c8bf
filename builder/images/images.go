// Package images resolves an illustration for each post. Tiers are tried in
// order and the curated table always answers last, so resolution never fails.
package images

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// ErrNoImage is returned by a tier that found nothing usable.
var ErrNoImage = errors.New("images: no image found")

// Tier is one image source.
type Tier interface {
	Name() string
	Attempt(ctx context.Context, topic models.Topic, postID int64) (string, error)
}

// Result is the resolved reference and the tier that produced it. Ref is
// either a local reference under images/ or a remote URL.
type Result struct {
	Ref  string
	Tier string
}

type Resolver struct {
	tiers   []Tier
	curated *CuratedTier
	logger  *slog.Logger
}

func NewResolver(tiers []Tier, curated *CuratedTier, logger *slog.Logger) *Resolver {
	if curated == nil {
		curated = NewCuratedTier(nil, "")
	}
	return &Resolver{tiers: tiers, curated: curated, logger: logger.With("component", "images")}
}

// Resolve returns a non-empty reference for the post image.
func (r *Resolver) Resolve(ctx context.Context, topic models.Topic, postID int64) Result {
	for _, t := range r.tiers {
		if ctx.Err() != nil {
			break
		}
		ref, err := t.Attempt(ctx, topic, postID)
		if err == nil && ref != "" {
			r.logger.Debug("image resolved", "tier", t.Name(), "id", postID, "ref", ref)
			return Result{Ref: ref, Tier: t.Name()}
		}
		if err == nil {
			err = ErrNoImage
		}
		r.logger.Warn("image tier failed", "tier", t.Name(), "id", postID, "error", err)
	}
	return Result{Ref: r.curated.Pick(topic), Tier: r.curated.Name()}
}
