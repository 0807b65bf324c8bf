// Package topics acquires candidate post subjects through an ordered list of
// fallback tiers: web-search browsing, synthetic generation, news scraping,
// category-seeded generation and a built-in list.
package topics

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/Kush-Singh-26/autopost/builder/models"
)

// ErrTierEmpty is returned by a tier that ran but found nothing usable.
var ErrTierEmpty = errors.New("topics: tier produced no topics")

// Tier is one strategy for finding topics. n is the number of posts the run
// wants; a tier may return more or fewer.
type Tier interface {
	Name() string
	Attempt(ctx context.Context, n int) ([]models.Topic, error)
}

// Stage pairs a tier with the number of topics it must yield to be accepted.
// Min 0 means the requested count.
type Stage struct {
	Tier Tier
	Min  int
}

// Source runs the stages in order until one is accepted.
type Source struct {
	stages   []Stage
	fallback Tier
	rng      *rand.Rand
	logger   *slog.Logger
}

// NewSource builds a Source. fallback is used only when no stage produced
// anything at all.
func NewSource(stages []Stage, fallback Tier, rng *rand.Rand, logger *slog.Logger) *Source {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Source{stages: stages, fallback: fallback, rng: rng, logger: logger.With("component", "topics")}
}

// Acquire returns between 1 and n topics with distinct titles, plus the name
// of the tier they came from. Tier failures are logged and never returned.
func (s *Source) Acquire(ctx context.Context, n int) ([]models.Topic, string) {
	if n < 1 {
		n = 1
	}

	var leftovers []models.Topic
	for _, stage := range s.stages {
		name := stage.Tier.Name()
		got, err := stage.Tier.Attempt(ctx, n)
		got = Dedupe(got)
		if err != nil {
			s.logger.Warn("topic tier failed", "tier", name, "error", err)
		}

		need := stage.Min
		if need <= 0 {
			need = n
		}
		if len(got) >= need {
			s.logger.Info("topic tier accepted", "tier", name, "topics", len(got))
			return s.sample(got, n), name
		}
		if len(got) > 0 {
			s.logger.Info("topic tier below threshold", "tier", name, "topics", len(got), "need", need)
		}
		leftovers = append(leftovers, got...)
	}

	if pool := Dedupe(leftovers); len(pool) > 0 {
		s.logger.Info("using partial tier results", "topics", len(pool))
		return s.sample(pool, n), "partial"
	}

	got, err := s.fallback.Attempt(ctx, n)
	if err != nil {
		s.logger.Warn("fallback topics failed", "error", err)
	}
	s.logger.Info("using built-in topics", "topics", len(got))
	return s.sample(Dedupe(got), n), s.fallback.Name()
}

// sample picks n topics uniformly without replacement. A pool that is not
// larger than n is returned whole.
func (s *Source) sample(pool []models.Topic, n int) []models.Topic {
	if len(pool) <= n {
		return pool
	}
	out := make([]models.Topic, 0, n)
	for _, i := range s.rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

// Dedupe drops invalid topics and repeated titles, keeping the first.
func Dedupe(topics []models.Topic) []models.Topic {
	seen := make(map[string]bool, len(topics))
	out := make([]models.Topic, 0, len(topics))
	for _, t := range topics {
		if !t.Valid() {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t.Title))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
