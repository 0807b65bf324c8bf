package topics

import (
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/llm"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

// NewDefaultSource wires the five standard tiers from cfg.
func NewDefaultSource(cfg *config.Config, gen llm.Generator, rng *rand.Rand, logger *slog.Logger) *Source {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	client := &http.Client{Timeout: cfg.Scrape.Timeout}

	var robots *RobotsChecker
	if cfg.Scrape.RespectRobots {
		robots = NewRobotsChecker(client, cfg.Scrape.UserAgent, 64)
	}

	stages := []Stage{
		{Tier: &BrowseTier{Gen: gen, Keywords: cfg.Keywords, Logger: logger}, Min: cfg.MinAccepted},
		{Tier: &SyntheticTier{Gen: gen, Model: cfg.LLM.CheapModel}},
		{Tier: &ScrapeTier{
			Sources:   cfg.Sources,
			Keywords:  cfg.Keywords,
			Client:    client,
			UserAgent: cfg.Scrape.UserAgent,
			Limiter:   utils.NewHostLimiter(cfg.Scrape.RequestInterval, 1),
			Robots:    robots,
			Logger:    logger,
		}, Min: cfg.MinAccepted},
		{Tier: &CategoryTier{Gen: gen, Model: cfg.LLM.CheapModel, Catalog: NewCatalog(cfg.Categories), Rng: rng, Logger: logger}},
	}
	return NewSource(stages, StaticTier{}, rng, logger)
}
