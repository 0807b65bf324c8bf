package images

import (
	"log/slog"
	"net/http"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/llm"
)

// NewDefaultResolver wires generated, stock and curated tiers from cfg.
func NewDefaultResolver(cfg *config.Config, gen llm.Generator, fetcher *Fetcher, logger *slog.Logger) *Resolver {
	tiers := []Tier{
		&GeneratedTier{Gen: gen, Model: cfg.LLM.CheapModel, Fetcher: fetcher, Logger: logger},
	}
	if cfg.Stock.AccessKey != "" {
		tiers = append(tiers, &StockTier{
			BaseURL:   cfg.Stock.BaseURL,
			AccessKey: cfg.Stock.AccessKey,
			Client:    &http.Client{Timeout: cfg.Stock.Timeout},
			Fetcher:   fetcher,
			Logger:    logger,
		})
	}
	return NewResolver(tiers, NewCuratedTier(cfg.CuratedImages, cfg.DefaultImage), logger)
}
