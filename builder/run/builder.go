// Package run drives one pipeline execution: topics, content, images,
// persistence, index merge and publishing.
package run

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/cache"
	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/content"
	"github.com/Kush-Singh-26/autopost/builder/images"
	"github.com/Kush-Singh-26/autopost/builder/llm"
	"github.com/Kush-Singh-26/autopost/builder/metrics"
	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/publisher"
	"github.com/Kush-Singh-26/autopost/builder/renderer"
	"github.com/Kush-Singh-26/autopost/builder/storage"
	"github.com/Kush-Singh-26/autopost/builder/topics"
)

// TopicSource yields up to n topics and the name of the tier that did.
type TopicSource interface {
	Acquire(ctx context.Context, n int) ([]models.Topic, string)
}

// Expander fills the generated fields of a post.
type Expander interface {
	Expand(ctx context.Context, topic models.Topic, category, date string) models.Expansion
}

// ImageResolver always returns a usable image reference.
type ImageResolver interface {
	Resolve(ctx context.Context, topic models.Topic, postID int64) images.Result
}

// Publisher uploads local artifacts.
type Publisher interface {
	Publish(ctx context.Context, files []models.Artifact) (*publisher.Result, error)
}

// Deps are the collaborators of a Pipeline. Publisher and Cache are optional.
type Deps struct {
	Topics    TopicSource
	Content   Expander
	Images    ImageResolver
	Store     *storage.Local
	Renderer  *renderer.Renderer
	Publisher Publisher
	Cache     *cache.Manager
	Rand      *rand.Rand
	Now       func() time.Time
}

// Pipeline maintains the state for one or more runs
type Pipeline struct {
	cfg     *config.Config
	deps    Deps
	catalog *topics.Catalog
	logger  *slog.Logger

	// Metrics of the last run
	Metrics *metrics.RunMetrics
}

func NewPipeline(cfg *config.Config, deps Deps, logger *slog.Logger) *Pipeline {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{
		cfg:     cfg,
		deps:    deps,
		catalog: topics.NewCatalog(cfg.Categories),
		logger:  logger,
	}
}

// Build wires the production collaborators on the OS filesystem. The
// returned close function releases the cache.
func Build(cfg *config.Config, logger *slog.Logger) (*Pipeline, func() error, error) {
	if cfg.LLM.APIKey == "" {
		logger.Warn("no API key configured, every generated field will fall back", "error", llm.ErrNoAPIKey)
	}
	client := llm.NewClient(cfg.LLM, logger)

	var manager *cache.Manager
	if m, err := cache.Open(cfg.CacheDir); err != nil {
		logger.Warn("cache unavailable, continuing without it", "dir", cfg.CacheDir, "error", err)
	} else {
		manager = m
	}
	closer := func() error {
		if manager == nil {
			return nil
		}
		return manager.Close()
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	fs := afero.NewOsFs()
	store := storage.NewLocal(fs, cfg.ContentDir, logger)
	fetcher := images.NewFetcher(&http.Client{}, manager, store, cfg.Images, logger)

	deps := Deps{
		Topics:   topics.NewDefaultSource(cfg, client, rng, logger),
		Content:  content.NewGenerator(client, cfg.Site.Name, cfg.LLM.TextModel, logger),
		Images:   images.NewDefaultResolver(cfg, client, fetcher, logger),
		Store:    store,
		Renderer: renderer.New(fs, cfg.Site.Template, cfg.Site.Name, cfg.Site.BaseURL, cfg.Compress, logger),
		Cache:    manager,
		Rand:     rng,
	}

	if !cfg.NoPublish {
		pub, err := NewPublisher(cfg, fs, manager, logger)
		switch {
		case errors.Is(err, publisher.ErrNoHost):
			logger.Warn("no remote host configured, publishing disabled")
		case err != nil:
			_ = closer()
			return nil, nil, err
		default:
			deps.Publisher = pub
		}
	}

	return NewPipeline(cfg, deps, logger), closer, nil
}

// NewPublisher builds the configured transport on top of fs.
func NewPublisher(cfg *config.Config, fs afero.Fs, manager *cache.Manager, logger *slog.Logger) (*publisher.Publisher, error) {
	dial, err := publisher.NewDialer(cfg.Publish)
	if err != nil {
		return nil, err
	}
	return publisher.New(dial, fs, publisher.Options{
		RootDir:     cfg.Publish.RootDir,
		ChangedOnly: cfg.Publish.ChangedOnly,
		Cache:       manager,
	}, logger), nil
}

// Config returns the pipeline's configuration
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}
