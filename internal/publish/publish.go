// Package publish implements `autopost publish`: upload the existing local
// content directory without generating anything.
package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/cache"
	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/publisher"
	"github.com/Kush-Singh-26/autopost/builder/run"
	"github.com/Kush-Singh-26/autopost/builder/storage"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

// ErrNothingToPublish is returned when the content directory holds no files.
var ErrNothingToPublish = errors.New("nothing to publish")

// Run uploads cfg.ContentDir and returns the exit code: 0 when every file was
// sent, 2 when anything failed, 1 when there was nothing to send.
func Run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}
	logger := utils.NewLogger(os.Stdout, cfg.LogFormat, cfg.Verbose)

	lock, err := utils.AcquireRunLock(cfg.ContentDir)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}
	defer func() { _ = lock.Release() }()

	var manager *cache.Manager
	if m, err := cache.Open(cfg.CacheDir); err != nil {
		logger.Warn("cache unavailable, uploading everything", "error", err)
	} else {
		manager = m
		defer func() { _ = m.Close() }()
	}

	fs := afero.NewOsFs()
	pub, err := run.NewPublisher(cfg, fs, manager, logger)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("📤 Uploading %s/ to %s:%s\n", cfg.ContentDir, cfg.Publish.Host, cfg.Publish.RootDir)
	res, err := Dir(ctx, storage.NewLocal(fs, cfg.ContentDir, logger), pub, logger)
	switch {
	case errors.Is(err, ErrNothingToPublish):
		fmt.Printf("⚠️ Nothing to publish in %s/\n", cfg.ContentDir)
		return 1
	case err != nil:
		fmt.Printf("❌ Publish failed: %v\n", err)
		return 2
	case !res.OK():
		for _, f := range res.Failed {
			fmt.Printf("❌ %v\n", f)
		}
		fmt.Printf("⚠️ Uploaded %d files, %d failed\n", len(res.Uploaded), len(res.Failed))
		return 2
	}
	fmt.Printf("✅ Uploaded %d files (%d unchanged)\n", len(res.Uploaded), len(res.Skipped))
	return 0
}

// Dir sends every publishable file of store through pub.
func Dir(ctx context.Context, store *storage.Local, pub run.Publisher, logger *slog.Logger) (*publisher.Result, error) {
	files, err := store.Artifacts()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNothingToPublish
	}
	logger.Info("publishing local content", "dir", store.Root(), "files", len(files))
	return pub.Publish(ctx, files)
}
