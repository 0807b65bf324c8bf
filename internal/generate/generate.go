// Package generate implements `autopost run`: one full pipeline execution.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/run"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

// Process exit codes of a run.
const (
	ExitPublished    = 0
	ExitNoContent    = 1
	ExitNotPublished = 2
)

// ExitCode maps a run outcome to the process exit code.
func ExitCode(o models.Outcome) int {
	switch o {
	case models.OutcomePublished:
		return ExitPublished
	case models.OutcomeNotPublished:
		return ExitNotPublished
	default:
		return ExitNoContent
	}
}

// Run loads the configuration from args, runs the pipeline under the content
// directory lock and returns the exit code.
func Run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return ExitNoContent
	}
	logger := utils.NewLogger(os.Stdout, cfg.LogFormat, cfg.Verbose)

	lock, err := utils.AcquireRunLock(cfg.ContentDir)
	if err != nil {
		if errors.Is(err, utils.ErrLocked) {
			fmt.Printf("❌ %v\n", err)
		} else {
			fmt.Printf("❌ Failed to lock %s: %v\n", cfg.ContentDir, err)
		}
		return ExitNoContent
	}
	defer func() { _ = lock.Release() }()

	pipeline, closeCache, err := run.Build(cfg, logger)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return ExitNoContent
	}
	defer func() {
		if err := closeCache(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🔨 Generating up to %d posts into %s/\n", cfg.PostsPerRun, cfg.ContentDir)
	sum, err := pipeline.Run(ctx)
	if err != nil {
		fmt.Printf("⚠️ Run interrupted: %v\n", err)
	}

	pipeline.Metrics.Print(os.Stdout)
	PrintSummary(os.Stdout, sum)
	return ExitCode(sum.Outcome)
}

// PrintSummary writes the closing lines of a run.
func PrintSummary(w io.Writer, sum *models.Summary) {
	for _, title := range sum.Skipped {
		_, _ = fmt.Fprintf(w, "⚠️ Skipped: %s\n", title)
	}
	for _, post := range sum.Posts {
		_, _ = fmt.Fprintf(w, "   %d  %s\n", post.ID, post.Title)
	}

	switch sum.Outcome {
	case models.OutcomePublished:
		_, _ = fmt.Fprintf(w, "✅ Published %d posts (%d files uploaded) in %v\n", len(sum.Posts), sum.Uploaded, sum.Duration)
	case models.OutcomeNotPublished:
		if sum.Failed > 0 {
			_, _ = fmt.Fprintf(w, "⚠️ Generated %d posts, %d files failed to upload\n", len(sum.Posts), sum.Failed)
		} else {
			_, _ = fmt.Fprintf(w, "⚠️ Generated %d posts, not published\n", len(sum.Posts))
		}
	default:
		_, _ = fmt.Fprintln(w, "❌ No content generated")
	}
}
