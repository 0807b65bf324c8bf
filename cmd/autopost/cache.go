package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Kush-Singh-26/autopost/builder/cache"
	"github.com/Kush-Singh-26/autopost/builder/config"
)

// handleCacheCommand processes cache-related subcommands
func handleCacheCommand(args []string) {
	if len(args) < 1 {
		printCacheUsage()
		os.Exit(1)
	}

	subcommand := args[0]
	subArgs := args[1:]

	switch subcommand {
	case "stats":
		cacheStats()
	case "runs":
		limit := 10
		if len(subArgs) > 0 {
			n, err := strconv.Atoi(subArgs[0])
			if err != nil || n < 0 {
				fmt.Println("Usage: autopost cache runs [count]")
				os.Exit(1)
			}
			limit = n
		}
		cacheRuns(limit)
	case "gc":
		dryRun := false
		for _, arg := range subArgs {
			if arg == "--dry-run" || arg == "-n" {
				dryRun = true
			}
		}
		cacheGC(dryRun)
	case "clear":
		cacheClear()
	default:
		fmt.Printf("Unknown cache subcommand: %s\n", subcommand)
		printCacheUsage()
		os.Exit(1)
	}
}

func printCacheUsage() {
	fmt.Println("Usage: autopost cache <subcommand> [arguments]")
	fmt.Println("\nSubcommands:")
	fmt.Println("  stats          Show cache statistics")
	fmt.Println("  runs [count]   List the most recent runs (default 10, 0 for all)")
	fmt.Println("  gc             Delete cached images nothing refers to")
	fmt.Println("  clear          Delete all cache data")
	fmt.Println("\nFlags for gc:")
	fmt.Println("  --dry-run, -n  Show what would be deleted without deleting")
}

func openCache() *cache.Manager {
	dir := config.DefaultConfig().CacheDir
	if cfg, err := config.Load(nil); err == nil {
		dir = cfg.CacheDir
	}
	cm, err := cache.Open(dir)
	if err != nil {
		fmt.Printf("❌ Failed to open cache: %v\n", err)
		os.Exit(1)
	}
	return cm
}

func cacheStats() {
	cm := openCache()
	defer func() { _ = cm.Close() }()

	stats, err := cm.Stats()
	if err != nil {
		fmt.Printf("❌ Failed to get stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("📊 Cache Statistics")
	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Schema Version:  %d\n", stats.SchemaVersion)
	fmt.Printf("Cached Images:   %d\n", stats.Images)
	fmt.Printf("Store Size:      %.2f MB\n", float64(stats.StoreBytes)/(1024*1024))
	fmt.Printf("Upload Records:  %d\n", stats.Uploads)
	fmt.Printf("Recorded Runs:   %d\n", stats.Runs)

	if stats.LastRun != nil {
		fmt.Println("\n🕒 Last Run")
		fmt.Println("────────────────────────────────────────")
		printRun(stats.LastRun)
	}
}

func cacheRuns(limit int) {
	cm := openCache()
	defer func() { _ = cm.Close() }()

	runs, err := cm.Runs(limit)
	if err != nil {
		fmt.Printf("❌ Failed to read runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return
	}
	for i := range runs {
		printRun(&runs[i])
		fmt.Println()
	}
}

func printRun(r *cache.RunRecord) {
	fmt.Printf("Run:       %s\n", r.ID)
	fmt.Printf("Started:   %s\n", time.Unix(r.StartedAt, 0).Format(time.RFC3339))
	fmt.Printf("Duration:  %v\n", time.Duration(r.Duration).Round(time.Millisecond))
	fmt.Printf("Outcome:   %s\n", r.Outcome)
	fmt.Printf("Posts:     %d of %d topics %v\n", len(r.PostIDs), r.Topics, r.PostIDs)
	fmt.Printf("Uploads:   %d sent, %d failed\n", r.Uploaded, r.Failed)
	if len(r.Skipped) > 0 {
		fmt.Printf("Skipped:   %v\n", r.Skipped)
	}
}

func cacheGC(dryRun bool) {
	cm := openCache()
	defer func() { _ = cm.Close() }()

	if dryRun {
		fmt.Println("🗑️  Running GC (dry run)...")
	} else {
		fmt.Println("🗑️  Running garbage collection...")
	}

	result, err := cm.RunGC(dryRun)
	if err != nil {
		fmt.Printf("❌ GC failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Scanned:    %d blobs\n", result.ScannedBlobs)
	fmt.Printf("Live:       %d blobs\n", result.LiveBlobs)
	fmt.Printf("Deleted:    %d blobs (%.2f MB)\n", result.DeletedBlobs, float64(result.DeletedBytes)/(1024*1024))
	fmt.Printf("Duration:   %v\n", result.Duration)

	if dryRun {
		fmt.Println("\n(No changes made - dry run mode)")
	} else {
		fmt.Println("\n✅ GC complete")
	}
}

func cacheClear() {
	cm := openCache()

	fmt.Println("🗑️  Clearing all cache data...")

	if err := cm.Clear(); err != nil {
		fmt.Printf("❌ Failed to clear cache: %v\n", err)
		os.Exit(1)
	}
	_ = cm.Close()

	fmt.Println("✅ Cache cleared")
}
