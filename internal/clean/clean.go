// Package clean implements `autopost clean`: remove leftovers of interrupted
// writes from the content directory and, with -cache, the cache directory.
package clean

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

func Run(args []string) int {
	flags := flag.NewFlagSet("clean", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	cleanCache := flags.Bool("cache", false, "Also delete the cache directory")
	if err := flags.Parse(args); err != nil {
		fmt.Printf("❌ invalid flags: %v\n", err)
		return 1
	}

	cfg, err := config.Load(flags.Args())
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	start := time.Now()
	lock, err := utils.AcquireRunLock(cfg.ContentDir)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}
	defer func() { _ = lock.Release() }()

	removed, err := TempFiles(afero.NewOsFs(), cfg.ContentDir)
	if err != nil {
		fmt.Printf("❌ Failed to clean %s: %v\n", cfg.ContentDir, err)
		return 1
	}
	fmt.Printf("🧹 Removed %d temporary files from %s/\n", len(removed), cfg.ContentDir)

	if *cleanCache {
		cleanDirAsync(cfg.CacheDir)
	}

	fmt.Printf("🧹 Clean finished in %v.\n", time.Since(start))
	return 0
}

// TempFiles deletes every WriteFileAtomic leftover under dir and returns the
// removed paths. Records, documents, images and index backups are kept.
func TempFiles(fs afero.Fs, dir string) ([]string, error) {
	if !utils.Exists(fs, dir) {
		return nil, nil
	}

	var removed []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !utils.IsTempFile(info.Name()) {
			return nil
		}
		if err := fs.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
		return nil
	})
	return removed, err
}

// cleanDirAsync renames the directory out of the way and deletes it in the
// background, so the command returns immediately on large caches.
func cleanDirAsync(dir string) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		absPath = dir
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return
	}

	tempPath := filepath.Join(filepath.Dir(absPath), fmt.Sprintf("%s_deleting_%d", filepath.Base(absPath), time.Now().UnixNano()))

	fmt.Printf("🧹 Moving '%s' to trash...\n", absPath)
	if err := os.Rename(absPath, tempPath); err != nil {
		fmt.Printf("⚠️ Rename failed (%v), deleting synchronously...\n", err)
		if err := os.RemoveAll(absPath); err != nil {
			fmt.Printf("❌ Failed to remove '%s': %v\n", absPath, err)
		}
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = os.RemoveAll(tempPath)
	}()

	// The process exits right after the command; give the removal a head start
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		fmt.Printf("⚠️ Still deleting '%s' in the background\n", tempPath)
	}
}
