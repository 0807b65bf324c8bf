package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/storage"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

// showIndex prints index.json as a table, newest first.
func showIndex(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	store := storage.NewLocal(afero.NewOsFs(), cfg.ContentDir, utils.DiscardLogger())
	entries, err := store.LoadIndex()
	if errors.Is(err, storage.ErrCorruptIndex) {
		fmt.Printf("⚠️ %s/%s is corrupt: the next run will back it up and start a new one\n", cfg.ContentDir, storage.IndexFile)
		return 1
	}
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Printf("📭 No posts indexed in %s/\n", cfg.ContentDir)
		return 0
	}

	fmt.Printf("📚 %d posts in %s/%s\n\n", len(entries), cfg.ContentDir, storage.IndexFile)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tTITLE")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, e.Title)
	}
	_ = w.Flush()
	return 0
}
