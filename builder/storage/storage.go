// Package storage owns the local content directory: one JSON record and one
// rendered document per post, the images directory and the index.json catalog.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

const (
	IndexFile = "index.json"
	ImageDir  = "images"
)

// ErrCorruptIndex marks an index.json that is not a JSON array of entries.
var ErrCorruptIndex = errors.New("corrupt index")

// Local is the filesystem-backed post store.
type Local struct {
	fs     afero.Fs
	root   string
	logger *slog.Logger
	now    func() time.Time
}

func NewLocal(fs afero.Fs, root string, logger *slog.Logger) *Local {
	return &Local{fs: fs, root: root, logger: logger, now: time.Now}
}

// Root returns the content directory.
func (l *Local) Root() string { return l.root }

// Fs returns the filesystem the store writes to.
func (l *Local) Fs() afero.Fs { return l.fs }

func RecordName(id int64) string   { return fmt.Sprintf("%d.json", id) }
func DocumentName(id int64) string { return fmt.Sprintf("post-%d.html", id) }

// Save writes the full post record as <id>.json, replacing any previous one.
func (l *Local) Save(post *models.Post) (string, error) {
	data, err := encodeJSON(post)
	if err != nil {
		return "", fmt.Errorf("failed to encode post %d: %w", post.ID, err)
	}
	path := filepath.Join(l.root, RecordName(post.ID))
	if err := utils.WriteFileAtomic(l.fs, path, data); err != nil {
		return "", fmt.Errorf("failed to save post %d: %w", post.ID, err)
	}
	l.logger.Debug("saved post record", "id", post.ID, "path", path)
	return path, nil
}

// WriteDocument writes the rendered page as post-<id>.html.
func (l *Local) WriteDocument(id int64, doc []byte) (string, error) {
	path := filepath.Join(l.root, DocumentName(id))
	if err := utils.WriteFileAtomic(l.fs, path, doc); err != nil {
		return "", fmt.Errorf("failed to write document %d: %w", id, err)
	}
	return path, nil
}

// WriteImage stores an image under images/<name>. name must be a bare file name.
func (l *Local) WriteImage(name string, data []byte) (string, error) {
	base, err := utils.SafeBaseName(name)
	if err != nil || base != name {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	path := filepath.Join(l.root, ImageDir, base)
	if err := utils.WriteFileAtomic(l.fs, path, data); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", name, err)
	}
	return path, nil
}

// ImageRef is the reference stored in Post.Image for a local image file.
func ImageRef(name string) string {
	return ImageDir + "/" + name
}

// Discard removes whatever was written for a post that will not be indexed:
// its record, its document and the local image behind imageRef. Remote image
// references are left alone. Missing files are not an error.
func (l *Local) Discard(id int64, imageRef string) error {
	paths := []string{
		filepath.Join(l.root, RecordName(id)),
		filepath.Join(l.root, DocumentName(id)),
	}
	if name, ok := strings.CutPrefix(imageRef, ImageDir+"/"); ok {
		if base, err := utils.SafeBaseName(name); err == nil && base == name {
			paths = append(paths, filepath.Join(l.root, ImageDir, base))
		}
	}

	var errs []error
	for _, p := range paths {
		if err := l.fs.Remove(p); err != nil && !utils.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to discard post %d: %w", id, errors.Join(errs...))
	}
	l.logger.Debug("discarded post files", "id", id)
	return nil
}

// LoadIndex reads index.json. A missing or blank file is an empty index.
func (l *Local) LoadIndex() ([]models.IndexEntry, error) {
	data, err := afero.ReadFile(l.fs, l.indexPath())
	if err != nil {
		if utils.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []models.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	return entries, nil
}

// MergeIndex adds the entries of posts whose id is not yet indexed, sorts the
// whole index by id descending and writes it back. Existing entries are
// never modified or dropped. A corrupt index is backed up and treated as empty.
func (l *Local) MergeIndex(posts []models.Post) ([]models.IndexEntry, error) {
	entries, err := l.LoadIndex()
	if errors.Is(err, ErrCorruptIndex) {
		backup := fmt.Sprintf("%s.corrupt-%d", l.indexPath(), l.now().Unix())
		if cerr := utils.CopyFile(l.fs, l.fs, l.indexPath(), backup); cerr != nil {
			return nil, fmt.Errorf("failed to back up corrupt index: %w", cerr)
		}
		l.logger.Warn("index is corrupt, starting a new one", "error", err, "backup", backup)
		entries = nil
	} else if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool, len(entries)+len(posts))
	for _, e := range entries {
		seen[e.ID] = true
	}
	added := 0
	for i := range posts {
		if seen[posts[i].ID] {
			continue
		}
		seen[posts[i].ID] = true
		entries = append(entries, posts[i].Entry())
		added++
	}

	slices.SortStableFunc(entries, func(a, b models.IndexEntry) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	if entries == nil {
		entries = []models.IndexEntry{}
	}

	data, err := encodeJSON(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode index: %w", err)
	}
	if err := utils.WriteFileAtomic(l.fs, l.indexPath(), data); err != nil {
		return nil, fmt.Errorf("failed to write index: %w", err)
	}
	l.logger.Info("index updated", "added", added, "total", len(entries))
	return entries, nil
}

// Artifacts lists every regular file in the content root and the images
// directory. Hidden, temporary and corrupt-index backup files are left out.
func (l *Local) Artifacts() ([]models.Artifact, error) {
	var out []models.Artifact
	for _, dir := range []struct {
		path  string
		image bool
	}{{l.root, false}, {filepath.Join(l.root, ImageDir), true}} {
		infos, err := afero.ReadDir(l.fs, dir.path)
		if err != nil {
			if utils.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to list %s: %w", dir.path, err)
		}
		for _, info := range infos {
			name := info.Name()
			if info.IsDir() || !publishable(name) {
				continue
			}
			out = append(out, models.Artifact{
				Path:  filepath.Join(dir.path, name),
				Name:  name,
				Image: dir.image,
			})
		}
	}
	return out, nil
}

func publishable(name string) bool {
	if strings.HasPrefix(name, ".") || utils.IsTempFile(name) {
		return false
	}
	return !strings.HasPrefix(name, IndexFile+".corrupt-")
}

// encodeJSON indents and keeps markup readable: post content is HTML.
func encodeJSON(v any) ([]byte, error) {
	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

func (l *Local) indexPath() string {
	return filepath.Join(l.root, IndexFile)
}
