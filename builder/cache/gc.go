package cache

import (
	"time"
)

// GCResult contains statistics from a GC run
type GCResult struct {
	DeletedBlobs int
	DeletedBytes int64
	ScannedBlobs int
	LiveBlobs    int
	Duration     time.Duration
}

// RunGC deletes image blobs no ImageRecord points at. With dryRun it only
// counts them.
func (m *Manager) RunGC(dryRun bool) (*GCResult, error) {
	start := time.Now()
	result := &GCResult{}

	m.mu.Lock()
	defer m.mu.Unlock()

	live := make(map[string]bool)
	err := m.images.ForEach(BucketImages, func(_ []byte, rec *ImageRecord) error {
		live[rec.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	hashes, err := m.store.ListHashes(CategoryImages)
	if err != nil {
		return nil, err
	}

	for _, hash := range hashes {
		result.ScannedBlobs++
		if live[hash] {
			result.LiveBlobs++
			continue
		}
		data, err := m.store.Get(CategoryImages, hash)
		if err == nil {
			result.DeletedBytes += int64(len(data))
		}
		result.DeletedBlobs++
		if !dryRun {
			_ = m.store.Delete(CategoryImages, hash)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
