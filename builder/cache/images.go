package cache

import (
	"fmt"
	"time"
)

// LookupImage returns the cached bytes for a source URL. A missing record or
// a record whose blob was collected is reported as a miss.
func (m *Manager) LookupImage(sourceURL string) (*ImageRecord, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, err := m.images.Get(BucketImages, []byte(sourceURL))
	if err != nil || rec == nil {
		return nil, nil, err
	}
	data, err := m.store.Get(CategoryImages, rec.Hash)
	if err != nil {
		return nil, nil, nil
	}
	return rec, data, nil
}

// PutImage stores downloaded bytes and maps sourceURL to them.
func (m *Manager) PutImage(sourceURL string, data []byte, mime string) (*ImageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	blob, err := m.store.Put(CategoryImages, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	rec := &ImageRecord{
		SourceURL:   sourceURL,
		Hash:        blob.Hash,
		MIME:        mime,
		Size:        blob.Size,
		Compression: blob.Compression,
		CreatedAt:   time.Now().Unix(),
	}
	if err := m.images.Put(BucketImages, []byte(sourceURL), rec); err != nil {
		return nil, fmt.Errorf("failed to record image: %w", err)
	}
	return rec, nil
}
