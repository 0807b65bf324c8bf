package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Manager provides the main cache interface
type Manager struct {
	db       *bolt.DB
	store    *Store
	basePath string
	mu       sync.RWMutex

	images  TypedStore[ImageRecord]
	uploads TypedStore[UploadRecord]
}

// Open opens or creates a cache at the given path. The bolt file lock makes a
// second process wait up to ten seconds before giving up.
func Open(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := &bolt.Options{
		Timeout:         10 * time.Second,
		FreelistType:    bolt.FreelistArrayType,
		InitialMmapSize: 1024 * 1024,
	}

	dbPath := filepath.Join(basePath, "meta.db")
	db, err := bolt.Open(dbPath, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	store, err := NewStore(filepath.Join(basePath, "store"))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	m := &Manager{
		db:       db,
		store:    store,
		basePath: basePath,
		images:   NewTypedStore[ImageRecord](db),
		uploads:  NewTypedStore[UploadRecord](db),
	}

	if err := m.initSchema(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return m, nil
}

// Close closes the cache
func (m *Manager) Close() error {
	if m.store != nil {
		_ = m.store.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// initSchema creates all buckets if they don't exist
func (m *Manager) initSchema() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(BucketMeta))
		if meta.Get([]byte(KeySchemaVersion)) == nil {
			v := make([]byte, 4)
			binary.BigEndian.PutUint32(v, SchemaVersion)
			if err := meta.Put([]byte(KeySchemaVersion), v); err != nil {
				return err
			}
		}

		return nil
	})
}

// Store returns the underlying content store
func (m *Manager) Store() *Store {
	return m.store
}

// Path returns the cache directory
func (m *Manager) Path() string {
	return m.basePath
}

// Clear removes all cache data and reopens an empty cache in place.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.Close()
	if err := os.RemoveAll(m.basePath); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}

	fresh, err := Open(m.basePath)
	if err != nil {
		return err
	}
	m.db = fresh.db
	m.store = fresh.store
	m.images = fresh.images
	m.uploads = fresh.uploads
	return nil
}

// Stats counts ledger entries and store bytes.
func (m *Manager) Stats() (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &Stats{}
	err := m.db.View(func(tx *bolt.Tx) error {
		stats.Images = tx.Bucket([]byte(BucketImages)).Stats().KeyN
		stats.Uploads = tx.Bucket([]byte(BucketUploads)).Stats().KeyN

		runs := tx.Bucket([]byte(BucketRuns))
		stats.Runs = runs.Stats().KeyN
		if _, v := runs.Cursor().Last(); v != nil {
			var last RunRecord
			if err := Decode(v, &last); err != nil {
				return err
			}
			stats.LastRun = &last
		}

		if v := tx.Bucket([]byte(BucketMeta)).Get([]byte(KeySchemaVersion)); len(v) == 4 {
			stats.SchemaVersion = int(binary.BigEndian.Uint32(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats.StoreBytes, err = m.store.Size(CategoryImages)
	return stats, err
}
