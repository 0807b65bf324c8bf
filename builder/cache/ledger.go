package cache

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

func runKey(rec *RunRecord) []byte {
	return []byte(fmt.Sprintf("%020d/%s", rec.StartedAt, rec.ID))
}

// RecordRun appends a run to the ledger.
func (m *Manager) RecordRun(rec *RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := Encode(rec)
	if err != nil {
		return err
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketRuns)).Put(runKey(rec), data)
	})
}

// Runs returns up to limit ledger entries, newest first. limit <= 0 means all.
func (m *Manager) Runs(limit int) ([]RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var runs []RunRecord
	err := m.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketRuns)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(runs) >= limit {
				break
			}
			var rec RunRecord
			if err := Decode(v, &rec); err != nil {
				return err
			}
			runs = append(runs, rec)
		}
		return nil
	})
	return runs, err
}

// RecordUpload remembers the hash of the content last sent to remotePath.
func (m *Manager) RecordUpload(remotePath, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.uploads.Put(BucketUploads, []byte(remotePath), &UploadRecord{
		Path:       remotePath,
		Hash:       hash,
		UploadedAt: time.Now().Unix(),
	})
}

// UploadHash returns the hash recorded for remotePath, or "" if none.
func (m *Manager) UploadHash(remotePath string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, err := m.uploads.Get(BucketUploads, []byte(remotePath))
	if err != nil || rec == nil {
		return "", err
	}
	return rec.Hash, nil
}
