package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// createTestCache creates a temporary cache for testing
func createTestCache(t *testing.T) (*Manager, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	m, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	return m, func() {
		_ = m.Close()
	}
}

func TestOpen_NewCache(t *testing.T) {
	tmpDir := t.TempDir()
	cacheDir := filepath.Join(tmpDir, "cache")

	m, err := Open(cacheDir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	}()

	if _, err := os.Stat(filepath.Join(cacheDir, "meta.db")); os.IsNotExist(err) {
		t.Error("meta.db should be created")
	}

	stats, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", stats.SchemaVersion, SchemaVersion)
	}
	if stats.Images != 0 || stats.Runs != 0 || stats.Uploads != 0 {
		t.Errorf("new cache should be empty: %+v", stats)
	}
}

func TestOpen_ExistingCache(t *testing.T) {
	tmpDir := t.TempDir()

	m1, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := m1.RecordUpload("/blog/index.json", "abc"); err != nil {
		t.Fatalf("RecordUpload() failed: %v", err)
	}
	_ = m1.Close()

	m2, err := Open(tmpDir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = m2.Close() }()

	hash, err := m2.UploadHash("/blog/index.json")
	if err != nil {
		t.Fatalf("UploadHash() failed: %v", err)
	}
	if hash != "abc" {
		t.Errorf("UploadHash() = %q, want abc", hash)
	}
}

func TestManager_Images(t *testing.T) {
	m, cleanup := createTestCache(t)
	defer cleanup()

	url := "https://images.example.com/truck.png"
	data := bytes.Repeat([]byte("pixel"), 4096)

	rec, got, err := m.LookupImage(url)
	if err != nil || rec != nil || got != nil {
		t.Fatalf("LookupImage() on empty cache = %v, %v, %v", rec, got, err)
	}

	rec, err = m.PutImage(url, data, "image/png")
	if err != nil {
		t.Fatalf("PutImage() failed: %v", err)
	}
	if rec.Hash != HashContent(data) {
		t.Errorf("Hash = %s, want content hash", rec.Hash)
	}
	if rec.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", rec.Size, len(data))
	}

	rec, got, err = m.LookupImage(url)
	if err != nil {
		t.Fatalf("LookupImage() failed: %v", err)
	}
	if rec == nil || rec.MIME != "image/png" {
		t.Fatalf("LookupImage() record = %+v", rec)
	}
	if !bytes.Equal(got, data) {
		t.Error("LookupImage() returned different bytes")
	}
}

func TestManager_LookupImage_MissingBlob(t *testing.T) {
	m, cleanup := createTestCache(t)
	defer cleanup()

	rec, err := m.PutImage("https://x/a.jpg", []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("PutImage() failed: %v", err)
	}
	_ = m.Store().Delete(CategoryImages, rec.Hash)

	rec, data, err := m.LookupImage("https://x/a.jpg")
	if err != nil {
		t.Fatalf("LookupImage() failed: %v", err)
	}
	if rec != nil || data != nil {
		t.Error("a record without its blob should be a miss")
	}
}

func TestManager_Runs(t *testing.T) {
	m, cleanup := createTestCache(t)
	defer cleanup()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).UnixNano()
	for i, id := range []string{"first", "second", "third"} {
		rec := &RunRecord{ID: id, StartedAt: base + int64(i), Outcome: "published", PostIDs: []int64{int64(i)}}
		if err := m.RecordRun(rec); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	runs, err := m.Runs(2)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Runs(2) returned %d", len(runs))
	}
	if runs[0].ID != "third" || runs[1].ID != "second" {
		t.Errorf("Runs() order = %s, %s; want newest first", runs[0].ID, runs[1].ID)
	}

	all, _ := m.Runs(0)
	if len(all) != 3 {
		t.Errorf("Runs(0) returned %d, want 3", len(all))
	}

	stats, _ := m.Stats()
	if stats.LastRun == nil || stats.LastRun.ID != "third" {
		t.Errorf("Stats().LastRun = %+v", stats.LastRun)
	}
}

func TestManager_UploadHash_Missing(t *testing.T) {
	m, cleanup := createTestCache(t)
	defer cleanup()

	hash, err := m.UploadHash("/nope")
	if err != nil {
		t.Fatalf("UploadHash() failed: %v", err)
	}
	if hash != "" {
		t.Errorf("UploadHash() = %q, want empty", hash)
	}
}

func TestManager_Clear(t *testing.T) {
	m, cleanup := createTestCache(t)
	defer cleanup()

	_, _ = m.PutImage("https://x/a.jpg", []byte("jpeg"), "image/jpeg")
	_ = m.RecordUpload("/a", "h")

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	stats, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats() after Clear failed: %v", err)
	}
	if stats.Images != 0 || stats.Uploads != 0 || stats.StoreBytes != 0 {
		t.Errorf("Clear() left data behind: %+v", stats)
	}
}

func TestManager_RunGC(t *testing.T) {
	m, cleanup := createTestCache(t)
	defer cleanup()

	if _, err := m.PutImage("https://x/live.jpg", []byte("live"), "image/jpeg"); err != nil {
		t.Fatalf("PutImage() failed: %v", err)
	}
	orphan, err := m.Store().Put(CategoryImages, []byte("orphan"))
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	dry, err := m.RunGC(true)
	if err != nil {
		t.Fatalf("RunGC(dry) failed: %v", err)
	}
	if dry.DeletedBlobs != 1 || !m.Store().Exists(CategoryImages, orphan.Hash) {
		t.Errorf("dry run should count but keep the orphan: %+v", dry)
	}

	res, err := m.RunGC(false)
	if err != nil {
		t.Fatalf("RunGC() failed: %v", err)
	}
	if res.ScannedBlobs != 2 || res.LiveBlobs != 1 || res.DeletedBlobs != 1 {
		t.Errorf("RunGC() = %+v", res)
	}
	if m.Store().Exists(CategoryImages, orphan.Hash) {
		t.Error("orphan blob should be deleted")
	}
}
