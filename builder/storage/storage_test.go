package storage

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

func newTestStore(t *testing.T) (*Local, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	l := NewLocal(fs, "blog-posts", utils.DiscardLogger())
	l.now = func() time.Time { return time.Unix(1700000000, 0) }
	return l, fs
}

func samplePost(id int64, title string) models.Post {
	return models.Post{
		ID:       id,
		Title:    title,
		Excerpt:  "excerpt of " + title,
		Date:     "March 01, 2026",
		Category: "Technology",
		Author:   "Sarah Johnson",
		ReadTime: "5 min read",
		Content:  "<p>body</p>",
		Image:    "images/" + title + ".png",
		Tags:     []string{"Freight"},
	}
}

func readIndex(t *testing.T, fs afero.Fs) []models.IndexEntry {
	t.Helper()
	data, err := afero.ReadFile(fs, "blog-posts/index.json")
	if err != nil {
		t.Fatalf("index.json not written: %v", err)
	}
	var entries []models.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("index.json is not an entry array: %v", err)
	}
	return entries
}

func ids(entries []models.IndexEntry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestSave(t *testing.T) {
	l, fs := newTestStore(t)
	post := samplePost(1700000001, "rail")

	path, err := l.Save(&post)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if path != "blog-posts/1700000001.json" {
		t.Errorf("Save() path = %q", path)
	}

	data, _ := afero.ReadFile(fs, path)
	var got models.Post
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("record is not valid JSON: %v", err)
	}
	if got.Title != "rail" || got.ID != post.ID {
		t.Errorf("record = %+v", got)
	}

	// Re-saving the same id overwrites
	post.Title = "rail updated"
	if _, err := l.Save(&post); err != nil {
		t.Fatalf("second Save() failed: %v", err)
	}
	data, _ = afero.ReadFile(fs, path)
	if !strings.Contains(string(data), "rail updated") {
		t.Error("Save() should overwrite the existing record")
	}
}

func TestSave_ReadOnly(t *testing.T) {
	l := NewLocal(afero.NewReadOnlyFs(afero.NewMemMapFs()), "out", utils.DiscardLogger())
	post := samplePost(1, "x")
	if _, err := l.Save(&post); err == nil {
		t.Error("Save() on a read-only filesystem should fail")
	}
}

func TestWriteDocumentAndImage(t *testing.T) {
	l, fs := newTestStore(t)

	path, err := l.WriteDocument(42, []byte("<html></html>"))
	if err != nil {
		t.Fatalf("WriteDocument() failed: %v", err)
	}
	if path != "blog-posts/post-42.html" {
		t.Errorf("WriteDocument() path = %q", path)
	}

	path, err = l.WriteImage("42.png", []byte("png"))
	if err != nil {
		t.Fatalf("WriteImage() failed: %v", err)
	}
	if ok, _ := afero.Exists(fs, "blog-posts/images/42.png"); !ok || path != "blog-posts/images/42.png" {
		t.Errorf("image not written at %q", path)
	}

	for _, bad := range []string{"../42.png", "sub/42.png", ".hidden", ""} {
		if _, err := l.WriteImage(bad, []byte("x")); err == nil {
			t.Errorf("WriteImage(%q) should be rejected", bad)
		}
	}
}

func TestDiscard(t *testing.T) {
	l, fs := newTestStore(t)
	post := samplePost(7, "seven")
	if _, err := l.Save(&post); err != nil {
		t.Fatal(err)
	}
	if _, err := l.WriteImage("7.png", []byte("png")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.WriteImage("8.png", []byte("png")); err != nil {
		t.Fatal(err)
	}

	// The document was never written; that is not an error
	if err := l.Discard(7, ImageRef("7.png")); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}

	for _, p := range []string{"blog-posts/7.json", "blog-posts/images/7.png"} {
		if ok, _ := afero.Exists(fs, p); ok {
			t.Errorf("%s should be removed", p)
		}
	}
	if ok, _ := afero.Exists(fs, "blog-posts/images/8.png"); !ok {
		t.Error("other images must be kept")
	}
}

func TestDiscard_RemoteOrUnsafeRef(t *testing.T) {
	l, fs := newTestStore(t)
	if _, err := l.WriteImage("x.png", []byte("png")); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "blog-posts/secret.txt", []byte("s"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, ref := range []string{"https://images.example.com/x.png", "images/../secret.txt", "images/.", ""} {
		if err := l.Discard(9, ref); err != nil {
			t.Errorf("Discard(%q) error = %v", ref, err)
		}
	}
	for _, p := range []string{"blog-posts/images/x.png", "blog-posts/secret.txt"} {
		if ok, _ := afero.Exists(fs, p); !ok {
			t.Errorf("%s must not be touched", p)
		}
	}
}

func TestMergeIndex_MissingFile(t *testing.T) {
	l, fs := newTestStore(t)

	posts := []models.Post{samplePost(10, "a"), samplePost(30, "c"), samplePost(20, "b")}
	entries, err := l.MergeIndex(posts)
	if err != nil {
		t.Fatalf("MergeIndex() failed: %v", err)
	}

	want := []int64{30, 20, 10}
	if got := ids(entries); !equalIDs(got, want) {
		t.Errorf("MergeIndex() ids = %v, want %v", got, want)
	}
	if got := ids(readIndex(t, fs)); !equalIDs(got, want) {
		t.Errorf("index.json ids = %v, want %v", got, want)
	}
}

func TestMergeIndex_Idempotent(t *testing.T) {
	l, fs := newTestStore(t)
	posts := []models.Post{samplePost(1, "a"), samplePost(2, "b")}

	if _, err := l.MergeIndex(posts); err != nil {
		t.Fatalf("first MergeIndex() failed: %v", err)
	}
	if _, err := l.MergeIndex(posts); err != nil {
		t.Fatalf("second MergeIndex() failed: %v", err)
	}

	if got := ids(readIndex(t, fs)); !equalIDs(got, []int64{2, 1}) {
		t.Errorf("ids after two merges = %v, want [2 1]", got)
	}
}

func TestMergeIndex_KeepsExistingEntries(t *testing.T) {
	l, fs := newTestStore(t)

	existing := `[{"id": 5, "title": "original five", "excerpt": "kept", "date": "", "category": "", "author": "", "read_time": "", "image": ""},
	              {"id": 3, "title": "three"}]`
	_ = afero.WriteFile(fs, "blog-posts/index.json", []byte(existing), 0644)

	changed := samplePost(5, "rewritten five")
	entries, err := l.MergeIndex([]models.Post{changed, samplePost(7, "seven")})
	if err != nil {
		t.Fatalf("MergeIndex() failed: %v", err)
	}

	if got := ids(entries); !equalIDs(got, []int64{7, 5, 3}) {
		t.Fatalf("ids = %v, want [7 5 3]", got)
	}
	if entries[1].Title != "original five" || entries[1].Excerpt != "kept" {
		t.Errorf("existing entry was modified: %+v", entries[1])
	}
}

func TestMergeIndex_CorruptIndex(t *testing.T) {
	l, fs := newTestStore(t)
	_ = afero.WriteFile(fs, "blog-posts/index.json", []byte(`{"not": "an array"}`), 0644)

	entries, err := l.MergeIndex([]models.Post{samplePost(9, "nine")})
	if err != nil {
		t.Fatalf("MergeIndex() should recover from a corrupt index: %v", err)
	}
	if got := ids(entries); !equalIDs(got, []int64{9}) {
		t.Errorf("ids = %v, want [9]", got)
	}

	backup, err := afero.ReadFile(fs, "blog-posts/index.json.corrupt-1700000000")
	if err != nil {
		t.Fatalf("corrupt index should be backed up: %v", err)
	}
	if string(backup) != `{"not": "an array"}` {
		t.Errorf("backup content = %q", backup)
	}
}

func TestLoadIndex(t *testing.T) {
	l, fs := newTestStore(t)

	entries, err := l.LoadIndex()
	if err != nil || entries != nil {
		t.Errorf("LoadIndex() without a file = %v, %v", entries, err)
	}

	_ = afero.WriteFile(fs, "blog-posts/index.json", []byte("  \n"), 0644)
	if entries, err := l.LoadIndex(); err != nil || len(entries) != 0 {
		t.Errorf("blank index should be empty, got %v, %v", entries, err)
	}

	_ = afero.WriteFile(fs, "blog-posts/index.json", []byte("not json"), 0644)
	if _, err := l.LoadIndex(); !errors.Is(err, ErrCorruptIndex) {
		t.Errorf("LoadIndex() error = %v, want ErrCorruptIndex", err)
	}
}

func TestArtifacts(t *testing.T) {
	l, fs := newTestStore(t)

	files := []string{
		"blog-posts/1.json",
		"blog-posts/post-1.html",
		"blog-posts/index.json",
		"blog-posts/index.json.corrupt-1",
		"blog-posts/.autopost.lock",
		"blog-posts/2.json.tmp",
		"blog-posts/images/1.png",
	}
	for _, f := range files {
		_ = afero.WriteFile(fs, f, []byte("x"), 0644)
	}

	artifacts, err := l.Artifacts()
	if err != nil {
		t.Fatalf("Artifacts() failed: %v", err)
	}

	got := map[string]bool{}
	for _, a := range artifacts {
		got[a.Name] = a.Image
	}
	if len(got) != 4 {
		t.Errorf("Artifacts() = %v, want 4 entries", got)
	}
	for _, name := range []string{"1.json", "post-1.html", "index.json"} {
		if image, ok := got[name]; !ok || image {
			t.Errorf("%s should be a root artifact", name)
		}
	}
	if image, ok := got["1.png"]; !ok || !image {
		t.Error("1.png should be an image artifact")
	}
}

func TestArtifacts_EmptyDir(t *testing.T) {
	l, _ := newTestStore(t)
	artifacts, err := l.Artifacts()
	if err != nil {
		t.Fatalf("Artifacts() failed: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("Artifacts() = %v, want none", artifacts)
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
