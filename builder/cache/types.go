// Package cache keeps the run ledger in BoltDB and downloaded image bytes in a
// content-addressed store, so reruns reuse images and skip unchanged uploads.
package cache

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Kush-Singh-26/autopost/builder/utils"
)

// ImageRecord maps a source URL to the blob holding its bytes.
type ImageRecord struct {
	SourceURL   string          `msgpack:"source_url"`
	Hash        string          `msgpack:"hash"`
	MIME        string          `msgpack:"mime"`
	Size        int64           `msgpack:"size"`
	Compression CompressionType `msgpack:"compression"`
	CreatedAt   int64           `msgpack:"created_at"`
}

// RunRecord is the ledger entry written at the end of every run.
type RunRecord struct {
	ID        string   `msgpack:"id"`
	StartedAt int64    `msgpack:"started_at"`
	Duration  int64    `msgpack:"duration"` // nanoseconds
	Outcome   string   `msgpack:"outcome"`
	Topics    int      `msgpack:"topics"`
	PostIDs   []int64  `msgpack:"post_ids"`
	Skipped   []string `msgpack:"skipped"`
	Uploaded  int      `msgpack:"uploaded"`
	Failed    int      `msgpack:"failed"`
}

// UploadRecord remembers the content hash last sent to a remote path.
type UploadRecord struct {
	Path       string `msgpack:"path"`
	Hash       string `msgpack:"hash"`
	UploadedAt int64  `msgpack:"uploaded_at"`
}

// Stats summarises the cache for the cache stats command.
type Stats struct {
	Images        int
	Runs          int
	Uploads       int
	StoreBytes    int64
	SchemaVersion int
	LastRun       *RunRecord
}

// CompressionType indicates how a blob is stored
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionZstdFast
	CompressionZstdLevel3
)

const (
	RawThreshold  = 8 * 1024   // < 8KB stored raw
	FastZstdMax   = 128 * 1024 // 8KB-128KB use zstd fast
	SchemaVersion = 1
)

// HashContent computes the BLAKE3 hex digest of data.
func HashContent(data []byte) string {
	return utils.HashBytes(data)
}

// Encode serializes a value to msgpack bytes
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes msgpack bytes to a value
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
