package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/utils"
)

// Store provides content-addressed file storage with two-tier sharding
type Store struct {
	basePath string
	fs       afero.Fs
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// Blob identifies one stored artifact.
type Blob struct {
	Hash        string
	Compression CompressionType
	Size        int64 // uncompressed
}

// NewStore creates a new content-addressed store
func NewStore(basePath string) (*Store, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Store{
		basePath: basePath,
		fs:       afero.NewOsFs(),
		encoder:  encoder,
		decoder:  decoder,
	}, nil
}

// Close releases resources
func (s *Store) Close() error {
	_ = s.encoder.Close()
	s.decoder.Close()
	return nil
}

// shardPath computes the two-tier shard path: hash[0:2]/hash[2:4]/hash
func (s *Store) shardPath(category string, hash string) string {
	if len(hash) < 4 {
		return filepath.Join(s.basePath, category, hash)
	}
	return filepath.Join(s.basePath, category, hash[0:2], hash[2:4], hash)
}

func extension(ct CompressionType) string {
	if ct == CompressionNone {
		return ".raw"
	}
	return ".zst"
}

// determineCompression decides compression strategy based on size
func determineCompression(size int) CompressionType {
	if size < RawThreshold {
		return CompressionNone
	}
	if size < FastZstdMax {
		return CompressionZstdFast
	}
	return CompressionZstdLevel3
}

func (s *Store) compress(content []byte, ct CompressionType) ([]byte, error) {
	if ct == CompressionZstdLevel3 {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(content, nil), nil
	}
	return s.encoder.EncodeAll(content, nil), nil
}

// Put stores content under its hash. JPEG, PNG and WebP bytes rarely shrink,
// so a compressed form is kept only when it saves at least a tenth.
func (s *Store) Put(category string, content []byte) (Blob, error) {
	blob := Blob{Hash: HashContent(content), Size: int64(len(content))}
	ct := determineCompression(len(content))

	data := content
	if ct != CompressionNone {
		packed, err := s.compress(content, ct)
		if err != nil {
			return Blob{}, fmt.Errorf("failed to compress: %w", err)
		}
		if len(packed) <= len(content)-len(content)/10 {
			data = packed
		} else {
			ct = CompressionNone
		}
	}
	blob.Compression = ct

	path := s.shardPath(category, blob.Hash) + extension(ct)
	if utils.Exists(s.fs, path) {
		return blob, nil
	}
	if err := utils.WriteFileAtomic(s.fs, path, data); err != nil {
		return Blob{}, err
	}
	return blob, nil
}

// Get retrieves content by hash, trying both encodings.
func (s *Store) Get(category string, hash string) ([]byte, error) {
	base := s.shardPath(category, hash)
	if data, err := afero.ReadFile(s.fs, base+".raw"); err == nil {
		return data, nil
	}
	data, err := afero.ReadFile(s.fs, base+".zst")
	if err != nil {
		return nil, fmt.Errorf("artifact not found: %s", hash)
	}
	return s.decoder.DecodeAll(data, nil)
}

// Exists checks if a hash exists in the store
func (s *Store) Exists(category string, hash string) bool {
	base := s.shardPath(category, hash)
	return utils.Exists(s.fs, base+".raw") || utils.Exists(s.fs, base+".zst")
}

// Delete removes a hash from the store
func (s *Store) Delete(category string, hash string) error {
	base := s.shardPath(category, hash)
	_ = s.fs.Remove(base + ".raw")
	_ = s.fs.Remove(base + ".zst")
	return nil
}

// ListHashes returns all hashes in a category
func (s *Store) ListHashes(category string) ([]string, error) {
	var hashes []string
	err := s.walk(category, func(path string, info os.FileInfo) {
		name := info.Name()
		if ext := filepath.Ext(name); ext == ".raw" || ext == ".zst" {
			hashes = append(hashes, strings.TrimSuffix(name, ext))
		}
	})
	return hashes, err
}

// Size returns total bytes used by a category
func (s *Store) Size(category string) (int64, error) {
	var total int64
	err := s.walk(category, func(_ string, info os.FileInfo) {
		total += info.Size()
	})
	return total, err
}

func (s *Store) walk(category string, fn func(path string, info os.FileInfo)) error {
	root := filepath.Join(s.basePath, category)
	if !utils.Exists(s.fs, root) {
		return nil
	}
	return afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && !utils.IsTempFile(info.Name()) {
			fn(path, info)
		}
		return nil
	})
}
