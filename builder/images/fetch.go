package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/Kush-Singh-26/autopost/builder/cache"
	"github.com/Kush-Singh-26/autopost/builder/config"
	"github.com/Kush-Singh-26/autopost/builder/storage"
)

var (
	ErrTooLarge   = errors.New("images: download exceeds size limit")
	ErrNotAnImage = errors.New("images: content is not an image")
)

// Fetcher downloads image bytes through the binary cache and writes the
// post's canonical image file.
type Fetcher struct {
	client *http.Client
	cache  *cache.Manager
	store  *storage.Local
	cfg    config.ImageConfig
	logger *slog.Logger
}

// NewFetcher builds a Fetcher. cache may be nil.
func NewFetcher(client *http.Client, c *cache.Manager, store *storage.Local, cfg config.ImageConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{client: client, cache: c, store: store, cfg: cfg, logger: logger}
}

// Download returns the bytes at url and their MIME type. Cached sources are
// served without a request.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, string, error) {
	if url == "" {
		return nil, "", fmt.Errorf("images: empty url")
	}

	if f.cache != nil {
		rec, data, err := f.cache.LookupImage(url)
		if err != nil {
			f.logger.Warn("image cache lookup failed", "url", url, "error", err)
		} else if rec != nil {
			f.logger.Debug("image cache hit", "url", url, "hash", rec.Hash)
			return data, rec.MIME, nil
		}
	}

	if f.cfg.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.DownloadTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("images: download failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("images: download returned %d", resp.StatusCode)
	}

	limit := f.cfg.MaxBytes
	if limit <= 0 {
		limit = 20 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("images: read failed: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, "", ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", fmt.Errorf("%w: %s", ErrNotAnImage, mt.String())
	}

	if f.cache != nil {
		if _, err := f.cache.PutImage(url, data, mt.String()); err != nil {
			f.logger.Warn("image cache write failed", "url", url, "error", err)
		}
	}
	return data, mt.String(), nil
}

// Persist normalises data and writes it as images/<postID><ext>, returning
// the reference stored in the post.
func (f *Fetcher) Persist(postID int64, data []byte) (string, error) {
	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return "", ErrNotAnImage
	}

	out := f.normalise(data)
	name := fmt.Sprintf("%d%s", postID, mimetype.Detect(out).Extension())
	if _, err := f.store.WriteImage(name, out); err != nil {
		return "", err
	}
	return storage.ImageRef(name), nil
}

// normalise downscales wide images and optionally re-encodes them as WebP.
// Anything that cannot be decoded is kept as is.
func (f *Fetcher) normalise(data []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		f.logger.Debug("image kept undecoded", "error", err)
		return data
	}

	resized := false
	if f.cfg.MaxWidth > 0 && img.Bounds().Dx() > f.cfg.MaxWidth {
		img = imaging.Resize(img, f.cfg.MaxWidth, 0, imaging.Lanczos)
		resized = true
	}

	if f.cfg.WebP {
		out, err := encodeWebP(img, f.cfg.Quality)
		if err == nil {
			return out
		}
		f.logger.Warn("webp encoding failed", "error", err)
	}
	if !resized {
		return data
	}

	format, err := imaging.FormatFromExtension(mimetype.Detect(data).Extension())
	if err != nil {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(int(f.cfg.Quality))); err != nil {
		f.logger.Warn("image re-encoding failed", "error", err)
		return data
	}
	return buf.Bytes()
}

func encodeWebP(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
