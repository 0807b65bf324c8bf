// Package publisher uploads the local content directory to the remote web
// host. One connection is opened per publish and always released.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/autopost/builder/cache"
	"github.com/Kush-Singh-26/autopost/builder/models"
	"github.com/Kush-Singh-26/autopost/builder/storage"
	"github.com/Kush-Singh-26/autopost/builder/utils"
)

var (
	// ErrConnect marks failures that abort the whole publish step.
	ErrConnect = errors.New("publisher: connection failed")
	// ErrRemoteDir means a remote directory could not be entered or created.
	ErrRemoteDir = errors.New("publisher: remote directory unavailable")
	// ErrUnsafeName rejects artifact names that are not bare file names.
	ErrUnsafeName = errors.New("publisher: unsafe file name")
)

// Transport is one open file-transfer session. Relative paths resolve
// against the current directory.
type Transport interface {
	ChangeDir(path string) error
	MakeDir(path string) error
	Store(name string, r io.Reader) error
	Quit() error
}

// Dialer opens and authenticates a session.
type Dialer func(ctx context.Context) (Transport, error)

// FileError is a single failed upload.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string { return e.Name + ": " + e.Err.Error() }
func (e FileError) Unwrap() error { return e.Err }

type Result struct {
	Uploaded []string
	Skipped  []string // unchanged since the last upload
	Failed   []FileError
}

// OK reports whether every file was either uploaded or skipped.
func (r *Result) OK() bool { return len(r.Failed) == 0 }

// Err joins the per-file errors.
func (r *Result) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Options configures a Publisher. Images always go to the storage.ImageDir
// subdirectory of RootDir so the remote tree mirrors the local one.
type Options struct {
	RootDir     string
	ChangedOnly bool
	Cache       *cache.Manager
}

type Publisher struct {
	dial     Dialer
	fs       afero.Fs
	root    string
	changed bool
	cache   *cache.Manager
	logger  *slog.Logger
}

func New(dial Dialer, fs afero.Fs, opts Options, logger *slog.Logger) *Publisher {
	root := strings.TrimSuffix(opts.RootDir, "/")
	if root == "" && strings.HasPrefix(opts.RootDir, "/") {
		root = "/"
	}
	return &Publisher{
		dial:    dial,
		fs:      fs,
		root:    root,
		changed: opts.ChangedOnly && opts.Cache != nil,
		cache:   opts.Cache,
		logger:  logger.With("component", "publisher"),
	}
}

// Publish runs connect, ensure root, ensure image directory, upload and
// disconnect. A failed file is recorded and the rest continue; connection
// and directory failures abort and are returned as errors.
func (p *Publisher) Publish(ctx context.Context, files []models.Artifact) (*Result, error) {
	res := &Result{}
	if len(files) == 0 {
		return res, nil
	}

	conn, err := p.dial(ctx)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			p.logger.Warn("failed to close remote session", "error", err)
		}
	}()

	if err := p.ensureRoot(conn); err != nil {
		return res, err
	}
	if err := p.ensureDir(conn, storage.ImageDir); err != nil {
		return res, err
	}

	images, root := split(files)

	// Images go first so a published document never references a missing file
	for _, a := range images {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p.upload(conn, res, a)
	}

	if err := p.leaveImageDir(conn); err != nil {
		return res, err
	}
	for _, a := range root {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p.upload(conn, res, a)
	}

	p.logger.Info("publish finished",
		"uploaded", len(res.Uploaded), "skipped", len(res.Skipped), "failed", len(res.Failed))
	return res, nil
}

// split separates images from root files and moves the index to the end.
func split(files []models.Artifact) (images, root []models.Artifact) {
	var index []models.Artifact
	for _, a := range files {
		switch {
		case a.Image:
			images = append(images, a)
		case a.Name == storage.IndexFile:
			index = append(index, a)
		default:
			root = append(root, a)
		}
	}
	return images, append(root, index...)
}

// ensureRoot enters the root directory, creating it one component at a
// time when it does not exist.
func (p *Publisher) ensureRoot(conn Transport) error {
	if p.root == "" || conn.ChangeDir(p.root) == nil {
		return nil
	}

	if strings.HasPrefix(p.root, "/") {
		if err := conn.ChangeDir("/"); err != nil {
			return fmt.Errorf("%w: /: %v", ErrRemoteDir, err)
		}
	}
	for _, seg := range strings.Split(strings.Trim(p.root, "/"), "/") {
		if seg == "" {
			continue
		}
		if err := p.ensureDir(conn, seg); err != nil {
			return err
		}
	}
	p.logger.Info("created remote directory", "path", p.root)
	return nil
}

// leaveImageDir returns to the root. Absolute roots are entered directly;
// relative ones are one level up since the image directory is a single
// path component.
func (p *Publisher) leaveImageDir(conn Transport) error {
	back := ".."
	if strings.HasPrefix(p.root, "/") {
		back = p.root
	}
	if err := conn.ChangeDir(back); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteDir, p.root, err)
	}
	return nil
}

// ensureDir enters name below the current directory, creating it if needed.
func (p *Publisher) ensureDir(conn Transport, name string) error {
	if conn.ChangeDir(name) == nil {
		return nil
	}
	// The directory may exist after all; entering it decides
	mkErr := conn.MakeDir(name)
	if err := conn.ChangeDir(name); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRemoteDir, name, errors.Join(mkErr, err))
	}
	return nil
}

func (p *Publisher) upload(conn Transport, res *Result, a models.Artifact) {
	name, err := utils.SafeBaseName(a.Name)
	if err != nil || name != a.Name {
		res.Failed = append(res.Failed, FileError{Name: a.Name, Err: ErrUnsafeName})
		p.logger.Error("refusing to upload", "name", a.Name)
		return
	}

	remote := p.remotePath(a)
	var hash string
	if p.changed {
		hash, err = p.localHash(a.Path)
		if err == nil && a.Name != storage.IndexFile {
			if prev, _ := p.cache.UploadHash(remote); prev == hash {
				res.Skipped = append(res.Skipped, remote)
				return
			}
		}
	}

	if err := p.store(conn, a.Path, name); err != nil {
		res.Failed = append(res.Failed, FileError{Name: remote, Err: err})
		p.logger.Error("upload failed", "file", remote, "error", err)
		return
	}
	res.Uploaded = append(res.Uploaded, remote)
	p.logger.Debug("uploaded", "file", remote)

	if p.changed && hash != "" {
		if err := p.cache.RecordUpload(remote, hash); err != nil {
			p.logger.Warn("failed to record upload", "file", remote, "error", err)
		}
	}
}

func (p *Publisher) store(conn Transport, localPath, name string) error {
	f, err := p.fs.Open(localPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return conn.Store(name, f)
}

func (p *Publisher) localHash(localPath string) (string, error) {
	f, err := p.fs.Open(localPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	return utils.HashReader(f)
}

func (p *Publisher) remotePath(a models.Artifact) string {
	if a.Image {
		return path.Join(p.root, storage.ImageDir, a.Name)
	}
	return path.Join(p.root, a.Name)
}
