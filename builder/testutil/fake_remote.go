package testutil

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/spf13/afero"
)

var (
	ErrFakeNotFound = errors.New("550 no such directory")
	ErrFakeExists   = errors.New("550 directory exists")
)

// FakeRemote is an in-memory file-transfer server. It satisfies the
// publisher transport contract and records every operation.
type FakeRemote struct {
	mu     sync.Mutex
	Fs     afero.Fs
	cwd    string
	Ops    []string
	Closed int

	ConnectErr error            // returned by Connect
	FailStore  map[string]error // keyed by file name
	FailMkdir  map[string]error // keyed by absolute directory
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		Fs:        afero.NewMemMapFs(),
		cwd:       "/",
		FailStore: map[string]error{},
		FailMkdir: map[string]error{},
	}
}

// Connect returns the remote itself, or ConnectErr.
func (r *FakeRemote) Connect() (*FakeRemote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ops = append(r.Ops, "connect")
	if r.ConnectErr != nil {
		return nil, r.ConnectErr
	}
	r.cwd = "/"
	return r, nil
}

func (r *FakeRemote) abs(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(r.cwd, p)
}

func (r *FakeRemote) ChangeDir(p string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := r.abs(p)
	r.Ops = append(r.Ops, "cd "+target)
	info, err := r.Fs.Stat(target)
	if target != "/" && (err != nil || !info.IsDir()) {
		return fmt.Errorf("%s: %w", target, ErrFakeNotFound)
	}
	r.cwd = target
	return nil
}

func (r *FakeRemote) MakeDir(p string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := r.abs(p)
	r.Ops = append(r.Ops, "mkdir "+target)
	if err := r.FailMkdir[target]; err != nil {
		return err
	}
	if ok, _ := afero.DirExists(r.Fs, target); ok {
		return fmt.Errorf("%s: %w", target, ErrFakeExists)
	}
	if ok, _ := afero.DirExists(r.Fs, path.Dir(target)); !ok && path.Dir(target) != "/" {
		return fmt.Errorf("%s: %w", path.Dir(target), ErrFakeNotFound)
	}
	return r.Fs.Mkdir(target, 0755)
}

func (r *FakeRemote) Store(name string, src io.Reader) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := r.abs(name)
	r.Ops = append(r.Ops, "put "+target)
	if err := r.FailStore[path.Base(name)]; err != nil {
		return err
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	return afero.WriteFile(r.Fs, target, data, 0644)
}

func (r *FakeRemote) Quit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Ops = append(r.Ops, "quit")
	r.Closed++
	return nil
}

// Cwd returns the current remote directory.
func (r *FakeRemote) Cwd() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cwd
}
