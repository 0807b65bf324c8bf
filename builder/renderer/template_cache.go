package renderer

import (
	"sync"
	"time"

	"github.com/spf13/afero"
)

// templateCache keeps template text keyed by path and rereads a file only
// when its modification time changes.
type templateCache struct {
	fs     afero.Fs
	mu     sync.RWMutex
	text   map[string]string
	mtimes map[string]time.Time
}

func newTemplateCache(fs afero.Fs) *templateCache {
	return &templateCache{
		fs:     fs,
		text:   make(map[string]string),
		mtimes: make(map[string]time.Time),
	}
}

func (tc *templateCache) get(path string) (string, error) {
	info, err := tc.fs.Stat(path)
	if err != nil {
		return "", err
	}

	tc.mu.RLock()
	text, ok := tc.text[path]
	fresh := ok && !info.ModTime().After(tc.mtimes[path])
	tc.mu.RUnlock()
	if fresh {
		return text, nil
	}

	data, err := afero.ReadFile(tc.fs, path)
	if err != nil {
		return "", err
	}

	tc.mu.Lock()
	tc.text[path] = string(data)
	tc.mtimes[path] = info.ModTime()
	tc.mu.Unlock()
	return string(data), nil
}
