package utils

import (
	"bytes"
	"sync"
)

// MaxBufferSize caps the capacity of buffers kept in a pool. Rendered
// documents are well under it; larger buffers are left to the GC.
const MaxBufferSize = 256 * 1024

// BufferPool manages a pool of reusable bytes.Buffer objects
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return new(bytes.Buffer)
			},
		},
	}
}

// Get retrieves an empty buffer from the pool
func (p *BufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put returns a buffer to the pool, resetting it for reuse.
// Oversized buffers are discarded.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > MaxBufferSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

// SharedBufferPool backs document rendering and JSON encoding.
var SharedBufferPool = NewBufferPool()
