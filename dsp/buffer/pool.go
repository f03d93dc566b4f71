package buffer

import "sync"

// Pool provides sync.Pool-based Planar reuse for file-rendering loops.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Planar{}
			},
		},
	}
}

// Get returns a zeroed block with the requested shape.
// Callers must return it via Put when done.
func (p *Pool) Get(channels, frames int) *Planar {
	b := p.pool.Get().(*Planar)
	b.Resize(channels, frames)
	return b
}

// Put returns a block to the pool. The caller must not use it afterwards.
func (p *Pool) Put(b *Planar) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}
