package renderpool

import "sync"

// TargetPool provides efficient reuse of RenderTarget instances via
// sync.Pool, reducing GC pressure from the render fan-out's hot path. A
// single pool suffices here, unlike a variable-size tile pool: every
// RenderTarget is the same fixed TileSize, since the engine always
// renders full tiles and lets the presentation layer crop edges.
//
// Thread safety: TargetPool is safe for concurrent use.
type TargetPool struct {
	pool sync.Pool
}

// NewTargetPool creates a new render-target pool.
func NewTargetPool() *TargetPool {
	p := &TargetPool{}
	p.pool.New = func() any { return &RenderTarget{} }
	return p
}

// Get retrieves a zeroed RenderTarget from the pool.
func (p *TargetPool) Get() *RenderTarget {
	t := p.pool.Get().(*RenderTarget)
	t.Reset()
	return t
}

// Put returns a RenderTarget to the pool for reuse.
func (p *TargetPool) Put(t *RenderTarget) {
	if t == nil {
		return
	}
	p.pool.Put(t)
}

// defaultPool is the package-level target pool for convenient usage.
var defaultPool = NewTargetPool()

// GetTarget retrieves a render target from the default pool.
func GetTarget() *RenderTarget { return defaultPool.Get() }

// PutTarget returns a render target to the default pool.
func PutTarget(t *RenderTarget) { defaultPool.Put(t) }
