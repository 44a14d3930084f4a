package renderpool

import "github.com/gogpu/paintengine/canvas"

// TileGrid manages a grid of RenderTargets covering a canvas, one per
// canvas.TileSize x canvas.TileSize tile. Tiles are stored in a flat
// slice for cache efficiency, indexed as ty*tilesX+tx.
//
// Thread safety: TileGrid is NOT thread-safe. Use external
// synchronization for concurrent access, or drive it through WorkerPool
// jobs that each own a disjoint tile index.
type TileGrid struct {
	tiles  []*RenderTarget
	tilesX int
	tilesY int
	width  int
	height int
	pool   *TargetPool
}

// NewTileGrid creates a new tile grid sized to cover width x height
// canvas pixels.
func NewTileGrid(width, height int) *TileGrid {
	pool := NewTargetPool()
	if width <= 0 || height <= 0 {
		return &TileGrid{pool: pool}
	}

	tilesX := (width + canvas.TileSize - 1) / canvas.TileSize
	tilesY := (height + canvas.TileSize - 1) / canvas.TileSize

	g := &TileGrid{
		tiles:  make([]*RenderTarget, tilesX*tilesY),
		tilesX: tilesX,
		tilesY: tilesY,
		width:  width,
		height: height,
		pool:   pool,
	}
	g.allocate()
	return g
}

func (g *TileGrid) allocate() {
	for ty := 0; ty < g.tilesY; ty++ {
		for tx := 0; tx < g.tilesX; tx++ {
			t := g.pool.Get()
			t.X, t.Y = tx, ty
			t.Dirty = true
			g.tiles[ty*g.tilesX+tx] = t
		}
	}
}

// Resize changes the grid dimensions, reallocating tiles as needed and
// marking all of them dirty. A no-op if dimensions are unchanged.
func (g *TileGrid) Resize(width, height int) {
	if g.width == width && g.height == height {
		return
	}
	g.Close()

	if width <= 0 || height <= 0 {
		g.tiles, g.tilesX, g.tilesY, g.width, g.height = nil, 0, 0, 0, 0
		return
	}

	g.tilesX = (width + canvas.TileSize - 1) / canvas.TileSize
	g.tilesY = (height + canvas.TileSize - 1) / canvas.TileSize
	g.width, g.height = width, height
	g.tiles = make([]*RenderTarget, g.tilesX*g.tilesY)
	g.allocate()
}

// TileAt returns the render target at tile coordinates (tx, ty), or nil
// if out of bounds.
func (g *TileGrid) TileAt(tx, ty int) *RenderTarget {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return nil
	}
	return g.tiles[ty*g.tilesX+tx]
}

// MarkDirty flags the tile at (tx, ty) as needing re-render.
func (g *TileGrid) MarkDirty(tx, ty int) {
	if t := g.TileAt(tx, ty); t != nil {
		t.Dirty = true
	}
}

// MarkAllDirty flags every tile as needing re-render, used after a
// resize or a reset-from-scratch.
func (g *TileGrid) MarkAllDirty() {
	for _, t := range g.tiles {
		if t != nil {
			t.Dirty = true
		}
	}
}

// DirtyTiles returns every tile currently marked dirty.
func (g *TileGrid) DirtyTiles() []*RenderTarget {
	result := make([]*RenderTarget, 0, len(g.tiles))
	for _, t := range g.tiles {
		if t != nil && t.Dirty {
			result = append(result, t)
		}
	}
	return result
}

// ClearDirty resets the dirty flag on every tile.
func (g *TileGrid) ClearDirty() {
	for _, t := range g.tiles {
		if t != nil {
			t.Dirty = false
		}
	}
}

// TilesX returns the number of tiles horizontally.
func (g *TileGrid) TilesX() int { return g.tilesX }

// TilesY returns the number of tiles vertically.
func (g *TileGrid) TilesY() int { return g.tilesY }

// AllTiles returns every tile in the grid, in row-major order. The
// returned slice should not be modified.
func (g *TileGrid) AllTiles() []*RenderTarget { return g.tiles }

// Close releases all tiles back to the pool. The grid should not be used
// after calling Close.
func (g *TileGrid) Close() {
	for i, t := range g.tiles {
		if t != nil {
			g.pool.Put(t)
			g.tiles[i] = nil
		}
	}
}

// ForEach calls fn for every tile in the grid, in row-major order.
func (g *TileGrid) ForEach(fn func(t *RenderTarget)) {
	for _, t := range g.tiles {
		if t != nil {
			fn(t)
		}
	}
}
