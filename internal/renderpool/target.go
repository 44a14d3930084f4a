// Package renderpool provides the tile-based parallel render fan-out
// that turns a canvas snapshot's changed tiles into 8-bit display pixels.
// The canvas is divided into fixed 64x64-pixel tiles that render
// independently; a WorkerPool distributes one job per changed tile across
// goroutines, each converting its tile's 15-bit linear content plus the
// checker background into a RenderTarget.
//
// Thread safety: TileGrid operations are NOT thread-safe by default.
// Use external synchronization or the provided WorkerPool for parallel
// access.
package renderpool

import "github.com/gogpu/paintengine/canvas"

// RenderTarget holds one tile's worth of finished 8-bit display pixels,
// plus the tile-grid coordinates it was rendered for. Unlike the source
// canvas.Tile, a RenderTarget is always exactly TileSize x TileSize —
// the render fan-out always produces full tiles even at the canvas's
// right/bottom edge, leaving it to the presentation layer to crop.
type RenderTarget struct {
	X, Y   int
	Dirty  bool
	Pixels [canvas.TileSize * canvas.TileSize]canvas.Pixel8
}

// Reset clears the target's pixel data for reuse.
func (t *RenderTarget) Reset() {
	t.Pixels = [canvas.TileSize * canvas.TileSize]canvas.Pixel8{}
	t.Dirty = false
}

// Bounds returns the pixel bounds of this tile in canvas space.
func (t *RenderTarget) Bounds() (x, y, w, h int) {
	return t.X * canvas.TileSize, t.Y * canvas.TileSize, canvas.TileSize, canvas.TileSize
}

// PixelAt returns the pixel at tile-local coordinates (px, py).
func (t *RenderTarget) PixelAt(px, py int) canvas.Pixel8 {
	if px < 0 || px >= canvas.TileSize || py < 0 || py >= canvas.TileSize {
		return canvas.Pixel8{}
	}
	return t.Pixels[py*canvas.TileSize+px]
}

// Contains reports whether the canvas-space pixel (cx, cy) falls within
// this tile.
func (t *RenderTarget) Contains(cx, cy int) bool {
	tx, ty := t.X*canvas.TileSize, t.Y*canvas.TileSize
	return cx >= tx && cx < tx+canvas.TileSize && cy >= ty && cy < ty+canvas.TileSize
}
