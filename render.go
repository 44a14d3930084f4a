package paintengine

import (
	"github.com/gogpu/paintengine/canvas"
	"github.com/gogpu/paintengine/internal/renderpool"
)

// PrepareRender reallocates the render tile grid to match the current
// view state's dimensions, marking every tile dirty if the size actually
// changed. Safe to call every tick; it's a no-op when dimensions match.
func (e *Engine) PrepareRender() {
	cs := e.ViewState()
	e.renderGrid.Resize(cs.Width, cs.Height)
}

// RenderEverything renders every tile of the current view state across
// the render worker pool and returns the populated tile grid. Intended
// for a full repaint: after a resize, a reset, or an initial render.
func (e *Engine) RenderEverything() *renderpool.TileGrid {
	cs := e.ViewState()
	grid := e.renderGrid

	jobs := make([]func(), 0, grid.TilesX()*grid.TilesY())
	grid.ForEach(func(t *renderpool.RenderTarget) {
		target := t
		jobs = append(jobs, func() { e.renderTileInto(cs, target.X, target.Y, target) })
	})
	e.renderPool.ExecuteAll(jobs)
	return grid
}

// RenderTileBounds renders only the tiles within [minTX,maxTX] x
// [minTY,maxTY] (inclusive, tile-grid coordinates), clamped to the grid's
// extent. Used for a clipped viewport repaint.
func (e *Engine) RenderTileBounds(minTX, minTY, maxTX, maxTY int) {
	cs := e.ViewState()
	grid := e.renderGrid

	if minTX < 0 {
		minTX = 0
	}
	if minTY < 0 {
		minTY = 0
	}
	if maxTX >= grid.TilesX() {
		maxTX = grid.TilesX() - 1
	}
	if maxTY >= grid.TilesY() {
		maxTY = grid.TilesY() - 1
	}
	if minTX > maxTX || minTY > maxTY {
		return
	}

	var jobs []func()
	for ty := minTY; ty <= maxTY; ty++ {
		for tx := minTX; tx <= maxTX; tx++ {
			target := grid.TileAt(tx, ty)
			if target == nil {
				continue
			}
			t, x, y := target, tx, ty
			jobs = append(jobs, func() { e.renderTileInto(cs, x, y, t) })
		}
	}
	e.renderPool.ExecuteAll(jobs)
}

// RenderChangedTiles renders exactly the tiles diff reports changed,
// the usual per-tick path once PrepareRender has sized the grid.
func (e *Engine) RenderChangedTiles(diff *canvas.Diff) {
	cs := e.ViewState()
	grid := e.renderGrid

	var jobs []func()
	diff.EachChangedPos(func(x, y int) {
		target := grid.TileAt(x, y)
		if target == nil {
			return
		}
		t, tx, ty := target, x, y
		jobs = append(jobs, func() { e.renderTileInto(cs, tx, ty, t) })
	})
	e.renderPool.ExecuteAll(jobs)
}

// renderTileInto composites every visible layer (base content plus
// sublayers) at tile position (tx,ty) over the checker background,
// writing the 8-bit result into target. Hidden layers (by protocol flag
// or local view mode) are skipped entirely.
func (e *Engine) renderTileInto(cs *canvas.State, tx, ty int, target *renderpool.RenderTarget) {
	target.X, target.Y = tx, ty
	var acc [canvas.TileSize * canvas.TileSize]canvas.Pixel15

	var walk func(list *canvas.LayerList)
	walk = func(list *canvas.LayerList) {
		if list == nil {
			return
		}
		for _, entry := range list.Entries {
			if entry.IsGroup() {
				walk(entry.Group.Children)
				continue
			}
			props := cs.FindProps(entry.ID())
			if props != nil && (props.Hidden || props.HiddenByViewMode) {
				continue
			}
			content := entry.Content
			opacity, mode := float32(1), canvas.BlendNormal
			if props != nil {
				opacity = float32(props.Opacity) / canvas.Bit15
				mode = props.Blend
			}
			compositeTileInto(&acc, content.TileAt(tx, ty, cs.TilesX()), opacity, mode)

			for _, sub := range content.Sublayers {
				subOpacity := float32(sub.Opacity) / canvas.Bit15
				compositeTileInto(&acc, sub.Content.TileAt(tx, ty, cs.TilesX()), subOpacity, sub.Blend)
			}
		}
	}
	walk(cs.Root)

	bg := cs.Background
	for i := range target.Pixels {
		var bgPx canvas.Pixel15
		if bg != nil {
			bgPx = bg.Pixels[i]
			bgPx.A /= 2 // the checker is merged at half alpha
		}
		final := canvas.Blend(canvas.BlendBehind, acc[i], bgPx, 1)
		target.Pixels[i] = canvas.ToPixel8(final)
	}
	target.Dirty = false
}

func compositeTileInto(acc *[canvas.TileSize * canvas.TileSize]canvas.Pixel15, tile *canvas.Tile, opacity float32, mode canvas.BlendMode) {
	if tile == nil {
		return
	}
	for i := range acc {
		acc[i] = canvas.Blend(mode, acc[i], tile.Pixels[i], opacity)
	}
}
