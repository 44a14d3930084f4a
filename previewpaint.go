package paintengine

import (
	"github.com/gogpu/paintengine/canvas"
	"github.com/gogpu/paintengine/message"
)

// fillRectAcrossTiles blend-fills the pixel rectangle [left,top)-[right,bottom)
// (canvas space) across whichever tiles of content it overlaps, cloning
// each touched tile exactly once.
func fillRectAcrossTiles(content *canvas.LayerContent, tilesX, left, top, right, bottom int, px canvas.Pixel15) {
	firstTileX, firstTileY := left/canvas.TileSize, top/canvas.TileSize
	lastTileX, lastTileY := (right-1)/canvas.TileSize, (bottom-1)/canvas.TileSize

	for ty := firstTileY; ty <= lastTileY; ty++ {
		for tx := firstTileX; tx <= lastTileX; tx++ {
			idx := ty*tilesX + tx
			if idx < 0 || idx >= len(content.Tiles) {
				continue
			}
			tile := cloneOrNewTile(content.Tiles[idx])
			tileLeft, tileTop := tx*canvas.TileSize, ty*canvas.TileSize
			tile.FillRect(left-tileLeft, top-tileTop, right-tileLeft, bottom-tileTop, px)
			content.Tiles[idx] = tile
		}
	}
}

// stampMaskAcrossTiles stamps a w*h 8-bit alpha mask at canvas position
// (x,y), promoting each mask byte to a 15-bit opacity and skipping
// fully-transparent mask pixels, across whichever tiles it overlaps.
func stampMaskAcrossTiles(content *canvas.LayerContent, tilesX, x, y, w, h int, mask []uint8) {
	for my := 0; my < h; my++ {
		for mx := 0; mx < w; mx++ {
			a := mask[my*w+mx]
			if a == 0 {
				continue
			}
			px, py := x+mx, y+my
			tx, ty := px/canvas.TileSize, py/canvas.TileSize
			idx := ty*tilesX + tx
			if idx < 0 || idx >= len(content.Tiles) {
				continue
			}
			tile := cloneOrNewTile(content.Tiles[idx])
			lx, ly := px-tx*canvas.TileSize, py-ty*canvas.TileSize
			opacity := uint16(a) * canvas.Bit15 / 255
			tile.Pixels[ly*canvas.TileSize+lx] = canvas.Pixel15{A: opacity}
			content.Tiles[idx] = tile
		}
	}
}

// paintMessagesInto paints every dab of every draw-dabs message in msgs
// into content, offsetting each message's origin by (dx,dy) — the same
// deliberately simplified bounding-square rasterizer history.go uses,
// reused here so preview strokes look consistent with committed ones.
func paintMessagesInto(content *canvas.LayerContent, tilesX int, msgs []*message.Message, dx, dy int) {
	for _, m := range msgs {
		payload, ok := m.Payload.(message.DrawDabsPayload)
		if !ok {
			continue
		}
		ox, oy := payload.Origin()
		ox, oy = ox+dx, oy+dy
		color := payload.Color()
		for _, d := range payload.Dabs() {
			px, py := ox+d.OffsetX, oy+d.OffsetY
			left, top := px-d.Radius, py-d.Radius
			right, bottom := px+d.Radius, py+d.Radius
			if right <= left || bottom <= top {
				continue
			}
			fillRectAcrossTiles(content, tilesX, left, top, right, bottom, color)
		}
	}
}

func cloneOrNewTile(t *canvas.Tile) *canvas.Tile {
	if t == nil {
		return canvas.NewTile()
	}
	return t.Clone()
}
