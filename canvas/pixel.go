package canvas

// ToPixel8 converts a 15-bit linear pixel to an 8-bit display pixel by
// scaling each channel down, rounding to nearest. This is the last step of
// the render fan-out and is deliberately a plain integer scale rather than
// a full colour-managed conversion — the paint engine doesn't claim
// display colour accuracy, only display-sized output.
func ToPixel8(p Pixel15) Pixel8 {
	return Pixel8{
		R: scaleDown(p.R),
		G: scaleDown(p.G),
		B: scaleDown(p.B),
		A: scaleDown(p.A),
	}
}

func scaleDown(v uint16) uint8 {
	if v >= Bit15 {
		return 255
	}
	return uint8((uint32(v)*255 + Bit15/2) / Bit15)
}

// CompositeTile renders a single display tile by painting content over
// background, applying opacity and the checker pattern where content is
// transparent — the per-tile unit of work handed to the render pool.
func CompositeTile(background, content *Tile, opacity float32, mode BlendMode) [TileSize * TileSize]Pixel8 {
	var out [TileSize * TileSize]Pixel8
	for i := range out {
		bg := Pixel15{}
		if background != nil {
			bg = background.Pixels[i]
		}
		fg := Pixel15{}
		if content != nil {
			fg = content.Pixels[i]
		}
		blended := Blend(mode, bg, fg, opacity)
		out[i] = ToPixel8(blended)
	}
	return out
}
