package paintengine

import (
	"github.com/gogpu/paintengine/canvas"
	"github.com/gogpu/paintengine/message"
)

// PreviewSublayerID and InspectSublayerID are the reserved negative
// sublayer ids the view composer uses for indirect preview strokes and
// the inspect overlay, respectively.
const (
	PreviewSublayerID = -100
	InspectSublayerID = -200
)

// DrawContext is a placeholder for a draw-context scratch arena, an
// external collaborator out of scope for this engine. It carries no state
// here; Preview.Render accepts one purely to keep the call shape open for
// a future renderer that needs one.
type DrawContext struct{}

// Preview is a local-only overlay on top of the authoritative canvas
// state: not yet committed to history, replaceable and cancellable.
// Exactly one preview is installed at a time.
type Preview interface {
	// Render composites the preview onto cs, given the offset delta
	// between the preview's initial offset (captured at install time)
	// and cs's current offset — the translation needed if the canvas
	// was resized/repositioned since installation.
	Render(cs *canvas.State, dc *DrawContext, dx, dy int) *canvas.State
	// Dispose releases anything the preview holds (e.g. the dab
	// messages a dabs preview was installed with). Must be called
	// exactly once, whether the preview is replaced or the engine shuts
	// down with it still installed.
	Dispose()
}

// nullPreview is the sentinel value meaning "no preview installed",
// stored in the same atomic slot used for real installs so the
// install/clear path stays symmetric.
type nullPreview struct{}

// NewNullPreview returns the sentinel preview used to clear the active
// preview.
func NewNullPreview() Preview { return nullPreview{} }

func (nullPreview) Render(cs *canvas.State, _ *DrawContext, _, _ int) *canvas.State { return cs }
func (nullPreview) Dispose()                                                       {}

func isNullPreview(p Preview) bool {
	_, ok := p.(nullPreview)
	return ok
}

// cutPreview installs an erase sublayer over a rectangular region of a
// layer, optionally masked by a per-pixel alpha mask.
type cutPreview struct {
	layerID         int
	x, y, w, h      int
	mask            []uint8 // 8-bit alpha mask, row-major w*h, or nil
	initOffsetX     int
	initOffsetY     int
}

// NewCutPreview returns a preview that erases the rectangle
// [x,y)-[x+w,y+h) of layerID, or only the pixels where mask's alpha is
// nonzero if a mask is supplied (len(mask) must be w*h).
func NewCutPreview(layerID, x, y, w, h int, mask []uint8, initOffsetX, initOffsetY int) Preview {
	return &cutPreview{layerID: layerID, x: x, y: y, w: w, h: h, mask: mask,
		initOffsetX: initOffsetX, initOffsetY: initOffsetY}
}

func (p *cutPreview) Render(cs *canvas.State, _ *DrawContext, dx, dy int) *canvas.State {
	content := cs.FindContent(p.layerID)
	if content == nil {
		return cs.Clone()
	}
	x, y := p.x+dx, p.y+dy

	return cs.WithLayerContent(p.layerID, func(c *canvas.LayerContent) *canvas.LayerContent {
		cut := &canvas.LayerContent{ID: PreviewSublayerID, Tiles: make([]*canvas.Tile, cs.TilesX()*cs.TilesY())}
		if p.mask == nil {
			fillRectAcrossTiles(cut, cs.TilesX(), x, y, x+p.w, y+p.h, canvas.Pixel15{A: canvas.Bit15})
		} else {
			stampMaskAcrossTiles(cut, cs.TilesX(), x, y, p.w, p.h, p.mask)
		}
		sub := &canvas.Sublayer{ID: PreviewSublayerID, Opacity: canvas.Bit15, Blend: canvas.BlendErase, Content: cut}
		clone := &canvas.LayerContent{ID: c.ID, Tiles: c.Tiles, Sublayers: replaceSublayer(c.Sublayers, sub)}
		return clone
	})
}

func (p *cutPreview) Dispose() {}

// dabsPreview paints a sequence of held dab messages either straight
// into the target layer, or into an indirect preview sublayer whose
// blend/opacity derive from the first indirect message.
type dabsPreview struct {
	layerID     int
	msgs        []*message.Message
	initOffsetX int
	initOffsetY int
	indirect    bool
	opacity     uint16
	blend       canvas.BlendMode
}

// NewDabsPreview returns a preview that paints msgs (each a draw-dabs
// family message) onto layerID.
func NewDabsPreview(layerID int, msgs []*message.Message, initOffsetX, initOffsetY int) Preview {
	p := &dabsPreview{layerID: layerID, msgs: msgs, initOffsetX: initOffsetX, initOffsetY: initOffsetY,
		opacity: canvas.Bit15, blend: canvas.BlendNormal}
	for _, m := range msgs {
		if indirectOf(m) {
			p.indirect = true
			p.opacity, p.blend = opacityBlendOf(m)
			break
		}
	}
	return p
}

func (p *dabsPreview) Render(cs *canvas.State, _ *DrawContext, dx, dy int) *canvas.State {
	content := cs.FindContent(p.layerID)
	if content == nil {
		return cs.Clone()
	}

	return cs.WithLayerContent(p.layerID, func(c *canvas.LayerContent) *canvas.LayerContent {
		target := c
		if p.indirect {
			sub := findSublayer(c.Sublayers, PreviewSublayerID)
			if sub == nil {
				sub = &canvas.Sublayer{ID: PreviewSublayerID, Opacity: p.opacity, Blend: p.blend,
					Content: &canvas.LayerContent{ID: PreviewSublayerID, Tiles: make([]*canvas.Tile, cs.TilesX()*cs.TilesY())}}
			}
			paintMessagesInto(sub.Content, cs.TilesX(), p.msgs, dx, dy)
			return &canvas.LayerContent{ID: c.ID, Tiles: c.Tiles, Sublayers: replaceSublayer(c.Sublayers, sub)}
		}
		clone := &canvas.LayerContent{ID: target.ID, Tiles: append([]*canvas.Tile(nil), target.Tiles...), Sublayers: target.Sublayers}
		paintMessagesInto(clone, cs.TilesX(), p.msgs, dx, dy)
		return clone
	})
}

func (p *dabsPreview) Dispose() {
	p.msgs = nil
}

func indirectOf(m *message.Message) bool {
	switch p := m.Payload.(type) {
	case message.DrawDabsClassic:
		return p.Indirect
	case message.DrawDabsPixel:
		return p.Indirect
	default:
		return false
	}
}

func opacityBlendOf(m *message.Message) (uint16, canvas.BlendMode) {
	switch p := m.Payload.(type) {
	case message.DrawDabsClassic:
		return canvas.Bit15, canvas.BlendMode(p.Mode)
	case message.DrawDabsPixel:
		return canvas.Bit15, canvas.BlendMode(p.Mode)
	default:
		return canvas.Bit15, canvas.BlendNormal
	}
}

func findSublayer(subs []*canvas.Sublayer, id int) *canvas.Sublayer {
	for _, s := range subs {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func replaceSublayer(subs []*canvas.Sublayer, next *canvas.Sublayer) []*canvas.Sublayer {
	out := make([]*canvas.Sublayer, 0, len(subs)+1)
	replaced := false
	for _, s := range subs {
		if s.ID == next.ID {
			out = append(out, next)
			replaced = true
		} else {
			out = append(out, s)
		}
	}
	if !replaced {
		out = append(out, next)
	}
	return out
}
