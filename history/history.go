// Package history owns the authoritative canvas state and applies
// incoming dab and layer messages to it on the single paint goroutine.
// Callers never see a half-applied state: CompareAndGet is the only way
// to observe a new one.
package history

import (
	"sync"

	"github.com/gogpu/paintengine/canvas"
	"github.com/gogpu/paintengine/message"
)

// UserCursorCount bounds the per-tick cursor buffer.
const UserCursorCount = 256

// UserCursor is a single context's last-known pointer position, reported
// out of compare_and_get for the cursor-moved event.
type UserCursor struct {
	ContextID uint8
	LayerID   int
	X, Y      float32
}

// SavePointFunc is invoked whenever history mints a new save point: an
// undo-able state boundary.
type SavePointFunc func(state *canvas.State, snapshotRequested bool)

// History holds the authoritative canvas state and applies incoming
// messages to it one at a time. The engine calls the Handle* methods only
// from its single paint goroutine, while CompareAndGet is called by Tick
// on the caller's goroutine; mu guards the state, the cursor buffer and
// the flags that the two share.
type History struct {
	mu    sync.Mutex
	state *canvas.State

	localDrawingInProgress bool
	snapshotRequested      bool

	cursors map[uint8]UserCursor

	savePointFn SavePointFunc
}

// New returns a History seeded with an empty canvas of the given
// dimensions.
func New(width, height int, savePointFn SavePointFunc) *History {
	return &History{
		state:       canvas.NewState(width, height),
		cursors:     make(map[uint8]UserCursor),
		savePointFn: savePointFn,
	}
}

// Close releases any resources held by h. Go's GC reclaims everything
// else; Close exists for symmetry with the rest of the shutdown path.
func (h *History) Close() {}

// LocalDrawingInProgressSet records whether the local user currently has
// an uncommitted stroke in flight. The flag is only stored: CompareAndGet
// does not read it.
func (h *History) LocalDrawingInProgressSet(inProgress bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.localDrawingInProgress = inProgress
}

// CompareAndGet returns the current canvas state if it differs from prev
// by pointer identity, or nil if nothing has changed since prev was
// captured — the structural-sharing fast path the tick loop relies on to
// skip work entirely on an idle canvas. It also drains the cursor buffer
// into outCursors: every MovePointer seen since the previous
// CompareAndGet call, at most one entry per context (latest wins), and
// clears the buffer so an unchanged tick reports no cursors at all —
// the Go realization of "produces user-cursor positions as a side
// effect" (spec.md §1) and the drain this engine's Tick relies on for
// its steady-state idempotency.
func (h *History) CompareAndGet(prev *canvas.State, outCursors *[]UserCursor) *canvas.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	if outCursors != nil {
		cursors := make([]UserCursor, 0, len(h.cursors))
		for _, c := range h.cursors {
			cursors = append(cursors, c)
		}
		if len(cursors) > UserCursorCount {
			cursors = cursors[:UserCursorCount]
		}
		*outCursors = cursors
		h.cursors = make(map[uint8]UserCursor)
	}

	if h.state == prev {
		return nil
	}
	return h.state
}

// Reset replaces the canvas with a blank one of the same dimensions,
// discarding all layers, props, and annotations — a hard reset requested
// by the server or the local user.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = canvas.NewState(h.state.Width, h.state.Height)
}

// SoftReset re-applies the same save-point notification without altering
// canvas content, used when a soft-reset message arrives mid-session to
// force a fresh save point without discarding drawing.
func (h *History) SoftReset() {
	h.mu.Lock()
	state := h.state
	snapshot := h.snapshotRequested
	h.snapshotRequested = false
	h.mu.Unlock()
	if h.savePointFn != nil {
		h.savePointFn(state, snapshot)
	}
}

// Snapshot requests that the next save point be flagged as a
// snapshot-worthy point (e.g. for session recording), returning true if
// the request was accepted.
func (h *History) Snapshot() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshotRequested = true
	return true
}

// Handle applies a single remote message to the canvas state.
func (h *History) Handle(msg *message.Message) bool {
	return h.apply(msg, false)
}

// HandleLocal applies a single local message to the canvas state.
func (h *History) HandleLocal(msg *message.Message) bool {
	return h.apply(msg, true)
}

// HandleMultidabDec applies a decoded batch of remote draw-dabs messages
// as a unit, the batched counterpart of a single Handle call. It returns
// the number of messages in the batch that a handler rejected, for the
// caller to log.
func (h *History) HandleMultidabDec(msgs []*message.Message) int {
	rejected := 0
	for _, m := range msgs {
		if !h.apply(m, false) {
			rejected++
		}
	}
	return rejected
}

// HandleLocalMultidabDec is the local-origin analogue of
// HandleMultidabDec.
func (h *History) HandleLocalMultidabDec(msgs []*message.Message) int {
	rejected := 0
	for _, m := range msgs {
		if !h.apply(m, true) {
			rejected++
		}
	}
	return rejected
}

func (h *History) apply(msg *message.Message, local bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch msg.Type {
	case message.TypeDrawDabsClassic, message.TypeDrawDabsPixel,
		message.TypeDrawDabsPixelSquare, message.TypeDrawDabsMyPaint:
		h.applyDrawDabs(msg)
	case message.TypeMovePointer:
		h.applyMovePointer(msg)
	default:
		// Other message types (layer creation, props changes, undo) are
		// accepted but don't mutate canvas content; this rasterizer only
		// paints dabs and tracks pointer positions.
	}
	return true
}

func (h *History) applyMovePointer(msg *message.Message) {
	p, ok := msg.Payload.(message.MovePointerPayload)
	if !ok {
		return
	}
	h.cursors[msg.ContextID] = UserCursor{
		ContextID: msg.ContextID,
		LayerID:   p.LayerID,
		X:         float32(p.X) / 4,
		Y:         float32(p.Y) / 4,
	}
}

// applyDrawDabs is a deliberately simplified rasterizer: it fills each
// dab's bounding square with a flat colour rather than a soft-edged stamp
// brush. It exists to give the diff and render paths real content to chase.
func (h *History) applyDrawDabs(msg *message.Message) {
	payload, ok := msg.Payload.(message.DrawDabsPayload)
	if !ok {
		return
	}
	layerID := payload.LayerID()
	originX, originY := payload.Origin()
	color := payload.Color()

	h.ensureLayer(layerID)
	h.state = h.state.WithLayerContent(layerID, func(c *canvas.LayerContent) *canvas.LayerContent {
		clone := cloneOrNewContent(c, layerID, h.state.TilesX()*h.state.TilesY())
		for _, d := range payload.Dabs() {
			px := originX + d.OffsetX
			py := originY + d.OffsetY
			paintSquare(clone, h.state.TilesX(), px, py, d.Radius, color, msg.ContextID)
		}
		return clone
	})
}

// ensureLayer appends a new, empty content layer with the given id if one
// doesn't already exist, so that a draw-dabs message naming a not-yet-seen
// layer id has somewhere to land, since this rasterizer doesn't implement
// dedicated layer creation/ordering messages.
func (h *History) ensureLayer(id int) {
	if _, ok := h.state.Routes().Path(id); ok {
		return
	}
	cp := h.state.Clone()
	entries := append(append([]*canvas.LayerEntry(nil), cp.Root.Entries...), &canvas.LayerEntry{
		Content: &canvas.LayerContent{ID: id, Tiles: make([]*canvas.Tile, cp.TilesX()*cp.TilesY())},
	})
	cp.Root = canvas.NewLayerList(entries)
	props := append(append([]*canvas.LayerProps(nil), cp.LayerProps.Items...), &canvas.LayerProps{
		ID: id, Opacity: canvas.Bit15, Blend: canvas.BlendNormal,
	})
	cp.LayerProps = canvas.NewLayerPropsList(props)
	h.state = cp
}

func cloneOrNewContent(c *canvas.LayerContent, id, tileCount int) *canvas.LayerContent {
	if c != nil {
		cp := &canvas.LayerContent{ID: c.ID, Tiles: append([]*canvas.Tile(nil), c.Tiles...), Sublayers: c.Sublayers}
		return cp
	}
	return &canvas.LayerContent{ID: id, Tiles: make([]*canvas.Tile, tileCount)}
}

// paintSquare fills the pixel square centred at (cx,cy) with the given
// radius into whichever tiles it overlaps, cloning each touched tile
// exactly once so untouched tiles keep their shared pointer.
func paintSquare(content *canvas.LayerContent, tilesX int, cx, cy, radius int, px canvas.Pixel15, contextID uint8) {
	left, top := cx-radius, cy-radius
	right, bottom := cx+radius, cy+radius

	firstTileX, firstTileY := left/canvas.TileSize, top/canvas.TileSize
	lastTileX, lastTileY := right/canvas.TileSize, bottom/canvas.TileSize

	for ty := firstTileY; ty <= lastTileY; ty++ {
		for tx := firstTileX; tx <= lastTileX; tx++ {
			idx := ty*tilesX + tx
			if idx < 0 || idx >= len(content.Tiles) {
				continue
			}
			tile := content.Tiles[idx]
			if tile == nil {
				tile = canvas.NewTile()
			} else {
				tile = tile.Clone()
			}
			tile.ContextID = contextID
			tileLeft, tileTop := tx*canvas.TileSize, ty*canvas.TileSize
			tile.FillRect(left-tileLeft, top-tileTop, right-tileLeft, bottom-tileTop, px)
			content.Tiles[idx] = tile
		}
	}
}
