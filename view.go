package paintengine

import (
	"log/slog"

	"github.com/gogpu/paintengine/canvas"
	"github.com/gogpu/paintengine/history"
)

// inspectOpacity is the 75% opacity the inspect overlay uses to highlight
// a context's strokes without fully hiding what's beneath them.
const inspectOpacity = uint16(canvas.Bit15 * 3 / 4)

// Tick is the engine's view-composition step: it exchanges any pending
// catchup progress, pulls the latest history snapshot (if any), installs
// a newly-set preview (disposing whatever it displaces), and — if
// anything changed — recomposes history through apply_preview,
// apply_inspect, apply_local_layer_props and the censorship pass into a
// new display state, diffing it against the previous one and firing cb
// for every change. Tick is not safe to call from more than one goroutine
// at a time; callers typically drive it from a single UI/render loop.
func (e *Engine) Tick(cb EmitCallbacks) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	if old := e.catchup.Swap(-1); old != -1 && cb.CatchupProgress != nil {
		cb.CatchupProgress(int(old))
	}

	var cursors []history.UserCursor
	newHistCS := e.hist.CompareAndGet(e.historyCS, &cursors)
	historyChanged := newHistCS != nil
	if historyChanged {
		e.historyCS = newHistCS
	}

	previewChanged := false
	if slot := e.nextPreview.Swap(nil); slot != nil {
		old := e.preview
		e.preview = slot.preview
		e.previewOX, e.previewOY = slot.initOffsetX, slot.initOffsetY
		if old != nil {
			old.Dispose()
		}
		previewChanged = true
	}

	localViewChanged := e.localView.dirty

	if historyChanged || previewChanged || localViewChanged {
		cs := e.historyCS
		cs = e.applyPreview(cs)
		cs = e.applyInspect(cs)
		cs = e.applyLocalLayerProps(cs)
		cs = e.applyCensorship(cs)

		oldView := e.viewCS.Load()
		diff := canvas.NewDiff(oldView, cs)
		e.viewCS.Store(cs)
		e.emit(oldView, cs, diff, cb)
	}

	for _, c := range cursors {
		if cb.CursorMoved != nil {
			cb.CursorMoved(c.ContextID, c.LayerID, c.X, c.Y)
		}
	}

	Logger().Debug("tick", slog.Bool("historyChanged", historyChanged),
		slog.Bool("previewChanged", previewChanged), slog.Bool("localViewChanged", localViewChanged))
}

// applyPreview composites the active preview onto cs, translating it by
// the offset delta between its installation baseline and cs's current
// offset. A null preview is a no-op.
func (e *Engine) applyPreview(cs *canvas.State) *canvas.State {
	if isNullPreview(e.preview) {
		return cs
	}
	dx := cs.OffsetX - e.previewOX
	dy := cs.OffsetY - e.previewOY
	return e.preview.Render(cs, &DrawContext{}, dx, dy)
}

// applyInspect overlays a highlight sublayer on every leaf layer tile
// painted by the context currently under inspection, using the censored
// placeholder tile as the highlight's source pixels.
func (e *Engine) applyInspect(cs *canvas.State) *canvas.State {
	if e.localView.inspectContextID < 0 {
		return cs
	}
	ctxID := uint8(e.localView.inspectContextID)
	highlight := canvas.Censored()

	return cs.WithAllLeafContents(func(c *canvas.LayerContent) *canvas.LayerContent {
		touched := false
		for _, t := range c.Tiles {
			if t != nil && t.ContextID == ctxID {
				touched = true
				break
			}
		}
		if !touched {
			return c
		}
		overlay := &canvas.LayerContent{ID: InspectSublayerID, Tiles: make([]*canvas.Tile, len(c.Tiles))}
		for i, t := range c.Tiles {
			if t != nil && t.ContextID == ctxID {
				overlay.Tiles[i] = highlight
			}
		}
		sub := &canvas.Sublayer{ID: InspectSublayerID, Opacity: inspectOpacity, Blend: canvas.BlendRecolor, Content: overlay}
		return &canvas.LayerContent{ID: c.ID, Tiles: c.Tiles, Sublayers: replaceSublayer(c.Sublayers, sub)}
	})
}

// applyLocalLayerProps folds the local view's solo-mode and persistent
// hidden-list settings into a view-only LayerPropsList, memoizing the
// result so an unchanged history props tree and unchanged local-view
// settings cost nothing on a subsequent tick.
func (e *Engine) applyLocalLayerProps(cs *canvas.State) *canvas.State {
	lv := &e.localView
	if !lv.dirty && lv.prevRootLPL == cs.LayerProps && lv.lpl != nil {
		if lv.lpl == cs.LayerProps {
			return cs
		}
		cp := cs.Clone()
		cp.LayerProps = lv.lpl
		return cp
	}

	next := cs.WithAllLeafProps(func(p *canvas.LayerProps) *canvas.LayerProps {
		hidden := p.Hidden || lv.hiddenLayers[p.ID]
		hiddenByMode := lv.viewMode == canvas.LayerViewModeSolo && p.ID != lv.activeLayerID
		if hidden == p.Hidden && hiddenByMode == p.HiddenByViewMode {
			return p
		}
		np := *p
		np.Hidden = hidden
		np.HiddenByViewMode = hiddenByMode
		return &np
	})

	lv.prevRootLPL = cs.LayerProps
	lv.lpl = next.LayerProps
	lv.dirty = false
	return next
}

// applyCensorship swaps every tile of a Censored layer for the shared
// placeholder tile, unless this viewer has reveal-censored in effect.
func (e *Engine) applyCensorship(cs *canvas.State) *canvas.State {
	if e.localView.revealCensored {
		return cs
	}
	censored := canvas.Censored()

	return cs.WithAllLeafContents(func(c *canvas.LayerContent) *canvas.LayerContent {
		props := cs.FindProps(c.ID)
		if props == nil || !props.Censored {
			return c
		}
		alreadyCensored := true
		for _, t := range c.Tiles {
			if t != censored {
				alreadyCensored = false
				break
			}
		}
		if alreadyCensored {
			return c
		}
		clone := &canvas.LayerContent{ID: c.ID, Tiles: make([]*canvas.Tile, len(c.Tiles)), Sublayers: c.Sublayers}
		for i := range clone.Tiles {
			clone.Tiles[i] = censored
		}
		return clone
	})
}
