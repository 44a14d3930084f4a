package paintengine

import (
	"github.com/gogpu/paintengine/canvas"
)

// LocalView holds the local, never-transmitted view settings that shape
// how the authoritative canvas is composed into a display state: which
// layer is "active" for UI purposes, solo/onion-skin mode, whether
// censored content is revealed to this viewer, which context's strokes
// are highlighted by the inspect overlay, and a per-layer hidden set.
//
// Tick is the exclusive mutator of the memoized layer-props-list fields
// (prevRootLPL/lpl); every exported mutator below takes the engine's
// tickMu lock so a caller on any goroutine can change local-view settings
// without racing a concurrent Tick.
type LocalView struct {
	activeLayerID     int
	activeFrameIndex  int
	viewMode          canvas.LayerViewMode
	revealCensored    bool
	inspectContextID  int // -1 means no inspect overlay active
	hiddenLayers      map[int]bool

	// prevRootLPL/lpl memoize the last apply_local_layer_props
	// computation: if the history props list is pointer-identical to
	// prevRootLPL and none of the settings above changed since, view.go
	// reuses lpl instead of recomputing the whole tree.
	prevRootLPL *canvas.LayerPropsList
	lpl         *canvas.LayerPropsList
	dirty       bool
}

func newLocalView() LocalView {
	return LocalView{inspectContextID: -1, hiddenLayers: make(map[int]bool), dirty: true}
}

// ActiveLayerIDSet sets the UI's notion of the active layer. In Solo view
// mode this changes which leaf layer stays visible, so it invalidates the
// memoized overlay whenever Solo mode is in effect; in every other mode
// the active layer is purely informational and doesn't affect
// composition.
func (e *Engine) ActiveLayerIDSet(id int) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if e.localView.activeLayerID == id {
		return
	}
	e.localView.activeLayerID = id
	if e.localView.viewMode == canvas.LayerViewModeSolo {
		e.localView.dirty = true
	}
}

// ActiveFrameIndexSet sets the active timeline frame index and, in
// onion-skin view mode, forces a fresh composition. The composer does not
// read the index: no view mode selects layers by frame.
func (e *Engine) ActiveFrameIndexSet(index int) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if e.localView.activeFrameIndex == index {
		return
	}
	e.localView.activeFrameIndex = index
	if e.localView.viewMode == canvas.LayerViewModeOnionSkin {
		e.localView.dirty = true
	}
}

// ViewModeSet changes the solo/frame/onion-skin view mode, invalidating
// the memoized props list since the set of visible layers can change.
func (e *Engine) ViewModeSet(mode canvas.LayerViewMode) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if e.localView.viewMode == mode {
		return
	}
	e.localView.viewMode = mode
	e.localView.dirty = true
}

// RevealCensoredSet toggles whether this viewer sees censored content as
// its real pixels rather than the censor placeholder.
func (e *Engine) RevealCensoredSet(reveal bool) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if e.localView.revealCensored == reveal {
		return
	}
	e.localView.revealCensored = reveal
	e.localView.dirty = true
}

// LayerVisibilitySet persistently hides or shows a layer id for this
// viewer, independent of the canvas's own layer props.
func (e *Engine) LayerVisibilitySet(layerID int, hidden bool) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if hidden {
		if e.localView.hiddenLayers[layerID] {
			return
		}
		e.localView.hiddenLayers[layerID] = true
	} else {
		if !e.localView.hiddenLayers[layerID] {
			return
		}
		delete(e.localView.hiddenLayers, layerID)
	}
	e.localView.dirty = true
}

// InspectContextIDSet sets which context id's strokes the inspect
// overlay highlights, or -1 to disable the overlay.
func (e *Engine) InspectContextIDSet(contextID int) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	if e.localView.inspectContextID == contextID {
		return
	}
	e.localView.inspectContextID = contextID
	// Tick applies the inspect overlay before applyLocalLayerProps; dirty
	// forces a fresh composition, which also recomputes the memoized
	// props list.
	e.localView.dirty = true
}
