package paintengine

import "github.com/gogpu/paintengine/canvas"

// EmitCallbacks are the change notifications Tick fires, always in this
// fixed order: CatchupProgress (before composition), then Resized, then
// TileChanged for every changed tile position (row-major), then
// LayerPropsChanged, AnnotationsChanged, DocumentMetadataChanged, and
// finally CursorMoved — so a renderer that reallocates on Resized always
// sees it before any TileChanged for the new size.
type EmitCallbacks struct {
	Resized                 func(oldWidth, oldHeight, newWidth, newHeight, deltaOffsetX, deltaOffsetY int)
	TileChanged             func(x, y int)
	LayerPropsChanged       func()
	AnnotationsChanged      func()
	DocumentMetadataChanged func()
	CatchupProgress         func(percent int)
	CursorMoved             func(contextID uint8, layerID int, x, y float32)
}

// emit walks diff and fires cb's callbacks in the mandated order. newView
// is passed (rather than read back off e.viewCS) so emit always reports
// on exactly the state diff was computed against.
func (e *Engine) emit(oldView, newView *canvas.State, diff *canvas.Diff, cb EmitCallbacks) {
	if diff.Resized && cb.Resized != nil {
		cb.Resized(diff.OldWidth, diff.OldHeight, newView.Width, newView.Height, diff.DeltaOffsetX, diff.DeltaOffsetY)
	}
	if cb.TileChanged != nil {
		diff.EachChangedPos(cb.TileChanged)
	}
	if diff.LayerPropsChanged && cb.LayerPropsChanged != nil {
		cb.LayerPropsChanged()
	}
	if diff.AnnotationsChanged && cb.AnnotationsChanged != nil {
		cb.AnnotationsChanged()
	}
	if diff.MetadataChanged && cb.DocumentMetadataChanged != nil {
		cb.DocumentMetadataChanged()
	}
}
