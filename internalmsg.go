package paintengine

import (
	"log/slog"

	"github.com/gogpu/paintengine/message"
)

// Cleanup enqueues a cleanup request for a disconnected context id. The
// paint goroutine accepts the request and does nothing with it: history
// is not called, and a context's buffered cursor position stays until the
// next CompareAndGet drains the cursor buffer.
func (e *Engine) Cleanup(contextID uint8) {
	e.enqueueInternal(message.InternalCleanup, message.InternalPayload{Subtype: message.InternalCleanup, CatchupProgress: int(contextID)})
}

// handleInternal dispatches a TypeInternal message to the corresponding
// history or engine-local action. Runs on the paint goroutine, so it
// never races with any other apply path.
func (e *Engine) handleInternal(msg *message.Message) {
	payload, ok := msg.Payload.(message.InternalPayload)
	if !ok {
		return
	}

	switch payload.Subtype {
	case message.InternalReset:
		e.hist.Reset()
		Logger().Info("canvas reset")
	case message.InternalSoftReset:
		e.hist.SoftReset()
		Logger().Info("canvas soft reset")
	case message.InternalSnapshot:
		if !e.hist.Snapshot() {
			Logger().Warn("snapshot request failed", slog.Any("error", ErrSnapshotFailed))
		}
	case message.InternalCatchup:
		e.catchup.Store(int64(payload.CatchupProgress))
	case message.InternalCleanup:
		// No per-context bookkeeping beyond cursors is kept in this
		// history; cursors are naturally
		// superseded by fresh move-pointer messages, so there is nothing
		// further to release here.
	case message.InternalPreview:
		p, _ := payload.Preview.(Preview)
		if p == nil {
			p = NewNullPreview()
		}
		cs := e.viewCS.Load()
		slot := &previewSlot{preview: p, initOffsetX: cs.OffsetX, initOffsetY: cs.OffsetY}
		if old := e.nextPreview.Swap(slot); old != nil && old.preview != nil {
			old.preview.Dispose()
		}
	}
}
