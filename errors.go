package paintengine

import "errors"

// Sentinel errors, in the "pkg: description" style.
var (
	// ErrClosed describes calling a method on an Engine after Close has
	// completed. No method returns it; HandleInc and the internal-message
	// requests panic with a message of their own instead.
	ErrClosed = errors.New("paintengine: engine is closed")

	// ErrNoSuchLayer describes a preview or local-view operation that names
	// a layer id that doesn't exist in the current canvas state. No current
	// operation returns it.
	ErrNoSuchLayer = errors.New("paintengine: no such layer")

	// ErrSnapshotFailed is logged (never returned to a caller with no
	// error channel of their own) when a history snapshot request fails.
	ErrSnapshotFailed = errors.New("paintengine: snapshot request failed")
)
