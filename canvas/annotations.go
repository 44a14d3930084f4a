package canvas

// Annotation is a user-placed text/shape overlay anchored to canvas
// coordinates. The engine treats its content opaquely; only identity and
// bounds matter for diffing and rendering.
type Annotation struct {
	ID                    int
	X, Y, Width, Height   int
	Text                  string
	Background            Pixel15
}

// Annotations is the immutable, ordered set of annotations on a canvas.
// Like LayerPropsList, a nil-vs-unchanged comparison is by pointer
// identity: a diff pass only needs to compare the two Annotations
// pointers, never walk Items.
type Annotations struct {
	Items []*Annotation
}

// Equal reports pointer identity.
func (a *Annotations) Equal(o *Annotations) bool { return a == o }

// Set returns a new Annotations holding items. Callers that want to avoid
// a spurious AnnotationsChanged event on an unchanged set should keep the
// previous pointer themselves rather than calling Set again with the same
// content.
func (a *Annotations) Set(items []*Annotation) *Annotations {
	return &Annotations{Items: items}
}

// DocumentMetadata holds canvas-wide, non-per-layer properties: title,
// frame rate for onion skinning, and similar. The engine only needs
// pointer-identity comparison to know whether to emit a
// DocumentMetadataChanged event.
type DocumentMetadata struct {
	Title      string
	FrameRate  int
	UseTimeline bool
}

// Equal reports pointer identity.
func (d *DocumentMetadata) Equal(o *DocumentMetadata) bool { return d == o }
