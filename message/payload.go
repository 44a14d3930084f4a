package message

import "github.com/gogpu/paintengine/canvas"

// InternalType discriminates the sub-kind of a TypeInternal message.
type InternalType int

const (
	InternalReset InternalType = iota
	InternalSoftReset
	InternalSnapshot
	InternalCatchup
	InternalCleanup
	InternalPreview
)

// InternalPayload is the Payload of a TypeInternal Message.
type InternalPayload struct {
	Subtype InternalType

	// CatchupProgress is valid when Subtype == InternalCatchup: a 0-100
	// hydration progress value.
	CatchupProgress int

	// Preview is valid when Subtype == InternalPreview: the preview to
	// install, swapped atomically into the engine's next-preview slot. The
	// engine treats a nil Preview the same as the dedicated null-preview
	// value (see preview.go): both clear the current preview.
	Preview any
}

// ClassicDab is a single stamp in a DrawDabsClassic message. Size is a
// fixed-point diameter-ish value in 1/256ths, matching the wire protocol.
type ClassicDab struct {
	X, Y int32
	Size int32
}

// PixelDab is a single stamp in a DrawDabsPixel/DrawDabsPixelSquare message.
// Size is the dab's radius in whole pixels.
type PixelDab struct {
	X, Y int32
	Size int32
}

// MyPaintDab is a single stamp in a DrawDabsMyPaint message.
type MyPaintDab struct {
	X, Y int32
	Size int32
}

// DrawDabsClassic is the payload of a TypeDrawDabsClassic Message.
type DrawDabsClassic struct {
	Layer    int
	X, Y     int32
	Fill     uint32
	Mode     int
	Indirect bool
	Dabs     []ClassicDab
}

// DrawDabsPixel is the payload of a TypeDrawDabsPixel/TypeDrawDabsPixelSquare
// Message.
type DrawDabsPixel struct {
	Layer    int
	X, Y     int32
	Fill     uint32
	Mode     int
	Indirect bool
	Dabs     []PixelDab
}

// DrawDabsMyPaint is the payload of a TypeDrawDabsMyPaint Message.
type DrawDabsMyPaint struct {
	Layer     int
	X, Y      int32
	Fill      uint32
	LockAlpha bool
	Dabs      []MyPaintDab
}

// LaserTrailPayload is the payload of a TypeLaserTrail Message.
type LaserTrailPayload struct {
	Persistence uint8
	Color       uint32 // BGRA, matching the wire format
}

// MovePointerPayload is the payload of a TypeMovePointer Message.
type MovePointerPayload struct {
	LayerID int
	X, Y    int32
}

// DefaultLayerPayload is the payload of a TypeDefaultLayer Message.
type DefaultLayerPayload struct {
	LayerID uint16
}

// Dab is the family-agnostic view of a single stamp that history's
// simplified rasterizer consumes, collapsing the three wire dab shapes
// (classic/pixel/mypaint) down to an offset and a pixel radius.
type Dab struct {
	OffsetX, OffsetY int
	Radius           int
}

// DrawDabsPayload is implemented by DrawDabsClassic, DrawDabsPixel, and
// DrawDabsMyPaint, letting history.applyDrawDabs handle all three
// families through one code path.
type DrawDabsPayload interface {
	LayerID() int
	Origin() (int, int)
	Dabs() []Dab
	Color() canvas.Pixel15
}

// colorFromARGB8888 converts the wire's packed 0xAARRGGBB colour into a
// straight-alpha 15-bit pixel.
func colorFromARGB8888(c uint32) canvas.Pixel15 {
	a := uint16(((c >> 24) & 0xff) * canvas.Bit15 / 255)
	r := uint16(((c >> 16) & 0xff) * canvas.Bit15 / 255)
	g := uint16(((c >> 8) & 0xff) * canvas.Bit15 / 255)
	b := uint16((c & 0xff) * canvas.Bit15 / 255)
	return canvas.Pixel15{R: r, G: g, B: b, A: a}
}

func (p DrawDabsClassic) LayerID() int         { return p.Layer }
func (p DrawDabsClassic) Origin() (int, int)   { return int(p.X), int(p.Y) }
func (p DrawDabsClassic) Color() canvas.Pixel15 { return colorFromARGB8888(p.Fill) }

// Dabs converts classic dabs into the family-agnostic Dab shape. Classic
// dab size is a 1/256 fixed-point diameter-ish quantity; the multidab
// area formula uses size/256*2, so the rasterizer works back from that to
// a pixel radius of size/256.
func (p DrawDabsClassic) Dabs() []Dab {
	out := make([]Dab, len(p.Dabs))
	for i, d := range p.Dabs {
		out[i] = Dab{OffsetX: int(d.X), OffsetY: int(d.Y), Radius: int(d.Size) / 256}
	}
	return out
}

func (p DrawDabsPixel) LayerID() int         { return p.Layer }
func (p DrawDabsPixel) Origin() (int, int)   { return int(p.X), int(p.Y) }
func (p DrawDabsPixel) Color() canvas.Pixel15 { return colorFromARGB8888(p.Fill) }

// Dabs converts pixel dabs: Size is already a whole-pixel radius.
func (p DrawDabsPixel) Dabs() []Dab {
	out := make([]Dab, len(p.Dabs))
	for i, d := range p.Dabs {
		out[i] = Dab{OffsetX: int(d.X), OffsetY: int(d.Y), Radius: int(d.Size)}
	}
	return out
}

func (p DrawDabsMyPaint) LayerID() int         { return p.Layer }
func (p DrawDabsMyPaint) Origin() (int, int)   { return int(p.X), int(p.Y) }
func (p DrawDabsMyPaint) Color() canvas.Pixel15 { return colorFromARGB8888(p.Fill) }

// Dabs converts MyPaint dabs. MyPaint's size field is in the same 1/256
// units as classic, but unlike classic the multidab area formula never
// doubles it — a quirk preserved from the wire protocol's accounting.
func (p DrawDabsMyPaint) Dabs() []Dab {
	out := make([]Dab, len(p.Dabs))
	for i, d := range p.Dabs {
		out[i] = Dab{OffsetX: int(d.X), OffsetY: int(d.Y), Radius: int(d.Size) / 256}
	}
	return out
}

var (
	_ DrawDabsPayload = DrawDabsClassic{}
	_ DrawDabsPayload = DrawDabsPixel{}
	_ DrawDabsPayload = DrawDabsMyPaint{}
)
