package canvas

// BlendMode selects how a layer or sublayer composites onto what's beneath
// it. Only the handful of modes the paint engine itself reasons about are
// modelled here; full blend-mode fidelity belongs to a draw-context's own
// pixel-blending primitives, which this engine never implements.
type BlendMode uint8

const (
	// BlendNormal is standard source-over compositing.
	BlendNormal BlendMode = iota
	// BlendBehind composites the source underneath the destination
	// (dest-over) — used to lay the checker background under a tile.
	BlendBehind
	// BlendErase subtracts the source's alpha from the destination's,
	// used by the cut preview's erase sublayer.
	BlendErase
	// BlendRecolor replaces the destination's colour (not alpha) with the
	// source's, used by the inspect overlay.
	BlendRecolor
	// BlendReplace overwrites the destination outright. No preview in the
	// engine composites with it; the cut preview fills its rectangle with
	// FillRect and erases through a BlendErase sublayer.
	BlendReplace
	// BlendNormalAndEraser is BlendNormal for painting purposes; it only
	// exists to round-trip MyPaint dab messages through the preview path
	// and is treated identically to BlendNormal everywhere a composite
	// actually happens.
	BlendNormalAndEraser
)

func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "Normal"
	case BlendBehind:
		return "Behind"
	case BlendErase:
		return "Erase"
	case BlendRecolor:
		return "Recolor"
	case BlendReplace:
		return "Replace"
	case BlendNormalAndEraser:
		return "NormalAndEraser"
	default:
		return "Unknown"
	}
}

// channel01 converts a 15-bit channel to the [0,1] range used by the blend
// math below.
func channel01(a uint16) float32 {
	return float32(a) / Bit15
}

func fromChannel01(x float32) uint16 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return Bit15
	}
	return uint16(x * Bit15)
}

// Over composites src onto dst with straight alpha blending, then scales
// src's alpha by opacity (a further [0,1] layer-level multiplier) first.
func Over(dst, src Pixel15, opacity float32) Pixel15 {
	sa := channel01(src.A) * opacity
	da := channel01(dst.A)
	outA := sa + da*(1-sa)
	if outA <= 0 {
		return Pixel15{}
	}
	blendCh := func(sc, dc uint16) uint16 {
		s := channel01(sc)
		d := channel01(dc)
		return fromChannel01((s*sa + d*da*(1-sa)) / outA)
	}
	return Pixel15{
		R: blendCh(src.R, dst.R),
		G: blendCh(src.G, dst.G),
		B: blendCh(src.B, dst.B),
		A: fromChannel01(outA),
	}
}

// Blend applies mode to composite src over dst at the given opacity.
func Blend(mode BlendMode, dst, src Pixel15, opacity float32) Pixel15 {
	switch mode {
	case BlendBehind:
		return Over(src, dst, 1)
	case BlendErase:
		da := channel01(dst.A) - channel01(src.A)*opacity
		if da < 0 {
			da = 0
		}
		out := dst
		out.A = fromChannel01(da)
		return out
	case BlendRecolor:
		if dst.A == 0 {
			return dst
		}
		return Pixel15{R: src.R, G: src.G, B: src.B, A: fromChannel01(channel01(dst.A) * opacity)}
	case BlendReplace:
		out := src
		out.A = fromChannel01(channel01(src.A) * opacity)
		return out
	default: // BlendNormal, BlendNormalAndEraser
		return Over(dst, src, opacity)
	}
}
