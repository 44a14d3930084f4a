package paintengine

import "github.com/gogpu/paintengine/message"

// Multidab batching bounds.
const (
	// MaxMultidabMessages bounds how many messages the paint thread will
	// fold into a single batch handed to history.
	MaxMultidabMessages = 1024

	// MaxMultidabArea bounds the cumulative dab-area estimate of a batch.
	// Each message's area is checked before it is admitted, so a batch's
	// total never exceeds this cap.
	MaxMultidabArea = 256 * 256 * 16

	// MaxMultidabAreaThreshold is half of MaxMultidabArea: only a first
	// message whose own area estimate is at or below this threshold is
	// eligible to start a batch at all.
	MaxMultidabAreaThreshold = MaxMultidabArea / 2
)

// messageArea returns the cumulative dab-area estimate for msg, or
// MaxMultidabArea+1 for any message that the draw-dabs family formulas
// don't cover — which makes it ineligible to start or extend a batch,
// since every comparison against the threshold/cap will already exceed it.
func messageArea(msg *message.Message) int {
	switch p := msg.Payload.(type) {
	case message.DrawDabsClassic:
		return sumArea(len(p.Dabs), func(i int) int {
			// diameter = size/256*2
			d := int(p.Dabs[i].Size) / 256 * 2
			return dabArea(d)
		})
	case message.DrawDabsPixel:
		return sumArea(len(p.Dabs), func(i int) int {
			// radius = size; diameter = radius*2
			d := int(p.Dabs[i].Size) * 2
			return dabArea(d)
		})
	case message.DrawDabsMyPaint:
		return sumArea(len(p.Dabs), func(i int) int {
			// diameter = size/256, deliberately not doubled (wire quirk)
			d := int(p.Dabs[i].Size) / 256
			return dabArea(d)
		})
	default:
		return MaxMultidabArea + 1
	}
}

func sumArea(n int, areaOf func(i int) int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += areaOf(i)
	}
	return total
}

// dabArea is max(1, diameter²).
func dabArea(diameter int) int {
	a := diameter * diameter
	if a < 1 {
		return 1
	}
	return a
}
