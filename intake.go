package paintengine

import (
	"log/slog"

	"github.com/gogpu/paintengine/acl"
	"github.com/gogpu/paintengine/message"
)

// IntakeCallbacks are the four callbacks HandleInc fires after a batch
// has been filtered and enqueued. The engine always fires them in this
// fixed order: ACLChanged, then LaserTrail/PointerMoved in first-touched
// order, then DefaultLayerSet, since a UI relies on ACL updates arriving
// before visual state.
type IntakeCallbacks struct {
	ACLChanged     func(changeMask uint32)
	LaserTrail     func(contextID uint8, persistence uint8, color uint32)
	PointerMoved   func(contextID uint8, x, y int32)
	DefaultLayerSet func(layerID uint16)
}

// HandleInc filters and enqueues a batch of messages, local or remote,
// and returns the number actually pushed to a queue.
func (e *Engine) HandleInc(local bool, msgs []*message.Message, cb IntakeCallbacks) int {
	if e.closed.Load() {
		panic("paintengine: HandleInc called after Close")
	}

	var (
		toPush        []*message.Message
		changeMask    uint32
		touchedOrder  []uint8
		touchedSeen   = make(map[uint8]bool)
		laserByCtx    = make(map[uint8]message.LaserTrailPayload)
		pointerByCtx  = make(map[uint8]message.MovePointerPayload)
		defaultLayer  uint16
		haveDefault   bool
	)

	touch := func(ctx uint8) {
		if !touchedSeen[ctx] {
			touchedSeen[ctx] = true
			touchedOrder = append(touchedOrder, ctx)
		}
	}

	for _, msg := range msgs {
		if local {
			if msg.Type.IsInternalOrCommand() {
				toPush = append(toPush, msg)
			}
			continue
		}

		bits := e.acl.Handle(msg)
		changeMask |= bits &^ acl.Filtered
		if bits&acl.Filtered != 0 {
			continue
		}

		switch {
		case msg.Type.IsInternalOrCommand():
			toPush = append(toPush, msg)
		case msg.Type == message.TypeLaserTrail:
			if p, ok := msg.Payload.(message.LaserTrailPayload); ok {
				laserByCtx[msg.ContextID] = p
				touch(msg.ContextID)
			}
		case msg.Type == message.TypeMovePointer:
			if p, ok := msg.Payload.(message.MovePointerPayload); ok {
				pointerByCtx[msg.ContextID] = p
				touch(msg.ContextID)
			}
		case msg.Type == message.TypeDefaultLayer:
			if p, ok := msg.Payload.(message.DefaultLayerPayload); ok {
				defaultLayer = p.LayerID
				haveDefault = true
			}
		}
	}

	n := e.queues.push(local, toPush)

	if changeMask != 0 && cb.ACLChanged != nil {
		cb.ACLChanged(changeMask)
	}
	for _, ctx := range touchedOrder {
		if p, ok := laserByCtx[ctx]; ok && cb.LaserTrail != nil {
			cb.LaserTrail(ctx, p.Persistence, p.Color)
		}
	}
	for _, ctx := range touchedOrder {
		if p, ok := pointerByCtx[ctx]; ok && cb.PointerMoved != nil {
			cb.PointerMoved(ctx, p.X, p.Y)
		}
	}
	if haveDefault && cb.DefaultLayerSet != nil {
		cb.DefaultLayerSet(defaultLayer)
	}

	Logger().Debug("handle_inc", slog.Bool("local", local), slog.Int("received", len(msgs)), slog.Int("pushed", n))
	return n
}
