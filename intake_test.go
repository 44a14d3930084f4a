package paintengine

import (
	"testing"

	"github.com/gogpu/paintengine/message"
)

func TestHandleIncLocalDropsMetaKeepsInternalAndCommand(t *testing.T) {
	e := NewEngine(64, 64)
	defer e.Close()

	msgs := []*message.Message{
		message.New(message.TypeLaserTrail, 1, message.LaserTrailPayload{}),
		message.New(message.TypeMovePointer, 1, message.MovePointerPayload{}),
		message.New(message.TypeDefaultLayer, 1, message.DefaultLayerPayload{}),
		message.New(message.TypeDrawDabsClassic, 1, message.DrawDabsClassic{Layer: 1}),
	}
	n := e.HandleInc(true, msgs, IntakeCallbacks{})
	if n != 1 {
		t.Fatalf("HandleInc(local) pushed %d, want 1 (only the command message)", n)
	}
}

func TestHandleIncRemoteFiltersContext(t *testing.T) {
	e := NewEngine(64, 64)
	defer e.Close()
	e.acl.SetFiltered(1, true)

	msgs := []*message.Message{
		message.New(message.TypeDrawDabsClassic, 1, message.DrawDabsClassic{Layer: 1}),
	}
	var aclFired bool
	n := e.HandleInc(false, msgs, IntakeCallbacks{ACLChanged: func(uint32) { aclFired = true }})
	if n != 0 {
		t.Fatalf("HandleInc pushed %d messages for a filtered context, want 0", n)
	}
	// This engine's ACL model carries no dedicated control message, so
	// ChangeMask is always zero and ACLChanged never fires — see acl/acl.go.
	if aclFired {
		t.Fatal("ACLChanged fired despite a zero change mask")
	}
}

func TestHandleIncRemoteAcceptsUnfilteredCommand(t *testing.T) {
	e := NewEngine(64, 64)
	defer e.Close()

	msgs := []*message.Message{
		message.New(message.TypeDrawDabsClassic, 2, message.DrawDabsClassic{Layer: 1}),
	}
	n := e.HandleInc(false, msgs, IntakeCallbacks{})
	if n != 1 {
		t.Fatalf("HandleInc pushed %d, want 1", n)
	}
}

func TestHandleIncFoldsLaserAndPointerByContextLatestWins(t *testing.T) {
	e := NewEngine(64, 64)
	defer e.Close()

	msgs := []*message.Message{
		message.New(message.TypeLaserTrail, 5, message.LaserTrailPayload{Persistence: 1, Color: 0x11223344}),
		message.New(message.TypeLaserTrail, 5, message.LaserTrailPayload{Persistence: 2, Color: 0x55667788}),
		message.New(message.TypeMovePointer, 5, message.MovePointerPayload{X: 10, Y: 10}),
		message.New(message.TypeMovePointer, 5, message.MovePointerPayload{X: 20, Y: 30}),
	}

	var laserCalls int
	var lastPersistence uint8
	var pointerCalls int
	var lastX, lastY int32

	e.HandleInc(false, msgs, IntakeCallbacks{
		LaserTrail: func(contextID uint8, persistence uint8, color uint32) {
			laserCalls++
			lastPersistence = persistence
		},
		PointerMoved: func(contextID uint8, x, y int32) {
			pointerCalls++
			lastX, lastY = x, y
		},
	})

	if laserCalls != 1 {
		t.Fatalf("LaserTrail fired %d times for one context, want 1 (latest wins)", laserCalls)
	}
	if lastPersistence != 2 {
		t.Fatalf("LaserTrail persistence = %d, want 2 (the later message)", lastPersistence)
	}
	if pointerCalls != 1 {
		t.Fatalf("PointerMoved fired %d times for one context, want 1 (latest wins)", pointerCalls)
	}
	if lastX != 20 || lastY != 30 {
		t.Fatalf("PointerMoved reported (%d,%d), want the later message (20,30)", lastX, lastY)
	}
}

func TestHandleIncDefaultLayerLastWins(t *testing.T) {
	e := NewEngine(64, 64)
	defer e.Close()

	msgs := []*message.Message{
		message.New(message.TypeDefaultLayer, 1, message.DefaultLayerPayload{LayerID: 1}),
		message.New(message.TypeDefaultLayer, 1, message.DefaultLayerPayload{LayerID: 9}),
	}
	var got uint16
	var calls int
	e.HandleInc(false, msgs, IntakeCallbacks{DefaultLayerSet: func(id uint16) { calls++; got = id }})
	if calls != 1 {
		t.Fatalf("DefaultLayerSet fired %d times, want 1", calls)
	}
	if got != 9 {
		t.Fatalf("DefaultLayerSet id = %d, want 9 (last wins)", got)
	}
}

func TestHandleIncReturnsZeroForEmptyBatch(t *testing.T) {
	e := NewEngine(64, 64)
	defer e.Close()
	if n := e.HandleInc(true, nil, IntakeCallbacks{}); n != 0 {
		t.Fatalf("HandleInc(nil) = %d, want 0", n)
	}
}
