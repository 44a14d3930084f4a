package paintengine

import (
	"context"
	"testing"

	"github.com/gogpu/paintengine/message"
)

func classicDab(layer int, size int32) *message.Message {
	return message.New(message.TypeDrawDabsClassic, 1, message.DrawDabsClassic{
		Layer: layer,
		Dabs:  []message.ClassicDab{{Size: size}},
	})
}

func TestQueuePairLocalHasPriorityOverRemote(t *testing.T) {
	q := newQueuePair(0)
	remote := classicDab(1, 256)
	local := classicDab(1, 512)

	q.push(false, []*message.Message{remote})
	q.push(true, []*message.Message{local})

	msg, isLocal, ok := q.popFront()
	if !ok {
		t.Fatal("popFront returned no message")
	}
	if !isLocal {
		t.Fatal("popFront should prefer the local queue when both are nonempty")
	}
	if msg != local {
		t.Fatal("popFront returned the wrong message for the local queue")
	}

	msg, isLocal, ok = q.popFront()
	if !ok || isLocal || msg != remote {
		t.Fatal("popFront should fall back to the remote queue once local is empty")
	}
}

func TestQueuePairPopFrontEmptyReturnsFalse(t *testing.T) {
	q := newQueuePair(0)
	if _, _, ok := q.popFront(); ok {
		t.Fatal("popFront on empty queues returned ok=true")
	}
}

func TestQueuePairWaitUnblocksOnPush(t *testing.T) {
	q := newQueuePair(0)
	q.push(true, []*message.Message{classicDab(1, 256)})
	if err := q.wait(context.Background()); err != nil {
		t.Fatalf("wait() = %v, want nil", err)
	}
}

func TestQueuePairDrainBatchRespectsMessageCountBound(t *testing.T) {
	q := newQueuePair(0)
	var msgs []*message.Message
	for i := 0; i < MaxMultidabMessages+10; i++ {
		msgs = append(msgs, classicDab(1, 256)) // diameter 2, area 4
	}
	q.push(true, msgs)

	first, isLocal, ok := q.popFront()
	if !ok || !isLocal {
		t.Fatal("expected to pop the first local message")
	}
	batch := q.drainBatch(true, messageArea(first))
	if len(batch)+1 != MaxMultidabMessages {
		t.Fatalf("batch (incl. first) size = %d, want exactly %d given the supply exceeds the bound", len(batch)+1, MaxMultidabMessages)
	}
}

func TestQueuePairDrainBatchRespectsAreaBound(t *testing.T) {
	q := newQueuePair(0)
	// Each classic dab of size 256*128 has diameter 256, area 65536; three
	// of them exceed MaxMultidabArea (256*256*16 = 1048576) only after many
	// more, so pick a size that crosses the cap quickly: diameter 1024 ->
	// area 1048576, exactly the cap, so a second one must not be admitted.
	big := classicDab(1, 256*512) // diameter = 512*2 = 1024, area = 1048576
	q.push(true, []*message.Message{big, big, big})

	first, _, _ := q.popFront()
	area := messageArea(first)
	batch := q.drainBatch(true, area)
	if len(batch) != 0 {
		t.Fatalf("drainBatch admitted %d extra messages once the running area already equals the cap, want 0", len(batch))
	}
}

func TestQueuePairDrainAllReturnsEveryQueuedMessage(t *testing.T) {
	q := newQueuePair(0)
	q.push(true, []*message.Message{classicDab(1, 256), classicDab(1, 256)})
	q.push(false, []*message.Message{classicDab(1, 256)})

	all := q.drainAll()
	if len(all) != 3 {
		t.Fatalf("drainAll returned %d messages, want 3", len(all))
	}
	if len(q.local) != 0 || len(q.remote) != 0 {
		t.Fatal("drainAll should empty both queues")
	}
}
