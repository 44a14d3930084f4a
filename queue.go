package paintengine

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/gogpu/paintengine/message"
)

// queuePair holds the local and remote message queues the paint thread
// drains, plus the semaphore that counts how many messages are waiting
// across both of them.
//
// queueSem is a golang.org/x/sync/semaphore.Weighted used as an unbounded
// counting semaphore: Release(n) is a producer's coalesced n-message
// post, Acquire(ctx, 1) is the paint thread's wait, and TryAcquire(n) is
// the batching consumer's extra decrement for messages it pulls out of
// the queue without a fresh wait.
type queuePair struct {
	mu     sync.Mutex
	local  []*message.Message
	remote []*message.Message

	queueSem *semaphore.Weighted

	// maxArea bounds drainBatch's cumulative dab-area estimate for a
	// single batch; maxAreaThreshold (half of maxArea) is the cap a lead
	// message's own area must not exceed to be eligible to start a batch
	// at all. Both default to MaxMultidabArea/MaxMultidabAreaThreshold but
	// are configurable per engine via WithMultidabArea.
	maxArea          int
	maxAreaThreshold int
}

// unboundedWeight is large enough that the semaphore never refuses a
// Release call; this queue has no backpressure, it only ever counts up
// from producers and down from the single paint thread.
const unboundedWeight = math.MaxInt64

// newQueuePair returns a queuePair whose batching area cap is maxArea, or
// MaxMultidabArea if maxArea is zero or negative.
func newQueuePair(maxArea int) *queuePair {
	if maxArea <= 0 {
		maxArea = MaxMultidabArea
	}
	return &queuePair{
		queueSem:         semaphore.NewWeighted(unboundedWeight),
		maxArea:          maxArea,
		maxAreaThreshold: maxArea / 2,
	}
}

// push appends msgs to the local or remote queue under a single lock
// region and posts the semaphore once for the whole batch, coalescing
// what would otherwise be one signal per message into a single N-signal.
func (q *queuePair) push(local bool, msgs []*message.Message) int {
	if len(msgs) == 0 {
		return 0
	}
	q.mu.Lock()
	if local {
		q.local = append(q.local, msgs...)
	} else {
		q.remote = append(q.remote, msgs...)
	}
	q.queueSem.Release(int64(len(msgs)))
	q.mu.Unlock()
	return len(msgs)
}

// wakeShutdown posts a single extra signal so a paint thread blocked in
// Acquire wakes up and observes running=false.
func (q *queuePair) wakeShutdown() {
	q.queueSem.Release(1)
}

// wait blocks until at least one message (or a shutdown wake-up) is
// available.
func (q *queuePair) wait(ctx context.Context) error {
	return q.queueSem.Acquire(ctx, 1)
}

// popFront removes and returns the frontmost message: local queue has
// priority, remote is consulted only when local is empty. The boolean
// reports whether the popped message came from the local queue.
func (q *queuePair) popFront() (*message.Message, bool, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.local) > 0 {
		m := q.local[0]
		q.local = q.local[1:]
		return m, true, true
	}
	if len(q.remote) > 0 {
		m := q.remote[0]
		q.remote = q.remote[1:]
		return m, false, true
	}
	return nil, false, false
}

// drainBatch peeks and removes up to MaxMultidabMessages-1 further
// messages from the same queue (local or remote) as long as the
// cumulative dab area, added to runningArea, stays within q.maxArea. It
// returns the drained messages; for each one the caller must release one
// semaphore unit it no longer needs to wait for (the producer already
// posted one unit per message).
func (q *queuePair) drainBatch(local bool, runningArea int) []*message.Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := &q.remote
	if local {
		queue = &q.local
	}

	var batch []*message.Message
	for len(*queue) > 0 && len(batch)+1 < MaxMultidabMessages {
		next := (*queue)[0]
		if !next.Type.IsDrawDabs() {
			break
		}
		area := messageArea(next)
		if runningArea+area > q.maxArea {
			break
		}
		runningArea += area
		batch = append(batch, next)
		*queue = (*queue)[1:]
	}
	return batch
}

// release decrements the semaphore by n without blocking, for messages
// drainBatch already removed from the queue under the same lock epoch
// the producer's posts protect.
func (q *queuePair) release(n int) {
	if n <= 0 {
		return
	}
	q.queueSem.TryAcquire(int64(n))
}

// drainAll empties both queues, returning every message still queued —
// used by Close to account for every message that was ever pushed but
// never consumed.
func (q *queuePair) drainAll() []*message.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	all := make([]*message.Message, 0, len(q.local)+len(q.remote))
	all = append(all, q.local...)
	all = append(all, q.remote...)
	q.local = nil
	q.remote = nil
	return all
}
