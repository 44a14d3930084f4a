package renderpool

import (
	"sync/atomic"
	"testing"
)

func TestExecuteAllRunsEveryItem(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var count atomic.Int32
	work := make([]func(), 50)
	for i := range work {
		work[i] = func() { count.Add(1) }
	}
	p.ExecuteAll(work)

	if got := count.Load(); got != 50 {
		t.Fatalf("count = %d, want 50", got)
	}
}

func TestExecuteAllOnClosedPoolIsNoop(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()

	var count atomic.Int32
	p.ExecuteAll([]func(){func() { count.Add(1) }})
	if got := count.Load(); got != 0 {
		t.Fatalf("count = %d, want 0 on a closed pool", got)
	}
}

func TestNewWorkerPoolDefaultsWorkers(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()
	if p.Workers() <= 0 {
		t.Fatalf("Workers() = %d, want > 0 when constructed with 0", p.Workers())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close() // must not panic or block
	if p.IsRunning() {
		t.Fatal("expected IsRunning false after Close")
	}
}
