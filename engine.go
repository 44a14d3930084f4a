// Package paintengine implements a concurrent paint engine: a single
// paint goroutine applies incoming local and remote drawing messages to
// an authoritative canvas history, while periodic ticks compose that
// history with local-only overlays (previews, the inspect overlay, local
// view settings) into a display-ready canvas state and fan out its
// changed tiles to a render worker pool.
package paintengine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/paintengine/acl"
	"github.com/gogpu/paintengine/canvas"
	"github.com/gogpu/paintengine/history"
	"github.com/gogpu/paintengine/internal/renderpool"
	"github.com/gogpu/paintengine/message"
)

// EngineOption configures an Engine at construction time using the
// functional-options pattern.
type EngineOption func(*engineConfig)

type engineConfig struct {
	renderWorkers int
	savePointFn   history.SavePointFunc
	multidabArea  int
}

// WithRenderWorkers sets the render worker pool's goroutine count. Zero
// or unset means GOMAXPROCS, matching renderpool.NewWorkerPool's default.
func WithRenderWorkers(n int) EngineOption {
	return func(c *engineConfig) { c.renderWorkers = n }
}

// WithSavePointFunc installs a callback invoked whenever history mints a
// new save point.
func WithSavePointFunc(fn history.SavePointFunc) EngineOption {
	return func(c *engineConfig) { c.savePointFn = fn }
}

// WithMultidabArea overrides the cumulative dab-area cap the paint
// goroutine uses to decide how many draw-dabs messages to fold into a
// single history call (see MaxMultidabArea). Zero or unset keeps
// MaxMultidabArea; lowering it trades larger-batch throughput for
// smaller, more frequent history applies.
func WithMultidabArea(area int) EngineOption {
	return func(c *engineConfig) { c.multidabArea = area }
}

// previewSlot wraps a Preview plus the canvas offset captured at install
// time, so Tick can compute the Δoffset a resize since installation would
// require. A fresh slot value is swapped in atomically by handleInternal
// on the paint goroutine when it processes a preview install; Tick swaps
// it out, disposing whatever was displaced.
type previewSlot struct {
	preview     Preview
	initOffsetX int
	initOffsetY int
}

// Engine owns the paint goroutine, the authoritative history, and the
// view-composition state. Callers feed it incoming messages via HandleInc
// and drive the view forward by calling Tick; the paint goroutine runs
// independently, draining queues as they fill.
type Engine struct {
	closed atomic.Bool

	acl    *acl.State
	queues *queuePair
	hist   *history.History

	renderPool *renderpool.WorkerPool
	renderGrid *renderpool.TileGrid

	// catchup holds the most recent catchup progress value posted via an
	// internal message, or -1 if none is pending collection by Tick.
	catchup atomic.Int64

	nextPreview atomic.Pointer[previewSlot]

	// paintWG tracks the paint goroutine's lifetime.
	paintWG sync.WaitGroup
	cancel  context.CancelFunc

	// tickMu serializes Tick and the local-view mutators against each
	// other: Tick is the exclusive mutator of the local-view props-list
	// memoization fields, so any caller mutating LocalView must hold this
	// lock for the duration (see localview.go).
	tickMu sync.Mutex

	historyCS *canvas.State          // last state observed from history.CompareAndGet; owned by Tick
	viewCS    atomic.Pointer[canvas.State] // last composed display state; read by any goroutine
	preview   Preview                // currently installed preview; owned by Tick
	previewOX int
	previewOY int

	localView LocalView
}

// NewEngine constructs an Engine over a blank canvas of the given
// dimensions and starts its paint goroutine.
func NewEngine(width, height int, opts ...EngineOption) *Engine {
	cfg := engineConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		acl:        acl.NewState(),
		queues:     newQueuePair(cfg.multidabArea),
		hist:       history.New(width, height, cfg.savePointFn),
		renderPool: renderpool.NewWorkerPool(cfg.renderWorkers),
		renderGrid: renderpool.NewTileGrid(width, height),
		preview:    NewNullPreview(),
		localView:  newLocalView(),
	}
	e.catchup.Store(-1)
	e.historyCS = e.hist.CompareAndGet(nil, nil)
	e.viewCS.Store(e.historyCS)

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.paintWG.Add(1)
	go e.paintLoop(ctx)

	Logger().Info("engine started", slog.Int("width", width), slog.Int("height", height))
	return e
}

// paintLoop is the single paint goroutine: it waits for queued messages,
// drains a batch respecting the multidab bounds, and applies each message
// to history. Local messages are always applied before remote ones are
// even considered, since popFront always prefers the local queue.
func (e *Engine) paintLoop(ctx context.Context) {
	defer e.paintWG.Done()
	for {
		if err := e.queues.wait(ctx); err != nil {
			return
		}
		if e.closed.Load() {
			return
		}

		msg, local, ok := e.queues.popFront()
		if !ok {
			continue
		}

		if msg.Type == message.TypeInternal {
			e.handleInternal(msg)
			continue
		}

		if msg.Type.IsDrawDabs() {
			area := messageArea(msg)
			batch := []*message.Message{msg}
			if area <= e.queues.maxAreaThreshold {
				more := e.queues.drainBatch(local, area)
				if len(more) > 0 {
					e.queues.release(len(more))
					batch = append(batch, more...)
				}
			}
			var rejected int
			if local {
				rejected = e.hist.HandleLocalMultidabDec(batch)
			} else {
				rejected = e.hist.HandleMultidabDec(batch)
			}
			if rejected > 0 {
				Logger().Warn("history handler rejected batched messages",
					slog.Int("rejected", rejected), slog.Int("batch", len(batch)), slog.Bool("local", local))
			}
			continue
		}

		var ok bool
		if local {
			ok = e.hist.HandleLocal(msg)
		} else {
			ok = e.hist.Handle(msg)
		}
		if !ok {
			Logger().Warn("history handler rejected message",
				slog.Int("type", int(msg.Type)), slog.Bool("local", local))
		}
	}
}

// SetLocalDrawingInProgress forwards to the underlying history, which
// records the flag. Neither Tick nor history's CompareAndGet reads it.
func (e *Engine) SetLocalDrawingInProgress(inProgress bool) {
	e.hist.LocalDrawingInProgressSet(inProgress)
}

// SetPreview installs p as the active preview, capturing the canvas's
// current offset as its baseline for Δoffset computation on a later
// resize. Passing NewNullPreview() clears the active preview. Install is
// queued as an internal message so it's ordered against whatever draw
// messages are already queued, rather than jumping ahead of them.
func (e *Engine) SetPreview(p Preview) {
	e.enqueueInternal(message.InternalPreview, message.InternalPayload{
		Subtype: message.InternalPreview,
		Preview: p,
	})
}

// ReportCatchupProgress records a catchup hydration percentage (0-100)
// for Tick to collect and emit on its next run.
func (e *Engine) ReportCatchupProgress(percent int) {
	e.enqueueInternal(message.InternalCatchup, message.InternalPayload{
		Subtype:         message.InternalCatchup,
		CatchupProgress: percent,
	})
}

// RequestSnapshot asks history to flag the next save point as
// snapshot-worthy.
func (e *Engine) RequestSnapshot() {
	e.enqueueInternal(message.InternalSnapshot, message.InternalPayload{Subtype: message.InternalSnapshot})
}

// Reset discards all canvas content, replacing it with a blank canvas of
// the same dimensions.
func (e *Engine) Reset() {
	e.enqueueInternal(message.InternalReset, message.InternalPayload{Subtype: message.InternalReset})
}

// SoftReset forces a fresh save point without discarding drawing.
func (e *Engine) SoftReset() {
	e.enqueueInternal(message.InternalSoftReset, message.InternalPayload{Subtype: message.InternalSoftReset})
}

func (e *Engine) enqueueInternal(_ message.InternalType, payload message.InternalPayload) {
	if e.closed.Load() {
		panic("paintengine: internal message enqueued after Close")
	}
	msg := message.New(message.TypeInternal, 0, payload)
	e.queues.push(true, []*message.Message{msg})
}

// RenderThreadCount returns the number of goroutines in the render
// worker pool.
func (e *Engine) RenderThreadCount() int { return e.renderPool.Workers() }

// ViewState returns the most recently composed display canvas state, the
// output of the last Tick call.
func (e *Engine) ViewState() *canvas.State { return e.viewCS.Load() }

// Close stops the paint goroutine, drains any messages still queued
// (disposing any preview install they represent), and tears down the
// render pool. Close blocks until the paint goroutine has exited; calls
// after the first return immediately.
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.cancel()
	e.queues.wakeShutdown()
	e.paintWG.Wait()

	for _, msg := range e.queues.drainAll() {
		if msg.Type != message.TypeInternal {
			continue
		}
		payload, ok := msg.Payload.(message.InternalPayload)
		if !ok || payload.Subtype != message.InternalPreview {
			continue
		}
		if p, ok := payload.Preview.(Preview); ok && p != nil {
			p.Dispose()
		}
	}

	if slot := e.nextPreview.Swap(nil); slot != nil && slot.preview != nil {
		slot.preview.Dispose()
	}
	if e.preview != nil {
		e.preview.Dispose()
	}

	e.hist.Close()
	e.renderPool.Close()
	e.renderGrid.Close()

	Logger().Info("engine closed")
}
