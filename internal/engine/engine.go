package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/config"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/event"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/metrics"
)

var (
	ErrQueueFull = errors.New("event queue full")
	ErrTimeout   = errors.New("event processing timeout")
)

// Result is the outcome of dispatching a single engagement event.
type Result struct {
	EventID    string                 `json:"event_id"`
	Type       event.Type             `json:"type"`
	DurationMs int64                  `json:"duration_ms"`
	Events     []dispatch.OutputEvent `json:"events"`
	Failed     int                    `json:"failed"`
}

type work struct {
	ev      *event.Event
	resultC chan *Result
}

// Engine feeds engagement events through the dispatcher on a worker pool.
type Engine struct {
	dispatcher *dispatch.Dispatcher
	pool       *workerPool[*work]
	conf       config.EngineConf
	logger     *slog.Logger
}

// New starts conf.Workers workers; they stop when ctx is cancelled or on Shutdown.
func New(ctx context.Context, d *dispatch.Dispatcher, conf config.EngineConf, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{dispatcher: d, conf: conf, logger: logger}
	e.pool = newWorkerPool(ctx, conf.Workers, conf.QueueDepth, func(ctx context.Context, w *work) {
		res := e.process(ctx, w.ev)
		if w.resultC != nil {
			w.resultC <- res
		}
	})
	return e
}

// Dispatcher exposes the underlying dispatcher (settings, preview, identity).
func (e *Engine) Dispatcher() *dispatch.Dispatcher { return e.dispatcher }

// ProcessSync dispatches ev and waits for the result.
func (e *Engine) ProcessSync(ctx context.Context, ev *event.Event) (*Result, error) {
	resultC := make(chan *Result, 1)
	if !e.pool.Submit(&work{ev: ev, resultC: resultC}) {
		metrics.EventsDropped.Inc()
		return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.pool.Cap())
	}
	metrics.EventsEnqueued.Inc()

	timeout := e.timeout()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-resultC:
		return res, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ProcessAsync enqueues ev for background dispatch. Returns false if the queue is full.
func (e *Engine) ProcessAsync(ev *event.Event) bool {
	if !e.pool.Submit(&work{ev: ev}) {
		metrics.EventsDropped.Inc()
		return false
	}
	metrics.EventsEnqueued.Inc()
	return true
}

// QueueUtilization returns queue used / capacity (0-1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.Cap() == 0 {
		return 0
	}
	return float64(e.pool.Len()) / float64(e.pool.Cap())
}

// Shutdown stops intake and waits for queued events to be dispatched.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}

func (e *Engine) process(ctx context.Context, ev *event.Event) *Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	metrics.EventsReceived.WithLabelValues(typeLabel(ev.Type)).Inc()
	out := e.dispatcher.Dispatch(ctx, ev.Type, ev)
	elapsed := time.Since(start)
	metrics.DispatchDuration.Observe(float64(elapsed.Microseconds()) / 1000)

	e.logger.Debug("event dispatched",
		"event_id", ev.ID,
		"type", ev.Type,
		"emitted", len(out.Events),
		"failed", out.Failed,
	)
	return &Result{
		EventID:    ev.ID,
		Type:       ev.Type,
		DurationMs: elapsed.Milliseconds(),
		Events:     out.Events,
		Failed:     out.Failed,
	}
}

func (e *Engine) timeout() time.Duration {
	return time.Duration(e.conf.EventTimeoutMs) * time.Millisecond
}

// typeLabel keeps metric cardinality bounded for unknown event types.
func typeLabel(t event.Type) string {
	if t.Known() {
		return string(t)
	}
	return "unknown"
}
