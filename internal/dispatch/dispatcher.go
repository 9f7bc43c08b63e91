package dispatch

import (
	"context"
	"log/slog"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/event"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/metrics"
)

const (
	dispatcherName    = "piano"
	dispatcherVersion = 1
)

// Sender delivers one output event to the analytics backend.
type Sender interface {
	Send(ctx context.Context, ev OutputEvent) error
}

// SenderFunc adapts a plain function to Sender.
type SenderFunc func(ctx context.Context, ev OutputEvent) error

func (f SenderFunc) Send(ctx context.Context, ev OutputEvent) error { return f(ctx, ev) }

// Result reports what a single Dispatch call produced.
type Result struct {
	Events []OutputEvent `json:"events"`
	Failed int           `json:"failed"`
}

// Dispatcher builds output events with the current Settings and forwards them,
// in order, to its Sender.
type Dispatcher struct {
	settings *Settings
	sender   Sender
	logger   *slog.Logger
}

// New creates a Dispatcher. A nil logger falls back to slog.Default().
func New(settings *Settings, sender Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{settings: settings, sender: sender, logger: logger}
}

func (d *Dispatcher) Name() string { return dispatcherName }
func (d *Dispatcher) Version() uint { return dispatcherVersion }
func (d *Dispatcher) Settings() *Settings { return d.settings }

// Preview returns what Dispatch would send, without sending it.
func (d *Dispatcher) Preview(t event.Type, p event.Payload) []OutputEvent {
	return Build(t, p, d.settings.Flags())
}

// Dispatch translates and sends. A failing send is logged and counted but
// does not prevent the following events from being sent.
func (d *Dispatcher) Dispatch(ctx context.Context, t event.Type, p event.Payload) Result {
	res := Result{Events: Build(t, p, d.settings.Flags())}
	for _, out := range res.Events {
		if err := d.sender.Send(ctx, out); err != nil {
			res.Failed++
			metrics.OutputEventsSent.WithLabelValues(out.Name, "error").Inc()
			d.logger.Warn("send failed", "event", out.Name, "type", t, "err", err)
			continue
		}
		metrics.OutputEventsSent.WithLabelValues(out.Name, "success").Inc()
	}
	return res
}
