package sender

import (
	"context"
	"sync"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
)

// Recorder keeps every event it receives in memory.
type Recorder struct {
	mu     sync.Mutex
	events []dispatch.OutputEvent
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Type() string { return "recorder" }

func (r *Recorder) Send(_ context.Context, ev dispatch.OutputEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events, oldest first.
func (r *Recorder) Events() []dispatch.OutputEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dispatch.OutputEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
