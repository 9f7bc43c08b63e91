// Package sender holds the delivery sinks for translated analytics events.
package sender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gyaneshwarpardhi/pianodispatch/internal/dispatch"
	"github.com/gyaneshwarpardhi/pianodispatch/internal/metrics"
)

// Sink is a named delivery backend.
type Sink interface {
	// Type returns the key the sink is registered under ("log", "http", "kafka").
	Type() string
	Send(ctx context.Context, ev dispatch.OutputEvent) error
}

// Registry fans each output event out to every registered sink.
// Register is meant for startup; Send is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	sinks []Sink
	index map[string]Sink
}

var _ dispatch.Sender = (*Registry)(nil)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]Sink)}
}

// Register adds a sink. Panics on a duplicate type to surface misconfiguration early.
func (r *Registry) Register(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[s.Type()]; exists {
		panic(fmt.Sprintf("sender registry: duplicate sink %q", s.Type()))
	}
	r.index[s.Type()] = s
	r.sinks = append(r.sinks, s)
}

// Get returns the sink registered under sinkType.
func (r *Registry) Get(sinkType string) (Sink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.index[sinkType]
	if !ok {
		return nil, fmt.Errorf("no sink registered for type %q", sinkType)
	}
	return s, nil
}

// Types returns registered sink types in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sinks))
	for _, s := range r.sinks {
		out = append(out, s.Type())
	}
	return out
}

// Send delivers ev to every sink in registration order. All sinks are tried;
// failures are joined into the returned error.
func (r *Registry) Send(ctx context.Context, ev dispatch.OutputEvent) error {
	r.mu.RLock()
	sinks := make([]Sink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.RUnlock()

	var errs []error
	for _, s := range sinks {
		if err := s.Send(ctx, ev); err != nil {
			metrics.SinkFailures.WithLabelValues(s.Type()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Type(), err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (r *Registry) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var errs []error
	for _, s := range r.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s.Type(), err))
			}
		}
	}
	return errors.Join(errs...)
}
