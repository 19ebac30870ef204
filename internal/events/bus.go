// Package events is the synchronous publish/subscribe channel that carries
// navigation between views and the coordinator.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Name identifies an event kind.
type Name string

const (
	// PathChange carries a model.NavigationEvent from a view.
	PathChange Name = "pathChange"
	// JumpToAttribute carries a model.JumpEvent from the attribute picker.
	JumpToAttribute Name = "jumpToAttribute"
	// StateChanged carries the coordinator's snapshot after every applied
	// navigation.
	StateChanged Name = "stateChanged"
)

var (
	emittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_explorer_events_emitted_total",
		Help: "Events emitted on the navigation bus.",
	}, []string{"event"})

	handlerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_explorer_event_handler_failures_total",
		Help: "Handler invocations that returned an error or panicked.",
	}, []string{"event"})
)

// Handler receives one event payload.
type Handler func(ctx context.Context, payload any) error

// Typed adapts a handler for a concrete payload type. A payload of any
// other type is reported as a handler error.
func Typed[T any](fn func(ctx context.Context, payload T) error) Handler {
	return func(ctx context.Context, payload any) error {
		v, ok := payload.(T)
		if !ok {
			var want T
			return eris.Errorf("events: payload is %T, want %T", payload, want)
		}
		return fn(ctx, v)
	}
}

// HandlerError records the failure of one handler during an emission.
type HandlerError struct {
	Event Name
	Index int
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("events: %s handler %d: %v", e.Event, e.Index, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// Bus delivers events synchronously, in registration order, before Emit
// returns. Each handler runs in isolation: an error or panic is captured and
// the remaining handlers still run.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]Handler)}
}

// On registers h for events named name.
func (b *Bus) On(name Name, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Handlers returns the number of handlers registered for name.
func (b *Bus) Handlers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

// Emit invokes every handler registered for name with payload. Failures
// are joined into the returned error after all handlers have run.
func (b *Bus) Emit(ctx context.Context, name Name, payload any) error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[name]...)
	b.mu.RUnlock()

	emittedTotal.WithLabelValues(string(name)).Inc()

	var errs []error
	for i, h := range hs {
		if err := invoke(ctx, h, payload); err != nil {
			handlerFailuresTotal.WithLabelValues(string(name)).Inc()
			zap.L().Warn("events: handler failed",
				zap.String("event", string(name)),
				zap.Int("handler", i),
				zap.Error(err),
			)
			errs = append(errs, &HandlerError{Event: name, Index: i, Err: err})
		}
	}
	return errors.Join(errs...)
}

func invoke(ctx context.Context, h Handler, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, payload)
}
