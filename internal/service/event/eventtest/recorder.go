// Package eventtest provides an in-memory event.Emitter for tests.
package eventtest

import (
	"context"
	"sync"

	"github.com/jwalitptl/medoffice-api/internal/service/event"
)

type Recorded struct {
	Type    string
	Payload interface{}
}

// Recorder keeps every emitted event in order.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

func (r *Recorder) Emit(_ context.Context, resource string, action event.Action, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Type: event.Type(resource, action), Payload: payload})
}

func (r *Recorder) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

// Types lists the recorded event types.
func (r *Recorder) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
