package event

import (
	"context"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Emitter announces a completed write. Implementations must not fail the
// caller; delivery problems are theirs to report.
type Emitter interface {
	Emit(ctx context.Context, resource string, action Action, payload interface{})
}

// Type renders the wire name of an event, e.g. "patient.created".
func Type(resource string, action Action) string {
	return resource + "." + string(action)
}
