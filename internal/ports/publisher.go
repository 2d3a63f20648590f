package ports

import (
	"context"
	"time"
)

// GrantsRemovedEvent reports a cleanup sweep that deleted at least one
// persisted grant. Sweeps that remove nothing emit no event.
type GrantsRemovedEvent struct {
	Removed int       `json:"removed"`
	SweptAt time.Time `json:"swept_at"`
}

// EventPublisher fans sweep events out to downstream consumers (session
// revocation, audit). Publishing is best-effort: a failed publish is the
// caller's to log, never a reason to fail the sweep it reports on.
type EventPublisher interface {
	PublishGrantsRemoved(ctx context.Context, event GrantsRemovedEvent) error
}
