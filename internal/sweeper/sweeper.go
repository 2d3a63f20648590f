// Package sweeper runs the periodic expired-grant cleanup.
package sweeper

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"idvault/internal/ports"
)

const sweepTimeout = 2 * time.Minute

// Remover is the one operation the sweeper needs from the grant store.
type Remover interface {
	RemoveExpired(ctx context.Context, now time.Time) (int, error)
}

// Sweeper invokes RemoveExpired on a fixed interval and logs the outcome.
// It keeps no state between runs beyond the schedule itself. When a
// publisher is configured, each sweep that removed at least one grant also
// emits a grants-removed event.
type Sweeper struct {
	grants    Remover
	interval  time.Duration
	publisher ports.EventPublisher
	now       func() time.Time
}

func New(grants Remover, interval time.Duration) *Sweeper {
	return &Sweeper{grants: grants, interval: interval, now: time.Now}
}

// WithPublisher enables sweep-event publication.
func (s *Sweeper) WithPublisher(p ports.EventPublisher) *Sweeper {
	s.publisher = p
	return s
}

// Run blocks until ctx is cancelled. Cancellation stops the schedule; an
// in-flight sweep runs to completion on its own timeout-bounded context,
// since the sweep is idempotent and safe to let finish.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	log.WithField("interval", s.interval).Info("grant cleanup sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info("grant cleanup sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	// Deliberately not derived from the run context: shutdown must not
	// abort a sweep that already started.
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	now := s.now()
	removed, err := s.grants.RemoveExpired(ctx, now)
	if err != nil {
		log.WithError(err).WithField("removed", removed).Error("expired grant sweep failed")
		return
	}
	log.WithField("removed", removed).Info("expired grant sweep complete")

	if removed > 0 && s.publisher != nil {
		event := ports.GrantsRemovedEvent{Removed: removed, SweptAt: now.UTC()}
		if err := s.publisher.PublishGrantsRemoved(ctx, event); err != nil {
			log.WithError(err).Warn("failed to publish sweep event")
		}
	}
}
