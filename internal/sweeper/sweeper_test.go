package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idvault/internal/ports"
	"idvault/internal/types"
)

type fakeRemover struct {
	mu      sync.Mutex
	calls   []time.Time
	removed int
	err     error
}

func (f *fakeRemover) RemoveExpired(_ context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return f.removed, f.err
}

func (f *fakeRemover) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []ports.GrantsRemovedEvent
	err    error
}

func (f *fakePublisher) PublishGrantsRemoved(_ context.Context, event ports.GrantsRemovedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func TestSweepUsesInjectedClock(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	remover := &fakeRemover{removed: 2}
	s := New(remover, time.Hour)
	s.now = func() time.Time { return at }

	s.sweep()

	require.Equal(t, 1, remover.callCount())
	assert.Equal(t, at, remover.calls[0])
}

func TestSweepPublishesWhenGrantsRemoved(t *testing.T) {
	remover := &fakeRemover{removed: 3}
	pub := &fakePublisher{}
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New(remover, time.Hour).WithPublisher(pub)
	s.now = func() time.Time { return at }

	s.sweep()

	require.Len(t, pub.events, 1)
	assert.Equal(t, ports.GrantsRemovedEvent{Removed: 3, SweptAt: at}, pub.events[0])
}

func TestSweepSkipsPublishWhenNothingRemoved(t *testing.T) {
	remover := &fakeRemover{removed: 0}
	pub := &fakePublisher{}
	s := New(remover, time.Hour).WithPublisher(pub)

	s.sweep()

	assert.Empty(t, pub.events)
}

func TestSweepSurvivesStoreFailure(t *testing.T) {
	remover := &fakeRemover{err: types.ErrUnavailable}
	pub := &fakePublisher{}
	s := New(remover, time.Hour).WithPublisher(pub)

	s.sweep()
	s.sweep()

	// Failed sweeps neither publish nor stop the schedule.
	assert.Equal(t, 2, remover.callCount())
	assert.Empty(t, pub.events)
}

func TestSweepToleratesPublishFailure(t *testing.T) {
	remover := &fakeRemover{removed: 1}
	pub := &fakePublisher{err: types.ErrUnavailable}
	s := New(remover, time.Hour).WithPublisher(pub)

	s.sweep()
	s.sweep()

	assert.Equal(t, 2, remover.callCount())
	assert.Len(t, pub.events, 2)
}

func TestRunStopsOnCancel(t *testing.T) {
	remover := &fakeRemover{}
	s := New(remover, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return remover.callCount() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
