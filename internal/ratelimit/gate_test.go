package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives an IntervalGate without wall-clock sleeps.
type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	sleepErr error
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	if f.sleepErr != nil {
		return f.sleepErr
	}
	f.slept = append(f.slept, d)
	f.now = f.now.Add(d)
	return nil
}

func newTestGate(interval time.Duration) (*IntervalGate, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	g := NewInterval(interval)
	g.now = clock.Now
	g.sleep = clock.Sleep
	return g, clock
}

func TestIntervalGateFirstCallPassesImmediately(t *testing.T) {
	g, clock := newTestGate(3 * time.Second)

	require.NoError(t, g.Wait(context.Background()))
	assert.Empty(t, clock.slept)
}

func TestIntervalGateEnforcesSpacing(t *testing.T) {
	g, clock := newTestGate(3 * time.Second)

	require.NoError(t, g.Wait(context.Background()))

	// Immediate second call must wait the full interval.
	require.NoError(t, g.Wait(context.Background()))
	require.Len(t, clock.slept, 1)
	assert.Equal(t, 3*time.Second, clock.slept[0])

	// If some time already passed, only the remainder is slept.
	clock.now = clock.now.Add(2 * time.Second)
	require.NoError(t, g.Wait(context.Background()))
	require.Len(t, clock.slept, 2)
	assert.Equal(t, 1*time.Second, clock.slept[1])
}

func TestIntervalGateNoSleepAfterLongGap(t *testing.T) {
	g, clock := newTestGate(3 * time.Second)

	require.NoError(t, g.Wait(context.Background()))
	clock.now = clock.now.Add(time.Minute)
	require.NoError(t, g.Wait(context.Background()))
	assert.Empty(t, clock.slept)
}

func TestIntervalGatePropagatesCancellation(t *testing.T) {
	g, clock := newTestGate(3 * time.Second)
	clock.sleepErr = context.Canceled

	require.NoError(t, g.Wait(context.Background()))
	assert.ErrorIs(t, g.Wait(context.Background()), context.Canceled)
}

func TestSleepContextHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Minute), context.Canceled)
}

func TestNopGateNeverBlocks(t *testing.T) {
	g := Nop()
	for i := 0; i < 10; i++ {
		assert.NoError(t, g.Wait(context.Background()))
	}
}
