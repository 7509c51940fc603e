package sos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDelay = 30 * time.Millisecond
	waitFor   = time.Second
	pollEvery = 5 * time.Millisecond
)

// manualScheduler records scheduled callbacks; tests fire them explicitly.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

type manualTask struct {
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() { t.cancelled = true }

func (s *manualScheduler) After(_ time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *manualScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *manualScheduler) fire(i int) {
	s.mu.Lock()
	t := s.tasks[i]
	s.mu.Unlock()
	t.fn()
}

func blockingLocator() Locator {
	return LocatorFunc(func(ctx context.Context) (Coordinates, error) {
		<-ctx.Done()
		return Coordinates{}, ctx.Err()
	})
}

func fixedLocator(c Coordinates) Locator {
	return LocatorFunc(func(context.Context) (Coordinates, error) { return c, nil })
}

func deniedLocator() Locator {
	return LocatorFunc(func(context.Context) (Coordinates, error) { return Coordinates{}, ErrPermissionDenied })
}

func statusIs(f *Flow, want Status) func() bool {
	return func() bool { return f.Snapshot().Status == want }
}

func TestFlow_ReachesAmbulanceSentRegardlessOfLocation(t *testing.T) {
	cases := map[string]Locator{
		"resolved":       fixedLocator(Coordinates{Lat: 12.97, Lng: 77.59}),
		"denied":         deniedLocator(),
		"never resolves": blockingLocator(),
		"no locator":     nil,
	}
	for name, loc := range cases {
		t.Run(name, func(t *testing.T) {
			f := NewFlow(loc, WithDelay(testDelay))
			defer f.Close()

			require.True(t, f.Activate())
			// synchronous transition
			assert.Equal(t, StatusContacting, f.Snapshot().Status)

			assert.Eventually(t, statusIs(f, StatusAmbulanceSent), waitFor, pollEvery)
		})
	}
}

func TestFlow_LocationStates(t *testing.T) {
	f := NewFlow(fixedLocator(Coordinates{Lat: 1.5, Lng: 2.5}), WithDelay(time.Hour))
	defer f.Close()

	assert.Equal(t, LocationNone, f.Snapshot().Location.State)
	require.True(t, f.Activate())

	loc := f.WaitLocation(context.Background())
	require.Equal(t, LocationResolved, loc.State)
	assert.Equal(t, Coordinates{Lat: 1.5, Lng: 2.5}, *loc.Coords)
	// the timer has not fired, location does not gate status
	assert.Equal(t, StatusContacting, f.Snapshot().Status)
}

func TestFlow_LocationDenied(t *testing.T) {
	f := NewFlow(deniedLocator(), WithDelay(time.Hour))
	defer f.Close()

	require.True(t, f.Activate())
	loc := f.WaitLocation(context.Background())

	assert.Equal(t, LocationDenied, loc.State)
	assert.Equal(t, DeniedReason, loc.Reason)
	assert.Nil(t, loc.Coords)
}

func TestFlow_LocationPendingWhileLoading(t *testing.T) {
	f := NewFlow(blockingLocator(), WithDelay(time.Hour))
	defer f.Close()

	require.True(t, f.Activate())
	assert.Equal(t, LocationPending, f.Snapshot().Location.State)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, LocationPending, f.WaitLocation(ctx).State)
}

func TestFlow_SecondActivationIsNoop(t *testing.T) {
	sched := &manualScheduler{}
	f := NewFlow(blockingLocator(), WithScheduler(sched))
	defer f.Close()

	require.True(t, f.Activate())
	before := f.Snapshot()

	assert.False(t, f.Activate())
	assert.False(t, f.Activate())

	assert.Equal(t, 1, sched.count(), "no duplicate timer")
	assert.Equal(t, before, f.Snapshot())
}

func TestFlow_ActivateWhileAmbulanceSentIsNoop(t *testing.T) {
	sched := &manualScheduler{}
	f := NewFlow(blockingLocator(), WithScheduler(sched))
	defer f.Close()

	require.True(t, f.Activate())
	sched.fire(0)
	require.Equal(t, StatusAmbulanceSent, f.Snapshot().Status)

	assert.False(t, f.Activate())
	assert.Equal(t, 1, sched.count())
}

func TestFlow_AcknowledgeOnlyFromAmbulanceSent(t *testing.T) {
	sched := &manualScheduler{}
	f := NewFlow(blockingLocator(), WithScheduler(sched))
	defer f.Close()

	assert.False(t, f.Acknowledge(), "idle")

	require.True(t, f.Activate())
	assert.False(t, f.Acknowledge(), "contacting")
	assert.Equal(t, StatusContacting, f.Snapshot().Status)

	sched.fire(0)
	assert.True(t, f.Acknowledge())

	snap := f.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Equal(t, LocationNone, snap.Location.State)

	// a fresh activation is allowed again and schedules a new timer
	require.True(t, f.Activate())
	assert.Equal(t, 2, sched.count())
}

func TestFlow_StaleTimerIgnored(t *testing.T) {
	sched := &manualScheduler{}
	f := NewFlow(blockingLocator(), WithScheduler(sched))
	defer f.Close()

	require.True(t, f.Activate())
	sched.fire(0)
	require.True(t, f.Acknowledge())
	require.True(t, f.Activate())

	// the first activation's callback fires again late
	sched.fire(0)
	assert.Equal(t, StatusContacting, f.Snapshot().Status)
}

func TestFlow_LocationAfterDispatchStillApplies(t *testing.T) {
	sched := &manualScheduler{}
	loc := NewReportedLocator()
	f := NewFlow(loc, WithScheduler(sched))
	defer f.Close()

	require.True(t, f.Activate())
	sched.fire(0)
	require.Equal(t, StatusAmbulanceSent, f.Snapshot().Status)

	loc.Report(Coordinates{Lat: 3, Lng: 4})
	got := f.WaitLocation(context.Background())
	require.Equal(t, LocationResolved, got.State)
	assert.Equal(t, 3.0, got.Coords.Lat)
	assert.Equal(t, StatusAmbulanceSent, f.Snapshot().Status)
}

func TestFlow_StaleLocationAfterAcknowledgeIgnored(t *testing.T) {
	sched := &manualScheduler{}
	release := make(chan struct{})
	loc := LocatorFunc(func(ctx context.Context) (Coordinates, error) {
		<-release
		return Coordinates{Lat: 9, Lng: 9}, nil
	})
	f := NewFlow(loc, WithScheduler(sched))
	defer f.Close()

	require.True(t, f.Activate())
	sched.fire(0)
	require.True(t, f.Acknowledge())

	close(release)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, LocationNone, f.Snapshot().Location.State)
}

func TestFlow_CloseCancelsPendingWork(t *testing.T) {
	sched := &manualScheduler{}
	var locErr error
	done := make(chan struct{})
	loc := LocatorFunc(func(ctx context.Context) (Coordinates, error) {
		<-ctx.Done()
		locErr = ctx.Err()
		close(done)
		return Coordinates{}, ctx.Err()
	})
	f := NewFlow(loc, WithScheduler(sched))

	require.True(t, f.Activate())
	f.Close()

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("location request was not cancelled")
	}
	assert.True(t, errors.Is(locErr, context.Canceled))
	assert.True(t, sched.tasks[0].cancelled)
	assert.False(t, f.Activate())
}

func TestFlow_OnChangeSequence(t *testing.T) {
	var mu sync.Mutex
	var statuses []Status
	sched := &manualScheduler{}
	f := NewFlow(blockingLocator(), WithScheduler(sched), WithOnChange(func(s Snapshot) {
		mu.Lock()
		statuses = append(statuses, s.Status)
		mu.Unlock()
	}))
	defer f.Close()

	require.True(t, f.Activate())
	sched.fire(0)
	require.True(t, f.Acknowledge())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusContacting, StatusAmbulanceSent, StatusIdle}, statuses)
}

func TestReportedLocator_ReportBeforeLocate(t *testing.T) {
	loc := NewReportedLocator()
	loc.Report(Coordinates{Lat: 1, Lng: 2})

	c, err := loc.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Lat: 1, Lng: 2}, c)

	loc.Deny("")
	loc.Reset()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = loc.Locate(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReportedLocator_Deny(t *testing.T) {
	loc := NewReportedLocator()
	go func() {
		time.Sleep(5 * time.Millisecond)
		loc.Deny("")
	}()

	_, err := loc.Locate(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
