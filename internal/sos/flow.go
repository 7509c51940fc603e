package sos

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status is the emergency flow state.
type Status string

const (
	StatusIdle          Status = "idle"
	StatusContacting    Status = "contacting"
	StatusAmbulanceSent Status = "ambulance_sent"
)

// LocationState tracks the location sub-request independently of Status.
type LocationState string

const (
	LocationNone     LocationState = "none"
	LocationPending  LocationState = "pending"
	LocationResolved LocationState = "resolved"
	LocationDenied   LocationState = "denied"
)

const DefaultDelay = 2 * time.Second

type Location struct {
	State  LocationState `json:"state"`
	Coords *Coordinates  `json:"coords,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// Snapshot is a consistent read of the flow for rendering.
type Snapshot struct {
	Status     Status   `json:"status"`
	Location   Location `json:"location"`
	Activation uint64   `json:"activation"`
}

// Flow is the per-session SOS state machine:
// idle -> contacting -> ambulance_sent -> idle.
// The dispatch timer and the location request run independently; neither
// waits on the other.
type Flow struct {
	mu       sync.Mutex
	status   Status
	location Location
	gen      uint64
	closed   bool

	task      Task
	locCancel context.CancelFunc
	settled   chan struct{}

	delay    time.Duration
	locator  Locator
	sched    Scheduler
	onChange func(Snapshot)
	logger   *zap.Logger
}

type Option func(*Flow)

func WithDelay(d time.Duration) Option {
	return func(f *Flow) {
		if d >= 0 {
			f.delay = d
		}
	}
}

func WithScheduler(s Scheduler) Option {
	return func(f *Flow) { f.sched = s }
}

// WithOnChange registers a callback run after every state change, outside the lock.
func WithOnChange(fn func(Snapshot)) Option {
	return func(f *Flow) { f.onChange = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) { f.logger = l }
}

func NewFlow(locator Locator, opts ...Option) *Flow {
	f := &Flow{
		status:   StatusIdle,
		location: Location{State: LocationNone},
		delay:    DefaultDelay,
		locator:  locator,
		sched:    NewTimerScheduler(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Activate starts the flow from idle. It returns false, and does nothing,
// in any other state.
func (f *Flow) Activate() bool {
	f.mu.Lock()
	if f.closed || f.status != StatusIdle {
		f.mu.Unlock()
		return false
	}

	f.gen++
	gen := f.gen
	f.status = StatusContacting
	f.location = Location{State: LocationPending}
	settled := make(chan struct{})
	f.settled = settled

	ctx, cancel := context.WithCancel(context.Background())
	f.locCancel = cancel
	f.task = f.sched.After(f.delay, func() { f.dispatched(gen) })
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.logger.Info("sos activated", zap.Uint64("activation", gen), zap.Duration("delay", f.delay))
	go f.locate(ctx, gen)
	f.emit(snap)
	return true
}

// Acknowledge returns to idle from ambulance_sent. Any other state is a no-op.
func (f *Flow) Acknowledge() bool {
	f.mu.Lock()
	if f.status != StatusAmbulanceSent {
		f.mu.Unlock()
		return false
	}
	f.endActivationLocked()
	f.status = StatusIdle
	f.location = Location{State: LocationNone}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.logger.Info("sos acknowledged", zap.Uint64("activation", snap.Activation))
	f.emit(snap)
	return true
}

// Close cancels the pending timer and location request. Later activations are refused.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.endActivationLocked()
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// WaitLocation blocks until the current activation's location settles, the
// activation ends, or ctx is done, and returns the location at that point.
func (f *Flow) WaitLocation(ctx context.Context) Location {
	f.mu.Lock()
	ch := f.settled
	f.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return copyLocation(f.location)
}

func (f *Flow) dispatched(gen uint64) {
	f.mu.Lock()
	if gen != f.gen || f.status != StatusContacting {
		f.mu.Unlock()
		return
	}
	f.status = StatusAmbulanceSent
	f.task = nil
	snap := f.snapshotLocked()
	f.mu.Unlock()

	f.logger.Info("sos ambulance dispatched", zap.Uint64("activation", gen))
	f.emit(snap)
}

func (f *Flow) locate(ctx context.Context, gen uint64) {
	var (
		coords Coordinates
		err    error
	)
	if f.locator == nil {
		err = ErrPermissionDenied
	} else {
		coords, err = f.locator.Locate(ctx)
	}

	f.mu.Lock()
	// the activation this request belongs to may already be over
	if gen != f.gen || f.status == StatusIdle || f.closed {
		f.mu.Unlock()
		return
	}
	if err != nil {
		f.location = Location{State: LocationDenied, Reason: err.Error()}
	} else {
		c := coords
		f.location = Location{State: LocationResolved, Coords: &c}
	}
	f.closeSettledLocked()
	snap := f.snapshotLocked()
	f.mu.Unlock()

	if err != nil {
		f.logger.Info("sos location unavailable", zap.Uint64("activation", gen), zap.Error(err))
	}
	f.emit(snap)
}

func (f *Flow) endActivationLocked() {
	if f.task != nil {
		f.task.Cancel()
		f.task = nil
	}
	if f.locCancel != nil {
		f.locCancel()
		f.locCancel = nil
	}
	f.closeSettledLocked()
}

func (f *Flow) closeSettledLocked() {
	if f.settled != nil {
		close(f.settled)
		f.settled = nil
	}
}

func (f *Flow) snapshotLocked() Snapshot {
	return Snapshot{Status: f.status, Location: copyLocation(f.location), Activation: f.gen}
}

func (f *Flow) emit(s Snapshot) {
	if f.onChange != nil {
		f.onChange(s)
	}
}

func copyLocation(l Location) Location {
	if l.Coords != nil {
		c := *l.Coords
		l.Coords = &c
	}
	return l
}
