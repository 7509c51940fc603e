package sos

import (
	"context"
	"errors"
	"sync"
)

// Coordinates is a resolved device position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Locator acquires the device position. It may block until ctx ends.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

type LocatorFunc func(ctx context.Context) (Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (Coordinates, error) { return f(ctx) }

// DeniedReason is shown when the device refuses to share its position.
const DeniedReason = "Location permission denied for demo"

var ErrPermissionDenied = errors.New(DeniedReason)

// ReportedLocator resolves with positions reported by the client device.
// A report that arrives before Locate is called is kept for the next Locate.
type ReportedLocator struct {
	mu      sync.Mutex
	waiting chan locateResult
	pending *locateResult
}

type locateResult struct {
	coords Coordinates
	err    error
}

func NewReportedLocator() *ReportedLocator { return &ReportedLocator{} }

func (l *ReportedLocator) Locate(ctx context.Context) (Coordinates, error) {
	l.mu.Lock()
	if l.pending != nil {
		r := *l.pending
		l.pending = nil
		l.mu.Unlock()
		return r.coords, r.err
	}
	ch := make(chan locateResult, 1)
	l.waiting = ch
	l.mu.Unlock()

	select {
	case r := <-ch:
		return r.coords, r.err
	case <-ctx.Done():
		l.mu.Lock()
		if l.waiting == ch {
			l.waiting = nil
		}
		l.mu.Unlock()
		return Coordinates{}, ctx.Err()
	}
}

// Report delivers a position fix.
func (l *ReportedLocator) Report(c Coordinates) { l.deliver(locateResult{coords: c}) }

// Deny delivers a permission failure. An empty reason uses DeniedReason.
func (l *ReportedLocator) Deny(reason string) {
	err := ErrPermissionDenied
	if reason != "" {
		err = errors.New(reason)
	}
	l.deliver(locateResult{err: err})
}

// Reset drops a report that nobody consumed.
func (l *ReportedLocator) Reset() {
	l.mu.Lock()
	l.pending = nil
	l.mu.Unlock()
}

func (l *ReportedLocator) deliver(r locateResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.waiting != nil {
		l.waiting <- r
		l.waiting = nil
		return
	}
	l.pending = &r
}
