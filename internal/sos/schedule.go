package sos

import (
	"context"
	"time"
)

// Task is a scheduled callback that can be cancelled before it fires.
type Task interface {
	Cancel()
}

// Scheduler runs fn once after d. fn must be invoked on its own goroutine,
// never synchronously from After.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

type timerScheduler struct{}

// NewTimerScheduler returns the wall-clock Scheduler.
func NewTimerScheduler() Scheduler { return timerScheduler{} }

func (timerScheduler) After(d time.Duration, fn func()) Task {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fn()
		}
	}()
	return cancelTask(cancel)
}

type cancelTask context.CancelFunc

func (c cancelTask) Cancel() { c() }
