package session

import (
	"sync"
	"time"
)

// TickKind identifies which live timer a Tick belongs to.
type TickKind int

const (
	ExerciseTick TickKind = iota
	RestTick
)

func (k TickKind) String() string {
	if k == RestTick {
		return "rest"
	}
	return "exercise"
}

// Tick reports the live elapsed time of the running set or rest. It is a
// display value only; the engine's recorded instants stay authoritative.
type Tick struct {
	Kind    TickKind
	Elapsed time.Duration
}

// Task is a handle to a running periodic callback.
type Task interface {
	Stop()
}

// Scheduler starts periodic tasks. Callbacks may run on another goroutine and
// must not touch engine state.
type Scheduler interface {
	Every(interval time.Duration, fn func(now time.Time)) Task
}

// TickerScheduler runs each task on its own goroutine driven by a time.Ticker.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func(now time.Time)) Task {
	t := &tickerTask{ticker: time.NewTicker(interval), done: make(chan struct{})}
	go func() {
		for {
			select {
			case now := <-t.ticker.C:
				fn(now)
			case <-t.done:
				return
			}
		}
	}()
	return t
}

type tickerTask struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

// Stop is safe to call more than once.
func (t *tickerTask) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
