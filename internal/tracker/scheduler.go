package tracker

import (
	"sync"
	"time"
)

// Scheduler is the timer capability the poller depends on, so tests (and
// other runtimes) can substitute their own clock.
type Scheduler interface {
	// Start invokes fn once per interval until the handle is stopped.
	Start(interval time.Duration, fn func()) Handle
}

type Handle interface {
	Stop()
}

// Connectivity reports whether the network is reachable and notifies on
// change. The poller suspends itself while offline.
type Connectivity interface {
	Online() bool
	// OnChange registers fn and returns an unsubscribe func.
	OnChange(fn func(online bool)) (unsubscribe func())
}

// TickerScheduler runs callbacks on a time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Start(interval time.Duration, fn func()) Handle {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	return &tickerHandle{ticker: t, done: done}
}

type tickerHandle struct {
	ticker *time.Ticker
	once   sync.Once
	done   chan struct{}
}

func (h *tickerHandle) Stop() {
	h.once.Do(func() {
		h.ticker.Stop()
		close(h.done)
	})
}

// AlwaysOnline is the connectivity source for environments without an
// offline state (servers, CLI).
type AlwaysOnline struct{}

func (AlwaysOnline) Online() bool                      { return true }
func (AlwaysOnline) OnChange(func(online bool)) func() { return func() {} }
