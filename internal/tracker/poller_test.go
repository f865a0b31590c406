package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrantydesk/tracking-service/internal/model"
)

type fetchResult struct {
	ticket *model.Ticket
	err    error
}

// gatedFetcher blocks each Fetch until the test releases it, so tests can
// interleave in-flight fetches deterministically.
type gatedFetcher struct {
	mu    sync.Mutex
	gates []chan fetchResult
}

func (f *gatedFetcher) Fetch(ctx context.Context, code string) (*model.Ticket, error) {
	gate := make(chan fetchResult, 1)
	f.mu.Lock()
	f.gates = append(f.gates, gate)
	f.mu.Unlock()
	select {
	case res := <-gate:
		return res.ticket, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *gatedFetcher) gate(t *testing.T, i int) chan fetchResult {
	t.Helper()
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.gates) > i
	}, 3*time.Second, time.Millisecond)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gates[i]
}

// manualScheduler records start/stop calls and lets the test drive ticks.
type manualScheduler struct {
	mu      sync.Mutex
	fn      func()
	started int
	stopped int
}

func (s *manualScheduler) Start(interval time.Duration, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
	s.started++
	return &manualHandle{s: s}
}

func (s *manualScheduler) tick() {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *manualScheduler) counts() (started, stopped int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.stopped
}

type manualHandle struct{ s *manualScheduler }

func (h *manualHandle) Stop() {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.s.stopped++
}

// toggleConnectivity is a manually switched online/offline source.
type toggleConnectivity struct {
	mu     sync.Mutex
	online bool
	fns    []func(bool)
}

func (c *toggleConnectivity) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *toggleConnectivity) OnChange(fn func(bool)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
	return func() {}
}

func (c *toggleConnectivity) set(online bool) {
	c.mu.Lock()
	c.online = online
	fns := append([]func(bool){}, c.fns...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(online)
	}
}

func waitForTicket(t *testing.T, p *Poller, status model.TicketStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		st := p.State()
		return st.Ticket != nil && st.Ticket.Status == status
	}, time.Second, time.Millisecond)
}

func TestPollerSingleFlight(t *testing.T) {
	// Fetch B issued before fetch A resolves: A's resolution is ignored.
	f := &gatedFetcher{}
	p := NewPoller(f, validCode, WithScheduler(&manualScheduler{}))
	defer p.Close()

	p.Refresh()
	gateA := f.gate(t, 0)

	p.Refresh()
	gateB := f.gate(t, 1)

	gateB <- fetchResult{ticket: &model.Ticket{ID: 1, Status: model.StatusValidated}}
	waitForTicket(t, p, model.StatusValidated)

	// A was canceled by B; releasing its gate now changes nothing.
	gateA <- fetchResult{ticket: &model.Ticket{ID: 1, Status: model.StatusPending}}
	time.Sleep(20 * time.Millisecond)
	st := p.State()
	assert.Equal(t, model.StatusValidated, st.Ticket.Status)
	assert.Nil(t, st.Err)
}

func TestPollerActivation(t *testing.T) {
	sched := &manualScheduler{}
	initial := &model.Ticket{ID: 1, Status: model.StatusPending}
	p := NewPoller(&gatedFetcher{}, validCode,
		WithScheduler(sched),
		WithInitialTicket(initial),
	)
	defer p.Close()

	// Ticket present, no error, enabled, online: active immediately.
	started, stopped := sched.counts()
	assert.Equal(t, 1, started)
	assert.Equal(t, 0, stopped)

	p.SetEnabled(false)
	_, stopped = sched.counts()
	assert.Equal(t, 1, stopped)

	p.SetEnabled(true)
	started, _ = sched.counts()
	assert.Equal(t, 2, started)
}

func TestPollerIdleWithoutTicket(t *testing.T) {
	sched := &manualScheduler{}
	p := NewPoller(&gatedFetcher{}, validCode, WithScheduler(sched))
	defer p.Close()

	started, _ := sched.counts()
	assert.Equal(t, 0, started, "no ticket data yet: poller stays idle")
}

func TestPollerSuspendsOffline(t *testing.T) {
	sched := &manualScheduler{}
	conn := &toggleConnectivity{online: true}
	p := NewPoller(&gatedFetcher{}, validCode,
		WithScheduler(sched),
		WithConnectivity(conn),
		WithInitialTicket(&model.Ticket{ID: 1, Status: model.StatusPending}),
	)
	defer p.Close()

	started, stopped := sched.counts()
	require.Equal(t, 1, started)
	require.Equal(t, 0, stopped)

	conn.set(false)
	_, stopped = sched.counts()
	assert.Equal(t, 1, stopped)

	conn.set(true)
	started, _ = sched.counts()
	assert.Equal(t, 2, started)
}

func TestPollerBackgroundRefreshSkipsLoading(t *testing.T) {
	f := &gatedFetcher{}
	sched := &manualScheduler{}
	p := NewPoller(f, validCode,
		WithScheduler(sched),
		WithInitialTicket(&model.Ticket{ID: 1, Status: model.StatusPending}),
	)
	defer p.Close()

	sched.tick()
	f.gate(t, 0) // fetch issued
	assert.False(t, p.State().Loading, "polling refresh must not flip the loading flag")

	f.gate(t, 0) <- fetchResult{ticket: &model.Ticket{ID: 1, Status: model.StatusValidated}}
	waitForTicket(t, p, model.StatusValidated)
}

func TestPollerNotifiesOnBackgroundChange(t *testing.T) {
	f := &gatedFetcher{}
	sched := &manualScheduler{}
	p := NewPoller(f, validCode,
		WithScheduler(sched),
		WithInitialTicket(&model.Ticket{ID: 1, Status: model.StatusManagerReview}),
	)
	defer p.Close()

	sched.tick()
	f.gate(t, 0) <- fetchResult{ticket: &model.Ticket{ID: 1, Status: model.StatusApproved}}
	waitForTicket(t, p, model.StatusApproved)

	require.Eventually(t, func() bool {
		return p.Notifier().Unread() == 1
	}, time.Second, time.Millisecond)
	history := p.Notifier().Notifications()
	require.Len(t, history, 1)
	assert.Equal(t, model.StatusManagerReview, history[0].OldStatus)
	assert.Equal(t, model.StatusApproved, history[0].NewStatus)
}

func TestPollerErrorSuspendsPolling(t *testing.T) {
	f := &gatedFetcher{}
	sched := &manualScheduler{}
	p := NewPoller(f, validCode,
		WithScheduler(sched),
		WithInitialTicket(&model.Ticket{ID: 1, Status: model.StatusPending}),
	)
	defer p.Close()

	p.Refresh()
	f.gate(t, 0) <- fetchResult{err: newError(KindNotFound, "", "NOT_FOUND")}
	require.Eventually(t, func() bool {
		return p.State().Err != nil
	}, time.Second, time.Millisecond)
	assert.Equal(t, KindNotFound, p.State().Err.Kind)

	_, stopped := sched.counts()
	assert.Equal(t, 1, stopped, "a fetch error suspends the polling timer")
}

func TestPollerRetryClearsErrorAndRefetches(t *testing.T) {
	f := &gatedFetcher{}
	p := NewPoller(f, validCode, WithScheduler(&manualScheduler{}))
	defer p.Close()

	p.Refresh()
	f.gate(t, 0) <- fetchResult{err: newError(KindNetworkError, "connection refused", "")}
	require.Eventually(t, func() bool {
		return p.State().Err != nil
	}, time.Second, time.Millisecond)

	delay := p.Retry()
	assert.Equal(t, time.Second, delay, "first retry waits the base delay")
	st := p.State()
	assert.Nil(t, st.Err, "retry clears the displayed error during the wait")
	assert.True(t, st.Loading)

	// The delayed refetch fires after the backoff elapses.
	f.gate(t, 1) <- fetchResult{ticket: &model.Ticket{ID: 1, Status: model.StatusPending}}
	waitForTicket(t, p, model.StatusPending)

	// Success resets the retry count back to the base delay.
	p.Refresh()
	f.gate(t, 2) <- fetchResult{err: newError(KindNetworkError, "connection refused", "")}
	require.Eventually(t, func() bool {
		return p.State().Err != nil
	}, time.Second, time.Millisecond)
	assert.Equal(t, time.Second, p.Retry())
}

func TestPollerRetryDelayGrows(t *testing.T) {
	f := &gatedFetcher{}
	p := NewPoller(f, validCode, WithScheduler(&manualScheduler{}))
	defer p.Close()

	assert.Equal(t, time.Second, p.Retry())
	assert.Equal(t, 2*time.Second, p.Retry())
	assert.Equal(t, 4*time.Second, p.Retry())
}

func TestPollerCloseCancelsInFlightFetch(t *testing.T) {
	f := &gatedFetcher{}
	sched := &manualScheduler{}
	p := NewPoller(f, validCode,
		WithScheduler(sched),
		WithInitialTicket(&model.Ticket{ID: 1, Status: model.StatusPending}),
	)

	p.Refresh()
	gate := f.gate(t, 0)
	p.Close()

	_, stopped := sched.counts()
	assert.Equal(t, 1, stopped, "close stops the polling timer")

	// The canceled fetch's late result must not mutate state.
	gate <- fetchResult{ticket: &model.Ticket{ID: 1, Status: model.StatusScheduled}}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, model.StatusPending, p.State().Ticket.Status)
}
