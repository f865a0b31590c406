package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/warrantydesk/tracking-service/internal/model"
)

// DefaultPollInterval is how often an active poller refreshes the ticket.
const DefaultPollInterval = 30 * time.Second

// Poller owns the repeating refresh of one ticket. It is active only while
// ticket data is present, no error is set, polling is enabled and the
// network is online; any of those going false suspends it.
//
// Single flight: starting a fetch cancels the previous one, and a fetch
// commits its result only if its context is still live at commit time.
// The mutex around that check is what makes "last write wins" hold under
// real parallelism.
type Poller struct {
	fetcher      TicketFetcher
	trackingCode string
	interval     time.Duration
	scheduler    Scheduler
	connectivity Connectivity
	notifier     *Notifier
	onUpdate     func(*model.Ticket)

	mu          sync.Mutex
	ticket      *model.Ticket
	lastErr     *Error
	loading     bool
	lastUpdated time.Time
	enabled     bool
	online      bool
	retryCount  int
	handle      Handle
	cancelFetch context.CancelFunc
	retryTimer  *time.Timer
	unsubscribe func()
	closed      bool
}

// State is a point-in-time snapshot of the poller for display.
type State struct {
	Ticket         *model.Ticket
	Err            *Error
	Loading        bool
	LastUpdated    time.Time
	PollingEnabled bool
	Online         bool
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

func WithScheduler(s Scheduler) Option {
	return func(p *Poller) { p.scheduler = s }
}

func WithConnectivity(c Connectivity) Option {
	return func(p *Poller) { p.connectivity = c }
}

// WithInitialTicket seeds the poller (and the notifier's last-observed
// status) with already-fetched data.
func WithInitialTicket(t *model.Ticket) Option {
	return func(p *Poller) { p.ticket = t }
}

// WithSink routes status-change notifications to a delivery side effect.
func WithSink(s Sink) Option {
	return func(p *Poller) { p.notifier = NewNotifier(nil, s) }
}

// WithOnUpdate registers a callback invoked after each successful fetch,
// outside the poller's lock.
func WithOnUpdate(fn func(*model.Ticket)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

func NewPoller(fetcher TicketFetcher, trackingCode string, opts ...Option) *Poller {
	p := &Poller{
		fetcher:      fetcher,
		trackingCode: trackingCode,
		interval:     DefaultPollInterval,
		scheduler:    TickerScheduler{},
		connectivity: AlwaysOnline{},
		enabled:      true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = NewNotifier(nil, nil)
	}
	if p.ticket != nil {
		// Seed the diff base so the first poll only notifies on a real change.
		p.notifier.Observe(p.ticket)
	}
	p.online = p.connectivity.Online()
	p.unsubscribe = p.connectivity.OnChange(p.setOnline)

	p.mu.Lock()
	p.reevaluateLocked()
	p.mu.Unlock()
	return p
}

// Refresh starts a foreground fetch: the loading flag is set and any
// displayed error is cleared. Cancels whatever fetch was in flight.
func (p *Poller) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.startFetchLocked(false)
}

// Retry schedules a delayed refetch after a fetch failure, with
// exponentially increasing delay per manual retry. The displayed error is
// cleared immediately so the UI shows a neutral state during the wait.
// Returns the delay applied.
func (p *Poller) Retry() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	delay := BackoffDelay(p.retryCount)
	p.retryCount++
	p.lastErr = nil
	p.loading = true
	if p.retryTimer != nil {
		p.retryTimer.Stop()
	}
	p.retryTimer = time.AfterFunc(delay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed {
			return
		}
		p.startFetchLocked(false)
	})
	return delay
}

// SetEnabled toggles polling without touching the current ticket or error.
func (p *Poller) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
	p.reevaluateLocked()
}

// Close tears the poller down: timer, retry timer, connectivity
// subscription and any in-flight fetch. Nothing outlives it.
func (p *Poller) Close() {
	p.mu.Lock()
	p.closed = true
	if p.cancelFetch != nil {
		p.cancelFetch()
		p.cancelFetch = nil
	}
	if p.handle != nil {
		p.handle.Stop()
		p.handle = nil
	}
	if p.retryTimer != nil {
		p.retryTimer.Stop()
		p.retryTimer = nil
	}
	unsub := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (p *Poller) Notifier() *Notifier {
	return p.notifier
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Ticket:         p.ticket,
		Err:            p.lastErr,
		Loading:        p.loading,
		LastUpdated:    p.lastUpdated,
		PollingEnabled: p.enabled,
		Online:         p.online,
	}
}

func (p *Poller) setOnline(online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.online = online
	p.reevaluateLocked()
}

// startFetchLocked cancels any in-flight fetch and launches a new one.
// background fetches skip the loading flag so a polling refresh never
// blanks the page.
func (p *Poller) startFetchLocked(background bool) {
	if p.cancelFetch != nil {
		p.cancelFetch()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancelFetch = cancel
	if !background {
		p.loading = true
		p.lastErr = nil
	}
	go p.runFetch(ctx, cancel)
}

func (p *Poller) runFetch(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()
	t, err := p.fetcher.Fetch(ctx, p.trackingCode)

	p.mu.Lock()
	// A canceled fetch must not touch shared state: a newer fetch owns it.
	if ctx.Err() != nil || p.closed {
		p.mu.Unlock()
		return
	}
	p.cancelFetch = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.mu.Unlock()
			return
		}
		p.loading = false
		var te *Error
		if !errors.As(err, &te) {
			te = newError(KindNetworkError, err.Error(), "")
		}
		p.lastErr = te
		p.reevaluateLocked()
		p.mu.Unlock()
		return
	}

	p.loading = false
	p.lastErr = nil
	p.ticket = t
	p.lastUpdated = time.Now()
	p.retryCount = 0
	p.reevaluateLocked()
	onUpdate := p.onUpdate
	p.mu.Unlock()

	p.notifier.Observe(t)
	if onUpdate != nil {
		onUpdate(t)
	}
}

// reevaluateLocked drives the idle/active state machine: the repeating
// timer runs exactly when all activation conditions hold.
func (p *Poller) reevaluateLocked() {
	active := p.ticket != nil && p.lastErr == nil && p.enabled && p.online && !p.closed
	switch {
	case active && p.handle == nil:
		p.handle = p.scheduler.Start(p.interval, p.poll)
	case !active && p.handle != nil:
		p.handle.Stop()
		p.handle = nil
	}
}

func (p *Poller) poll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || !p.enabled || !p.online {
		return
	}
	p.startFetchLocked(true)
}
