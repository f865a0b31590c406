package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/warrantydesk/tracking-service/internal/model"
)

// historyCap bounds the notification history; the oldest entry is dropped
// beyond it.
const historyCap = 10

// Notification records one observed status change.
type Notification struct {
	ID        string
	TicketID  uint64
	OldStatus model.TicketStatus
	NewStatus model.TicketStatus
	Message   string
	Timestamp time.Time
	Read      bool
}

// Sink receives notifications as a side effect (system notification,
// terminal bell). A nil sink means delivery is not permitted.
type Sink interface {
	Notify(n Notification)
}

// Notifier diffs each fetched status against the last observed one and
// keeps a bounded history of changes.
type Notifier struct {
	mu         sync.Mutex
	lastStatus model.TicketStatus
	seeded     bool
	history    []Notification
	unread     int
	sink       Sink
}

// NewNotifier seeds the last-observed status from the initially supplied
// ticket, if any.
func NewNotifier(initial *model.Ticket, sink Sink) *Notifier {
	n := &Notifier{sink: sink}
	if initial != nil {
		n.lastStatus = initial.Status
		n.seeded = true
	}
	return n
}

// Observe compares t's status to the last observed one and records a
// notification on change. The last-observed reference is updated
// unconditionally so a later change is detected against the most recent
// value, not the original seed. Returns the created notification, or nil.
func (n *Notifier) Observe(t *model.Ticket) *Notification {
	n.mu.Lock()

	var created *Notification
	if n.seeded && n.lastStatus != t.Status {
		notif := Notification{
			ID:        fmt.Sprintf("%d-%d", t.ID, time.Now().UnixMilli()),
			TicketID:  t.ID,
			OldStatus: n.lastStatus,
			NewStatus: t.Status,
			Message: fmt.Sprintf("Your warranty ticket status changed from %q to %q",
				n.lastStatus.Label(), t.Status.Label()),
			Timestamp: time.Now(),
		}
		n.history = append([]Notification{notif}, n.history...)
		if len(n.history) > historyCap {
			n.history = n.history[:historyCap]
		}
		n.unread++
		created = &notif
	}
	n.lastStatus = t.Status
	n.seeded = true

	sink := n.sink
	n.mu.Unlock()

	if created != nil && sink != nil {
		sink.Notify(*created)
	}
	return created
}

// Notifications returns the history, newest first.
func (n *Notifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.history))
	copy(out, n.history)
	return out
}

func (n *Notifier) Unread() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.unread
}

func (n *Notifier) MarkAllRead() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.history {
		n.history[i].Read = true
	}
	n.unread = 0
}

// LastStatus returns the last observed status and whether one has been
// observed yet.
func (n *Notifier) LastStatus() (model.TicketStatus, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastStatus, n.seeded
}
