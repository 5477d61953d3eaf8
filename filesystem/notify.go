package filesystem

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/internal/util"
)

// notifier buffers mutation events and flushes them to every subscriber as a
// single ordered batch once a full quiet period passes with no new events.
// Each record call restarts the timer, so a continuous stream of mutations
// postpones delivery indefinitely.
type notifier struct {
	delay   time.Duration
	bufSize int
	subs    *xsync.Map[string, chan []memfs.Event]

	mu       sync.Mutex // guards the fields below
	pending  []memfs.Event
	timer    *time.Timer
	deadline time.Time // earliest instant the pending buffer may flush
	closed   bool
}

func newNotifier(cfg *config.Config) *notifier {
	return &notifier{
		delay:   cfg.NotifyDelay,
		bufSize: cfg.SubscriberBuffer,
		subs:    xsync.NewMap[string, chan []memfs.Event](),
	}
}

// record appends events to the buffer, preserving emission order across
// calls, and (re)arms the flush timer for the full quiet period
func (n *notifier) record(events ...memfs.Event) {
	if len(events) == 0 {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}

	n.pending = append(n.pending, events...)
	n.deadline = time.Now().Add(n.delay)
	if n.timer != nil {
		n.timer.Stop()
		n.timer.Reset(n.delay)
		return
	}
	n.timer = time.AfterFunc(n.delay, n.flush)
}

// flush delivers the entire buffered sequence as one batch and returns the
// notifier to idle. Batches are dropped for subscribers whose channel is full.
func (n *notifier) flush() {
	n.mu.Lock()
	if n.closed || len(n.pending) == 0 {
		n.mu.Unlock()
		return
	}
	// A record call can restart the quiet period while this fire is already
	// in flight waiting on mu. Honor the restart by re-arming for the
	// remainder instead of delivering early.
	if remaining := time.Until(n.deadline); remaining > 0 {
		n.timer.Reset(remaining)
		n.mu.Unlock()
		return
	}
	batch := n.pending
	n.pending = nil
	n.timer = nil
	n.mu.Unlock()

	logger := util.GetLogger("Notifier")
	logger.Trace().Int("events", len(batch)).Msg("Flushing event batch")

	n.subs.Range(func(_ string, ch chan []memfs.Event) bool {
		select {
		case ch <- batch:
		default:
			// Drop batch for slow consumer
		}
		return true
	})
}

func (n *notifier) subscribe() *Subscription {
	ch := make(chan []memfs.Event, n.bufSize)
	id := uuid.NewString()
	n.subs.Store(id, ch)
	return &Subscription{id: id, n: n, C: ch}
}

func (n *notifier) unsubscribe(id string) {
	if ch, ok := n.subs.LoadAndDelete(id); ok {
		close(ch)
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	n.closed = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.pending = nil
	n.mu.Unlock()

	n.subs.Range(func(id string, _ chan []memfs.Event) bool {
		n.unsubscribe(id)
		return true
	})
}

// Subscription is a live feed of flushed event batches. Receive from C;
// call Dispose to stop delivery and close the channel.
type Subscription struct {
	id string
	n  *notifier
	C  <-chan []memfs.Event
}

// Dispose unregisters the subscription and closes its channel
func (s *Subscription) Dispose() {
	s.n.unsubscribe(s.id)
}
