package filesystem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/internal/util"
)

func newTestNotifier(delayMs, buffer int) *notifier {
	return newNotifier(config.NewConfig(&config.ConfigOverride{
		NotifyDelayMs:    util.Pointer(delayMs),
		SubscriberBuffer: util.Pointer(buffer),
	}))
}

func TestNotifier_SingleBatch(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(20, 8)
	sub := n.subscribe()
	defer sub.Dispose()

	n.record(memfs.Event{Kind: memfs.Created, Path: "/a"})
	n.record(
		memfs.Event{Kind: memfs.Changed, Path: "/a"},
		memfs.Event{Kind: memfs.Deleted, Path: "/b"},
	)

	select {
	case batch := <-sub.C:
		assert.Equal(t, []memfs.Event{
			{Kind: memfs.Created, Path: "/a"},
			{Kind: memfs.Changed, Path: "/a"},
			{Kind: memfs.Deleted, Path: "/b"},
		}, batch)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func TestNotifier_NoDeduplication(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(20, 8)
	sub := n.subscribe()
	defer sub.Dispose()

	ev := memfs.Event{Kind: memfs.Changed, Path: "/same"}
	n.record(ev)
	n.record(ev)
	n.record(ev)

	select {
	case batch := <-sub.C:
		assert.Equal(t, []memfs.Event{ev, ev, ev}, batch)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func TestNotifier_DebounceRestart(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(60, 8)
	sub := n.subscribe()
	defer sub.Dispose()

	n.record(memfs.Event{Kind: memfs.Created, Path: "/first"})
	time.Sleep(30 * time.Millisecond)
	// second record restarts the full quiet period
	n.record(memfs.Event{Kind: memfs.Created, Path: "/second"})

	// nothing may arrive where the first timer alone would have fired
	select {
	case batch := <-sub.C:
		t.Fatalf("batch delivered before restarted quiet period elapsed: %v", batch)
	case <-time.After(45 * time.Millisecond):
	}

	select {
	case batch := <-sub.C:
		require.Len(t, batch, 2)
		assert.Equal(t, "/first", batch[0].Path)
		assert.Equal(t, "/second", batch[1].Path)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func TestNotifier_StaleFireHonorsDeadline(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(60, 8)
	sub := n.subscribe()
	defer sub.Dispose()

	n.record(memfs.Event{Kind: memfs.Created, Path: "/early"})
	// simulate a timer fire racing a fresh record: the quiet period has not
	// elapsed, so the flush must re-arm instead of delivering
	n.flush()

	select {
	case batch := <-sub.C:
		t.Fatalf("batch delivered before quiet period elapsed: %v", batch)
	case <-time.After(30 * time.Millisecond):
	}

	select {
	case batch := <-sub.C:
		require.Len(t, batch, 1)
		assert.Equal(t, "/early", batch[0].Path)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch")
	}
}

func TestNotifier_MultipleSubscribers(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(20, 8)
	sub1 := n.subscribe()
	defer sub1.Dispose()
	sub2 := n.subscribe()
	defer sub2.Dispose()

	n.record(memfs.Event{Kind: memfs.Created, Path: "/shared"})

	for i, sub := range []*Subscription{sub1, sub2} {
		select {
		case batch := <-sub.C:
			require.Len(t, batch, 1)
			assert.Equal(t, "/shared", batch[0].Path)
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timed out", i)
		}
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(20, 8)
	sub := n.subscribe()

	sub.Dispose()

	// channel closed; later flushes must not panic
	_, ok := <-sub.C
	assert.False(t, ok)

	n.record(memfs.Event{Kind: memfs.Created, Path: "/after"})
	time.Sleep(50 * time.Millisecond)
}

func TestNotifier_SlowConsumerDrops(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(10, 1)
	sub := n.subscribe()
	defer sub.Dispose()

	n.record(memfs.Event{Kind: memfs.Created, Path: "/one"})
	time.Sleep(40 * time.Millisecond)
	n.record(memfs.Event{Kind: memfs.Created, Path: "/two"})
	time.Sleep(40 * time.Millisecond)
	// buffer of one holds the first batch; the second was dropped
	n.record(memfs.Event{Kind: memfs.Created, Path: "/three"})
	time.Sleep(40 * time.Millisecond)

	batch := <-sub.C
	require.Len(t, batch, 1)
	assert.Equal(t, "/one", batch[0].Path)

	select {
	case batch := <-sub.C:
		// only batches flushed after the buffer drained may follow
		assert.NotEqual(t, "/two", batch[0].Path)
	default:
	}
}

func TestNotifier_CloseCancelsPendingFlush(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(50, 8)
	sub := n.subscribe()

	n.record(memfs.Event{Kind: memfs.Created, Path: "/never"})
	n.close()

	select {
	case batch, ok := <-sub.C:
		assert.False(t, ok, "expected closed channel, got batch %v", batch)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("subscriber channel not closed")
	}

	// record after close is a no-op
	n.record(memfs.Event{Kind: memfs.Created, Path: "/ignored"})
}
