// Package channel implements the channel runtime (spec §4.H, §5):
// Normal, Pub/Sub, Push/Pull, and Req/Rep messaging patterns over a core
// that owns one mutex and two condition variables (send and receive) per
// channel, a priority-aware heap-ordered queue, per-channel statistics,
// and a fixed-size worker thread pool with parallel-for/parallel-reduce.
package channel

import (
	"sync"

	"github.com/darragh-downey/goo/runtime/fault"
)

// Outcome is the result of a single send or receive attempt.
type Outcome int

const (
	// Delivered means the message was sent or a message was received.
	Delivered Outcome = iota
	// WouldBlock means a non-blocking (timeoutMs == 0) attempt found the
	// channel full (send) or empty (receive).
	WouldBlock
	// TimedOut means a bounded wait's deadline passed before the
	// operation could complete.
	TimedOut
	// ChannelClosedOutcome means the channel was closed; for Receive,
	// this is only returned once the buffer has been drained (§4.H).
	ChannelClosedOutcome
)

// Block and NoWait spell out the two named timeout_ms values from §4.H
// so call sites don't sprinkle -1/0 literals.
const (
	Block  int64 = -1
	NoWait int64 = 0
)

// Stats is the per-channel statistics block (§4.H).
type Stats struct {
	MessagesSent     uint64
	MessagesReceived uint64
	BytesSent        uint64
	BytesReceived    uint64
	MaxQueueSize     uint32
	SendTimeouts     uint64
	RecvTimeouts     uint64
}

// Sizer lets a channel of a non-byte-slice element type still report
// meaningful BytesSent/BytesReceived; types that don't implement it
// contribute zero.
type Sizer interface {
	Size() int
}

// Channel is a single Normal channel: bidirectional, buffered or
// rendezvous, optionally priority-ordered (§4.H).
type Channel[T any] struct {
	fc *fault.Context

	mu       sync.Mutex
	sendCond *sync.Cond
	recvCond *sync.Cond

	capacity uint32
	q        queue[T] // nil when capacity == 0 (rendezvous)
	seq      uint64

	// Rendezvous state, used only when capacity == 0.
	slotFull bool
	slot     message[T]

	closed bool
	stats  Stats

	waitersMu sync.Mutex
	waiters   []chan struct{}
}

// New constructs a Normal channel. capacity == 0 means rendezvous;
// priority == true means the buffer is a heap ordered by message
// priority (ties FIFO) rather than plain FIFO.
func New[T any](capacity uint32, priority bool, fc *fault.Context) *Channel[T] {
	c := &Channel[T]{capacity: capacity, fc: fc}
	c.sendCond = sync.NewCond(&c.mu)
	c.recvCond = sync.NewCond(&c.mu)
	if capacity > 0 {
		if priority {
			c.q = newPriorityQueue[T]()
		} else {
			c.q = newRingQueue[T](capacity)
		}
	}
	return c
}

func byteSize(v any) int {
	if s, ok := v.(Sizer); ok {
		return s.Size()
	}
	if b, ok := v.([]byte); ok {
		return len(b)
	}
	return 0
}

// Send delivers value at the given priority (ignored by non-priority
// channels). timeoutMs follows §4.H: Block (-1) waits indefinitely,
// NoWait (0) never blocks, a positive value races a deadline.
func (c *Channel[T]) Send(value T, priority uint8, timeoutMs int64) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity == 0 {
		return c.sendRendezvousLocked(value, priority, timeoutMs)
	}
	return c.sendBufferedLocked(value, priority, timeoutMs)
}

func (c *Channel[T]) sendBufferedLocked(value T, priority uint8, timeoutMs int64) (Outcome, error) {
	ready, timedOut := waitDeadline(c.sendCond, &c.mu, timeoutMs, func() bool {
		return c.closed || c.q.len() < int(c.capacity)
	})
	if c.closed {
		c.fail(fault.ErrChannelClosed, "send on closed channel")
		return ChannelClosedOutcome, errChannelClosed
	}
	if !ready {
		if timedOut {
			c.stats.SendTimeouts++
			c.fail(fault.ErrChannelTimeout, "send timed out")
			return TimedOut, errSendTimedOut
		}
		return WouldBlock, errWouldBlock
	}

	c.seq++
	c.q.push(message[T]{value: value, priority: priority, seq: c.seq})
	c.stats.MessagesSent++
	c.stats.BytesSent += uint64(byteSize(value))
	if uint32(c.q.len()) > c.stats.MaxQueueSize {
		c.stats.MaxQueueSize = uint32(c.q.len())
	}
	c.recvCond.Signal()
	c.notifyWaitersLocked()
	return Delivered, nil
}

func (c *Channel[T]) sendRendezvousLocked(value T, priority uint8, timeoutMs int64) (Outcome, error) {
	ready, timedOut := waitDeadline(c.sendCond, &c.mu, timeoutMs, func() bool {
		return c.closed || !c.slotFull
	})
	if c.closed {
		c.fail(fault.ErrChannelClosed, "send on closed channel")
		return ChannelClosedOutcome, errChannelClosed
	}
	if !ready {
		if timedOut {
			c.stats.SendTimeouts++
			c.fail(fault.ErrChannelTimeout, "send timed out")
			return TimedOut, errSendTimedOut
		}
		return WouldBlock, errWouldBlock
	}

	c.seq++
	c.slot = message[T]{value: value, priority: priority, seq: c.seq}
	c.slotFull = true
	if c.stats.MaxQueueSize < 1 {
		c.stats.MaxQueueSize = 1
	}
	c.recvCond.Signal()
	c.notifyWaitersLocked()

	// Block until a receiver actually takes the message (true handoff),
	// not just until there is room for it.
	ready, timedOut = waitDeadline(c.sendCond, &c.mu, timeoutMs, func() bool {
		return c.closed || !c.slotFull
	})
	if !ready || c.slotFull {
		if c.closed {
			c.slotFull = false
			c.fail(fault.ErrChannelClosed, "send on closed channel")
			return ChannelClosedOutcome, errChannelClosed
		}
		// No receiver took the message: withdraw it from the slot.
		c.slotFull = false
		c.sendCond.Signal()
		if !timedOut {
			return WouldBlock, errWouldBlock
		}
		c.stats.SendTimeouts++
		c.fail(fault.ErrChannelTimeout, "send timed out waiting for a receiver")
		return TimedOut, errSendTimedOut
	}

	c.stats.MessagesSent++
	c.stats.BytesSent += uint64(byteSize(value))
	return Delivered, nil
}

// Receive takes the next message. For a priority channel, it is the
// highest-priority message currently queued; ties resolve FIFO (§4.H).
func (c *Channel[T]) Receive(timeoutMs int64) (T, Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity == 0 {
		return c.receiveRendezvousLocked(timeoutMs)
	}
	return c.receiveBufferedLocked(timeoutMs)
}

func (c *Channel[T]) receiveBufferedLocked(timeoutMs int64) (T, Outcome, error) {
	var zero T
	ready, timedOut := waitDeadline(c.recvCond, &c.mu, timeoutMs, func() bool {
		return c.q.len() > 0 || c.closed
	})
	if c.q.len() > 0 {
		m := c.q.pop()
		c.stats.MessagesReceived++
		c.stats.BytesReceived += uint64(byteSize(m.value))
		c.sendCond.Signal()
		c.notifyWaitersLocked()
		return m.value, Delivered, nil
	}
	if c.closed {
		c.fail(fault.ErrChannelClosed, "receive on closed, drained channel")
		return zero, ChannelClosedOutcome, errChannelClosed
	}
	if timedOut {
		c.stats.RecvTimeouts++
		c.fail(fault.ErrChannelTimeout, "receive timed out")
		return zero, TimedOut, errRecvTimedOut
	}
	if !ready {
		return zero, WouldBlock, errWouldBlock
	}
	return zero, WouldBlock, errWouldBlock
}

func (c *Channel[T]) receiveRendezvousLocked(timeoutMs int64) (T, Outcome, error) {
	var zero T
	ready, timedOut := waitDeadline(c.recvCond, &c.mu, timeoutMs, func() bool {
		return c.slotFull || c.closed
	})
	if c.slotFull {
		m := c.slot
		c.slotFull = false
		c.stats.MessagesReceived++
		c.stats.BytesReceived += uint64(byteSize(m.value))
		c.sendCond.Signal()
		c.notifyWaitersLocked()
		return m.value, Delivered, nil
	}
	if c.closed {
		c.fail(fault.ErrChannelClosed, "receive on closed channel")
		return zero, ChannelClosedOutcome, errChannelClosed
	}
	if timedOut {
		c.stats.RecvTimeouts++
		c.fail(fault.ErrChannelTimeout, "receive timed out")
		return zero, TimedOut, errRecvTimedOut
	}
	_ = ready
	return zero, WouldBlock, errWouldBlock
}

// Close is idempotent (§4.H, §8 invariant 5: once closed, stays closed).
// It wakes every waiter so blocked sends/receives unblock with the
// "closed" outcome instead of waiting out their deadline.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.sendCond.Broadcast()
	c.recvCond.Broadcast()
	c.notifyWaitersLocked()
}

// Closed reports whether Close has been called.
func (c *Channel[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Stats returns a snapshot of this channel's statistics.
func (c *Channel[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Channel[T]) fail(err error, format string, args ...any) {
	if c.fc != nil {
		c.fc.Fail(err, format, args...)
	}
}

// addWaiter and removeWaiter back Select: a waiter is notified (non-
// blocking, buffered-cap-1 send) on every send, receive, and close, the
// same fan-out-to-waiters idiom the epoch example uses for its
// WaitForChange notification list.
func (c *Channel[T]) addWaiter(ch chan struct{}) {
	c.waitersMu.Lock()
	defer c.waitersMu.Unlock()
	c.waiters = append(c.waiters, ch)
}

func (c *Channel[T]) removeWaiter(ch chan struct{}) {
	c.waitersMu.Lock()
	defer c.waitersMu.Unlock()
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			break
		}
	}
}

func (c *Channel[T]) notifyWaitersLocked() {
	c.waitersMu.Lock()
	waiters := make([]chan struct{}, len(c.waiters))
	copy(waiters, c.waiters)
	c.waitersMu.Unlock()
	for _, w := range waiters {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}
