package channel

import (
	"math/rand"
	"time"
)

// selectable is the subset of Channel[T]'s waiter-registration API that
// Select needs, kept non-generic so a single Select call can mix cases
// over channels of different element types.
type selectable interface {
	addWaiter(ch chan struct{})
	removeWaiter(ch chan struct{})
}

// Case is one arm of a Select call: a non-blocking attempt paired with
// the channel it is attempted against.
type Case struct {
	sel selectable
	try func() bool
}

// SendCase builds a Select arm that attempts a non-blocking send.
func SendCase[T any](ch *Channel[T], value T, priority uint8) Case {
	return Case{
		sel: ch,
		try: func() bool {
			outcome, _ := ch.Send(value, priority, NoWait)
			return outcome == Delivered
		},
	}
}

// RecvCase builds a Select arm that attempts a non-blocking receive,
// storing the received value into *out on success.
func RecvCase[T any](ch *Channel[T], out *T) Case {
	return Case{
		sel: ch,
		try: func() bool {
			v, outcome, _ := ch.Receive(NoWait)
			if outcome != Delivered {
				return false
			}
			*out = v
			return true
		},
	}
}

// Select represents the source language's `select` statement (§9): a
// single acquisition of a lock set across every case's channel with a
// randomized fairness order, blocking on a combined wait until one case
// becomes ready or timeoutMs expires. It registers a shared notification
// channel with every case's channel (the same waiters/notifyWaiters
// fan-out idiom the epoch example uses for WaitForChange) instead of
// holding every channel's mutex at once, since a global lock order across
// arbitrarily many channels would risk deadlocking with ordinary
// Send/Receive calls on the same channels from other goroutines.
//
// It returns the index of the case that completed and true, or (-1,
// false) if timeoutMs expired (or, for NoWait, if nothing was ready on
// the first pass) without any case completing.
func Select(timeoutMs int64, cases ...Case) (int, bool) {
	if len(cases) == 0 {
		return -1, false
	}

	order := rand.Perm(len(cases))
	tryOnce := func() (int, bool) {
		for _, i := range order {
			if cases[i].try() {
				return i, true
			}
		}
		return -1, false
	}

	if i, ok := tryOnce(); ok {
		return i, true
	}
	if timeoutMs == NoWait {
		return -1, false
	}

	notify := make(chan struct{}, len(cases))
	for _, c := range cases {
		c.sel.addWaiter(notify)
	}
	defer func() {
		for _, c := range cases {
			c.sel.removeWaiter(notify)
		}
	}()

	var deadline <-chan time.Time
	if timeoutMs > 0 {
		timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-notify:
			if i, ok := tryOnce(); ok {
				return i, true
			}
		case <-deadline:
			return -1, false
		}
	}
}
