package channel

import (
	"sync"
	"time"
)

// waitDeadline blocks on cond until pred reports true, timeoutMs expires,
// or (for the -1 case) forever. mu is the same mutex cond was built from
// and must already be held by the caller; it is released and reacquired
// by cond.Wait the way sync.Cond always does.
//
// timeoutMs follows §4.H exactly: -1 blocks indefinitely, 0 never blocks
// (pred is checked once), positive values race a deadline timer against
// cond — adapting the deadline-vs-notification race in the epoch
// example's WaitForChange to a condition variable instead of a channel
// receive, since §5 mandates one mutex and two condition variables per
// channel rather than a channel-of-channels core.
func waitDeadline(cond *sync.Cond, mu sync.Locker, timeoutMs int64, pred func() bool) (ready bool, timedOut bool) {
	if pred() {
		return true, false
	}
	switch {
	case timeoutMs == 0:
		return false, false
	case timeoutMs < 0:
		for !pred() {
			cond.Wait()
		}
		return true, false
	default:
		expired := false
		timer := time.AfterFunc(time.Duration(timeoutMs)*time.Millisecond, func() {
			mu.Lock()
			expired = true
			cond.Broadcast()
			mu.Unlock()
		})
		defer timer.Stop()
		for !pred() && !expired {
			cond.Wait()
		}
		if pred() {
			return true, false
		}
		return false, true
	}
}
