package channel

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darragh-downey/goo/runtime/fault"
)

// Envelope carries a Req/Rep correlation token alongside its payload
// (§4.H: "the reply's identity is carried in a correlation token
// generated by the channel"). CorrelationID is a UUIDv4, grounded on the
// pack's choice of github.com/google/uuid for request/reply correlation
// tokens rather than a bespoke sequence counter.
type Envelope[T any] struct {
	CorrelationID uuid.UUID
	Payload       T
}

// ReqRep is a synchronous request/reply pair (§4.H): Request blocks
// until a reply carrying the same correlation token is posted on the
// paired reply channel.
type ReqRep[T any] struct {
	reqCh *Channel[Envelope[T]]
	repCh *Channel[Envelope[T]]

	mu      sync.Mutex
	pending map[uuid.UUID]chan T
	closed  bool
}

// NewReqRep constructs a request/reply pair with the given buffering on
// each side, and starts the background goroutine that fans replies out
// to whichever Request call is waiting on their correlation token.
func NewReqRep[T any](capacity uint32, fc *fault.Context) *ReqRep[T] {
	r := &ReqRep[T]{
		reqCh:   New[Envelope[T]](capacity, false, fc),
		repCh:   New[Envelope[T]](capacity, false, fc),
		pending: make(map[uuid.UUID]chan T),
	}
	go r.pumpReplies()
	return r
}

// Request sends msg and waits up to timeoutMs for the matching reply.
func (r *ReqRep[T]) Request(msg T, timeoutMs int64) (T, Outcome, error) {
	var zero T
	id := uuid.New()
	waitCh := make(chan T, 1)

	r.mu.Lock()
	r.pending[id] = waitCh
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.pending, id)
		r.mu.Unlock()
	}()

	outcome, err := r.reqCh.Send(Envelope[T]{CorrelationID: id, Payload: msg}, 0, timeoutMs)
	if outcome != Delivered {
		return zero, outcome, err
	}

	select {
	case reply := <-waitCh:
		return reply, Delivered, nil
	case <-deadlineChan(timeoutMs):
		return zero, TimedOut, errReqTimedOut
	}
}

// Serve pulls requests off the request channel, applies handler, and
// posts the result back with the same correlation token. It runs until
// the request channel is closed.
func (r *ReqRep[T]) Serve(handler func(T) T) {
	for {
		env, outcome, _ := r.reqCh.Receive(Block)
		if outcome == ChannelClosedOutcome {
			return
		}
		if outcome != Delivered {
			continue
		}
		reply := handler(env.Payload)
		r.repCh.Send(Envelope[T]{CorrelationID: env.CorrelationID, Payload: reply}, 0, Block)
	}
}

func (r *ReqRep[T]) pumpReplies() {
	for {
		env, outcome, _ := r.repCh.Receive(Block)
		if outcome == ChannelClosedOutcome {
			return
		}
		if outcome != Delivered {
			continue
		}
		r.mu.Lock()
		waitCh, ok := r.pending[env.CorrelationID]
		r.mu.Unlock()
		if !ok {
			continue
		}
		select {
		case waitCh <- env.Payload:
		default:
		}
	}
}

// Close closes both the request and reply channels, which in turn stops
// Serve and the internal reply pump.
func (r *ReqRep[T]) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()
	r.reqCh.Close()
	r.repCh.Close()
}

// deadlineChan turns a §4.H timeout_ms value into a channel usable in a
// select: nil (never fires) for Block, immediately-closed for NoWait,
// and a real timer channel for a positive deadline.
func deadlineChan(timeoutMs int64) <-chan time.Time {
	switch {
	case timeoutMs < 0:
		return nil
	case timeoutMs == 0:
		closed := make(chan time.Time)
		close(closed)
		return closed
	default:
		return time.After(time.Duration(timeoutMs) * time.Millisecond)
	}
}
