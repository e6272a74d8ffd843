package channel

import (
	"sync"

	"github.com/darragh-downey/goo/runtime/fault"
)

// PushPull implements round-robin work distribution: each pushed message
// goes to exactly one connected puller (§4.H).
type PushPull[T any] struct {
	fc *fault.Context

	mu      sync.Mutex
	pullers []*Channel[T]
	next    int
	closed  bool
}

// NewPushPull constructs an empty distributor.
func NewPushPull[T any](fc *fault.Context) *PushPull[T] {
	return &PushPull[T]{fc: fc}
}

// Connect attaches a new puller and returns its inbox channel.
func (p *PushPull[T]) Connect(capacity uint32) *Channel[T] {
	ch := New[T](capacity, false, p.fc)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pullers = append(p.pullers, ch)
	return ch
}

// Disconnect removes ch from the rotation; it does not close ch.
func (p *PushPull[T]) Disconnect(ch *Channel[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, puller := range p.pullers {
		if puller == ch {
			p.pullers = append(p.pullers[:i], p.pullers[i+1:]...)
			if p.next > i {
				p.next--
			}
			return
		}
	}
}

// Push hands value to the next puller in round-robin order, applying
// that puller's own Send semantics (buffered/rendezvous, timeout).
func (p *PushPull[T]) Push(value T, priority uint8, timeoutMs int64) (Outcome, error) {
	p.mu.Lock()
	if len(p.pullers) == 0 {
		p.mu.Unlock()
		return WouldBlock, errNoPullers
	}
	target := p.pullers[p.next]
	p.next = (p.next + 1) % len(p.pullers)
	p.mu.Unlock()

	return target.Send(value, priority, timeoutMs)
}

// Close closes every connected puller.
func (p *PushPull[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	pullers := make([]*Channel[T], len(p.pullers))
	copy(pullers, p.pullers)
	p.mu.Unlock()

	for _, puller := range pullers {
		puller.Close()
	}
}
