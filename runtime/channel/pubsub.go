package channel

import (
	"strings"
	"sync"

	"github.com/darragh-downey/goo/runtime/fault"
)

// subscriber pairs a subscriber's inbox with the topic prefix it filters
// on (§4.H: "prefix match on topic string").
type subscriber[T any] struct {
	ch     *Channel[T]
	prefix string
}

// PubSub is the publisher side of the Pub/Sub pattern (§4.H): it holds
// the subscriber list and delivers a copy of each published message to
// every subscriber whose filter matches.
type PubSub[T any] struct {
	fc *fault.Context

	mu     sync.Mutex
	subs   []*subscriber[T]
	closed bool
}

// NewPubSub constructs an empty publisher.
func NewPubSub[T any](fc *fault.Context) *PubSub[T] {
	return &PubSub[T]{fc: fc}
}

// Subscribe registers a new subscriber filtering on topicPrefix and
// returns its inbox channel.
func (p *PubSub[T]) Subscribe(topicPrefix string, capacity uint32) *Channel[T] {
	ch := New[T](capacity, false, p.fc)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, &subscriber[T]{ch: ch, prefix: topicPrefix})
	return ch
}

// Unsubscribe removes ch from the subscriber list; it does not close ch.
func (p *PubSub[T]) Unsubscribe(ch *Channel[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s.ch == ch {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers value to every subscriber whose filter prefix-matches
// topic, and reports how many subscribers received it. Delivery is
// non-blocking per subscriber: a slow or full subscriber drops the
// message rather than stalling the publisher, since the lock discipline
// in §5 forbids holding any lock across a callback or a blocking
// operation on a subscriber the publisher does not own exclusively.
func (p *PubSub[T]) Publish(topic string, value T) (delivered int) {
	p.mu.Lock()
	subs := make([]*subscriber[T], len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, s := range subs {
		if !strings.HasPrefix(topic, s.prefix) {
			continue
		}
		if outcome, _ := s.ch.Send(value, 0, NoWait); outcome == Delivered {
			delivered++
		}
	}
	return delivered
}

// Close closes every subscriber's channel. Each subscriber's own Close
// semantics already let it drain whatever is buffered before reporting
// "closed" to its receiver, which is what §4.H means by "close
// propagates to subscribers after flushing".
func (p *PubSub[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	subs := make([]*subscriber[T], len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, s := range subs {
		s.ch.Close()
	}
}
