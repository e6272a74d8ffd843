package alloc

import (
	"fmt"

	"github.com/darragh-downey/goo/runtime/fault"
)

// Heap is the process allocator (§4.G): alloc/realloc/free each map
// directly onto a real Go heap allocation, and free actually returns the
// memory (no batching, unlike Arena/Pool/Region).
type Heap struct {
	statsBox

	strategy Strategy
	hook     OOMHook
	fc       *fault.Context
}

// NewHeap constructs a Heap allocator reporting faults into fc (may be
// nil if the caller does not need runtime fault records).
func NewHeap(fc *fault.Context) *Heap {
	return &Heap{fc: fc}
}

// SetFailureStrategy configures how Alloc/Realloc behave when Go's own
// allocator cannot satisfy a request — which in practice only happens
// for sizes so large make() itself panics, since Heap does not pre-
// reserve any capacity of its own.
func (h *Heap) SetFailureStrategy(s Strategy, hook OOMHook) {
	h.strategy = s
	h.hook = hook
}

func (h *Heap) Alloc(size, align uint32, flags Flags) (ptr []byte, err error) {
	if !isPowerOfTwo(align) {
		return nil, fmt.Errorf("alloc: alignment %d is not a power of two", align)
	}
	// Zero flag is a no-op for a fresh make([]byte, ...): Go already
	// zeros new slices, but the allocation is still logically "always
	// zeroed" regardless of the flag for this variant.
	_ = flags

	attempt := func() (ok bool) {
		defer func() {
			if recover() != nil {
				ok = false
			}
		}()
		ptr = make([]byte, size)
		return true
	}

	if attempt() {
		h.recordAlloc(size)
		return ptr, nil
	}
	h.recordFailure()
	reason := fmt.Sprintf("heap allocation of %d bytes failed", size)
	if applyFailure(h.strategy, h.hook, h.fc, reason) && attempt() {
		h.recordAlloc(size)
		return ptr, nil
	}
	return nil, fmt.Errorf("alloc: %s", reason)
}

func (h *Heap) Realloc(ptr []byte, oldSize, newSize, align uint32, flags Flags) ([]byte, error) {
	next, err := h.Alloc(newSize, align, flags)
	if err != nil {
		return nil, err
	}
	n := copy(next, ptr)
	_ = n
	h.Free(ptr, oldSize, align)
	return next, nil
}

func (h *Heap) Free(ptr []byte, size, align uint32) {
	_ = ptr
	_ = align
	h.recordFree(size)
}

func (h *Heap) Destroy() {}

func (h *Heap) Stats() Stats { return h.snapshot() }
