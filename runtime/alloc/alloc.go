// Package alloc implements the allocator runtime (spec §4.G): four
// allocator variants — Heap, Arena, Pool, Region — sharing one narrow
// capability-set interface, a typed-safety wrapper decorator, and
// lexically-scoped cleanup binding.
//
// Following §9's "allocator polymorphism" design note, the interface is
// a small vtable ({ Alloc, Realloc, Free, Destroy, Stats }) rather than a
// class hierarchy, so the typed wrapper and scope binding can layer over
// any concrete variant without knowing which one it is.
package alloc

import (
	"fmt"
	"math"
	"sync"

	"github.com/darragh-downey/goo/runtime/fault"
)

// Flags modify a single allocation.
type Flags uint8

// Zero guarantees the returned bytes are zeroed, per §4.G.
const Zero Flags = 1 << 0

// Strategy is the failure behavior an allocator applies when it cannot
// satisfy a request (§4.G: "failure strategies per allocator").
type Strategy int

const (
	// ReturnNull reports the failure as a nil slice and an error. The
	// default for every allocator.
	ReturnNull Strategy = iota
	// Panic aborts immediately rather than returning.
	Panic
	// Retry invokes the out-of-memory hook once and retries; if the hook
	// could not free anything (or none is registered), the allocation
	// still fails under ReturnNull semantics.
	Retry
)

// OOMHook attempts to reclaim memory on behalf of an allocator configured
// with the Retry strategy. It reports whether it freed anything.
type OOMHook func() bool

// Stats is the optional per-allocator statistics block (§4.G). Field
// names follow spec wording directly; FailedAllocations and
// ReservedBytes are the two fields SPEC_FULL.md adds to the shape
// grounded on HybridStats in the arena-allocator example.
type Stats struct {
	BytesAllocated    uint64
	PeakBytes         uint64
	AllocCount        uint64
	FailedAllocations uint64
	ReservedBytes     uint64
}

// Allocator is the capability set every variant exposes (§4.G, §9).
// Allocated memory is returned as a []byte rather than an unsafe.Pointer:
// the slice header carries both address and length, so Free and Realloc
// never need a separately-tracked size for bounds purposes (the spec's
// own old_size/size parameters are kept anyway, since the variants use
// them to locate the allocation's owning block/chunk/region).
type Allocator interface {
	Alloc(size, align uint32, flags Flags) ([]byte, error)
	Realloc(ptr []byte, oldSize, newSize, align uint32, flags Flags) ([]byte, error)
	Free(ptr []byte, size, align uint32)
	Destroy()
	Stats() Stats
}

// statsBox is the shared mutex-guarded stats block every variant embeds.
// "Updates are protected by a mutex when multi-threaded access is
// possible" (§4.G) — embedding one box per allocator instance makes that
// the default rather than something each variant has to remember.
type statsBox struct {
	mu    sync.Mutex
	stats Stats
}

func (b *statsBox) recordAlloc(size uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.BytesAllocated += uint64(size)
	b.stats.AllocCount++
	if b.stats.BytesAllocated > b.stats.PeakBytes {
		b.stats.PeakBytes = b.stats.BytesAllocated
	}
}

func (b *statsBox) recordFree(size uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if uint64(size) > b.stats.BytesAllocated {
		b.stats.BytesAllocated = 0
	} else {
		b.stats.BytesAllocated -= uint64(size)
	}
}

func (b *statsBox) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.FailedAllocations++
}

func (b *statsBox) recordReserved(delta int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if delta < 0 && uint64(-delta) > b.stats.ReservedBytes {
		b.stats.ReservedBytes = 0
		return
	}
	b.stats.ReservedBytes = uint64(int64(b.stats.ReservedBytes) + delta)
}

func (b *statsBox) snapshot() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// isPowerOfTwo reports whether align is a power of two, as §4.G requires
// ("alignment is enforced to be a power of two").
func isPowerOfTwo(align uint32) bool {
	return align != 0 && align&(align-1) == 0
}

// checkedMul implements the integer-overflow guard from §4.G: count*size
// is checked, and overflow is reported regardless of failure strategy —
// "panic on overflow is always fatal" only describes the Panic strategy's
// own handling of an ordinary failure; overflow itself always comes back
// as a failure for AllocArray to turn into an OOM fault.
func checkedMul(count, size uint32) (uint32, bool) {
	product := uint64(count) * uint64(size)
	if product > math.MaxUint32 {
		return 0, false
	}
	return uint32(product), true
}

// AllocArray applies the integer-overflow guard before delegating to a's
// Alloc: count*size is computed in 64 bits and rejected if it would not
// fit back into the uint32 size Alloc expects, independent of a's
// configured failure strategy.
func AllocArray(a Allocator, count, elemSize, align uint32, flags Flags, fc *fault.Context) ([]byte, error) {
	total, ok := checkedMul(count, elemSize)
	if !ok {
		if fc != nil {
			fc.Fail(fault.ErrOutOfMemory, "count*size overflow: %d * %d", count, elemSize)
		}
		return nil, fmt.Errorf("alloc: count*size overflow: %d * %d", count, elemSize)
	}
	return a.Alloc(total, align, flags)
}

// applyFailure executes strategy upon an allocation failure, given the
// out-of-memory hook (which may be nil). It returns true if the caller
// should retry the allocation once more.
func applyFailure(strategy Strategy, hook OOMHook, fc *fault.Context, reason string) (retry bool) {
	switch strategy {
	case Panic:
		panic(fmt.Sprintf("alloc: %s", reason))
	case Retry:
		if hook != nil && hook() {
			return true
		}
		if fc != nil {
			fc.Fail(fault.ErrOutOfMemory, "%s", reason)
		}
		return false
	default: // ReturnNull
		if fc != nil {
			fc.Fail(fault.ErrOutOfMemory, "%s", reason)
		}
		return false
	}
}

// alignUp rounds n up to the next multiple of align (align must already
// be a verified power of two).
func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
