package alloc

import (
	"fmt"
	"sync"

	"github.com/darragh-downey/goo/runtime/fault"
)

// arenaBlock is one link in the arena's block chain: a fixed buffer and
// how much of it the bump pointer has consumed.
type arenaBlock struct {
	buf  []byte
	used uint32
}

// Arena is a bump-pointer allocator over linked blocks (§4.G). Per-
// pointer Free is a no-op; memory is only reclaimed on Reset or Destroy.
type Arena struct {
	statsBox

	mu        sync.Mutex
	blockSize uint32
	blocks    []*arenaBlock
	cur       int

	strategy Strategy
	hook     OOMHook
	fc       *fault.Context
}

// NewArena constructs an Arena whose blocks are blockSize bytes unless a
// single allocation is larger, in which case that allocation gets its own
// oversized block.
func NewArena(blockSize uint32, fc *fault.Context) *Arena {
	return &Arena{blockSize: blockSize, fc: fc}
}

// SetFailureStrategy configures Alloc's behavior when a new block cannot
// be obtained (modeled here as make([]byte, ...) panicking).
func (a *Arena) SetFailureStrategy(s Strategy, hook OOMHook) {
	a.strategy = s
	a.hook = hook
}

func (a *Arena) Alloc(size, align uint32, flags Flags) ([]byte, error) {
	if !isPowerOfTwo(align) {
		return nil, fmt.Errorf("alloc: alignment %d is not a power of two", align)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	retried := false
	for {
		if ptr, ok := a.tryAllocLocked(size, align); ok {
			// Blocks reused after Reset still hold earlier bytes.
			if flags&Zero != 0 {
				for i := range ptr {
					ptr[i] = 0
				}
			}
			a.recordAlloc(size)
			return ptr, nil
		}
		if !a.growLocked(size) {
			a.recordFailure()
			reason := fmt.Sprintf("arena allocation of %d bytes failed", size)
			if retried {
				// The OOM hook already ran once; fail as ReturnNull.
				if a.fc != nil {
					a.fc.Fail(fault.ErrOutOfMemory, "%s", reason)
				}
			} else if applyFailure(a.strategy, a.hook, a.fc, reason) {
				retried = true
				continue
			}
			return nil, fmt.Errorf("alloc: %s", reason)
		}
	}
}

// tryAllocLocked attempts to satisfy size/align from the current block,
// advancing through any later already-retained blocks first — a block a
// prior Reset emptied out is reused here rather than left behind for
// growLocked to pointlessly grow past (§8 invariant 2, scenario S4).
func (a *Arena) tryAllocLocked(size, align uint32) ([]byte, bool) {
	for ; a.cur < len(a.blocks); a.cur++ {
		block := a.blocks[a.cur]
		offset := alignUp(block.used, align)
		if uint64(offset)+uint64(size) > uint64(len(block.buf)) {
			continue
		}
		block.used = offset + size
		return block.buf[offset : offset+size : offset+size], true
	}
	return nil, false
}

// growLocked appends a new block sized to hold at least size bytes and
// makes it current. The boolean return is false only if the underlying
// make() itself panicked (an unreasonably large request), giving Alloc's
// failure-strategy handling something real to apply.
func (a *Arena) growLocked(size uint32) (ok bool) {
	blockLen := a.blockSize
	if size > blockLen {
		blockLen = size
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	block := &arenaBlock{buf: make([]byte, blockLen)}
	a.blocks = append(a.blocks, block)
	a.cur = len(a.blocks) - 1
	a.recordReserved(int64(blockLen))
	return true
}

func (a *Arena) Realloc(ptr []byte, oldSize, newSize, align uint32, flags Flags) ([]byte, error) {
	next, err := a.Alloc(newSize, align, flags)
	if err != nil {
		return nil, err
	}
	n := oldSize
	if newSize < n {
		n = newSize
	}
	copy(next, ptr[:n])
	return next, nil
}

// Free is a no-op: arena memory only returns to the arena on Reset, and
// to the parent allocator on Destroy (§4.G).
func (a *Arena) Free(ptr []byte, size, align uint32) {}

// Reset rewinds the bump pointer in every retained block back to zero
// without releasing them, so the next round of allocations reuses the
// same backing memory (§8 invariant 2, exercised by scenario S4).
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, b := range a.blocks {
		b.used = 0
	}
	a.cur = 0
	a.statsBox.mu.Lock()
	a.statsBox.stats.BytesAllocated = 0
	a.statsBox.mu.Unlock()
}

func (a *Arena) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocks = nil
	a.cur = 0
}

func (a *Arena) Stats() Stats { return a.snapshot() }
