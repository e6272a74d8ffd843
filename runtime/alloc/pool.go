package alloc

import (
	"fmt"
	"sync"

	"github.com/darragh-downey/goo/runtime/fault"
)

// Pool is a free list of fixed-size chunks in linked blocks (§4.G). Every
// allocation, regardless of requested size (as long as it fits), returns
// a chunkSize-sized slice; per-pointer Free returns the chunk to the head
// of the free list. Chunk/block bookkeeping is grounded on the arena
// example's SlabAllocator/SlabCache split — one size class instead of
// ten, and a plain free-list stack instead of a bitmap, since Pool (per
// spec) commits to a single chunk size per instance.
type Pool struct {
	statsBox

	mu             sync.Mutex
	chunkSize      uint32
	chunksPerBlock uint32
	blocks         [][]byte
	free           [][]byte
	allocated      uint32
	total          uint32

	strategy Strategy
	hook     OOMHook
	fc       *fault.Context
}

// NewPool constructs a Pool whose chunks are chunkSize bytes, grown
// chunksPerBlock chunks at a time.
func NewPool(chunkSize, chunksPerBlock uint32, fc *fault.Context) *Pool {
	return &Pool{chunkSize: chunkSize, chunksPerBlock: chunksPerBlock, fc: fc}
}

func (p *Pool) SetFailureStrategy(s Strategy, hook OOMHook) {
	p.strategy = s
	p.hook = hook
}

// Allocated and Total expose the conservation counters behind §8
// invariant 3 (free_chunks + allocated_chunks == total_chunks).
func (p *Pool) Allocated() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated
}

func (p *Pool) Total() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

func (p *Pool) Alloc(size, align uint32, flags Flags) ([]byte, error) {
	if !isPowerOfTwo(align) {
		return nil, fmt.Errorf("alloc: alignment %d is not a power of two", align)
	}
	if size > p.chunkSize {
		return nil, fmt.Errorf("alloc: requested size %d exceeds pool chunk size %d", size, p.chunkSize)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	retried := false
	for {
		if len(p.free) > 0 {
			chunk := p.free[len(p.free)-1]
			p.free = p.free[:len(p.free)-1]
			p.allocated++
			if flags&Zero != 0 {
				for i := range chunk {
					chunk[i] = 0
				}
			}
			p.recordAlloc(p.chunkSize)
			return chunk, nil
		}
		p.growLocked()
		if len(p.free) > 0 {
			continue
		}
		p.recordFailure()
		reason := fmt.Sprintf("pool exhausted allocating chunk of %d bytes", p.chunkSize)
		if retried {
			// The OOM hook already ran once; fail as ReturnNull.
			if p.fc != nil {
				p.fc.Fail(fault.ErrOutOfMemory, "%s", reason)
			}
		} else if applyFailure(p.strategy, p.hook, p.fc, reason) {
			retried = true
			continue
		}
		return nil, fmt.Errorf("alloc: %s", reason)
	}
}

func (p *Pool) growLocked() {
	block := make([]byte, uint64(p.chunkSize)*uint64(p.chunksPerBlock))
	p.blocks = append(p.blocks, block)
	for i := uint32(0); i < p.chunksPerBlock; i++ {
		start := i * p.chunkSize
		p.free = append(p.free, block[start:start+p.chunkSize:start+p.chunkSize])
	}
	p.total += p.chunksPerBlock
	p.recordReserved(int64(len(block)))
}

// Free returns ptr to the head of the free list (§4.G).
func (p *Pool) Free(ptr []byte, size, align uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.allocated == 0 {
		return
	}
	p.allocated--
	p.free = append(p.free, ptr)
	p.recordFree(p.chunkSize)
}

// Realloc is a no-op resize within the chunk's fixed capacity: Pool
// commits to one chunk size per instance, so growing past it is an
// error rather than a reallocation to a different pool.
func (p *Pool) Realloc(ptr []byte, oldSize, newSize, align uint32, flags Flags) ([]byte, error) {
	if newSize > p.chunkSize {
		return nil, fmt.Errorf("alloc: pool chunk size %d cannot grow to %d", p.chunkSize, newSize)
	}
	return ptr, nil
}

// Reset rebuilds the free list over every block already obtained from
// the parent allocator, without requesting any new memory (§4.G).
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = p.free[:0]
	for _, block := range p.blocks {
		for i := uint32(0); i < p.chunksPerBlock; i++ {
			start := i * p.chunkSize
			p.free = append(p.free, block[start:start+p.chunkSize:start+p.chunkSize])
		}
	}
	p.allocated = 0
	p.statsBox.mu.Lock()
	p.statsBox.stats.BytesAllocated = 0
	p.statsBox.mu.Unlock()
}

func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blocks = nil
	p.free = nil
	p.allocated = 0
	p.total = 0
}

func (p *Pool) Stats() Stats { return p.snapshot() }
