package alloc

import (
	"fmt"
	"sync"

	"github.com/darragh-downey/goo/runtime/fault"
)

// Region is an arena partitioned into independently-freeable regions
// (§4.G). Each region is itself a bump-pointer Arena; Region's own job is
// just the registry mapping region IDs to their Arena and the
// free-as-a-unit operation that plain Arena does not have.
type Region struct {
	mu        sync.Mutex
	blockSize uint32
	fc        *fault.Context
	strategy  Strategy
	hook      OOMHook

	regions map[uint64]*Arena
	nextID  uint64
}

// NewRegionAllocator constructs a Region whose member arenas use
// blockSize-byte blocks.
func NewRegionAllocator(blockSize uint32, fc *fault.Context) *Region {
	return &Region{blockSize: blockSize, fc: fc, regions: make(map[uint64]*Arena)}
}

func (r *Region) SetFailureStrategy(s Strategy, hook OOMHook) {
	r.strategy = s
	r.hook = hook
}

// CreateRegion allocates a fresh region and returns its ID.
func (r *Region) CreateRegion() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	a := NewArena(r.blockSize, r.fc)
	a.SetFailureStrategy(r.strategy, r.hook)
	r.regions[id] = a
	return id
}

// Open returns the Arena backing region id, so callers can Alloc/Free/
// Realloc against it like any other Allocator. The bool is false if id
// does not name a live region (never created, or already freed).
func (r *Region) Open(id uint64) (*Arena, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.regions[id]
	return a, ok
}

// FreeRegion reclaims region id as a unit: per-pointer free within a
// region is a no-op, so this is the only way memory in a region comes
// back (§4.G).
func (r *Region) FreeRegion(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.regions[id]
	if !ok {
		return fmt.Errorf("alloc: region %d is not live", id)
	}
	a.Destroy()
	delete(r.regions, id)
	return nil
}

// Reset destroys every live region (§4.G: Region's own Reset column is
// "destroys all regions", unlike Arena's rewind-in-place).
func (r *Region) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.regions {
		a.Destroy()
		delete(r.regions, id)
	}
}

// Destroy tears down every region permanently.
func (r *Region) Destroy() {
	r.Reset()
}

// Stats aggregates the stats of every currently live region.
func (r *Region) Stats() Stats {
	r.mu.Lock()
	regions := make([]*Arena, 0, len(r.regions))
	for _, a := range r.regions {
		regions = append(regions, a)
	}
	r.mu.Unlock()

	var total Stats
	for _, a := range regions {
		s := a.Stats()
		total.BytesAllocated += s.BytesAllocated
		total.PeakBytes += s.PeakBytes
		total.AllocCount += s.AllocCount
		total.FailedAllocations += s.FailedAllocations
		total.ReservedBytes += s.ReservedBytes
	}
	return total
}
