package alloc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darragh-downey/goo/runtime/alloc"
	"github.com/darragh-downey/goo/runtime/fault"
)

func TestHeapAllocAndFreeTrackStats(t *testing.T) {
	t.Parallel()

	h := alloc.NewHeap(nil)
	ptr, err := h.Alloc(64, 8, 0)
	require.NoError(t, err)
	require.Len(t, ptr, 64)

	assert.Equal(t, uint64(64), h.Stats().BytesAllocated)
	h.Free(ptr, 64, 8)
	assert.Equal(t, uint64(0), h.Stats().BytesAllocated)
}

func TestHeapAllocRejectsNonPowerOfTwoAlignment(t *testing.T) {
	t.Parallel()

	h := alloc.NewHeap(nil)
	_, err := h.Alloc(16, 3, 0)
	assert.Error(t, err)
}

// TestArenaResetIdempotence exercises §8 invariant 2 and scenario S4:
// 1000 allocations of 16 bytes accumulate at least 16000 bytes, Reset
// zeroes bytes_allocated, and the next round of allocations fits inside
// the blocks already obtained (no parent-allocator growth).
func TestArenaResetIdempotence(t *testing.T) {
	t.Parallel()

	a := alloc.NewArena(4096, nil)
	for i := 0; i < 1000; i++ {
		_, err := a.Alloc(16, 8, 0)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, a.Stats().BytesAllocated, uint64(16000))
	reservedBefore := a.Stats().ReservedBytes

	a.Reset()
	assert.Equal(t, uint64(0), a.Stats().BytesAllocated)

	for i := 0; i < 1000; i++ {
		_, err := a.Alloc(16, 8, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, reservedBefore, a.Stats().ReservedBytes, "no new blocks should be requested after reset")
}

func TestArenaFreeIsNoOp(t *testing.T) {
	t.Parallel()

	a := alloc.NewArena(4096, nil)
	ptr, err := a.Alloc(32, 8, 0)
	require.NoError(t, err)
	before := a.Stats().BytesAllocated
	a.Free(ptr, 32, 8)
	assert.Equal(t, before, a.Stats().BytesAllocated)
}

// TestPoolConservation exercises §8 invariant 3: free_chunks +
// allocated_chunks == total_chunks at all times.
func TestPoolConservation(t *testing.T) {
	t.Parallel()

	p := alloc.NewPool(32, 4, nil)
	var ptrs [][]byte
	for i := 0; i < 10; i++ {
		ptr, err := p.Alloc(32, 8, 0)
		require.NoError(t, err)
		ptrs = append(ptrs, ptr)
		freeChunks := p.Total() - p.Allocated()
		assert.Equal(t, p.Total(), p.Allocated()+freeChunks)
	}
	for _, ptr := range ptrs {
		p.Free(ptr, 32, 8)
	}
	assert.Equal(t, uint32(0), p.Allocated())
}

func TestPoolRejectsOversizedRequest(t *testing.T) {
	t.Parallel()

	p := alloc.NewPool(16, 4, nil)
	_, err := p.Alloc(32, 8, 0)
	assert.Error(t, err)
}

func TestPoolResetRebuildsFreeListWithoutGrowing(t *testing.T) {
	t.Parallel()

	p := alloc.NewPool(16, 4, nil)
	for i := 0; i < 4; i++ {
		_, err := p.Alloc(16, 8, 0)
		require.NoError(t, err)
	}
	reservedBefore := p.Stats().ReservedBytes

	p.Reset()
	assert.Equal(t, uint32(0), p.Allocated())
	for i := 0; i < 4; i++ {
		_, err := p.Alloc(16, 8, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, reservedBefore, p.Stats().ReservedBytes)
}

func TestRegionFreeReclaimsOnlyThatRegion(t *testing.T) {
	t.Parallel()

	r := alloc.NewRegionAllocator(4096, nil)
	a := r.CreateRegion()
	b := r.CreateRegion()

	arenaA, ok := r.Open(a)
	require.True(t, ok)
	_, err := arenaA.Alloc(64, 8, 0)
	require.NoError(t, err)

	arenaB, ok := r.Open(b)
	require.True(t, ok)
	_, err = arenaB.Alloc(64, 8, 0)
	require.NoError(t, err)

	require.NoError(t, r.FreeRegion(a))
	_, ok = r.Open(a)
	assert.False(t, ok, "freed region must no longer be open")
	_, ok = r.Open(b)
	assert.True(t, ok, "freeing one region must not affect another")
}

func TestTypedAllocThenCheckTypeAndDoubleFree(t *testing.T) {
	t.Parallel()

	fc := fault.NewContext()
	inner := alloc.NewHeap(fc)
	typed := alloc.NewTyped(inner, fc)

	sig := alloc.NewTypeSignature("Point", 16)
	ptr, err := typed.AllocTyped(sig, 8, 0)
	require.NoError(t, err)
	require.Len(t, ptr, 16)

	assert.True(t, typed.CheckType(ptr, sig))
	other := alloc.NewTypeSignature("Other", 16)
	assert.False(t, typed.CheckType(ptr, other))

	require.NoError(t, typed.FreeTyped(ptr, 8))
	// §8 invariant 8: safe_free called twice returns an error the second time.
	err = typed.FreeTyped(ptr, 8)
	assert.Error(t, err)
	assert.True(t, fc.Failed())
}

func TestScopeCleanupsRunInLIFOOrder(t *testing.T) {
	t.Parallel()

	var order []int
	s := alloc.NewScope(alloc.NewHeap(nil))
	s.Defer(func() { order = append(order, 1) })
	s.Defer(func() { order = append(order, 2) })
	s.Defer(func() { order = append(order, 3) })

	s.Close()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestScopeCleanupPanicMarksFailedButRunsRemaining(t *testing.T) {
	t.Parallel()

	var ran []string
	s := alloc.NewScope(alloc.NewHeap(nil))
	s.Defer(func() { ran = append(ran, "first") })
	s.Defer(func() { panic("boom") })
	s.Defer(func() { ran = append(ran, "third") })

	failed := s.Close()
	assert.True(t, failed)
	assert.Equal(t, []string{"third", "first"}, ran)
}

func TestRunRePanicsAfterCleanupsComplete(t *testing.T) {
	t.Parallel()

	var ranCleanup bool
	assert.Panics(t, func() {
		alloc.Run(alloc.NewHeap(nil), func(s *alloc.Scope) {
			s.Defer(func() { ranCleanup = true })
			panic("body failure")
		})
	})
	assert.True(t, ranCleanup)
}
