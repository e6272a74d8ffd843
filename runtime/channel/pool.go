package channel

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// MaxPoolSize is the implementation limit §4.H names as an example
// ("capped at an implementation limit, e.g., 64").
const MaxPoolSize = 64

var errPoolShutDown = errors.New("channel: thread pool is shut down")

// Pool is a fixed-size worker pool (§4.H). Concurrency is capped by a
// weighted semaphore rather than a hand-rolled condition-variable task
// queue: Submit blocks (respecting ctx) until a worker slot is free,
// which is the same "task submission waits for a worker" behavior the
// spec describes, expressed with golang.org/x/sync/semaphore instead of
// a bespoke lock-free queue plus condvar.
type Pool struct {
	size int64
	sem  *semaphore.Weighted

	mu       sync.Mutex
	shutdown bool
	active   sync.WaitGroup
}

// NewPool constructs a pool of size workers, clamped to [1, MaxPoolSize].
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	if size > MaxPoolSize {
		size = MaxPoolSize
	}
	return &Pool{size: int64(size), sem: semaphore.NewWeighted(int64(size))}
}

// Submit runs task on a worker once one is free, or returns ctx's error
// if ctx is cancelled first. It returns immediately after dispatch; the
// caller uses WaitAll to block until every submitted task has finished.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return errPoolShutDown
	}
	p.mu.Unlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.active.Add(1)
	go func() {
		defer p.sem.Release(1)
		defer p.active.Done()
		task()
	}()
	return nil
}

// WaitAll blocks until the active-task counter reaches zero (§4.H).
func (p *Pool) WaitAll() {
	p.active.Wait()
}

// Shutdown marks the pool closed to further Submit calls, then waits for
// every already-submitted task to finish ("drains remaining tasks").
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.shutdown = true
	p.mu.Unlock()
	p.active.Wait()
}

// chunkBounds divides [0, n) into ceil(n/workers)-sized contiguous
// chunks, the balanced split §4.H specifies for parallel_for.
func chunkBounds(n, workers int) [][2]int {
	if n <= 0 || workers <= 0 {
		return nil
	}
	chunkSize := (n + workers - 1) / workers
	bounds := make([][2]int, 0, workers)
	for lo := 0; lo < n; lo += chunkSize {
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		bounds = append(bounds, [2]int{lo, hi})
	}
	return bounds
}

// ParallelFor divides [start, end) by step into balanced chunks across
// pool's workers and calls body once per real index within each chunk,
// awaiting every chunk's completion (§4.H). step must be positive.
func ParallelFor(ctx context.Context, pool *Pool, start, end, step int, body func(i int) error) error {
	if step <= 0 {
		step = 1
	}
	n := 0
	if end > start {
		n = (end - start + step - 1) / step
	}
	workers := int(pool.size)
	if workers > n {
		workers = n
	}
	bounds := chunkBounds(n, workers)

	g, gctx := errgroup.WithContext(ctx)
	for _, b := range bounds {
		lo, hi := b[0], b[1]
		g.Go(func() error {
			for k := lo; k < hi; k++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if err := body(start + k*step); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// ParallelReduce maps each balanced chunk of [start, end) (by step) to a
// local accumulator via mapChunk — called once with that chunk's [lo,
// hi) real-index bounds — then sequentially folds the per-chunk
// accumulators with reduce, starting from identity (§4.H). reduce must
// be associative; the sequential fold is the only part that is not run
// on the pool, since it operates over already-computed, already-ordered
// partial results rather than the original range.
func ParallelReduce[A any](ctx context.Context, pool *Pool, start, end, step int, identity A, mapChunk func(lo, hi int) A, reduce func(acc, val A) A) (A, error) {
	if step <= 0 {
		step = 1
	}
	n := 0
	if end > start {
		n = (end - start + step - 1) / step
	}
	workers := int(pool.size)
	if workers > n {
		workers = n
	}
	bounds := chunkBounds(n, workers)
	partial := make([]A, len(bounds))

	g, _ := errgroup.WithContext(ctx)
	for i, b := range bounds {
		i, lo, hi := i, start+b[0]*step, start+b[1]*step
		g.Go(func() error {
			partial[i] = mapChunk(lo, hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return identity, err
	}

	acc := identity
	for _, v := range partial {
		acc = reduce(acc, v)
	}
	return acc, nil
}
