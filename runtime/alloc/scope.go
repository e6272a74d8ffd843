package alloc

// Cleanup is a user-registered callback run on scope exit.
type Cleanup func()

// Scope is a lexical region that installs a default allocator for its
// enclosed allocations and runs registered cleanups in reverse order of
// registration on exit, normal or panicking (§4.G, §5).
type Scope struct {
	allocator Allocator
	cleanups  []Cleanup
	failed    bool
}

// NewScope constructs a Scope bound to allocator a.
func NewScope(a Allocator) *Scope {
	return &Scope{allocator: a}
}

// Allocator returns the allocator installed for this scope.
func (s *Scope) Allocator() Allocator {
	return s.allocator
}

// Defer registers fn to run on scope exit. Cleanups run in the reverse
// of their registration order (§8 invariant 7: c1, c2, c3 run as c3, c2,
// c1).
func (s *Scope) Defer(fn Cleanup) {
	s.cleanups = append(s.cleanups, fn)
}

// DeferFree registers the built-in memory cleanup §4.G describes: a
// cleanup that simply calls Free on this scope's allocator.
func (s *Scope) DeferFree(ptr []byte, size, align uint32) {
	s.Defer(func() { s.allocator.Free(ptr, size, align) })
}

// Close runs every registered cleanup in LIFO order and reports whether
// any of them panicked. A cleanup that panics marks the scope failed but
// does not stop the remaining cleanups from running — §5: "cleanups must
// not assume success of their predecessors".
func (s *Scope) Close() (failed bool) {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.runOneLocked(s.cleanups[i])
	}
	s.cleanups = nil
	return s.failed
}

func (s *Scope) runOneLocked(fn Cleanup) {
	defer func() {
		if recover() != nil {
			s.failed = true
		}
	}()
	fn()
}

// Run executes body with a fresh Scope bound to a, then closes the scope
// regardless of whether body panics. If body panicked, Run re-panics
// with the same value only after every cleanup has had a chance to run,
// so scope cleanup behaves the same way on the panicking path as on the
// normal return path. The boolean result reports whether any cleanup
// itself panicked; it is meaningless if Run itself panics.
func Run(a Allocator, body func(s *Scope)) (cleanupFailed bool) {
	s := NewScope(a)
	var panicVal any
	func() {
		defer func() { panicVal = recover() }()
		body(s)
	}()
	cleanupFailed = s.Close()
	if panicVal != nil {
		panic(panicVal)
	}
	return cleanupFailed
}
