// Package fault implements the runtime-fault half of the error-handling
// design (spec §7): a fixed record { code, message, file, line } set by
// fallible operations on failure. Unlike compile-time diagnostics, which
// accumulate in a report.Report, a fault record reflects only the most
// recent failure and is never cleared implicitly — callers clear it
// themselves before a guarded call, per §7's explicit rule.
//
// The record is carried on an explicit *Context handle rather than
// goroutine-local storage: §9's design note reserves thread-local storage
// "only for the error record... where it is semantically required for
// fallible call chains that cannot thread an extra argument through", and
// Go has no safe goroutine-local primitive to reuse for that anyway, so a
// Context threaded like any other argument is the idiomatic substitute.
package fault

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/darragh-downey/goo/report"
)

// Sentinel errors backing the fixed error-kind enumeration in §6 ("Error
// kinds surfaced to callers"). report.Kind already defines the matching
// Kind constants for compile-time diagnostics; these give callers a Go
// error value to compare against with errors.Is at runtime call sites.
var (
	ErrOutOfMemory    = errors.New("out of memory")
	ErrChannelClosed  = errors.New("channel closed")
	ErrChannelTimeout = errors.New("channel timed out")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrDoubleFree     = errors.New("double free")
)

var kindOf = map[error]report.Kind{
	ErrOutOfMemory:    report.OutOfMemory,
	ErrChannelClosed:  report.ChannelClosed,
	ErrChannelTimeout: report.ChannelTimeout,
	ErrTypeMismatch:   report.TypeMismatch,
	ErrDoubleFree:     report.DoubleFree,
}

// Record is the runtime fault record (§7).
type Record struct {
	Code    report.Kind
	Message string
	File    string
	Line    int
}

// Error implements error so a Record can be returned or wrapped directly.
func (r *Record) Error() string {
	if r == nil {
		return "<nil fault record>"
	}
	return fmt.Sprintf("%s:%d: %s[%s]: %s", r.File, r.Line, r.Code, r.Code, r.Message)
}

// Context carries the current fault record for one logical call chain
// (one compilation unit's runtime, one channel's operations, one
// allocator's operations). The zero Context has no record set.
type Context struct {
	mu  sync.Mutex
	rec *Record
}

// NewContext returns a Context with no fault recorded.
func NewContext() *Context {
	return &Context{}
}

// Fail records err as the current fault, with message built from format
// and args, and the file/line of Fail's caller. Successful operations must
// not call Fail; they leave any prior record in place until the caller
// explicitly Clears it.
func (c *Context) Fail(err error, format string, args ...any) {
	kind, ok := kindOf[err]
	if !ok {
		kind = report.TypeError
	}
	_, file, line, _ := runtime.Caller(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = &Record{Code: kind, Message: fmt.Sprintf(format, args...), File: file, Line: line}
}

// Clear discards any recorded fault. Callers clear before a guarded call
// so that a stale record from an earlier failure is not mistaken for a
// new one (§7: "successful calls do not clear it").
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rec = nil
}

// Record returns the currently recorded fault, or nil if none is set or
// the last one was cleared.
func (c *Context) Record() *Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec
}

// Failed reports whether a fault is currently recorded.
func (c *Context) Failed() bool {
	return c.Record() != nil
}
