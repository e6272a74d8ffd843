// Package report collects compile-time diagnostics: lexer, parser, and
// type-checker errors, warnings, and remarks, each carrying a kind,
// position, and human-readable message.
package report

import (
	"fmt"
	"strings"
)

// Level is the severity of a diagnostic.
type Level int8

const (
	Error Level = 1 + iota
	Warning
	Remark
)

// String renders the level for diagnostic output.
func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Remark:
		return "remark"
	default:
		return "unknown"
	}
}

// Kind identifies the category of a diagnostic or runtime fault, per the
// fixed set of error kinds surfaced to callers.
type Kind string

const (
	LexerError     Kind = "lexer-error"
	ParseError     Kind = "parse-error"
	TypeError      Kind = "type-error"
	OutOfMemory    Kind = "out-of-memory"
	ChannelClosed  Kind = "channel-closed"
	ChannelTimeout Kind = "channel-timeout"
	TypeMismatch   Kind = "type-mismatch"
	DoubleFree     Kind = "double-free"
)

// Diagnostic is a single compile-time finding.
type Diagnostic struct {
	Kind    Kind
	Level   Level
	Message string

	file       string
	start, end Position
	snippets   []snippet
	notes      []string
	help       []string
}

// Position is the minimal span information a diagnostic needs to point at
// source text. token.Position satisfies this via Line/Column/File, but
// report does not import token to keep the dependency direction one-way
// (the parser and checker import report, not the reverse).
type Position struct {
	File   string
	Line   uint32
	Column uint32
}

type snippet struct {
	start, end Position
	message    string
	primary    bool
}

// Option configures a Diagnostic as it is pushed onto a Report.
type Option func(*Diagnostic)

// At attaches a primary span to the diagnostic.
func At(pos Position) Option {
	return func(d *Diagnostic) {
		d.file = pos.File
		d.start, d.end = pos, pos
	}
}

// Span attaches a primary span covering [start, end) to the diagnostic.
func Span(start, end Position) Option {
	return func(d *Diagnostic) {
		d.file = start.File
		d.start, d.end = start, end
	}
}

// Snippet adds a secondary annotated span to the diagnostic. The first
// snippet added (including one implied by At/Span) is the primary one.
func Snippet(pos Position, format string, args ...any) Option {
	return func(d *Diagnostic) {
		d.snippets = append(d.snippets, snippet{
			start:   pos,
			end:     pos,
			message: fmt.Sprintf(format, args...),
			primary: len(d.snippets) == 0 && d.start == (Position{}),
		})
	}
}

// Note adds explanatory context shown after the snippets.
func Note(format string, args ...any) Option {
	return func(d *Diagnostic) {
		d.notes = append(d.notes, fmt.Sprintf(format, args...))
	}
}

// Help adds a suggested fix shown after notes.
func Help(format string, args ...any) Option {
	return func(d *Diagnostic) {
		d.help = append(d.help, fmt.Sprintf(format, args...))
	}
}

// Primary returns the diagnostic's primary position, the zero Position if
// none was attached.
func (d Diagnostic) Primary() Position {
	return d.start
}

// String renders the diagnostic as a single multi-line human-readable
// message, in the style of a conventional command-line compiler.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.start.File != "" {
		fmt.Fprintf(&b, "%s:%d:%d: ", d.start.File, d.start.Line, d.start.Column)
	}
	fmt.Fprintf(&b, "%s[%s]: %s", d.Level, d.Kind, d.Message)
	for _, s := range d.snippets {
		fmt.Fprintf(&b, "\n  at %d:%d: %s", s.start.Line, s.start.Column, s.message)
	}
	for _, n := range d.notes {
		fmt.Fprintf(&b, "\n  note: %s", n)
	}
	for _, h := range d.help {
		fmt.Fprintf(&b, "\n  help: %s", h)
	}
	return b.String()
}

// Report is an ordered collection of diagnostics accumulated during
// compilation.
type Report struct {
	diags []Diagnostic
}

// Error pushes an error-level diagnostic.
func (r *Report) Error(kind Kind, message string, opts ...Option) {
	r.push(kind, Error, message, opts)
}

// Warn pushes a warning-level diagnostic.
func (r *Report) Warn(kind Kind, message string, opts ...Option) {
	r.push(kind, Warning, message, opts)
}

// Remark pushes a remark-level diagnostic.
func (r *Report) Remark(kind Kind, message string, opts ...Option) {
	r.push(kind, Remark, message, opts)
}

func (r *Report) push(kind Kind, level Level, message string, opts []Option) {
	d := Diagnostic{Kind: kind, Level: level, Message: message}
	for _, opt := range opts {
		opt(&d)
	}
	r.diags = append(r.diags, d)
}

// Diagnostics returns every diagnostic pushed so far, in push order.
func (r *Report) Diagnostics() []Diagnostic {
	return r.diags
}

// HasErrors reports whether any diagnostic at Error level was pushed.
// Warnings and remarks do not fail compilation.
func (r *Report) HasErrors() bool {
	for _, d := range r.diags {
		if d.Level == Error {
			return true
		}
	}
	return false
}

// Len returns the number of diagnostics accumulated.
func (r *Report) Len() int {
	return len(r.diags)
}
