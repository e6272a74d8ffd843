// Package check implements the two-pass type checker: a hoisting pass that
// resolves every top-level declaration's type and signature, followed by a
// body-checking pass that resolves and validates every statement and
// expression. Diagnostics accumulate in a report.Report; SetResolvedType is
// called exactly once per expression and syntactic type-reference node.
package check

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/report"
	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

// funcInfo is the function-scope state computed during hoisting so that
// the body-checking pass does not have to recompute the parameter scope or
// re-resolve the declared result type.
type funcInfo struct {
	scope  *types.Scope
	result *types.Type
	body   *ast.BlockStmt
}

// Checker holds the state threaded through both the hoisting and the
// body-checking pass for one compilation unit.
type Checker struct {
	types *types.Table
	syms  *types.SymbolTable
	rep   *report.Report
	log   *zap.Logger

	funcResult  *types.Type
	loopDepth   int
	switchDepth int

	funcInfo     map[ast.Decl]*funcInfo
	moduleScope  map[*ast.ModuleDecl]*types.Scope
	allocVariant map[string]string // allocator symbol name -> declared variant, for scope()/alloc/free validation
}

// NewChecker constructs a Checker that reports into rep. A nil logger
// installs zap.NewNop(), matching the pipeline's convention elsewhere of
// treating structured logging as optional instrumentation rather than a
// required dependency.
func NewChecker(rep *report.Report, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		types:        types.NewTable(),
		syms:         types.NewSymbolTable(),
		rep:          rep,
		log:          logger,
		funcInfo:     make(map[ast.Decl]*funcInfo),
		moduleScope:  make(map[*ast.ModuleDecl]*types.Scope),
		allocVariant: make(map[string]string),
	}
}

// Types returns the type table populated while checking, so that a caller
// (a backend, a REPL, a test) can look up canonical types after Check
// returns.
func (c *Checker) Types() *types.Table { return c.types }

// Symbols returns the symbol table populated while checking.
func (c *Checker) Symbols() *types.SymbolTable { return c.syms }

// Check runs the hoist pass and then the body-check pass over unit. It
// returns true iff no error-level diagnostic was produced.
func (c *Checker) Check(unit *ast.Unit) bool {
	c.log.Debug("checking unit", zap.String("package", unit.Package), zap.Int("decls", len(unit.Decls)))
	root := c.syms.Root()
	c.hoistDecls(root, unit.Decls)
	c.checkDecls(unit.Decls)
	ok := !c.rep.HasErrors()
	c.log.Debug("check complete", zap.Bool("ok", ok), zap.Int("diagnostics", c.rep.Len()))
	return ok
}

func posOf(p token.Position) report.Position {
	return report.Position{File: p.File, Line: p.Line, Column: p.Column}
}

func (c *Checker) errorf(pos token.Position, format string, args ...any) {
	c.rep.Error(report.TypeError, fmt.Sprintf(format, args...), report.At(posOf(pos)))
}

// unitResult is the resolved type standing in for "no value" (a
// unit-returning function, a statement-position expression). The checker
// never leaves a Function's Result() nil, so call sites can always render
// it without a nil check.
func (c *Checker) unitResult() *types.Type {
	return c.types.Primitive(types.Unit)
}
