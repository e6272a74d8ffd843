package check

import (
	"github.com/darragh-downey/goo/ast"
)

// checkDecls is the body-checking pass: it walks the same declaration list
// hoistDecls already resolved signatures for, checking only what hoisting
// deferred — function and method bodies — and recursing into modules to
// reach their nested declarations.
func (c *Checker) checkDecls(decls []ast.Decl) {
	for _, d := range decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			c.checkFuncBody(d)
		case *ast.MethodDecl:
			c.checkMethodBody(d)
		case *ast.ModuleDecl:
			c.checkDecls(d.Decls)
		}
	}
}

func (c *Checker) checkFuncBody(d *ast.FuncDecl) {
	info, ok := c.funcInfo[d]
	if !ok {
		return
	}
	savedResult := c.funcResult
	c.funcResult = info.result
	c.checkBlock(info.body, info.scope)
	c.funcResult = savedResult
}

func (c *Checker) checkMethodBody(d *ast.MethodDecl) {
	info, ok := c.funcInfo[d]
	if !ok {
		return
	}
	savedResult := c.funcResult
	c.funcResult = info.result
	c.checkBlock(info.body, info.scope)
	c.funcResult = savedResult
}
