package check

import (
	"github.com/darragh-downey/goo/ast"
	"github.com/darragh-downey/goo/token"
	"github.com/darragh-downey/goo/types"
)

// hoistDecls runs both hoisting sub-passes over decls in scope: first
// every nominal type gets an (initially empty) interned handle and every
// other declaration gets a name reservation, so that later declarations in
// the same scope — and earlier ones, via the handle — can reference each
// other regardless of source order; then every declaration's body (field
// list, signature, initializer) is resolved against those handles.
func (c *Checker) hoistDecls(scope *types.Scope, decls []ast.Decl) {
	symOf := make(map[ast.Decl]*types.Symbol, len(decls))
	shellOf := make(map[ast.Decl]*types.Type, len(decls))

	for _, d := range decls {
		switch d := d.(type) {
		case *ast.StructDecl:
			shellOf[d] = c.types.DeclareOpaque(types.StructKind, d.Name)
			symOf[d] = c.declareHoisted(scope, d.Name, types.TypeSymbol, shellOf[d], d.Pos())
		case *ast.EnumDecl:
			shellOf[d] = c.types.DeclareOpaque(types.EnumKind, d.Name)
			symOf[d] = c.declareHoisted(scope, d.Name, types.TypeSymbol, shellOf[d], d.Pos())
		case *ast.InterfaceDecl:
			shellOf[d] = c.types.DeclareOpaque(types.InterfaceKind, d.Name)
			symOf[d] = c.declareHoisted(scope, d.Name, types.TypeSymbol, shellOf[d], d.Pos())
		case *ast.TypeAliasDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.TypeSymbol, nil, d.Pos())
		case *ast.FuncDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.FunctionSymbol, nil, d.Pos())
		case *ast.MethodDecl:
			// Methods are indexed under a receiver-qualified name rather
			// than the bare method name, since a struct and one of its own
			// fields (or two receivers' methods) may otherwise collide.
			qualified := methodSymbolName(d)
			symOf[d] = c.declareHoisted(scope, qualified, types.FunctionSymbol, nil, d.Pos())
		case *ast.VarDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.VariableSymbol, nil, d.Pos())
		case *ast.ConstDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.VariableSymbol, nil, d.Pos())
		case *ast.AllocatorDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.AllocatorSymbol, nil, d.Pos())
		case *ast.ChannelDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.VariableSymbol, nil, d.Pos())
		case *ast.CapabilityDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.CapabilitySymbol, nil, d.Pos())
		case *ast.ModuleDecl:
			symOf[d] = c.declareHoisted(scope, d.Name, types.ModuleSymbol, nil, d.Pos())
			c.moduleScope[d] = c.syms.PushScope(scope)
		case *ast.ComptimeBlock, *ast.ErrorDecl:
			// Carried verbatim / already diagnosed; no symbol to reserve.
		}
	}

	for _, d := range decls {
		switch d := d.(type) {
		case *ast.StructDecl:
			c.completeStructDecl(d, shellOf[d], scope)
		case *ast.EnumDecl:
			c.completeEnumDecl(d, shellOf[d], scope)
		case *ast.InterfaceDecl:
			c.completeInterfaceDecl(d, shellOf[d], scope)
		case *ast.TypeAliasDecl:
			c.completeAliasDecl(d, symOf[d], scope)
		case *ast.FuncDecl:
			c.completeFuncDecl(d, symOf[d], scope)
		case *ast.MethodDecl:
			c.completeMethodDecl(d, symOf[d], scope)
		case *ast.VarDecl:
			t := c.checkVarLike(d.Type, d.Init, scope, "var "+d.Name)
			symOf[d].Type = t
		case *ast.ConstDecl:
			t := c.checkVarLike(d.Type, d.Value, scope, "const "+d.Name)
			symOf[d].Type = t
		case *ast.AllocatorDecl:
			c.completeAllocatorDecl(d, symOf[d], scope)
		case *ast.ChannelDecl:
			c.completeChannelDecl(d, symOf[d], scope)
		case *ast.CapabilityDecl:
			c.completeCapabilityDecl(d, scope)
		case *ast.ModuleDecl:
			c.hoistDecls(c.moduleScope[d], d.Decls)
		case *ast.ComptimeBlock, *ast.ErrorDecl:
		}
	}
}

func (c *Checker) declareHoisted(scope *types.Scope, name string, kind types.SymbolKind, t *types.Type, pos token.Position) *types.Symbol {
	sym, err := scope.Declare(name, kind, t, pos)
	if err != nil {
		c.errorf(pos, "%s", err)
		// Recover with a throwaway symbol so the rest of hoisting has a
		// non-nil handle to write a resolved type into.
		sym = &types.Symbol{Name: name, Kind: kind, Type: t, Definition: pos}
	}
	return sym
}

func methodSymbolName(d *ast.MethodDecl) string {
	recv := "?"
	if n, ok := d.ReceiverType.(*ast.NamedTypeExpr); ok {
		recv = n.Name
	} else if p, ok := d.ReceiverType.(*ast.PointerTypeExpr); ok {
		if n, ok := p.Pointee.(*ast.NamedTypeExpr); ok {
			recv = n.Name
		}
	}
	return recv + "." + d.Name
}

func (c *Checker) completeStructDecl(d *ast.StructDecl, shell *types.Type, scope *types.Scope) {
	fields := make([]types.Field, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = types.Field{Name: f.Name, Type: c.resolveTypeExpr(f.Type, scope), Offset: i}
	}
	c.types.Complete(shell, fields, nil, nil)
}

func (c *Checker) completeEnumDecl(d *ast.EnumDecl, shell *types.Type, scope *types.Scope) {
	variants := make([]types.Variant, len(d.Variants))
	for i, v := range d.Variants {
		var payload *types.Type
		if v.Payload != nil {
			payload = c.resolveTypeExpr(v.Payload, scope)
		}
		variants[i] = types.Variant{Name: v.Name, Payload: payload}
	}
	c.types.Complete(shell, nil, nil, variants)
}

func (c *Checker) completeInterfaceDecl(d *ast.InterfaceDecl, shell *types.Type, scope *types.Scope) {
	methods := make([]types.Method, len(d.Methods))
	for i, m := range d.Methods {
		params := make([]*types.Type, len(m.Params))
		for j, p := range m.Params {
			params[j] = c.resolveTypeExpr(p.Type, scope)
		}
		result := c.unitResult()
		if m.Result != nil {
			result = c.resolveTypeExpr(m.Result, scope)
		}
		methods[i] = types.Method{Name: m.Name, Sig: c.types.Function(params, result)}
	}
	c.types.Complete(shell, nil, methods, nil)
}

func (c *Checker) completeAliasDecl(d *ast.TypeAliasDecl, sym *types.Symbol, scope *types.Scope) {
	target := c.resolveTypeExpr(d.Target, scope)
	sym.Type = c.types.Alias(d.Name, target)
}

func (c *Checker) funcScopeAndSignature(params []*ast.Param, result ast.TypeExpr, outer *types.Scope) (*types.Scope, []*types.Type, *types.Type) {
	fnScope := c.syms.PushScope(outer)
	paramTypes := make([]*types.Type, len(params))
	for i, p := range params {
		pt := c.resolveTypeExpr(p.Type, fnScope)
		paramTypes[i] = pt
		if _, err := fnScope.Declare(p.Name, types.ParameterSymbol, pt, p.Type.Pos()); err != nil {
			c.errorf(p.Type.Pos(), "%s", err)
		}
	}
	resultT := c.unitResult()
	if result != nil {
		resultT = c.resolveTypeExpr(result, fnScope)
	}
	return fnScope, paramTypes, resultT
}

func (c *Checker) completeFuncDecl(d *ast.FuncDecl, sym *types.Symbol, outer *types.Scope) {
	fnScope, paramTypes, resultT := c.funcScopeAndSignature(d.Params, d.Result, outer)
	for _, tp := range d.TypeParams {
		// Type parameters are not checked structurally against a
		// constraint; within the body they behave like `any`, matching the
		// checker's universal-assignability treatment of that primitive.
		if _, err := fnScope.Declare(tp.Name, types.TypeSymbol, c.types.Primitive(types.Any), d.Pos()); err != nil {
			c.errorf(d.Pos(), "%s", err)
		}
	}
	sym.Type = c.types.Function(paramTypes, resultT)
	c.funcInfo[d] = &funcInfo{scope: fnScope, result: resultT, body: d.Body}
}

func (c *Checker) completeMethodDecl(d *ast.MethodDecl, sym *types.Symbol, outer *types.Scope) {
	fnScope, paramTypes, resultT := c.funcScopeAndSignature(d.Params, d.Result, outer)
	recvT := c.resolveTypeExpr(d.ReceiverType, outer)
	if d.ReceiverName != "" {
		if _, err := fnScope.Declare(d.ReceiverName, types.ParameterSymbol, recvT, d.Pos()); err != nil {
			c.errorf(d.Pos(), "%s", err)
		}
	}
	sym.Type = c.types.Function(paramTypes, resultT)
	c.funcInfo[d] = &funcInfo{scope: fnScope, result: resultT, body: d.Body}
}

func (c *Checker) completeAllocatorDecl(d *ast.AllocatorDecl, sym *types.Symbol, scope *types.Scope) {
	switch d.Variant {
	case "heap", "arena", "pool", "region":
	default:
		c.errorf(d.Pos(), "unknown allocator variant: %s", d.Variant)
	}
	for _, a := range d.Args {
		if at := c.checkExpr(a, scope); !types.IsError(at) && !types.IsNumeric(at) {
			c.errorf(a.Pos(), "allocator constructor argument must be numeric, got %s", at)
		}
	}
	c.allocVariant[d.Name] = d.Variant
	_ = sym
}

func (c *Checker) completeChannelDecl(d *ast.ChannelDecl, sym *types.Symbol, scope *types.Scope) {
	elemT := c.resolveTypeExpr(d.ElementType, scope)
	pattern, ok := patternNames[d.Pattern]
	if !ok {
		c.errorf(d.Pos(), "unknown channel pattern: %s", d.Pattern)
		pattern = types.Normal
	}
	if d.Capacity != nil {
		if ct := c.checkExpr(d.Capacity, scope); !types.IsError(ct) && !types.IsNumeric(ct) {
			c.errorf(d.Capacity.Pos(), "channel capacity must be numeric, got %s", ct)
		}
	}
	sym.Type = c.types.Channel(elemT, pattern)
}

func (c *Checker) completeCapabilityDecl(d *ast.CapabilityDecl, scope *types.Scope) {
	for _, req := range d.Requires {
		sym, ok := scope.Lookup(req)
		if !ok || sym.Kind != types.CapabilitySymbol {
			c.errorf(d.Pos(), "capability %s requires undefined capability %s", d.Name, req)
		}
	}
}
