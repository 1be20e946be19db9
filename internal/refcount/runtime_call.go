package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// modifyRefcount emits the actual primitive call against a computed
// refcount-slot pointer: RefCountInc(rcPtr, amount) for Inc, or
// RefCountDec(rcPtr, alignment) for Dec and DecRef — alignment tells the
// runtime how many bytes precede the data pointer so it can find the
// block header to free when the count reaches zero (spec.md §4.5).
func (p *Pass) modifyRefcount(ctx Context, rcPtr rcir.Symbol, alignment int, following rcir.Stmt) rcir.Stmt {
	result := p.Sym.Fresh("rcresult")

	if ctx.Op.Kind == OpInc {
		call := p.Arena.NewPrimCall(rcir.PrimRefCountInc, rcPtr, rcir.ArgAmount)
		return p.Arena.NewLet(result, layoutUnit, call, following)
	}

	alignSym := p.Sym.Fresh("align")
	tail := following
	call := p.Arena.NewPrimCall(rcir.PrimRefCountDec, rcPtr, alignSym)
	tail = p.Arena.NewLet(result, layoutUnit, call, tail)
	tail = p.Arena.NewLet(alignSym, layout.Prim(layout.Int32), p.Arena.NewLiteralInt(int64(alignment), layout.Prim(layout.Int32)), tail)
	return tail
}

// rcReturnStmt closes off a helper body: under DecRef, control jumps to
// the caller-established join point instead of returning a value, since
// DecRef's inline expansion never runs inside its own procedure (spec.md
// §4.3/§8 invariant 5); otherwise it binds the unit value and returns it.
func (p *Pass) rcReturnStmt(ctx Context) rcir.Stmt {
	if ctx.Op.IsDecRef() {
		return p.Arena.NewJump(ctx.Op.DecRefJoin, nil)
	}
	unit := p.Sym.Fresh("unit")
	return p.Arena.NewLet(unit, layoutUnit, p.Arena.NewEmptyStruct(), p.Arena.NewRet(unit))
}

// refcountArgs returns the argument list a recursive helper call should
// receive for the current op: Inc helpers take the amount as a second
// argument threaded through every call in the tree (spec.md §9: "the Inc
// amount is threaded as a second call argument rather than re-read from a
// shared mutable counter").
func refcountArgs(ctx Context, structure rcir.Symbol) []rcir.Symbol {
	if ctx.Op.Kind == OpInc {
		return []rcir.Symbol{structure, rcir.ArgAmount}
	}
	return []rcir.Symbol{structure}
}
