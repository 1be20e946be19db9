package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// refcountString lowers Inc/Dec/DecRef against a string value. A string
// is (elements pointer, length-or-tag word); a negative length marks a
// small string stored inline with no heap allocation at all, so this
// dispatches on sign before touching any refcount slot (spec.md §4.6,
// invariant 3: no refcount read/write on the small-string sentinel).
//
// DecRef coincides with Dec for strings: a string never recurses into
// child fields (it has none), so dropping the outer allocation without
// recursing is exactly what Dec already does. lowerDecRef (directive.go)
// therefore lowers a string DecRef as a Dec directive.
func (p *Pass) refcountString(ctx Context, structure rcir.Symbol) rcir.Stmt {
	isize := layout.Prim(layout.Int64)

	length := p.Sym.Fresh("len")
	zero := p.Sym.Fresh("zero")
	isBigStr := p.Sym.Fresh("isbig")
	elements := p.Sym.Fresh("elems")
	rcPtr := p.Sym.Fresh("rcptr")

	modify := p.modifyRefcount(ctx, rcPtr, p.PtrSize, p.rcReturnStmt(ctx))
	withRcPtr := p.rcPtrFromDataPtr(elements, rcPtr, false, modify)
	thenBranch := p.Arena.NewLet(elements, isize, p.Arena.NewStructAtIndex(structure, 0), withRcPtr)

	sw := p.Arena.NewSwitch(isBigStr,
		[]rcir.Branch{{TagID: 1, Body: thenBranch}},
		p.rcReturnStmt(ctx),
	)

	tail := rcir.Stmt(sw)
	tail = p.Arena.NewLet(isBigStr, layout.Prim(layout.Bool), p.Arena.NewPrimCall(rcir.PrimNumGte, length, zero), tail)
	tail = p.Arena.NewLet(zero, isize, p.Arena.NewLiteralInt(0, isize), tail)
	tail = p.Arena.NewLet(length, isize, p.Arena.NewStructAtIndex(structure, 1), tail)
	return tail
}
