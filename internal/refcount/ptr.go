package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// rcPtrFromDataPtr computes the address of the refcount slot that
// precedes a heap block's data, binding it under rcPtr and continuing
// with following. The slot sits one pointer-size word before the data:
// cast the data pointer to an integer, optionally mask off the low tag
// bits a union may have packed into it, subtract one pointer width, then
// cast back (spec.md §4.4).
func (p *Pass) rcPtrFromDataPtr(structure, rcPtr rcir.Symbol, maskLowerBits bool, following rcir.Stmt) rcir.Stmt {
	isize := layout.Prim(layout.Int64)

	addr := p.Sym.Fresh("addr")
	ptrSizeLit := p.Sym.Fresh("ptrsize")
	rcAddr := p.Sym.Fresh("rcaddr")

	subtractFrom := addr

	tail := following
	tail = p.Arena.NewLet(rcPtr, isize, p.Arena.NewPrimCall(rcir.PrimPtrCast, rcAddr), tail)

	if maskLowerBits {
		mask := p.Sym.Fresh("mask")
		masked := p.Sym.Fresh("masked")
		subtractFrom = masked

		tail = p.Arena.NewLet(rcAddr, isize, p.Arena.NewPrimCall(rcir.PrimNumSub, subtractFrom, ptrSizeLit), tail)
		tail = p.Arena.NewLet(ptrSizeLit, isize, p.Arena.NewLiteralInt(int64(p.PtrSize), isize), tail)
		tail = p.Arena.NewLet(masked, isize, p.Arena.NewPrimCall(rcir.PrimAnd, addr, mask), tail)
		tail = p.Arena.NewLet(mask, isize, p.Arena.NewLiteralInt(int64(-p.PtrSize), isize), tail)
	} else {
		tail = p.Arena.NewLet(rcAddr, isize, p.Arena.NewPrimCall(rcir.PrimNumSub, subtractFrom, ptrSizeLit), tail)
		tail = p.Arena.NewLet(ptrSizeLit, isize, p.Arena.NewLiteralInt(int64(p.PtrSize), isize), tail)
	}

	tail = p.Arena.NewLet(addr, isize, p.Arena.NewPrimCall(rcir.PrimPtrCast, structure), tail)
	return tail
}
