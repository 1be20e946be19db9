package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// refcountList lowers Inc/Dec/DecRef against a list value: (elements
// pointer, length); a zero length marks an empty list with no backing
// allocation at all (spec.md §4.6 invariant 3). When the element layout
// itself needs no refcounting, or this is a DecRef (which never recurses
// into children, invariant 5), the element loop is skipped entirely;
// otherwise the loop runs first and the list's own refcount call follows it.
func (p *Pass) refcountList(ctx Context, elem layout.Layout, structure rcir.Symbol) rcir.Stmt {
	isize := layout.Prim(layout.Int64)

	length := p.Sym.Fresh("len")
	zero := p.Sym.Fresh("zero")
	isEmpty := p.Sym.Fresh("isempty")
	elements := p.Sym.Fresh("elems")
	rcPtr := p.Sym.Fresh("rcptr")

	alignment := layout.AlignmentBytes(elem, p.PtrSize)
	modifyList := p.modifyRefcount(ctx, rcPtr, alignment, p.rcReturnStmt(ctx))
	withRcPtr := p.rcPtrFromDataPtr(elements, rcPtr, false, modifyList)

	modifyElemsAndList := withRcPtr
	if layout.ContainsRefcounted(elem) && !ctx.Op.IsDecRef() {
		modifyElemsAndList = p.refcountListElems(ctx, elem, length, elements, withRcPtr)
	}

	elementsLet := p.Arena.NewLet(elements, isize, p.Arena.NewStructAtIndex(structure, 0), modifyElemsAndList)

	sw := p.Arena.NewSwitch(isEmpty,
		[]rcir.Branch{{TagID: 1, Body: p.rcReturnStmt(ctx)}},
		elementsLet,
	)

	tail := rcir.Stmt(sw)
	tail = p.Arena.NewLet(isEmpty, layout.Prim(layout.Bool), p.Arena.NewPrimCall(rcir.PrimEq, length, zero), tail)
	tail = p.Arena.NewLet(zero, isize, p.Arena.NewLiteralInt(0, isize), tail)
	tail = p.Arena.NewLet(length, isize, p.Arena.NewListLen(structure), tail)
	return tail
}

// refcountListElems walks every element between elements and
// elements+length*elemSize, recursing the current op into each one via a
// counted loop expressed as a self-jumping join point — the only loop
// construct this IR has (spec.md §4.6). Once the address reaches the end,
// the loop continues with following.
func (p *Pass) refcountListElems(ctx Context, elem layout.Layout, length, elements rcir.Symbol, following rcir.Stmt) rcir.Stmt {
	isize := layout.Prim(layout.Int64)
	elemSize := layout.StackSize(elem, p.PtrSize)

	// A synthetic single-variant box layout lets UnionAtIndex stand in
	// for "dereference the pointer to get the boxed element", mirroring
	// how a heap-boxed element is itself represented as a one-field,
	// non-nullable union.
	box := &layout.Union{Shape: layout.NonNullableUnwrapped, Variants: [][]layout.Field{{layout.Plain(elem)}}}

	start := p.Sym.Fresh("start")
	size := p.Sym.Fresh("elemsize")
	listSize := p.Sym.Fresh("listsize")
	end := p.Sym.Fresh("end")
	loop := p.Sym.FreshJoin("elemloop")
	addr := p.Sym.Fresh("addr")
	boxPtr := p.Sym.Fresh("boxptr")
	elemVal := p.Sym.Fresh("elemval")
	modResult := p.Sym.Fresh("modelem")
	nextAddr := p.Sym.Fresh("nextaddr")
	isEnd := p.Sym.Fresh("isend")

	modArgs := refcountArgs(ctx, elemVal)
	modExpr, err := p.Oracle.Specialize(ctx.Op.toOracleOp(), elem, modArgs)
	if err != nil {
		invariant("oracle failed to specialize list element helper: " + err.Error())
	}

	loopBody := rcir.Stmt(p.Arena.NewJump(loop, []rcir.Symbol{nextAddr}))
	loopBody = p.Arena.NewLet(nextAddr, isize, p.Arena.NewPrimCall(rcir.PrimNumAdd, addr, size), loopBody)
	loopBody = p.Arena.NewLet(modResult, layoutUnit, modExpr, loopBody)
	loopBody = p.Arena.NewLet(elemVal, elem, p.Arena.NewUnionAtIndex(boxPtr, box, 0, 0), loopBody)
	loopBody = p.Arena.NewLet(boxPtr, isize, p.Arena.NewPrimCall(rcir.PrimPtrCast, addr), loopBody)

	atEnd := p.Arena.NewSwitch(isEnd, []rcir.Branch{{TagID: 1, Body: following}}, loopBody)
	joinBody := rcir.Stmt(p.Arena.NewLet(isEnd, layout.Prim(layout.Bool), p.Arena.NewPrimCall(rcir.PrimNumGte, addr, end), atEnd))

	join := p.Arena.NewJoin(loop,
		[]rcir.Param{{Sym: addr, Layout: isize}},
		joinBody,
		p.Arena.NewJump(loop, []rcir.Symbol{start}),
	)

	tail := rcir.Stmt(join)
	tail = p.Arena.NewLet(end, isize, p.Arena.NewPrimCall(rcir.PrimNumAdd, start, listSize), tail)
	tail = p.Arena.NewLet(listSize, isize, p.Arena.NewPrimCall(rcir.PrimNumMul, length, size), tail)
	tail = p.Arena.NewLet(size, isize, p.Arena.NewLiteralInt(int64(elemSize), isize), tail)
	tail = p.Arena.NewLet(start, isize, p.Arena.NewPrimCall(rcir.PrimPtrCast, elements), tail)
	return tail
}
