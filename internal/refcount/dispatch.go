package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// Dispatch selects the shape-specific refcounter for l and runs it
// against structure under the operation recorded in ctx. This is the one
// place every layout kind is matched against; Lower reaches it directly
// only for DecRef, while Inc/Dec helper bodies reach it through an oracle
// that materializes them (spec.md §4.2).
func (p *Pass) Dispatch(ctx Context, l layout.Layout, structure rcir.Symbol) rcir.Stmt {
	switch l.Kind {
	case layout.KindPrimitive:
		notApplicable("refcount", "primitives are never refcounted", l)
		panic("unreachable")
	case layout.KindString:
		return p.refcountString(ctx, structure)
	case layout.KindList:
		return p.refcountList(ctx, *l.Elem, structure)
	case layout.KindStruct:
		return p.refcountStruct(ctx, l.Fields, structure)
	case layout.KindUnion:
		return p.refcountUnion(ctx, l.Union, structure)
	case layout.KindClosureSet:
		return p.Dispatch(ctx, layout.RuntimeRepresentation(l), structure)
	case layout.KindRecursivePointer:
		notImplemented(l)
		panic("unreachable")
	default:
		notImplemented(l)
		panic("unreachable")
	}
}
