package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// refcountUnion lowers Inc/Dec/DecRef against a tagged-union value. While
// descending into a recursive union's own fields, Context remembers which
// union layout a bare RecursivePointer field resolves back to — Context
// is an ordinary value here (not the mutated-and-restored field the
// original pass threads through a shared mutable struct), so each nested
// call simply gets its own copy and there is nothing to restore on the
// way back out (spec.md §4.7).
func (p *Pass) refcountUnion(ctx Context, u *layout.Union, structure rcir.Symbol) rcir.Stmt {
	next := ctx
	if u.Shape != layout.NonRecursive {
		next = ctx.withRecursiveUnion(u)
	}
	return p.refcountTagUnionHelp(next, u, structure)
}

// refcountTagUnionHelp builds the tag-id read, the optional null
// short-circuit, the per-tag field dispatch, and — for heap-allocated
// shapes — the outer runtime call.
//
// Ordering decision (see DESIGN.md): the per-tag field dispatch is built
// so that the outer RefCountDec call is its *tail*, not the other way
// around — every refcounted child is visited before the parent's own
// slot is touched. spec.md §4.8's rationale and §8 invariant 4 both
// require this order explicitly ("never an ancestor" of the children's
// decrements); a literal transcription of the original ordering would
// read a union's fields after the block that holds them may already have
// been freed, which is exactly the hazard invariant 4 rules out.
func (p *Pass) refcountTagUnionHelp(ctx Context, u *layout.Union, structure rcir.Symbol) rcir.Stmt {
	tagID := p.Sym.Fresh("tagid")

	var structurePhase rcir.Stmt
	if u.Shape == layout.NonRecursive {
		if ctx.Op.IsDecRef() {
			structurePhase = p.rcReturnStmt(ctx)
		} else {
			structurePhase = p.variantSwitch(ctx, u, structure, tagID, p.rcReturnStmt(ctx))
		}
	} else {
		rcPtr := p.Sym.Fresh("rcptr")
		alignment := layout.AlignmentBytes(layout.UnionOf(*u), p.PtrSize)

		var withOuterCall rcir.Stmt
		if ctx.Op.IsDecRef() {
			withOuterCall = p.modifyRefcount(ctx, rcPtr, alignment, p.rcReturnStmt(ctx))
		} else {
			afterFields := p.modifyRefcount(ctx, rcPtr, alignment, p.rcReturnStmt(ctx))
			withOuterCall = p.variantSwitch(ctx, u, structure, tagID, afterFields)
		}

		maskBits := layout.StoresTagIDInPointer(u, p.PtrSize)
		rcPtrStmt := p.rcPtrFromDataPtr(structure, rcPtr, maskBits, withOuterCall)

		if u.HasNull() {
			structurePhase = p.Arena.NewSwitch(tagID,
				[]rcir.Branch{{TagID: u.NullID, Body: p.rcReturnStmt(ctx)}},
				rcPtrStmt,
			)
		} else {
			structurePhase = rcPtrStmt
		}
	}

	return p.Arena.NewLet(tagID, layout.TagIDLayout(u), p.Arena.NewGetTagID(structure, u), structurePhase)
}

// variantTagID maps a 0-based index into u.Variants to the runtime tag id
// that variant is actually encoded with, skipping over the reserved null
// slot's number (spec.md §9, Open Question 2 area / null-id bookkeeping).
func variantTagID(u *layout.Union, i int) int {
	if u.HasNull() && i >= u.NullID {
		return i + 1
	}
	return i
}

// variantSwitch dispatches on tagID across every non-null variant,
// recursing refcountTagFields into each; the last variant (by
// declaration order) becomes the Switch's default branch rather than an
// explicit one, per spec.md §4.8.
func (p *Pass) variantSwitch(ctx Context, u *layout.Union, structure, tagIDSym rcir.Symbol, base rcir.Stmt) rcir.Stmt {
	n := len(u.Variants)
	if n == 0 {
		invariant("union has no variants")
	}

	branches := make([]rcir.Branch, 0, n-1)
	var defaultBody rcir.Stmt
	for i, fields := range u.Variants {
		tagID := variantTagID(u, i)
		body := p.refcountTagFields(ctx, fields, structure, u, tagID, base)
		if i == n-1 {
			defaultBody = body
		} else {
			branches = append(branches, rcir.Branch{TagID: tagID, Body: body})
		}
	}
	return p.Arena.NewSwitch(tagIDSym, branches, defaultBody)
}

// refcountTagFields walks one variant's fields in reverse declaration
// order (mirroring refcountStruct), recursing into each refcounted,
// non-weak field, with base as the innermost tail.
func (p *Pass) refcountTagFields(ctx Context, fields []layout.Field, structure rcir.Symbol, u *layout.Union, tagID int, base rcir.Stmt) rcir.Stmt {
	stmt := base

	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if f.Weak || !layout.ContainsRefcounted(f.Layout) {
			continue
		}

		fieldLayout := resolveRecursivePointer(f.Layout, ctx)
		fieldVal := p.Sym.Fresh("field")
		modResult := p.Sym.Fresh("modfield")
		args := refcountArgs(ctx, fieldVal)
		modExpr, err := p.Oracle.Specialize(ctx.Op.toOracleOp(), fieldLayout, args)
		if err != nil {
			invariant("oracle failed to specialize union field helper: " + err.Error())
		}

		stmt = p.Arena.NewLet(modResult, layoutUnit, modExpr, stmt)
		stmt = p.Arena.NewLet(fieldVal, fieldLayout, p.Arena.NewUnionAtIndex(structure, u, tagID, i), stmt)
	}

	return stmt
}

// resolveRecursivePointer substitutes the enclosing recursive union's
// layout for a bare RecursivePointer placeholder, using the union Context
// captured on the way down through refcountUnion.
func resolveRecursivePointer(l layout.Layout, ctx Context) layout.Layout {
	if l.Kind != layout.KindRecursivePointer {
		return l
	}
	if ctx.RecursiveUnion == nil {
		invariant("RecursivePointer encountered outside any recursive union")
	}
	return layout.UnionOf(*ctx.RecursiveUnion)
}
