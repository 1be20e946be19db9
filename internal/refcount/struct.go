package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// refcountStruct lowers Inc/Dec against a struct value. A struct is
// stack-only — there is no heap block and so no outer refcount call —
// only its fields need visiting, each recursed into via the oracle.
// Fields are walked in reverse declaration order so the nested Let chain
// reads in forward order once built (spec.md §9, Open Question 2:
// reverse-index struct/variant field walks). A struct never reaches here
// under DecRef: lowerDecRef returns the tail unchanged for a struct (or a
// closure set represented as one) before ever calling into this function,
// since a stack-only value has nothing to drop.
func (p *Pass) refcountStruct(ctx Context, fields []layout.Field, structure rcir.Symbol) rcir.Stmt {
	stmt := p.rcReturnStmt(ctx)

	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if f.Weak || !layout.ContainsRefcounted(f.Layout) {
			continue
		}

		fieldVal := p.Sym.Fresh("field")
		modResult := p.Sym.Fresh("modfield")
		modArgs := refcountArgs(ctx, fieldVal)
		modExpr, err := p.Oracle.Specialize(ctx.Op.toOracleOp(), f.Layout, modArgs)
		if err != nil {
			invariant("oracle failed to specialize struct field helper: " + err.Error())
		}

		stmt = p.Arena.NewLet(modResult, layoutUnit, modExpr, stmt)
		stmt = p.Arena.NewLet(fieldVal, f.Layout, p.Arena.NewStructAtIndex(structure, i), stmt)
	}

	return stmt
}
