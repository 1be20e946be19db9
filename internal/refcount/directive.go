package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/oracle"
	"rcgen/pkg/rcir"
)

// Directive is one of the three abstract operations the front end places:
// Inc(value, amount), Dec(value), or DecRef(value) — drop the outermost
// allocation only, without recursing into children (spec.md §3).
type Directive interface{ isDirective() }

// Inc increments value's refcount by Amount, a positive integer known at
// the directive's call site.
type Inc struct {
	Value  rcir.Symbol
	Amount int
}

// Dec decrements value's refcount by one, recursively decrementing every
// refcounted child and freeing the allocation if the count reaches zero.
type Dec struct {
	Value rcir.Symbol
}

// DecRef decrements value's refcount by one and frees only the outermost
// allocation on reaching zero — it never recurses into children. A
// caller reaches for DecRef instead of Dec when it has already otherwise
// accounted for (or doesn't care about) the children, e.g. because they
// were moved out beforehand.
type DecRef struct {
	Value rcir.Symbol
}

func (Inc) isDirective()    {}
func (Dec) isDirective()    {}
func (DecRef) isDirective() {}

// Lower synthesizes IR for one directive against l, with tail as the
// statement that runs afterward (spec.md §4.1).
func (p *Pass) Lower(l layout.Layout, d Directive, tail rcir.Stmt) rcir.Stmt {
	switch v := d.(type) {
	case Inc:
		if !layout.IsImplemented(l) {
			notImplemented(l)
		}
		return p.lowerInc(l, v, tail)

	case Dec:
		if !layout.IsImplemented(l) {
			notImplemented(l)
		}
		return p.lowerDec(l, v, tail)

	case DecRef:
		return p.lowerDecRef(l, v, tail)
	}
	invariant("unknown directive type")
	return nil
}

func (p *Pass) lowerInc(l layout.Layout, v Inc, tail rcir.Stmt) rcir.Stmt {
	isize := layout.Prim(layout.Int64)
	amount := p.Sym.Fresh("amount")
	result := p.Sym.Fresh("incresult")

	expr, err := p.Oracle.Specialize(oracle.OpInc, l, []rcir.Symbol{v.Value, amount})
	if err != nil {
		invariant("oracle failed to specialize Inc: " + err.Error())
	}

	tail = p.Arena.NewLet(result, layoutUnit, expr, tail)
	tail = p.Arena.NewLet(amount, isize, p.Arena.NewLiteralInt(int64(v.Amount), isize), tail)
	return tail
}

func (p *Pass) lowerDec(l layout.Layout, v Dec, tail rcir.Stmt) rcir.Stmt {
	result := p.Sym.Fresh("decresult")
	expr, err := p.Oracle.Specialize(oracle.OpDec, l, []rcir.Symbol{v.Value})
	if err != nil {
		invariant("oracle failed to specialize Dec: " + err.Error())
	}
	return p.Arena.NewLet(result, layoutUnit, expr, tail)
}

// lowerDecRef implements spec.md §4.1's three DecRef cases: strings
// coincide with Dec (a string has no children to skip recursing into, so
// "drop only the outer allocation" and "drop the whole thing" are the
// same operation); structs are stack-only and DecRef is a no-op; anything
// else is dispatched inline under a freshly minted join point that tail
// becomes the body of.
func (p *Pass) lowerDecRef(l layout.Layout, v DecRef, tail rcir.Stmt) rcir.Stmt {
	switch layout.RuntimeRepresentation(l).Kind {
	case layout.KindString:
		return p.Lower(l, Dec{Value: v.Value}, tail)
	case layout.KindStruct:
		return tail
	default:
		if !layout.IsImplemented(l) {
			notImplemented(l)
		}
		jp := p.Sym.FreshJoin("decref")
		ctx := Context{Op: Op{Kind: OpDecRef, DecRefJoin: jp}}
		rc := p.Dispatch(ctx, l, v.Value)
		return p.Arena.NewJoin(jp, nil, tail, rc)
	}
}
