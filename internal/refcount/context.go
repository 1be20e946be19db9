package refcount

import (
	"rcgen/pkg/layout"
	"rcgen/pkg/oracle"
	"rcgen/pkg/rcir"
)

// OpKind is the operation currently being lowered. Unlike oracle.Op (which
// only ever distinguishes Inc/Dec, since DecRef never reaches the oracle),
// OpKind also carries DecRef, because the dispatcher and refcounters
// themselves must tell all three apart.
type OpKind int

const (
	OpInc OpKind = iota
	OpDec
	OpDecRef
)

// Op bundles the current operation with the extra state DecRef needs: the
// join point its inline expansion must jump to once it is done, since
// unlike Inc/Dec, DecRef is lowered by direct inline dispatch rather than
// a helper call (spec.md §4.3/§8 invariant 5).
type Op struct {
	Kind       OpKind
	DecRefJoin rcir.JoinPointID
}

func (o Op) IsDecRef() bool { return o.Kind == OpDecRef }

// toOracleOp converts the current Op to the narrower Op the oracle
// understands. Callers must never invoke this while o.IsDecRef(): DecRef
// never calls through the oracle.
func (o Op) toOracleOp() oracle.Op {
	if o.Kind == OpInc {
		return oracle.OpInc
	}
	return oracle.OpDec
}

// Context is threaded through emission. It tracks the operation in
// progress and, while descending into a recursive union's fields, which
// union layout a RecursivePointer child refers back to — RecursivePointer
// carries no layout of its own, so without this the refcounter would have
// nothing to dispatch on when it reaches one.
type Context struct {
	Op             Op
	RecursiveUnion *layout.Union
}

// withRecursiveUnion returns a copy of ctx with RecursiveUnion set to u,
// for the duration of descending into that union's fields. ctx itself is
// left unchanged, so callers have nothing to restore afterward (the
// original's refcount_tag_union saves and restores ctx.recursive_union
// around each dispatch instead, since unions can nest).
func (ctx Context) withRecursiveUnion(u *layout.Union) Context {
	next := ctx
	next.RecursiveUnion = u
	return next
}
