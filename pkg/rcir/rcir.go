// Package rcir is the host intermediate representation produced by the
// reference-count pass: statements and expressions close enough to a
// three-address form that a later machine-code generator (out of scope
// here) can lower them directly, while staying abstract enough that a
// mock interpreter (internal/rtprim) can execute them for testing.
package rcir

import "rcgen/pkg/layout"

// Symbol names a local binding. The zero value is never a valid symbol.
type Symbol string

// Canonical parameter names for a specialized helper procedure: every
// Inc/Dec helper the oracle mints takes the value under refcount as
// ArgStructure, and Inc helpers additionally take the increment amount as
// ArgAmount — mirrors the convention of binding helper parameters to
// fixed, well-known symbols rather than threading fresh names through
// every call site.
const (
	ArgStructure Symbol = "#arg1"
	ArgAmount    Symbol = "#arg2"
)

// JoinPointID names a join point (a label a Jump can target).
type JoinPointID string

// Prim is one of the fixed low-level primitives emitted code may call.
type Prim int

const (
	PrimPtrCast      Prim = iota // pointer<->integer cast, used in both directions
	PrimNumAdd                   // signed add
	PrimNumSub                   // signed subtract
	PrimNumMul                   // signed multiply
	PrimAnd                      // bitwise and, used to mask tag bits out of a pointer
	PrimNumGte                   // signed >=
	PrimEq                       // equality
	PrimListLen                  // list length
	PrimRefCountInc              // bump a refcount slot by an amount
	PrimRefCountDec              // drop a refcount slot by one, freeing at zero
)

// Expr is a side-effect-free value-producing expression.
type Expr interface{ isExpr() }

// LiteralInt is an integer constant.
type LiteralInt struct {
	Value int64
	Layout layout.Layout
}

// EmptyStruct is the zero-field unit value, used as the result of
// RefCountInc/RefCountDec (which return nothing meaningful) and as the
// return value of a helper that merely ran for effect.
type EmptyStruct struct{}

// PrimCall invokes one of the fixed low-level primitives.
type PrimCall struct {
	Op   Prim
	Args []Symbol
}

// StructAtIndex reads one field out of a stack-resident struct/string/list
// record.
type StructAtIndex struct {
	Structure Symbol
	Index     int
}

// UnionAtIndex reads one field out of a specific tag's payload, for a
// heap-allocated or stack-resident union value.
type UnionAtIndex struct {
	Structure Symbol
	Union     *layout.Union
	TagID     int
	Index     int
}

// GetTagID reads the active tag id out of a union value.
type GetTagID struct {
	Structure Symbol
	Union     *layout.Union
}

// ListLen reads a list's length field.
type ListLen struct {
	Structure Symbol
}

// HelperCall invokes a specialized helper procedure previously minted by
// the oracle for a (layout, op) pair — this is the "call expression" the
// spec's oracle contract returns.
type HelperCall struct {
	Helper Symbol
	Args   []Symbol
}

func (LiteralInt) isExpr()    {}
func (EmptyStruct) isExpr()   {}
func (PrimCall) isExpr()      {}
func (StructAtIndex) isExpr() {}
func (UnionAtIndex) isExpr()  {}
func (GetTagID) isExpr()      {}
func (ListLen) isExpr()       {}
func (HelperCall) isExpr()    {}

// Stmt is a statement in the tail-continuation style: every constructor
// except Ret and Jump carries the statement that follows it, so building
// IR means wrapping an existing tail rather than mutating a builder.
type Stmt interface{ isStmt() }

// Let binds Value under Sym (annotated with its layout) and continues
// with Next.
type Let struct {
	Sym    Symbol
	Layout layout.Layout
	Value  Expr
	Next   Stmt
}

// Branch is one arm of a Switch, dispatching on a specific tag id.
type Branch struct {
	TagID int
	Body  Stmt
}

// Switch dispatches on the integer value bound to Cond, running the
// matching Branch's Body, or Default if none match.
type Switch struct {
	Cond     Symbol
	Branches []Branch
	Default  Stmt
}

// Param is one parameter of a join point.
type Param struct {
	Sym    Symbol
	Layout layout.Layout
}

// Join defines a join point: Body runs when a Jump targets ID (with
// Params bound from the jump's arguments), and Remainder is the
// statement that runs immediately, outside the join point, to begin
// execution — typically itself a Jump into the point that was just
// defined.
type Join struct {
	ID        JoinPointID
	Params    []Param
	Body      Stmt
	Remainder Stmt
}

// Jump transfers control to a join point with the given arguments.
type Jump struct {
	ID   JoinPointID
	Args []Symbol
}

// Ret returns Sym from the enclosing procedure.
type Ret struct {
	Sym Symbol
}

func (Let) isStmt()    {}
func (Switch) isStmt() {}
func (Join) isStmt()   {}
func (Jump) isStmt()   {}
func (Ret) isStmt()    {}
