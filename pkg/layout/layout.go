// Package layout describes the runtime memory layout of monomorphized
// values: the structural shape a reference-count pass needs in order to
// know where heap pointers live, which alternatives of a sum type carry a
// refcount slot, and how many machine words a value occupies.
//
// Layouts are produced by an upstream type-checker/monomorphizer (out of
// scope here) and consumed read-only by the refcount pass in
// internal/refcount.
package layout

// Kind classifies the structural shape of a Layout.
type Kind int

const (
	KindPrimitive Kind = iota
	KindString
	KindList
	KindStruct
	KindUnion
	KindClosureSet
	KindRecursivePointer
)

// Layout is the structural description of a runtime value. It is a closed
// sum type: exactly one of the Kind-specific fields below is meaningful,
// selected by Kind.
type Layout struct {
	Kind Kind

	Prim PrimKind // KindPrimitive

	Elem *Layout // KindList: layout of one element

	Fields []Field // KindStruct, and reused for a single union variant's fields

	Union *Union // KindUnion

	ClosureRepr *Layout // KindClosureSet: the shape this set of lambdas shares at runtime
}

// PrimKind enumerates the unboxed scalar kinds. Primitives are never
// refcounted.
type PrimKind int

const (
	Int8 PrimKind = iota
	Int16
	Int32
	Int64
	Float32
	Float64
	Bool
	Decimal
)

// Field is one member of a struct or union variant, with a strength
// annotation: a Weak field is a manually-broken back-edge the front-end
// has promised never to be the last owning reference, so the refcount
// pass must never visit it (spec.md is silent on field strength; this is
// additive per SPEC_FULL.md §3).
type Field struct {
	Layout Layout
	Weak   bool
}

// UnionShape selects which of the five tagged-sum representations a Union
// uses.
type UnionShape int

const (
	// NonRecursive is stack-allocated: the tag rides alongside the
	// fields, there is no heap block.
	NonRecursive UnionShape = iota
	// Recursive is heap-allocated; each constructor points to the next.
	Recursive
	// NonNullableUnwrapped is a single-constructor heap box ("Box of T").
	NonNullableUnwrapped
	// NullableWrapped represents one constructor as a null pointer; the
	// others are heap-allocated, tag-dispatched constructors.
	NullableWrapped
	// NullableUnwrapped has exactly two constructors: one null, one a
	// heap record with no separate tag field.
	NullableUnwrapped
)

// Union is a tagged sum. Variants holds the non-null constructors' field
// lists, in declaration order, with the null alternative (if any) elided
// — its position is recorded in NullID.
type Union struct {
	Shape    UnionShape
	Variants [][]Field
	NullID   int // meaningful iff Shape is NullableWrapped or NullableUnwrapped
}

// HasNull reports whether this union has a null alternative.
func (u *Union) HasNull() bool {
	return u.Shape == NullableWrapped || u.Shape == NullableUnwrapped
}

// Prim constructs a primitive layout.
func Prim(kind PrimKind) Layout { return Layout{Kind: KindPrimitive, Prim: kind} }

// Str constructs a string layout.
func Str() Layout { return Layout{Kind: KindString} }

// List constructs a list-of-elem layout.
func List(elem Layout) Layout { return Layout{Kind: KindList, Elem: &elem} }

// Struct constructs a struct-of-fields layout.
func Struct(fields ...Field) Layout { return Layout{Kind: KindStruct, Fields: fields} }

// Plain wraps a layout as an unweakened struct field.
func Plain(l Layout) Field { return Field{Layout: l} }

// WeakField wraps a layout as a weak (non-owning) struct field.
func WeakField(l Layout) Field { return Field{Layout: l, Weak: true} }

// UnionOf constructs a union layout.
func UnionOf(u Union) Layout { return Layout{Kind: KindUnion, Union: &u} }

// ClosureSet constructs a closure-set layout sharing runtime
// representation repr.
func ClosureSet(repr Layout) Layout { return Layout{Kind: KindClosureSet, ClosureRepr: &repr} }

// RecursivePointerLayout is the placeholder used inside a recursive
// union's variant fields to refer back to the enclosing union.
func RecursivePointerLayout() Layout { return Layout{Kind: KindRecursivePointer} }
