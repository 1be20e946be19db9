package layout

import "math/bits"

// primSize returns the stack size in bytes of a primitive kind, independent
// of pointer size.
func primSize(p PrimKind) int {
	switch p {
	case Int8, Bool:
		return 1
	case Int16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	case Decimal:
		return 16
	default:
		return 8
	}
}

// StackSize returns the number of bytes a value of this layout occupies
// when passed on the stack or stored inline in a parent struct, for the
// given pointer size.
func StackSize(l Layout, ptrSize int) int {
	switch l.Kind {
	case KindPrimitive:
		return primSize(l.Prim)
	case KindString, KindList:
		// elements pointer + length/tag word
		return 2 * ptrSize
	case KindStruct:
		total := 0
		for _, f := range l.Fields {
			total += StackSize(f.Layout, ptrSize)
		}
		return total
	case KindUnion:
		return unionStackSize(l.Union, ptrSize)
	case KindClosureSet:
		return StackSize(*l.ClosureRepr, ptrSize)
	case KindRecursivePointer:
		return ptrSize
	default:
		return ptrSize
	}
}

func unionStackSize(u *Union, ptrSize int) int {
	switch u.Shape {
	case NonRecursive:
		maxFields := 0
		for _, variant := range u.Variants {
			sz := 0
			for _, f := range variant {
				sz += StackSize(f.Layout, ptrSize)
			}
			if sz > maxFields {
				maxFields = sz
			}
		}
		return maxFields + StackSize(tagIDLayout(len(u.Variants)), ptrSize)
	default:
		// Recursive, NonNullableUnwrapped, NullableWrapped, NullableUnwrapped
		// are all represented as a single heap pointer on the stack.
		return ptrSize
	}
}

// AlignmentBytes returns the alignment requirement of this layout in bytes,
// for the given pointer size.
func AlignmentBytes(l Layout, ptrSize int) int {
	switch l.Kind {
	case KindPrimitive:
		sz := primSize(l.Prim)
		if sz > ptrSize {
			return sz
		}
		return maxInt(sz, 1)
	case KindString, KindList, KindRecursivePointer:
		return ptrSize
	case KindStruct:
		align := 1
		for _, f := range l.Fields {
			a := AlignmentBytes(f.Layout, ptrSize)
			if a > align {
				align = a
			}
		}
		return align
	case KindUnion:
		if l.Union.Shape != NonRecursive {
			return ptrSize
		}
		align := 1
		for _, variant := range l.Union.Variants {
			for _, f := range variant {
				a := AlignmentBytes(f.Layout, ptrSize)
				if a > align {
					align = a
				}
			}
		}
		return align
	case KindClosureSet:
		return AlignmentBytes(*l.ClosureRepr, ptrSize)
	default:
		return ptrSize
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// IsRefcounted reports whether values of this layout carry a refcount slot
// directly (as opposed to merely containing one nested inside).
func IsRefcounted(l Layout) bool {
	switch l.Kind {
	case KindString, KindList:
		return true
	case KindUnion:
		return l.Union.Shape != NonRecursive
	case KindClosureSet:
		return IsRefcounted(*l.ClosureRepr)
	case KindRecursivePointer:
		return true
	default:
		return false
	}
}

// ContainsRefcounted reports whether this layout, or any layout reachable
// through its fields/elements, is refcounted. Weak fields are excluded:
// a weak edge is a promise from the front-end that this pass never needs
// to trace through it.
func ContainsRefcounted(l Layout) bool {
	if IsRefcounted(l) {
		return true
	}
	switch l.Kind {
	case KindList:
		return ContainsRefcounted(*l.Elem)
	case KindStruct:
		for _, f := range l.Fields {
			if !f.Weak && ContainsRefcounted(f.Layout) {
				return true
			}
		}
		return false
	case KindUnion:
		for _, variant := range l.Union.Variants {
			for _, f := range variant {
				if !f.Weak && ContainsRefcounted(f.Layout) {
					return true
				}
			}
		}
		return false
	case KindClosureSet:
		return ContainsRefcounted(*l.ClosureRepr)
	default:
		return false
	}
}

// tagIDLayout picks the narrowest unsigned-integer-sized primitive layout
// that can hold numVariants distinct tag values.
func tagIDLayout(numVariants int) Layout {
	switch {
	case numVariants <= 1<<8:
		return Prim(Int8)
	case numVariants <= 1<<16:
		return Prim(Int16)
	default:
		return Prim(Int32)
	}
}

// TagIDLayout returns the layout used to hold this union's tag id.
func TagIDLayout(u *Union) Layout {
	n := len(u.Variants)
	if u.HasNull() {
		n++
	}
	return tagIDLayout(n)
}

// StoresTagIDInPointer reports whether a heap-allocated union packs its tag
// id into the unused low bits of its data pointer rather than storing it as
// a separate field. This is possible exactly when every allocation of this
// union is aligned to at least ptrSize and the tag space fits in the bits
// that alignment leaves free.
func StoresTagIDInPointer(u *Union, ptrSize int) bool {
	if u.Shape == NonRecursive {
		return false
	}
	numTags := len(u.Variants)
	if u.HasNull() {
		numTags++
	}
	if numTags <= 1 {
		return false
	}
	usableBits := bits.Len(uint(ptrSize)) - 1
	return numTags <= (1 << usableBits)
}

// RuntimeRepresentation returns the layout a closure set actually uses at
// runtime: every lambda sharing a set is represented uniformly, so the set
// itself is transparent to the refcounter.
func RuntimeRepresentation(l Layout) Layout {
	if l.Kind == KindClosureSet {
		return *l.ClosureRepr
	}
	return l
}

// IsImplemented reports whether the refcount pass knows how to handle this
// layout. Dict/Set layouts are not modeled in this package (Non-goal) so
// any layout mentioning one is unimplemented by construction; a bare
// top-level RecursivePointer is also unimplemented — it only has meaning
// nested inside a Recursive union's fields, where Context tracks the
// enclosing layout (see SPEC_FULL.md §9, Open Question 1).
func IsImplemented(l Layout) bool {
	switch l.Kind {
	case KindPrimitive, KindString:
		return true
	case KindList:
		return IsImplemented(*l.Elem)
	case KindStruct:
		for _, f := range l.Fields {
			if !IsImplemented(f.Layout) {
				return false
			}
		}
		return true
	case KindUnion:
		for _, variant := range l.Union.Variants {
			for _, f := range variant {
				if f.Layout.Kind == KindRecursivePointer {
					continue // resolved against this union by the pass
				}
				if !IsImplemented(f.Layout) {
					return false
				}
			}
		}
		return true
	case KindClosureSet:
		return IsImplemented(*l.ClosureRepr)
	case KindRecursivePointer:
		return false
	default:
		return false
	}
}
