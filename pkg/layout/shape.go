package layout

// Shape is a coarse, purely structural classification of a layout's
// sharing potential: Tree (no heap pointers at all), DAG (heap pointers,
// but nothing that can point back to itself), or Cyclic (a recursive union
// is reachable, so instances of this layout may form cycles).
//
// This is diagnostic-only. The refcount pass never branches on Shape —
// helper selection is purely a function of (layout, op), as spec.md
// requires — it is reported by cmd/rcgen and logged by pkg/oracle for
// humans, never consulted to decide what IR to emit.
type Shape int

const (
	ShapeTree Shape = iota
	ShapeDAG
	ShapeCyclic
)

// ShapeString renders a Shape for diagnostics.
func ShapeString(s Shape) string {
	switch s {
	case ShapeTree:
		return "TREE"
	case ShapeDAG:
		return "DAG"
	case ShapeCyclic:
		return "CYCLIC"
	default:
		return "UNKNOWN"
	}
}

// ShapeJoin computes the least upper bound of two shapes on the lattice
// Tree < DAG < Cyclic.
func ShapeJoin(a, b Shape) Shape {
	if a == ShapeCyclic || b == ShapeCyclic {
		return ShapeCyclic
	}
	if a == ShapeDAG || b == ShapeDAG {
		return ShapeDAG
	}
	return ShapeTree
}

// ShapeOf classifies a layout. A Recursive (or NullableWrapped/Unwrapped)
// union can, in principle, be constructed so that a later node's field
// points back to an earlier one, so any layout containing one is
// classified Cyclic; any layout that merely contains heap pointers
// (String, List, a non-recursive Union, ClosureSet) without a recursive
// union reachable is a DAG; everything else is a Tree.
// Shape classifies l's sharing potential. See ShapeOf.
func (l Layout) Shape() Shape { return ShapeOf(l) }

func ShapeOf(l Layout) Shape {
	switch l.Kind {
	case KindPrimitive:
		return ShapeTree
	case KindString:
		return ShapeDAG
	case KindList:
		return ShapeJoin(ShapeDAG, ShapeOf(*l.Elem))
	case KindStruct:
		s := ShapeTree
		for _, f := range l.Fields {
			if f.Weak {
				continue
			}
			s = ShapeJoin(s, ShapeOf(f.Layout))
		}
		return s
	case KindUnion:
		s := ShapeDAG
		if l.Union.Shape != NonRecursive {
			s = ShapeCyclic
		}
		for _, variant := range l.Union.Variants {
			for _, f := range variant {
				if f.Weak {
					continue
				}
				s = ShapeJoin(s, ShapeOf(f.Layout))
			}
		}
		return s
	case KindClosureSet:
		return ShapeOf(*l.ClosureRepr)
	case KindRecursivePointer:
		return ShapeCyclic
	default:
		return ShapeTree
	}
}
