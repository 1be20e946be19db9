package layout

import (
	"strconv"
	"strings"
)

// Key produces a canonical, structural string identity for a layout: two
// layouts built independently but with the same shape must produce the
// same key, since the oracle in pkg/oracle deduplicates helpers by
// (layout, op) and layouts are plain values with no identity of their own.
func Key(l Layout) string {
	var b strings.Builder
	writeKey(&b, l)
	return b.String()
}

func writeKey(b *strings.Builder, l Layout) {
	switch l.Kind {
	case KindPrimitive:
		b.WriteString("p")
		b.WriteString(strconv.Itoa(int(l.Prim)))
	case KindString:
		b.WriteString("str")
	case KindList:
		b.WriteString("list<")
		writeKey(b, *l.Elem)
		b.WriteString(">")
	case KindStruct:
		b.WriteString("struct(")
		writeFields(b, l.Fields)
		b.WriteString(")")
	case KindUnion:
		b.WriteString("union")
		b.WriteString(strconv.Itoa(int(l.Union.Shape)))
		if l.Union.HasNull() {
			b.WriteString("n")
			b.WriteString(strconv.Itoa(l.Union.NullID))
		}
		b.WriteString("[")
		for i, variant := range l.Union.Variants {
			if i > 0 {
				b.WriteString("|")
			}
			writeFields(b, variant)
		}
		b.WriteString("]")
	case KindClosureSet:
		b.WriteString("closure<")
		writeKey(b, *l.ClosureRepr)
		b.WriteString(">")
	case KindRecursivePointer:
		b.WriteString("rec")
	default:
		b.WriteString("?")
	}
}

func writeFields(b *strings.Builder, fields []Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		if f.Weak {
			b.WriteString("weak:")
		}
		writeKey(b, f.Layout)
	}
}
