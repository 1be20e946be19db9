package rcir

import "fmt"

// SymGen mints fresh Symbols and JoinPointIDs, grounded on the teacher's
// tempCounter idiom (pkg/compiler/compiler.go), generalized from a plain
// int field to a small struct so both symbol and joinpoint numbering can
// share one generator without colliding.
type SymGen struct {
	next int
}

// NewSymGen creates a generator starting at zero.
func NewSymGen() *SymGen { return &SymGen{} }

// Fresh returns a new Symbol prefixed with tag, e.g. Fresh("rc") -> "rc7".
func (g *SymGen) Fresh(tag string) Symbol {
	g.next++
	return Symbol(fmt.Sprintf("%s%d", tag, g.next))
}

// FreshJoin returns a new JoinPointID prefixed with tag.
func (g *SymGen) FreshJoin(tag string) JoinPointID {
	g.next++
	return JoinPointID(fmt.Sprintf("%s%d", tag, g.next))
}
