package refcount

import (
	layoutpkg "rcgen/pkg/layout"
	"rcgen/pkg/oracle"
	"rcgen/pkg/rcir"
)

// Pass holds the resources shared across one compilation unit's worth of
// refcount lowering: the arena every IR node is allocated through, the
// identifier generator for fresh symbols and join points, the
// specialization oracle, and the target pointer size every size/alignment
// computation depends on.
type Pass struct {
	Arena   *rcir.Arena
	Sym     *rcir.SymGen
	Oracle  oracle.Oracle
	PtrSize int
}

// New creates a Pass targeting the given pointer size (in bytes; spec.md's
// concrete scenarios all use 8).
func New(o oracle.Oracle, ptrSize int) *Pass {
	return &Pass{
		Arena:   rcir.NewArena(),
		Sym:     rcir.NewSymGen(),
		Oracle:  o,
		PtrSize: ptrSize,
	}
}

// layoutUnit is the zero-field struct layout used to annotate bindings
// whose value is never read — the result of a RefCountInc/RefCountDec
// call, and the unit literal rc_return_stmt binds before a bare Ret.
var layoutUnit = layoutpkg.Struct()
