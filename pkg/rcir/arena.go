package rcir

import "rcgen/pkg/layout"

// Arena emulates a bump allocator for one compilation unit's worth of IR
// nodes. Go's garbage collector makes a real bump arena unnecessary for
// memory safety, but the pass is still written against one (per
// SPEC_FULL.md §5 / spec.md §9's implementer note: "languages without bump
// arenas should emulate one with a growable buffer and reset per
// compilation unit") so that node counts stay cheap to audit: every node
// passes through one counter, read by Count. (The termination test in
// internal/refcount counts the nodes of one emitted tree by walking it.)
type Arena struct {
	count int
}

// NewArena creates an empty arena.
func NewArena() *Arena { return &Arena{} }

// Reset returns the arena to empty, for reuse across compilation units.
func (a *Arena) Reset() { a.count = 0 }

// Count returns the number of nodes allocated since the last Reset.
func (a *Arena) Count() int { return a.count }

func (a *Arena) bump() { a.count++ }

// NewLet allocates a Let statement.
func (a *Arena) NewLet(sym Symbol, l layout.Layout, value Expr, next Stmt) *Let {
	a.bump()
	return &Let{Sym: sym, Layout: l, Value: value, Next: next}
}

// NewSwitch allocates a Switch statement.
func (a *Arena) NewSwitch(cond Symbol, branches []Branch, def Stmt) *Switch {
	a.bump()
	return &Switch{Cond: cond, Branches: branches, Default: def}
}

// NewJoin allocates a Join statement.
func (a *Arena) NewJoin(id JoinPointID, params []Param, body Stmt, remainder Stmt) *Join {
	a.bump()
	return &Join{ID: id, Params: params, Body: body, Remainder: remainder}
}

// NewJump allocates a Jump statement.
func (a *Arena) NewJump(id JoinPointID, args []Symbol) *Jump {
	a.bump()
	return &Jump{ID: id, Args: args}
}

// NewRet allocates a Ret statement.
func (a *Arena) NewRet(sym Symbol) *Ret {
	a.bump()
	return &Ret{Sym: sym}
}

// NewLiteralInt allocates an integer literal expression.
func (a *Arena) NewLiteralInt(v int64, l layout.Layout) *LiteralInt {
	a.bump()
	return &LiteralInt{Value: v, Layout: l}
}

// NewEmptyStruct allocates a unit-value expression.
func (a *Arena) NewEmptyStruct() *EmptyStruct {
	a.bump()
	return &EmptyStruct{}
}

// NewPrimCall allocates a primitive call expression.
func (a *Arena) NewPrimCall(op Prim, args ...Symbol) *PrimCall {
	a.bump()
	return &PrimCall{Op: op, Args: args}
}

// NewStructAtIndex allocates a struct field read.
func (a *Arena) NewStructAtIndex(structure Symbol, index int) *StructAtIndex {
	a.bump()
	return &StructAtIndex{Structure: structure, Index: index}
}

// NewUnionAtIndex allocates a union field read.
func (a *Arena) NewUnionAtIndex(structure Symbol, u *layout.Union, tagID, index int) *UnionAtIndex {
	a.bump()
	return &UnionAtIndex{Structure: structure, Union: u, TagID: tagID, Index: index}
}

// NewGetTagID allocates a tag-id read.
func (a *Arena) NewGetTagID(structure Symbol, u *layout.Union) *GetTagID {
	a.bump()
	return &GetTagID{Structure: structure, Union: u}
}

// NewListLen allocates a list-length read.
func (a *Arena) NewListLen(structure Symbol) *ListLen {
	a.bump()
	return &ListLen{Structure: structure}
}

// NewHelperCall allocates a call to a previously specialized helper.
func (a *Arena) NewHelperCall(helper Symbol, args ...Symbol) *HelperCall {
	a.bump()
	return &HelperCall{Helper: helper, Args: args}
}
