package refcount

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rcgen/pkg/layout"
	"rcgen/pkg/oracle"
)

// S3: List-of-Int64 Dec — the element layout is never refcounted, so the
// non-empty branch frees the elements block directly with no element
// loop at all.
func TestScenarioListOfPrimitiveDecHasNoElementLoop(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpDec}}
	stmt := p.refcountList(ctx, layout.Prim(layout.Int64), "l")

	ev := traceTag(stmt, 0) // non-empty (default) branch
	assert.NotContains(t, kinds(ev), "join")
	assert.Contains(t, kinds(ev), "prim:rcdec")
}

// S4: List-of-String Dec — the element layout is refcounted, so the
// non-empty branch also walks every element via the loop join point
// before freeing the elements block... and the children-before-parent
// ordering applies here too: the outer RefCountDec sits in the loop's exit
// branch, so it runs only after the loop has visited every element.
func TestScenarioListOfStringDecHasElementLoop(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpDec}}
	stmt := p.refcountList(ctx, layout.Str(), "l")

	ev := traceTag(stmt, 0)
	assert.Contains(t, kinds(ev), "join")
	assert.Contains(t, kinds(ev), "helper")
	assert.Contains(t, kinds(ev), "prim:rcdec")
}

func TestListEmptyBranchSkipsEverything(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpDec}}
	stmt := p.refcountList(ctx, layout.Str(), "l")

	ev := traceTag(stmt, 1) // empty branch
	assert.Equal(t, []string{"prim:eq", "ret"}, kinds(ev))
}

func TestListDecRefSkipsElementLoopEvenForRefcountedElems(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpDecRef, DecRefJoin: "jp"}}
	stmt := p.refcountList(ctx, layout.Str(), "l")

	ev := traceTag(stmt, 0)
	assert.NotContains(t, kinds(ev), "join")
	assert.NotContains(t, kinds(ev), "helper")
	assert.Contains(t, kinds(ev), "prim:rcdec")
}
