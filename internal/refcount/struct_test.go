package refcount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcgen/pkg/layout"
	"rcgen/pkg/oracle"
	"rcgen/pkg/rcir"
)

// S6: Struct-of-(Int, List-of-Int) Inc 5 — the Int field is never
// refcounted and is skipped entirely; only the List field produces a
// binding and a recursive call into the list's own Inc helper.
func TestScenarioStructSkipsNonRefcountedFields(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpInc}}
	fields := []layout.Field{
		layout.Plain(layout.Prim(layout.Int64)),
		layout.Plain(layout.List(layout.Prim(layout.Int64))),
	}
	stmt := p.refcountStruct(ctx, fields, "s")

	ev := trace(stmt)
	assert.Equal(t, []string{"helper", "ret"}, kinds(ev))

	let, ok := stmt.(*rcir.Let)
	require.True(t, ok)
	idx, ok := let.Value.(*rcir.StructAtIndex)
	require.True(t, ok)
	assert.Equal(t, 1, idx.Index) // the List field, index 1 — not the skipped Int at index 0
}

func TestRefcountStructAllFieldsPlain(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpDec}}
	fields := []layout.Field{layout.Plain(layout.Prim(layout.Int64)), layout.Plain(layout.Prim(layout.Bool))}
	stmt := p.refcountStruct(ctx, fields, "s")

	ev := trace(stmt)
	assert.Equal(t, []string{"ret"}, kinds(ev))
}

func TestRefcountStructWeakFieldNeverVisited(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpDec}}
	fields := []layout.Field{layout.WeakField(layout.Str())}
	stmt := p.refcountStruct(ctx, fields, "s")

	ev := trace(stmt)
	assert.Equal(t, []string{"ret"}, kinds(ev))
}

func TestRefcountStructReverseFieldOrder(t *testing.T) {
	p := New(oracle.New(nil), 8)
	ctx := Context{Op: Op{Kind: OpDec}}
	fields := []layout.Field{layout.Plain(layout.Str()), layout.Plain(layout.List(layout.Str()))}
	stmt := p.refcountStruct(ctx, fields, "s")

	// Built by walking fields in reverse (index 1 first), so index 1 is
	// wrapped innermost and the outermost Let in the tree reads field
	// index 0 — the chain runs the fields in declaration order.
	let, ok := stmt.(*rcir.Let)
	require.True(t, ok)
	idx, ok := let.Value.(*rcir.StructAtIndex)
	require.True(t, ok)
	assert.Equal(t, 0, idx.Index)
}
