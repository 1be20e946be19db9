package refcount

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rcgen/pkg/layout"
	"rcgen/pkg/oracle"
)

// Inc and Dec always go straight to the oracle, never through Dispatch —
// the emitted shape is a flat two-event chain regardless of how deep the
// layout actually is.
func TestLowerIncAndDecCallOracleDirectly(t *testing.T) {
	p := New(oracle.New(nil), 8)
	deep := layout.Struct(layout.Plain(layout.List(layout.Str())))

	inc := p.Lower(deep, Inc{Value: "v", Amount: 5}, p.Arena.NewRet("done"))
	assert.Equal(t, []string{"helper", "ret"}, kinds(trace(inc)))

	dec := p.Lower(deep, Dec{Value: "v"}, p.Arena.NewRet("done"))
	assert.Equal(t, []string{"helper", "ret"}, kinds(trace(dec)))
}

// DecRef on a string rewrites to Dec — same helper call, since a string
// has no children to skip recursing into.
func TestLowerDecRefOnStringRewritesToDec(t *testing.T) {
	p := New(oracle.New(nil), 8)
	tail := p.Arena.NewRet("done")

	viaDecRef := p.Lower(layout.Str(), DecRef{Value: "s"}, tail)
	viaDec := p.Lower(layout.Str(), Dec{Value: "s"}, tail)
	assert.Equal(t, kinds(trace(viaDec)), kinds(trace(viaDecRef)))
}

// DecRef on a struct is a pure no-op: tail passes through unchanged,
// because a stack-only struct never owns a heap allocation of its own.
func TestLowerDecRefOnStructIsNoOp(t *testing.T) {
	p := New(oracle.New(nil), 8)
	tail := p.Arena.NewRet("done")
	l := layout.Struct(layout.Plain(layout.Str()))

	out := p.Lower(l, DecRef{Value: "s"}, tail)
	assert.Same(t, tail, out)
}

// DecRef on anything else wraps an inline Dispatch under a fresh join
// point, with tail as the join's body reached by the dispatch's own Jump.
func TestLowerDecRefOnListInlinesUnderJoinPoint(t *testing.T) {
	p := New(oracle.New(nil), 8)
	tail := p.Arena.NewRet("done")
	l := layout.List(layout.Str())

	out := p.Lower(l, DecRef{Value: "xs"}, tail)
	ev := trace(out)
	assert.Equal(t, "join", ev[0].kind)
	// DecRef never recurses into refcounted elements, even though the
	// element layout here is refcounted (invariant 5).
	assert.NotContains(t, kinds(ev), "helper")
	assert.Contains(t, kinds(ev), "prim:rcdec")
}

func TestLowerPanicsOnUnimplementedLayout(t *testing.T) {
	p := New(oracle.New(nil), 8)
	tail := p.Arena.NewRet("done")

	assertPanics(t, func() {
		p.Lower(layout.RecursivePointerLayout(), Inc{Value: "v", Amount: 1}, tail)
	})
	assertPanics(t, func() {
		p.Lower(layout.RecursivePointerLayout(), Dec{Value: "v"}, tail)
	})
	assertPanics(t, func() {
		p.Lower(layout.RecursivePointerLayout(), DecRef{Value: "v"}, tail)
	})
}
