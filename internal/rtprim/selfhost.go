package rtprim

import (
	"fmt"
	"sync"

	"rcgen/internal/refcount"
	"rcgen/pkg/layout"
	"rcgen/pkg/oracle"
	"rcgen/pkg/rcir"
)

// SelfHostingOracle is the test-only counterpart to
// pkg/oracle.DefaultOracle: where the production oracle mints a helper
// name and deliberately never synthesizes a body (it is an external
// collaborator in spec.md's framing), this one calls straight back into
// the same *refcount.Pass to build a real body and registers it with an
// Interp, so Inc/Dec directives become runnable code instead of just a
// shape to inspect (spec.md §8 invariant 7, the round-trip property).
type SelfHostingOracle struct {
	pass   *refcount.Pass
	interp *Interp

	mu      sync.Mutex
	entries map[string]rcir.Symbol
	seq     int
}

// NewSelfHostingOracle wires an oracle that materializes helper bodies by
// dispatching through pass and registering them with interp. Callers must
// still assign the returned oracle to pass.Oracle themselves (the pass
// has to exist before the oracle that closes over it can).
func NewSelfHostingOracle(pass *refcount.Pass, interp *Interp) *SelfHostingOracle {
	return &SelfHostingOracle{pass: pass, interp: interp, entries: make(map[string]rcir.Symbol)}
}

func (o *SelfHostingOracle) Specialize(op oracle.Op, l layout.Layout, args []rcir.Symbol) (rcir.Expr, error) {
	key := layout.Key(l) + "/" + op.String()

	o.mu.Lock()
	sym, ok := o.entries[key]
	if !ok {
		o.seq++
		sym = rcir.Symbol(fmt.Sprintf("self_%s_%d", op.String(), o.seq))
		o.entries[key] = sym
		o.mu.Unlock()

		params := []rcir.Symbol{rcir.ArgStructure}
		kind := refcount.OpDec
		if op == oracle.OpInc {
			kind = refcount.OpInc
			params = append(params, rcir.ArgAmount)
		}
		ctx := refcount.Context{Op: refcount.Op{Kind: kind}}
		body := o.pass.Dispatch(ctx, l, rcir.ArgStructure)
		o.interp.Register(sym, params, body)
	} else {
		o.mu.Unlock()
	}

	return &rcir.HelperCall{Helper: sym, Args: args}, nil
}
