// Package oracle models the specialization oracle spec.md §4/§6 describes:
// an external collaborator that, given a (layout, operation) pair and the
// call-site arguments, returns an IR expression invoking a helper
// procedure for that pair — lazily materializing and caching the helper
// the first time it is asked for, so repeated requests for the same pair
// return a call to the *same* helper (spec.md §8 invariant 2).
//
// The pass in internal/refcount only ever consumes this interface; it
// never synthesizes a helper's body or name directly, matching spec.md
// §1's "the specialization oracle itself ... is a black box this pass
// calls into, never synthesizes directly".
package oracle

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// Op is the operation half of a helper's identity. The oracle never sees
// DecRef: spec.md §8 invariant 5 requires a DecRef helper's body emit no
// calls to child helpers, so DecRef is always inlined by the pass and
// never round-trips through Specialize.
type Op int

const (
	OpInc Op = iota
	OpDec
)

func (o Op) String() string {
	if o == OpInc {
		return "inc"
	}
	return "dec"
}

// HelperKey identifies one specialized helper procedure.
type HelperKey struct {
	Layout  layout.Layout
	Op      Op
	DebugID uuid.UUID // log-only: never compared, never used as a map key
}

// Oracle is the interface the pass consumes. Specialize returns an
// expression that calls the helper for (l, op), creating one on first use
// for any given structural key and reusing it afterward.
type Oracle interface {
	Specialize(op Op, l layout.Layout, args []rcir.Symbol) (rcir.Expr, error)
}

// entry is what the default oracle remembers about one minted helper.
type entry struct {
	symbol rcir.Symbol
	key    HelperKey
}

// DefaultOracle is the production implementation: it mints a helper name
// and dedups by structural (layout, op) identity, but — matching the
// spec's framing of the oracle as an external collaborator whose helper
// bodies this pass never sees — it does not synthesize or store a body.
// internal/rtprim provides a body-synthesizing oracle for executable
// round-trip tests (SPEC_FULL.md §6).
type DefaultOracle struct {
	mu      sync.Mutex
	entries map[string]*entry
	seq     int64
	log     logrus.FieldLogger
}

// New creates a DefaultOracle. A nil logger defaults to
// logrus.StandardLogger().
func New(log logrus.FieldLogger) *DefaultOracle {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DefaultOracle{entries: make(map[string]*entry), log: log}
}

func (o *DefaultOracle) Specialize(op Op, l layout.Layout, args []rcir.Symbol) (rcir.Expr, error) {
	key := layout.Key(l) + "/" + op.String()

	o.mu.Lock()
	e, ok := o.entries[key]
	if !ok {
		seq := atomic.AddInt64(&o.seq, 1)
		sym := rcir.Symbol(mintName(l, op, seq))
		e = &entry{symbol: sym, key: HelperKey{Layout: l, Op: op, DebugID: uuid.New()}}
		o.entries[key] = e
		o.mu.Unlock()
		o.log.WithFields(logrus.Fields{
			"helper":   sym,
			"op":       op.String(),
			"shape":    layout.ShapeString(layout.ShapeOf(l)),
			"debug_id": e.key.DebugID.String(),
		}).Debug("minted reference-count helper")
	} else {
		o.mu.Unlock()
	}

	return &rcir.HelperCall{Helper: e.symbol, Args: args}, nil
}

func mintName(l layout.Layout, op Op, seq int64) string {
	return "rc_" + kindTag(l) + "_" + op.String() + "_" + strconv.FormatInt(seq, 10)
}

func kindTag(l layout.Layout) string {
	switch l.Kind {
	case layout.KindPrimitive:
		return "prim"
	case layout.KindString:
		return "str"
	case layout.KindList:
		return "list"
	case layout.KindStruct:
		return "struct"
	case layout.KindUnion:
		return "union"
	case layout.KindClosureSet:
		return "closure"
	case layout.KindRecursivePointer:
		return "recptr"
	default:
		return "layout"
	}
}

