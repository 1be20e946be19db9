package rtprim

import (
	"fmt"

	"rcgen/pkg/rcir"
)

const wordSize = 8

// helperDef is a materialized helper body plus the formal parameter names
// its Args bind to positionally on every call.
type helperDef struct {
	params []rcir.Symbol
	body   rcir.Stmt
}

// jumpSignal propagates an in-flight Jump up through exec until it
// reaches the Join that defines the target join point.
type jumpSignal struct {
	id   rcir.JoinPointID
	args []int64
}

// Interp executes rcir against a Memory, resolving HelperCall against a
// table of helper bodies registered by whatever Oracle materialized them
// (internal/rtprim.SelfHostingOracle in tests; the production
// pkg/oracle.DefaultOracle never materializes a body at all).
type Interp struct {
	Mem     *Memory
	helpers map[rcir.Symbol]*helperDef
}

func NewInterp(mem *Memory) *Interp {
	return &Interp{Mem: mem, helpers: make(map[rcir.Symbol]*helperDef)}
}

// Register records a helper's body under sym, to be invoked whenever a
// HelperCall names it.
func (ip *Interp) Register(sym rcir.Symbol, params []rcir.Symbol, body rcir.Stmt) {
	ip.helpers[sym] = &helperDef{params: params, body: body}
}

// Run executes stmt to completion and returns the value it Ret's. It
// panics if a Jump escapes with nowhere to land, which would mean stmt
// referenced a join point Run was never given.
func (ip *Interp) Run(stmt rcir.Stmt, env map[rcir.Symbol]int64) int64 {
	v, j := ip.exec(stmt, env)
	if j != nil {
		panic(fmt.Sprintf("rtprim: unresolved jump to %s", j.id))
	}
	return v
}

func (ip *Interp) exec(stmt rcir.Stmt, env map[rcir.Symbol]int64) (int64, *jumpSignal) {
	switch s := stmt.(type) {
	case *rcir.Let:
		env[s.Sym] = ip.eval(s.Value, env)
		return ip.exec(s.Next, env)

	case *rcir.Switch:
		cond := env[s.Cond]
		for _, b := range s.Branches {
			if int64(b.TagID) == cond {
				return ip.exec(b.Body, env)
			}
		}
		return ip.exec(s.Default, env)

	case *rcir.Join:
		val, j := ip.exec(s.Remainder, env)
		for j != nil && j.id == s.ID {
			for i, p := range s.Params {
				if i < len(j.args) {
					env[p.Sym] = j.args[i]
				}
			}
			val, j = ip.exec(s.Body, env)
		}
		return val, j

	case *rcir.Jump:
		args := make([]int64, len(s.Args))
		for i, a := range s.Args {
			args[i] = env[a]
		}
		return 0, &jumpSignal{id: s.ID, args: args}

	case *rcir.Ret:
		return env[s.Sym], nil

	default:
		panic(fmt.Sprintf("rtprim: unhandled Stmt %T", stmt))
	}
}

func (ip *Interp) eval(expr rcir.Expr, env map[rcir.Symbol]int64) int64 {
	switch e := expr.(type) {
	case *rcir.LiteralInt:
		return e.Value
	case *rcir.EmptyStruct:
		return 0
	case *rcir.PrimCall:
		return ip.evalPrim(e, env)
	case *rcir.StructAtIndex:
		return ip.Mem.Load(env[e.Structure] + int64(e.Index)*wordSize)
	case *rcir.UnionAtIndex:
		// Fields within one variant are packed with no alignment padding
		// in this mock — good enough to exercise the shapes the round-trip
		// tests actually build (a box's single-field variant), not a
		// claim about real struct layout.
		return ip.Mem.Load(env[e.Structure] + int64(e.Index)*wordSize)
	case *rcir.GetTagID:
		return ip.Mem.Load(env[e.Structure])
	case *rcir.ListLen:
		return ip.Mem.Load(env[e.Structure] + wordSize)
	case *rcir.HelperCall:
		return ip.callHelper(e, env)
	default:
		panic(fmt.Sprintf("rtprim: unhandled Expr %T", expr))
	}
}

func (ip *Interp) evalPrim(p *rcir.PrimCall, env map[rcir.Symbol]int64) int64 {
	arg := func(i int) int64 { return env[p.Args[i]] }
	switch p.Op {
	case rcir.PrimPtrCast:
		return arg(0)
	case rcir.PrimNumAdd:
		return arg(0) + arg(1)
	case rcir.PrimNumSub:
		return arg(0) - arg(1)
	case rcir.PrimNumMul:
		return arg(0) * arg(1)
	case rcir.PrimAnd:
		return arg(0) & arg(1)
	case rcir.PrimNumGte:
		return boolInt(arg(0) >= arg(1))
	case rcir.PrimEq:
		return boolInt(arg(0) == arg(1))
	case rcir.PrimRefCountInc:
		rcPtr := arg(0)
		amount := arg(1)
		ip.Mem.Store(rcPtr, ip.Mem.Load(rcPtr)+amount)
		return 0
	case rcir.PrimRefCountDec:
		rcPtr := arg(0)
		ip.Mem.Store(rcPtr, ip.Mem.Load(rcPtr)-1)
		return 0
	default:
		panic(fmt.Sprintf("rtprim: unhandled Prim %v", p.Op))
	}
}

func (ip *Interp) callHelper(c *rcir.HelperCall, callerEnv map[rcir.Symbol]int64) int64 {
	def, ok := ip.helpers[c.Helper]
	if !ok {
		panic(fmt.Sprintf("rtprim: call to unregistered helper %s", c.Helper))
	}
	callEnv := make(map[rcir.Symbol]int64, len(def.params))
	for i, param := range def.params {
		if i < len(c.Args) {
			callEnv[param] = callerEnv[c.Args[i]]
		}
	}
	return ip.Run(def.body, callEnv)
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
