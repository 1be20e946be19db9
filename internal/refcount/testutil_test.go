package refcount

import "rcgen/pkg/rcir"

// traceEvent is one step along an execution-order trace through a Stmt
// tree: a primitive call, a helper call, or a control-flow marker.
type traceEvent struct {
	kind   string // "prim:<op>", "helper", "join", "jump", or "ret"
	helper rcir.Symbol
}

// traceTag walks s as if it were executed with tag selecting which
// Switch branch is taken at every Switch encountered (falling back to
// Default when no branch matches) — the trace tests build scenarios
// around a single known runtime tag, so this is enough to assert
// ordering without a full interpreter. A Jump to a join point defined
// earlier on the walk enters that join's Body; a Jump back to a join
// whose Body was already entered ends the loop iteration, and the walk
// resumes with the other arm of the Switch that chose to loop — each loop
// body is traced once, then the loop exits.
func traceTag(s rcir.Stmt, tag int) []traceEvent {
	var out []traceEvent
	walkTraceTag(s, tag, map[rcir.JoinPointID]*rcir.Join{}, &out)
	return out
}

// walkTraceTag reports whether the walk ended in a Jump back to a join
// point whose Body had already been entered.
func walkTraceTag(s rcir.Stmt, tag int, joins map[rcir.JoinPointID]*rcir.Join, out *[]traceEvent) bool {
	switch v := s.(type) {
	case *rcir.Let:
		switch e := v.Value.(type) {
		case *rcir.PrimCall:
			*out = append(*out, traceEvent{kind: primName(e.Op)})
		case *rcir.HelperCall:
			*out = append(*out, traceEvent{kind: "helper", helper: e.Helper})
		}
		return walkTraceTag(v.Next, tag, joins, out)
	case *rcir.Switch:
		taken, other := v.Default, rcir.Stmt(nil)
		if len(v.Branches) > 0 {
			other = v.Branches[0].Body
		}
		for _, b := range v.Branches {
			if b.TagID == tag {
				taken, other = b.Body, v.Default
				break
			}
		}
		looped := walkTraceTag(taken, tag, joins, out)
		if looped && other != nil {
			return walkTraceTag(other, tag, joins, out)
		}
		return looped
	case *rcir.Join:
		*out = append(*out, traceEvent{kind: "join"})
		joins[v.ID] = v
		return walkTraceTag(v.Remainder, tag, joins, out)
	case *rcir.Jump:
		*out = append(*out, traceEvent{kind: "jump"})
		j, ok := joins[v.ID]
		if !ok {
			return false
		}
		if j == nil {
			return true
		}
		joins[v.ID] = nil
		return walkTraceTag(j.Body, tag, joins, out)
	case *rcir.Ret:
		*out = append(*out, traceEvent{kind: "ret"})
	}
	return false
}

// trace walks a Stmt tree with a tag no Branch uses, so every Switch
// takes its Default.
func trace(s rcir.Stmt) []traceEvent {
	return traceTag(s, -1)
}

func primName(p rcir.Prim) string {
	switch p {
	case rcir.PrimPtrCast:
		return "prim:ptrcast"
	case rcir.PrimNumAdd:
		return "prim:add"
	case rcir.PrimNumSub:
		return "prim:sub"
	case rcir.PrimNumMul:
		return "prim:mul"
	case rcir.PrimAnd:
		return "prim:and"
	case rcir.PrimNumGte:
		return "prim:gte"
	case rcir.PrimEq:
		return "prim:eq"
	case rcir.PrimListLen:
		return "prim:listlen"
	case rcir.PrimRefCountInc:
		return "prim:rcinc"
	case rcir.PrimRefCountDec:
		return "prim:rcdec"
	default:
		return "prim:?"
	}
}

// kinds projects a trace down to just the event kinds, for terse
// assertions.
func kinds(events []traceEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.kind
	}
	return out
}

// nodeCount walks every reachable Stmt node and returns how many there
// are — used to check that output size tracks input size (spec.md §8's
// termination property: this pass never diverges or blows up
// super-linearly in the layout it is given).
func nodeCount(s rcir.Stmt) int {
	if s == nil {
		return 0
	}
	switch v := s.(type) {
	case *rcir.Let:
		return 1 + nodeCount(v.Next)
	case *rcir.Switch:
		n := 1 + nodeCount(v.Default)
		for _, b := range v.Branches {
			n += nodeCount(b.Body)
		}
		return n
	case *rcir.Join:
		return 1 + nodeCount(v.Body) + nodeCount(v.Remainder)
	case *rcir.Jump, *rcir.Ret:
		return 1
	default:
		return 0
	}
}
