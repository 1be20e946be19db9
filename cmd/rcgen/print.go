package main

import (
	"fmt"
	"strconv"
	"strings"

	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// printStmt renders one statement tree as indented pseudo-assembly, the
// same shape the pass builds internally (a chain of Lets terminating in a
// Ret, Jump, or a Switch's branches) — this is the only place in the repo
// that needs to walk the IR just to print it, so it lives next to main
// rather than in pkg/rcir.
func printStmt(w *strings.Builder, stmt rcir.Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	switch s := stmt.(type) {
	case *rcir.Let:
		fmt.Fprintf(w, "%slet %s: %s = %s\n", pad, s.Sym, layout.Key(s.Layout), exprString(s.Value))
		printStmt(w, s.Next, indent)

	case *rcir.Switch:
		fmt.Fprintf(w, "%sswitch %s {\n", pad, s.Cond)
		for _, b := range s.Branches {
			fmt.Fprintf(w, "%s  tag %d:\n", pad, b.TagID)
			printStmt(w, b.Body, indent+2)
		}
		fmt.Fprintf(w, "%s  default:\n", pad)
		printStmt(w, s.Default, indent+2)
		fmt.Fprintf(w, "%s}\n", pad)

	case *rcir.Join:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = fmt.Sprintf("%s: %s", p.Sym, layout.Key(p.Layout))
		}
		fmt.Fprintf(w, "%sjoin %s(%s):\n", pad, s.ID, strings.Join(params, ", "))
		printStmt(w, s.Body, indent+1)
		fmt.Fprintf(w, "%sin\n", pad)
		printStmt(w, s.Remainder, indent)

	case *rcir.Jump:
		fmt.Fprintf(w, "%sjump %s(%s)\n", pad, s.ID, strings.Join(symbolStrings(s.Args), ", "))

	case *rcir.Ret:
		fmt.Fprintf(w, "%sret %s\n", pad, s.Sym)

	default:
		fmt.Fprintf(w, "%s<unknown statement>\n", pad)
	}
}

func exprString(e rcir.Expr) string {
	switch v := e.(type) {
	case *rcir.LiteralInt:
		return strconv.FormatInt(v.Value, 10)
	case *rcir.EmptyStruct:
		return "{}"
	case *rcir.PrimCall:
		return fmt.Sprintf("prim[%d](%s)", v.Op, strings.Join(symbolStrings(v.Args), ", "))
	case *rcir.StructAtIndex:
		return fmt.Sprintf("%s[%d]", v.Structure, v.Index)
	case *rcir.UnionAtIndex:
		return fmt.Sprintf("%s.tag%d[%d]", v.Structure, v.TagID, v.Index)
	case *rcir.GetTagID:
		return fmt.Sprintf("tagof(%s)", v.Structure)
	case *rcir.ListLen:
		return fmt.Sprintf("len(%s)", v.Structure)
	case *rcir.HelperCall:
		return fmt.Sprintf("%s(%s)", v.Helper, strings.Join(symbolStrings(v.Args), ", "))
	default:
		return "<unknown expr>"
	}
}

func symbolStrings(syms []rcir.Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = string(s)
	}
	return out
}
