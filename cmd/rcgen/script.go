package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"rcgen/internal/refcount"
	"rcgen/pkg/layout"
	"rcgen/pkg/rcir"
)

// scriptLine is one parsed line: a directive paired with the layout it
// applies to.
type scriptLine struct {
	layout    layout.Layout
	directive refcount.Directive
	raw       string
}

// scriptParser is a small position-based recursive-descent parser, in the
// same style as pkg/parser/parser.go's scanner (peek/advance over a plain
// string index rather than a separate tokenizer pass). It understands a
// deliberately small grammar — just enough to drive the pass end-to-end as
// a demo, not a general layout description language:
//
//	directive  := ident "(" ident ["," int] ")"
//	layout     := "str" | primkind | "list" "(" layout ")"
//	            | "struct" "(" layout {"," layout} ")"
//	line       := directive ":" layout
//
// Unions, closure sets, and recursive pointers aren't expressible here —
// exercising those shapes goes through internal/refcount's own tests,
// which build layout.Union values directly; this parser only needs to
// cover what a one-line demo script can usefully describe.
type scriptParser struct {
	input string
	pos   int
}

func newScriptParser(input string) *scriptParser {
	return &scriptParser{input: input}
}

// parseScript parses one scriptLine per non-blank, non-comment ('#'
// prefixed) input line.
func parseScript(src string) ([]scriptLine, error) {
	var out []scriptLine
	for lineNo, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sl, err := newScriptParser(line).parseLine()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		sl.raw = line
		out = append(out, sl)
	}
	return out, nil
}

func (p *scriptParser) parseLine() (scriptLine, error) {
	colon := strings.Index(p.input, ":")
	if colon < 0 {
		return scriptLine{}, fmt.Errorf("expected ':' separating directive from layout")
	}
	directivePart := strings.TrimSpace(p.input[:colon])
	layoutPart := strings.TrimSpace(p.input[colon+1:])

	d, err := newScriptParser(directivePart).parseDirective()
	if err != nil {
		return scriptLine{}, err
	}
	lp := newScriptParser(layoutPart)
	l, err := lp.parseLayout()
	if err != nil {
		return scriptLine{}, err
	}
	return scriptLine{layout: l, directive: d}, nil
}

func (p *scriptParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *scriptParser) advance() byte {
	ch := p.peek()
	if ch != 0 {
		p.pos++
	}
	return ch
}

func (p *scriptParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *scriptParser) parseIdent() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *scriptParser) expect(ch byte) error {
	p.skipSpace()
	if p.peek() != ch {
		return fmt.Errorf("expected %q at position %d in %q", ch, p.pos, p.input)
	}
	p.advance()
	return nil
}

// parseDirective parses e.g. "inc(s, 3)", "dec(l)", "decref(u)".
func (p *scriptParser) parseDirective() (refcount.Directive, error) {
	op := strings.ToLower(p.parseIdent())
	if err := p.expect('('); err != nil {
		return nil, err
	}
	value := p.parseIdent()
	if value == "" {
		return nil, fmt.Errorf("directive %q is missing its value argument", op)
	}

	switch op {
	case "inc":
		p.skipSpace()
		if err := p.expect(','); err != nil {
			return nil, fmt.Errorf("inc requires an amount: inc(value, amount)")
		}
		p.skipSpace()
		amountStr := p.parseIdent()
		amount, err := strconv.Atoi(amountStr)
		if err != nil {
			return nil, fmt.Errorf("inc amount %q is not an integer", amountStr)
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return refcount.Inc{Value: rcir.Symbol(value), Amount: amount}, nil

	case "dec":
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return refcount.Dec{Value: rcir.Symbol(value)}, nil

	case "decref":
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return refcount.DecRef{Value: rcir.Symbol(value)}, nil

	default:
		return nil, fmt.Errorf("unknown directive %q (expected inc, dec, or decref)", op)
	}
}

// parseLayout parses the small layout grammar described on scriptParser.
func (p *scriptParser) parseLayout() (layout.Layout, error) {
	name := strings.ToLower(p.parseIdent())
	switch name {
	case "str":
		return layout.Str(), nil
	case "int8":
		return layout.Prim(layout.Int8), nil
	case "int16":
		return layout.Prim(layout.Int16), nil
	case "int32":
		return layout.Prim(layout.Int32), nil
	case "int64":
		return layout.Prim(layout.Int64), nil
	case "float32":
		return layout.Prim(layout.Float32), nil
	case "float64":
		return layout.Prim(layout.Float64), nil
	case "bool":
		return layout.Prim(layout.Bool), nil
	case "decimal":
		return layout.Prim(layout.Decimal), nil
	case "list":
		if err := p.expect('('); err != nil {
			return layout.Layout{}, err
		}
		elem, err := p.parseLayout()
		if err != nil {
			return layout.Layout{}, err
		}
		if err := p.expect(')'); err != nil {
			return layout.Layout{}, err
		}
		return layout.List(elem), nil
	case "struct":
		if err := p.expect('('); err != nil {
			return layout.Layout{}, err
		}
		var fields []layout.Field
		for {
			f, err := p.parseLayout()
			if err != nil {
				return layout.Layout{}, err
			}
			fields = append(fields, layout.Plain(f))
			p.skipSpace()
			if p.peek() == ',' {
				p.advance()
				continue
			}
			break
		}
		if err := p.expect(')'); err != nil {
			return layout.Layout{}, err
		}
		return layout.Struct(fields...), nil
	default:
		return layout.Layout{}, fmt.Errorf("unknown layout %q", name)
	}
}
