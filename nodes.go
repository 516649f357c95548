package treebind

import (
	"fmt"

	"github.com/mafrosis/treebind/ast"
	"github.com/mafrosis/treebind/tree"
)

// A matcher consumes a prefix of a sibling list and produces a typed value
// plus the remaining siblings, or fails. Failure carries no detail; it
// propagates as absence of a result.
type matcher func(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool)

// chain is the compiler's intermediate representation of "parse a prefix of
// the sibling list". A nil match is the Nothing state: trivial success with
// zero captured values. Otherwise the matcher produces a right-nested
// ast.Pair spine of exactly captured values, of which only the first kept
// survive flattening; kept <= captured always. Seq composition sums both
// counts over its elements, while Choice, Repeat, Repeat1 and Optional each
// contribute exactly one captured and one kept slot.
type chain struct {
	captured int
	kept     int
	match    matcher
}

func (c chain) run(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
	if c.match == nil {
		return ast.Blank{}, nodes, true
	}
	return c.match(pc, nodes)
}

// compileBody turns a rule body plus a continuation into a matcher chain.
// Bodies in one Seq share the continuation by right-associated composition:
// matching [A, B, C] before continuation T yields (a, (b, (c, T))).
func (c *compiler) compileBody(b Body, next chain) chain {
	switch b := b.(type) {
	case Blank:
		// Matches nothing, consumes nothing.
		return next
	case Token:
		return c.compileToken(string(b), next)
	case Symbol:
		return c.compileSymbol(string(b), next)
	case Seq:
		return c.compileSeq(b, next)
	case Choice:
		return c.compileChoice(b, next)
	case Repeat:
		return c.compileRepeat(b.Body, false, next)
	case Repeat1:
		return c.compileRepeat(b.Body, true, next)
	case Optional:
		return c.compileOptional(b.Body, next)
	}
	// Unreachable: Validate rejects unknown body types before compilation.
	panic(fmt.Sprintf("unsupported body %T", b))
}

func (c *compiler) compileSeq(seq Seq, next chain) chain {
	for i := len(seq) - 1; i >= 0; i-- {
		next = c.compileBody(seq[i], next)
	}
	return next
}

func (c *compiler) compileToken(name string, next chain) chain {
	return chain{
		captured: next.captured + 1,
		kept:     next.kept + 1,
		match: func(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
			nodes = pc.skipExtras(nodes)
			if len(nodes) == 0 || nodes[0].Type != name {
				return nil, nil, false
			}
			head := ast.Token{Span: nodes[0].Span, Text: nodes[0].Text(pc.source)}
			tail, rest, ok := next.run(pc, nodes[1:])
			if !ok {
				return nil, nil, false
			}
			return ast.Pair{Head: head, Tail: tail}, rest, true
		},
	}
}

func (c *compiler) compileSymbol(name string, next chain) chain {
	e := c.entries[name]
	if e.rule.Hidden {
		// Hidden rules have no node of their own; splice their inline
		// matcher into the referencing sibling list.
		return e.inline(next)
	}
	return chain{
		captured: next.captured + 1,
		kept:     next.kept + 1,
		match: func(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
			nodes = pc.skipExtras(nodes)
			if len(nodes) == 0 {
				return nil, nil, false
			}
			// e.node is read at match time so that references within a rule
			// group resolve even before the target rule is compiled.
			head, ok := e.node(pc, nodes[0])
			if !ok {
				return nil, nil, false
			}
			tail, rest, ok := next.run(pc, nodes[1:])
			if !ok {
				return nil, nil, false
			}
			return ast.Pair{Head: head, Tail: tail}, rest, true
		},
	}
}

// compileChoice tries alternatives strictly in declaration order. Each
// alternative body is resolved to a self-contained matcher; the shared
// continuation is compiled once by the caller and run exactly once, after
// the first alternative whose body matches. The choice is committed at that
// point: a continuation failure fails the whole choice rather than retrying
// later alternatives.
func (c *compiler) compileChoice(alts Choice, next chain) chain {
	type alternative struct {
		tag string
		m   matcher
	}
	compiled := make([]alternative, len(alts))
	for i, alt := range alts {
		compiled[i] = alternative{alt.Tag, flattenSeq(c.compileBody(alt.Body, chain{}))}
	}
	return chain{
		captured: next.captured + 1,
		kept:     next.kept + 1,
		match: func(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
			for _, alt := range compiled {
				v, rest, ok := alt.m(pc, nodes)
				if !ok {
					continue
				}
				tail, rest, ok := next.run(pc, rest)
				if !ok {
					return nil, nil, false
				}
				return ast.Pair{Head: ast.Variant{Tag: alt.tag, Value: v}, Tail: tail}, rest, true
			}
			return nil, nil, false
		},
	}
}

// compileRepeat matches the element greedily. Once consumption stops the
// continuation is matched in the same forward pass; a later failure never
// backtracks into fewer repetitions.
func (c *compiler) compileRepeat(body Body, atLeastOne bool, next chain) chain {
	elem := flattenSeq(c.compileBody(body, chain{}))
	return chain{
		captured: next.captured + 1,
		kept:     next.kept + 1,
		match: func(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
			items := ast.List{}
			for {
				v, rest, ok := elem(pc, nodes)
				if !ok {
					break
				}
				items = append(items, v)
				if len(rest) == len(nodes) {
					// A match that consumed nothing would repeat forever.
					break
				}
				nodes = rest
			}
			if atLeastOne && len(items) == 0 {
				return nil, nil, false
			}
			tail, rest, ok := next.run(pc, nodes)
			if !ok {
				return nil, nil, false
			}
			return ast.Pair{Head: items, Tail: tail}, rest, true
		},
	}
}

func (c *compiler) compileOptional(body Body, next chain) chain {
	elem := flattenSeq(c.compileBody(body, chain{}))
	return chain{
		captured: next.captured + 1,
		kept:     next.kept + 1,
		match: func(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
			opt := ast.Option{}
			if v, rest, ok := elem(pc, nodes); ok {
				opt.Value = v
				nodes = rest
			}
			tail, rest, ok := next.run(pc, nodes)
			if !ok {
				return nil, nil, false
			}
			return ast.Pair{Head: opt, Tail: tail}, rest, true
		},
	}
}

// matchEnd succeeds only at the end of a sibling list (trailing extras
// allowed). It captures a sentinel that is never kept, so rule-boundary
// flattening drops it.
func matchEnd(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
	nodes = pc.skipExtras(nodes)
	if len(nodes) != 0 {
		return nil, nil, false
	}
	return ast.Pair{Head: ast.Blank{}, Tail: ast.Blank{}}, nodes, true
}
