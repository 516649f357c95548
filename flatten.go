package treebind

import (
	"github.com/mafrosis/treebind/ast"
	"github.com/mafrosis/treebind/tree"
)

// flattenSeq resolves a chain into a self-contained matcher producing a
// single flat value. It is applied exactly at rule boundaries (where the
// trailing slot is the end-of-children sentinel, captured but not kept) and
// at choice-alternative and repetition-element boundaries (where the chain
// was composed against the empty continuation), never in the middle of an
// arbitrary sub-sequence.
func flattenSeq(c chain) matcher {
	captured, kept := c.captured, c.kept
	return func(pc *parseContext, nodes []*tree.Node) (ast.Value, []*tree.Node, bool) {
		v, rest, ok := c.run(pc, nodes)
		if !ok {
			return nil, nil, false
		}
		return flatten(v, captured, kept), rest, true
	}
}

// flatten collapses the first captured heads of a right-nested pair spine
// into one fixed-arity value, retaining only the first kept of them and
// leaving any remaining tail untouched. A single surviving value is
// returned as itself, never as a one-element tuple; zero surviving values
// flatten to Blank.
func flatten(v ast.Value, captured, kept int) ast.Value {
	values := make([]ast.Value, 0, captured)
	for i := 0; i < captured; i++ {
		// The chain invariant guarantees exactly `captured` pairs here.
		p := v.(ast.Pair)
		values = append(values, p.Head)
		v = p.Tail
	}
	values = values[:kept]
	switch len(values) {
	case 0:
		return ast.Blank{}
	case 1:
		return values[0]
	default:
		return ast.Tuple(values)
	}
}
