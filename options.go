package treebind

import (
	"errors"
	"io"

	"github.com/mafrosis/treebind/tree"
)

// An Option modifies the behaviour of the Parser.
type Option func(p *Parser) error

// TreeParser configures the external parser that ParseText and ParseFile
// delegate text-to-tree conversion to. ParseTree needs no tree parser.
func TreeParser(def tree.Parser) Option {
	return func(p *Parser) error {
		p.treeParser = def
		return nil
	}
}

// Trace logs every node- and children-tier matcher invocation and outcome
// to w. Results are never altered.
func Trace(w io.Writer) Option {
	return func(p *Parser) error {
		p.trace = newTraceLogger(w)
		return nil
	}
}

// Memoize toggles the per-rule caches (default on). Disabling them never
// changes a parse result, only the work done to produce it.
func Memoize(on bool) Option {
	return func(p *Parser) error {
		p.memoize = on
		return nil
	}
}

// MemoLimit caps the number of positions each rule's cache retains per
// parse run. Eviction costs recomputation, never correctness.
func MemoLimit(n int) Option {
	return func(p *Parser) error {
		if n <= 0 {
			return errors.New("treebind: memo limit must be positive")
		}
		p.memoSize = n
		return nil
	}
}
