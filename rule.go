package treebind

import (
	"github.com/mafrosis/treebind/ast"
	"github.com/mafrosis/treebind/tree"
)

// nodeMatcher is the node-tier entry point of a rule: match one whole node.
type nodeMatcher func(pc *parseContext, n *tree.Node) (ast.Value, bool)

// childrenMatcher matches the entire child list of a node; leftover
// children (beyond trailing extras) fail the match.
type childrenMatcher func(pc *parseContext, nodes []*tree.Node) (ast.Value, bool)

// ruleEntry holds the compiled entry points for one external name. A rule
// contributes one entry per name (primary name and each alias); alias
// entries share the inline and children logic and differ only in the node
// type the node tier validates, and in their memoization cache.
type ruleEntry struct {
	rule *Rule
	// name is the external node type this entry validates against.
	name string

	// inline composes the rule body with a caller-supplied continuation.
	// Used by the children tier and by references to hidden rules.
	inline func(next chain) chain
	// children is nil for leaf rules, which never look at children.
	children childrenMatcher
	node     nodeMatcher
}

type compiler struct {
	parser  *Parser
	grammar *Grammar
	entries map[string]*ruleEntry
}

// compile builds every entry point. All entries are declared first so that
// references within a rule group resolve through the table regardless of
// declaration order, then each group is compiled in grammar order.
func (c *compiler) compile() {
	for _, r := range c.grammar.Rules() {
		rule := r
		for _, name := range append([]string{r.Name}, r.Aliases...) {
			e := &ruleEntry{rule: rule, name: name}
			if rule.IsLeaf() {
				// A leaf carries no children to recurse into.
				e.inline = func(next chain) chain { return next }
			} else {
				e.inline = func(next chain) chain { return c.compileBody(rule.Body, next) }
			}
			c.entries[name] = e
		}
	}
	for _, group := range c.grammar.Groups {
		for _, r := range group {
			primary := c.entries[r.Name]
			c.compileEntry(primary, nil)
			for _, alias := range r.Aliases {
				// Aliases share the inline/children implementation; only
				// the node-tier validation and its cache are duplicated.
				c.compileEntry(c.entries[alias], primary)
			}
		}
	}
}

func (c *compiler) compileEntry(e, shared *ruleEntry) {
	name := e.name
	var node nodeMatcher
	if e.rule.IsLeaf() {
		node = func(pc *parseContext, n *tree.Node) (ast.Value, bool) {
			if n.Type != name {
				return nil, false
			}
			return ast.Token{Span: n.Span, Text: n.Text(pc.source)}, true
		}
	} else {
		if shared != nil {
			e.children = shared.children
		} else {
			end := chain{captured: 1, kept: 0, match: matchEnd}
			inner := flattenSeq(e.inline(end))
			e.children = c.parser.traceChildren(name, func(pc *parseContext, nodes []*tree.Node) (ast.Value, bool) {
				v, _, ok := inner(pc, nodes)
				return v, ok
			})
		}
		children := e.children
		node = func(pc *parseContext, n *tree.Node) (ast.Value, bool) {
			if n.Type != name {
				return nil, false
			}
			return children(pc, n.Children)
		}
	}
	e.node = c.parser.traceNode(name, c.memoized(name, node))
}

// memoized wraps a node tier with the per-entry cache owned by the parse
// context. The node's identity is the input position: the same entry at the
// same node always yields the same result within one run.
func (c *compiler) memoized(name string, m nodeMatcher) nodeMatcher {
	return func(pc *parseContext, n *tree.Node) (ast.Value, bool) {
		if !pc.memoize {
			return m(pc, n)
		}
		if r, hit := pc.memoGet(name, n); hit {
			return r.value, r.ok
		}
		v, ok := m(pc, n)
		pc.memoPut(name, n, v, ok)
		return v, ok
	}
}
