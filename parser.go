// Package treebind compiles a grammar description into mutually recursive
// parsing functions that convert the generic, untyped syntax tree produced
// by an external incremental parser into a strongly-typed AST for that
// grammar.
//
// The package never parses source text itself. Text is handed to the
// tree.Parser configured with the TreeParser option; treebind then binds the
// resulting tree against the grammar: sequences become ast.Tuple, ordered
// choices become ast.Variant, repetitions become ast.List, optional
// elements become ast.Option and terminals become ast.Token. Parsing either
// produces a complete typed value or fails with ErrNoMatch; there is no
// partial result and no recovery.
//
// Matching is deterministic: choices commit to the first alternative whose
// body matches, and repetitions are greedy and never backtrack. Per-rule
// memoization keeps parsing linear despite the backtracking that ordered
// choice performs internally; each parse run owns its caches, so concurrent
// runs over independent trees are safe.
package treebind

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mafrosis/treebind/ast"
	"github.com/mafrosis/treebind/tree"
)

const defaultMemoLimit = 512

// A Parser holds the compiled matchers for one grammar. Build it once and
// reuse it freely; a Parser is immutable after Build and safe for
// concurrent use.
type Parser struct {
	grammar    *Grammar
	treeParser tree.Parser
	trace      *logrus.Logger
	memoize    bool
	memoSize   int
	entries    map[string]*ruleEntry
	root       *ruleEntry
}

// Build validates the grammar and compiles every rule group, in order, into
// matcher entry points.
func Build(g *Grammar, options ...Option) (*Parser, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	p := &Parser{grammar: g, memoize: true, memoSize: defaultMemoLimit}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	c := &compiler{parser: p, grammar: g, entries: map[string]*ruleEntry{}}
	c.compile()
	p.entries = c.entries
	p.root = c.entries[g.Entrypoint]
	return p, nil
}

// MustBuild calls Build and panics on error. Useful for grammars declared
// as package variables.
func MustBuild(g *Grammar, options ...Option) *Parser {
	p, err := Build(g, options...)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseTree converts an already-produced generic tree into a typed value.
// It returns ErrNoMatch if the tree is not a derivation of the entrypoint
// rule. A fresh parse context, including fresh memoization caches, is
// created for every call.
func (p *Parser) ParseTree(t *tree.Tree) (ast.Value, error) {
	if t == nil || t.Root == nil {
		return nil, errors.New("treebind: nil tree")
	}
	pc := p.newParseContext(t.Source)
	var v ast.Value
	var ok bool
	if p.root.rule.Hidden {
		// A hidden entrypoint has no node of its own; its body must account
		// for the root as a one-element sibling list.
		v, ok = p.root.children(pc, []*tree.Node{t.Root})
	} else {
		v, ok = p.root.node(pc, t.Root)
	}
	if !ok {
		return nil, ErrNoMatch
	}
	return v, nil
}

// ParseText converts src to a generic tree with the configured tree.Parser,
// then binds it. The label identifies the source in diagnostics, typically
// a file name; it may be empty.
func (p *Parser) ParseText(src []byte, label string) (ast.Value, error) {
	t, err := p.Tree(src, label)
	if err != nil {
		return nil, err
	}
	return p.ParseTree(t)
}

// ParseFile reads path and parses its contents, labelled by path.
func (p *Parser) ParseFile(path string) (ast.Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseText(src, path)
}

// Tree exposes the underlying text-to-tree conversion, for callers that
// want the untyped tree independent of typed binding.
func (p *Parser) Tree(src []byte, label string) (*tree.Tree, error) {
	if p.treeParser == nil {
		return nil, errors.New("treebind: no tree parser configured (use the TreeParser option)")
	}
	return p.treeParser.Parse(src, label)
}

// Grammar returns the grammar the parser was built from.
func (p *Parser) Grammar() *Grammar { return p.grammar }

// String renders the parser's grammar as EBNF.
func (p *Parser) String() string { return p.grammar.EBNF() }
