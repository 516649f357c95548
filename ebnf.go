package treebind

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// EBNF renders the grammar in the notation accepted by FromEBNF. Hidden
// rules keep their leading underscore; leaf rules print as themselves
// (their lexical definition lives in the external parser).
func (g *Grammar) EBNF() string {
	out := []string{}
	for _, r := range g.Rules() {
		out = append(out, fmt.Sprintf("%s = %s .", r.Name, r.Body))
	}
	return strings.Join(out, "\n")
}

// FromEBNF loads a grammar from EBNF notation as defined by
// "golang.org/x/exp/ebnf". The conventions are:
//
//   - Productions with an upper-case first letter are rules; references to
//     them compile to Symbol.
//   - Productions starting with "_" are hidden rules: they produce no node
//     of their own and are spliced inline at each reference.
//   - Lower-case productions and name references are terminals. A
//     lower-case production becomes a leaf rule; its right-hand side
//     describes the external parser's token and is not compiled here.
//   - Quoted tokens match nodes whose type tag is the literal text; the
//     empty token "" matches nothing (Blank).
//   - Alternatives become ordered choices, tagged after the referenced rule
//     or token where possible.
//
// Rule groups and Recursive flags are derived from the reference graph, so
// the resulting grammar satisfies the group-order discipline regardless of
// declaration order. Extras lists token types to skip between siblings.
func FromEBNF(r io.Reader, name, entrypoint string, extras ...string) (*Grammar, error) {
	productions, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(productions))
	for n := range productions {
		names = append(names, n)
	}
	sort.Strings(names)

	rules := map[string]*Rule{}
	for _, n := range names {
		prod := productions[n]
		rule := &Rule{Name: n, Hidden: strings.HasPrefix(n, "_")}
		if isTerminal(n) {
			rule.Body = Token(n)
		} else {
			body, err := convertExpr(prod.Expr)
			if err != nil {
				return nil, &GrammarError{Rule: n, Message: err.Error()}
			}
			rule.Body = body
		}
		rules[n] = rule
	}

	g := &Grammar{
		Name:       name,
		Entrypoint: entrypoint,
		Extras:     map[string]bool{},
		Groups:     groupRules(names, rules),
	}
	for _, extra := range extras {
		g.Extras[extra] = true
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// isTerminal reports whether an EBNF name denotes a terminal: lower-case
// first letter and no hidden-rule underscore.
func isTerminal(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != '_' && !unicode.IsUpper(r)
}

func convertExpr(expr ebnf.Expression) (Body, error) {
	switch expr := expr.(type) {
	case nil:
		// Empty production: A = .
		return Blank{}, nil

	case ebnf.Alternative:
		alts := make(Choice, 0, len(expr))
		for i, alt := range expr {
			body, err := convertExpr(alt)
			if err != nil {
				return nil, err
			}
			alts = append(alts, Alt{Tag: altTag(body, i), Body: body})
		}
		return alts, nil

	case ebnf.Sequence:
		seq := make(Seq, 0, len(expr))
		for _, e := range expr {
			body, err := convertExpr(e)
			if err != nil {
				return nil, err
			}
			seq = append(seq, body)
		}
		if len(seq) == 1 {
			return seq[0], nil
		}
		return seq, nil

	case *ebnf.Name:
		if isTerminal(expr.String) {
			return Token(expr.String), nil
		}
		return Symbol(expr.String), nil

	case *ebnf.Token:
		if expr.String == "" {
			return Blank{}, nil
		}
		return Token(expr.String), nil

	case *ebnf.Group:
		return convertExpr(expr.Body)

	case *ebnf.Option:
		body, err := convertExpr(expr.Body)
		if err != nil {
			return nil, err
		}
		return Optional{Body: body}, nil

	case *ebnf.Repetition:
		body, err := convertExpr(expr.Body)
		if err != nil {
			return nil, err
		}
		return Repeat{Body: body}, nil

	case *ebnf.Range:
		return nil, fmt.Errorf("character ranges are lexical and belong to the external parser")

	default:
		return nil, fmt.Errorf("unsupported EBNF expression %T", expr)
	}
}

// altTag derives a choice tag from an alternative's body: the exported form
// of the referenced rule or token name, or a positional fallback.
func altTag(b Body, i int) string {
	switch b := b.(type) {
	case Symbol:
		return exportName(string(b))
	case Token:
		if isIdent(string(b)) {
			return exportName(string(b))
		}
	}
	return fmt.Sprintf("Alt%d", i)
}

func exportName(s string) string {
	s = strings.TrimPrefix(s, "_")
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// groupRules orders rules into dependency-ordered groups of mutually
// recursive rules: Tarjan's algorithm emits strongly connected components
// dependencies-first, which is exactly the group discipline the compiler
// expects. Recursive flags are set for self- and mutually-recursive rules.
func groupRules(names []string, rules map[string]*Rule) []RuleGroup {
	graph := map[string][]string{}
	for _, n := range names {
		seen := map[string]bool{}
		for _, ref := range references(rules[n].Body) {
			if _, ok := rules[ref]; ok && !seen[ref] {
				seen[ref] = true
				graph[n] = append(graph[n], ref)
			}
		}
		sort.Strings(graph[n])
	}

	t := &tarjan{graph: graph, index: map[string]int{}, low: map[string]int{}, onStack: map[string]bool{}}
	for _, n := range names {
		if _, visited := t.index[n]; !visited {
			t.strongConnect(n)
		}
	}

	groups := make([]RuleGroup, 0, len(t.sccs))
	for _, scc := range t.sccs {
		sort.Strings(scc)
		group := make(RuleGroup, 0, len(scc))
		recursive := len(scc) > 1
		for _, n := range scc {
			if !recursive && refersTo(graph[n], n) {
				recursive = true
			}
			group = append(group, rules[n])
		}
		for _, r := range group {
			r.Recursive = recursive
		}
		groups = append(groups, group)
	}
	return groups
}

func refersTo(refs []string, name string) bool {
	for _, r := range refs {
		if r == name {
			return true
		}
	}
	return false
}

type tarjan struct {
	graph   map[string][]string
	index   map[string]int
	low     map[string]int
	onStack map[string]bool
	stack   []string
	next    int
	sccs    [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.next
	t.low[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph[v] {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.low[w] < t.low[v] {
				t.low[v] = t.low[w]
			}
		} else if t.onStack[w] && t.index[w] < t.low[v] {
			t.low[v] = t.index[w]
		}
	}

	if t.low[v] != t.index[v] {
		return
	}
	var scc []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}
