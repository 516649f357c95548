package treebind

import "fmt"

// A Grammar describes the rules a generic syntax tree is bound against.
// Grammars are immutable once built: construct one (or load it with
// FromEBNF), then pass it to Build.
type Grammar struct {
	// Name of the grammar, informational only.
	Name string
	// Entrypoint is the rule a whole-tree parse starts from.
	Entrypoint string
	// Extras are token type names that the external parser may emit anywhere
	// between siblings (comments, stray whitespace tokens). They are skipped
	// before every match step and never appear in results.
	Extras map[string]bool
	// Groups are the rule groups in dependency order: a rule may only
	// reference rules in its own or an earlier group.
	Groups []RuleGroup
}

// A RuleGroup is a set of mutually recursive rules compiled together.
type RuleGroup []*Rule

// A Rule is a named production.
type Rule struct {
	Name string
	// Aliases are alternate external names resolving to the same parsing
	// logic, eg. a node type the external parser emits that differs from the
	// declared rule name.
	Aliases []string
	Body    Body
	// Hidden rules produce no node of their own in the generic tree; a
	// Symbol reference to one splices the rule body into the referencing
	// sibling list.
	Hidden bool
	// Recursive marks rules that (directly or mutually) reference
	// themselves. Informational; FromEBNF derives it.
	Recursive bool
}

// IsLeaf reports whether the rule is a leaf rule: its body is exactly one
// Token. Leaf rules never look at children; their value is the node's text.
func (r *Rule) IsLeaf() bool {
	_, ok := r.Body.(Token)
	return ok
}

// Body is the right-hand side of a rule.
type Body interface {
	fmt.Stringer
	body()
}

// Symbol references another rule by name.
type Symbol string

// Token matches a single node whose declared type equals the token name.
type Token string

// Blank matches nothing and consumes no input.
type Blank struct{}

// Seq matches each element in order.
type Seq []Body

// Choice tries alternatives strictly in declaration order and commits to the
// first whose body matches.
type Choice []Alt

// Alt is one tagged Choice alternative.
type Alt struct {
	Tag  string
	Body Body
}

// Repeat matches the body zero or more times, greedily.
type Repeat struct{ Body Body }

// Repeat1 matches the body one or more times, greedily.
type Repeat1 struct{ Body Body }

// Optional matches the body zero or one times.
type Optional struct{ Body Body }

func (Symbol) body()   {}
func (Token) body()    {}
func (Blank) body()    {}
func (Seq) body()      {}
func (Choice) body()   {}
func (Repeat) body()   {}
func (Repeat1) body()  {}
func (Optional) body() {}

// Rules returns all rules in group order.
func (g *Grammar) Rules() []*Rule {
	var out []*Rule
	for _, group := range g.Groups {
		out = append(out, group...)
	}
	return out
}

// Rule returns the rule declared under name, or nil. Aliases do not resolve
// through Rule; they are entry points, not declarations.
func (g *Grammar) Rule(name string) *Rule {
	for _, r := range g.Rules() {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Validate checks the grammar is well formed enough to compile: unique
// names, resolvable references, dependency-ordered groups, and no cycles
// between hidden rules (a hidden cycle would make inline expansion diverge).
// Build calls Validate; callers constructing grammars by hand may want the
// earlier error.
func (g *Grammar) Validate() error {
	if g.Entrypoint == "" {
		return &GrammarError{Message: "no entrypoint rule"}
	}

	groupOf := map[string]int{}
	rules := map[string]*Rule{}
	for i, group := range g.Groups {
		if len(group) == 0 {
			return &GrammarError{Message: fmt.Sprintf("group %d is empty", i)}
		}
		for _, r := range group {
			if r.Body == nil {
				return &GrammarError{Rule: r.Name, Message: "rule has no body"}
			}
			if r.Hidden && r.IsLeaf() {
				return &GrammarError{Rule: r.Name, Message: "a leaf rule cannot be hidden"}
			}
			for _, name := range append([]string{r.Name}, r.Aliases...) {
				if name == "" {
					return &GrammarError{Rule: r.Name, Message: "empty rule or alias name"}
				}
				if _, dup := rules[name]; dup {
					return &GrammarError{Rule: name, Message: "duplicate rule or alias name"}
				}
				rules[name] = r
				groupOf[name] = i
			}
		}
	}

	if _, ok := rules[g.Entrypoint]; !ok {
		return &GrammarError{Rule: g.Entrypoint, Message: "entrypoint rule is not defined"}
	}

	for i, group := range g.Groups {
		for _, r := range group {
			if err := g.validateBody(r, r.Body, i, rules, groupOf); err != nil {
				return err
			}
		}
	}

	return g.checkHiddenCycles(rules)
}

func (g *Grammar) validateBody(r *Rule, b Body, group int, rules map[string]*Rule, groupOf map[string]int) error {
	switch b := b.(type) {
	case Symbol:
		target, ok := rules[string(b)]
		if !ok {
			return &GrammarError{Rule: r.Name, Message: fmt.Sprintf("reference to undefined rule %q", string(b))}
		}
		if groupOf[string(b)] > group {
			return &GrammarError{Rule: r.Name, Message: fmt.Sprintf("forward reference to rule %q in a later group", target.Name)}
		}

	case Token, Blank:

	case Seq:
		for _, c := range b {
			if err := g.validateBody(r, c, group, rules, groupOf); err != nil {
				return err
			}
		}

	case Choice:
		if len(b) == 0 {
			return &GrammarError{Rule: r.Name, Message: "choice with no alternatives"}
		}
		tags := map[string]bool{}
		for _, alt := range b {
			if alt.Tag == "" {
				return &GrammarError{Rule: r.Name, Message: "choice alternative with empty tag"}
			}
			if tags[alt.Tag] {
				return &GrammarError{Rule: r.Name, Message: fmt.Sprintf("duplicate choice tag %q", alt.Tag)}
			}
			tags[alt.Tag] = true
			if err := g.validateBody(r, alt.Body, group, rules, groupOf); err != nil {
				return err
			}
		}

	case Repeat:
		return g.validateBody(r, b.Body, group, rules, groupOf)
	case Repeat1:
		return g.validateBody(r, b.Body, group, rules, groupOf)
	case Optional:
		return g.validateBody(r, b.Body, group, rules, groupOf)

	default:
		return &GrammarError{Rule: r.Name, Message: fmt.Sprintf("unsupported body %T", b)}
	}
	return nil
}

// checkHiddenCycles rejects reference cycles that pass only through hidden
// rules. Inline expansion of a hidden rule compiles its body at each call
// site, so such a cycle never terminates.
func (g *Grammar) checkHiddenCycles(rules map[string]*Rule) error {
	const (
		visiting = 1
		done     = 2
	)
	state := map[string]int{}

	var visit func(r *Rule) error
	visit = func(r *Rule) error {
		switch state[r.Name] {
		case done:
			return nil
		case visiting:
			return &GrammarError{Rule: r.Name, Message: "cycle through hidden rules"}
		}
		state[r.Name] = visiting
		for _, ref := range references(r.Body) {
			target := rules[ref]
			if target != nil && target.Hidden {
				if err := visit(target); err != nil {
					return err
				}
			}
		}
		state[r.Name] = done
		return nil
	}

	for _, r := range g.Rules() {
		if !r.Hidden {
			continue
		}
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}

// references collects the Symbol targets of a body.
func references(b Body) []string {
	var out []string
	switch b := b.(type) {
	case Symbol:
		out = append(out, string(b))
	case Seq:
		for _, c := range b {
			out = append(out, references(c)...)
		}
	case Choice:
		for _, alt := range b {
			out = append(out, references(alt.Body)...)
		}
	case Repeat:
		out = append(out, references(b.Body)...)
	case Repeat1:
		out = append(out, references(b.Body)...)
	case Optional:
		out = append(out, references(b.Body)...)
	}
	return out
}
