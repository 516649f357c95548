package treebind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleRule(r *Rule) *Grammar {
	return &Grammar{Entrypoint: r.Name, Groups: []RuleGroup{{r}}}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, singleRule(&Rule{Name: "a", Body: Token("x")}).Validate())
}

func TestValidateMissingEntrypoint(t *testing.T) {
	g := &Grammar{Groups: []RuleGroup{{&Rule{Name: "a", Body: Token("x")}}}}
	assert.EqualError(t, g.Validate(), "grammar: no entrypoint rule")

	g.Entrypoint = "missing"
	assert.EqualError(t, g.Validate(), `grammar: rule "missing": entrypoint rule is not defined`)
}

func TestValidateUndefinedReference(t *testing.T) {
	g := singleRule(&Rule{Name: "a", Body: Symbol("nope")})
	assert.EqualError(t, g.Validate(), `grammar: rule "a": reference to undefined rule "nope"`)
}

func TestValidateDuplicateNames(t *testing.T) {
	g := &Grammar{Entrypoint: "a", Groups: []RuleGroup{{
		&Rule{Name: "a", Body: Token("x")},
		&Rule{Name: "a", Body: Token("y")},
	}}}
	assert.EqualError(t, g.Validate(), `grammar: rule "a": duplicate rule or alias name`)

	// An alias colliding with a rule name is the same defect.
	g = &Grammar{Entrypoint: "a", Groups: []RuleGroup{{
		&Rule{Name: "a", Body: Token("x")},
		&Rule{Name: "b", Aliases: []string{"a"}, Body: Token("y")},
	}}}
	assert.EqualError(t, g.Validate(), `grammar: rule "a": duplicate rule or alias name`)
}

func TestValidateForwardReference(t *testing.T) {
	g := &Grammar{Entrypoint: "a", Groups: []RuleGroup{
		{&Rule{Name: "a", Body: Symbol("b")}},
		{&Rule{Name: "b", Body: Token("x")}},
	}}
	assert.EqualError(t, g.Validate(), `grammar: rule "a": forward reference to rule "b" in a later group`)

	// References within the same group are fine in either direction.
	g = &Grammar{Entrypoint: "a", Groups: []RuleGroup{{
		&Rule{Name: "a", Body: Symbol("b")},
		&Rule{Name: "b", Body: Token("x")},
	}}}
	assert.NoError(t, g.Validate())
}

func TestValidateChoice(t *testing.T) {
	g := singleRule(&Rule{Name: "a", Body: Choice{}})
	assert.EqualError(t, g.Validate(), `grammar: rule "a": choice with no alternatives`)

	g = singleRule(&Rule{Name: "a", Body: Choice{{Tag: "", Body: Token("x")}}})
	assert.EqualError(t, g.Validate(), `grammar: rule "a": choice alternative with empty tag`)

	g = singleRule(&Rule{Name: "a", Body: Choice{
		{Tag: "X", Body: Token("x")},
		{Tag: "X", Body: Token("y")},
	}})
	assert.EqualError(t, g.Validate(), `grammar: rule "a": duplicate choice tag "X"`)
}

func TestValidateHiddenLeaf(t *testing.T) {
	g := singleRule(&Rule{Name: "_a", Body: Token("x"), Hidden: true})
	assert.EqualError(t, g.Validate(), `grammar: rule "_a": a leaf rule cannot be hidden`)
}

func TestValidateHiddenCycle(t *testing.T) {
	g := &Grammar{Entrypoint: "_a", Groups: []RuleGroup{{
		&Rule{Name: "_a", Body: Seq{Symbol("_b")}, Hidden: true},
		&Rule{Name: "_b", Body: Seq{Symbol("_a")}, Hidden: true},
	}}}
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle through hidden rules")

	// Recursion through a visible rule is fine; only hidden-to-hidden
	// cycles diverge during inline expansion.
	g = &Grammar{Entrypoint: "_a", Groups: []RuleGroup{{
		&Rule{Name: "_a", Body: Seq{Symbol("b")}, Hidden: true},
		&Rule{Name: "b", Body: Seq{Symbol("_a")}, Recursive: true},
	}}}
	assert.NoError(t, g.Validate())
}

func TestIsLeaf(t *testing.T) {
	assert.True(t, (&Rule{Name: "a", Body: Token("a")}).IsLeaf())
	assert.False(t, (&Rule{Name: "a", Body: Seq{Token("a")}}).IsLeaf())
	assert.False(t, (&Rule{Name: "a", Body: Blank{}}).IsLeaf())
}

func TestRuleLookup(t *testing.T) {
	g := &Grammar{Entrypoint: "a", Groups: []RuleGroup{
		{&Rule{Name: "a", Body: Token("x")}},
		{&Rule{Name: "b", Aliases: []string{"c"}, Body: Token("y")}},
	}}
	require.NotNil(t, g.Rule("b"))
	assert.Nil(t, g.Rule("c"))
	assert.Len(t, g.Rules(), 2)
}
