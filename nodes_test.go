package treebind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mafrosis/treebind/ast"
	"github.com/mafrosis/treebind/tree"
)

// matchRule builds a one-rule grammar around body and matches it against a
// node with the given children.
func matchRule(t *testing.T, body Body, b *treeBuilder, children ...*tree.Node) (ast.Value, error) {
	t.Helper()
	g := &Grammar{
		Entrypoint: "r",
		Groups:     []RuleGroup{{&Rule{Name: "r", Body: body}}},
	}
	parser, err := Build(g)
	require.NoError(t, err)
	return parser.ParseTree(b.tree(b.node("r", children...)))
}

func TestOrderedChoiceTieBreak(t *testing.T) {
	body := Choice{
		{Tag: "A", Body: Token("x")},
		{Tag: "B", Body: Token("x")},
	}
	b := &treeBuilder{}
	value, err := matchRule(t, body, b, b.leaf("x", "x"))
	require.NoError(t, err)
	assert.Equal(t, `A("x")`, value.String())
}

func TestChoiceCommitsToFirstMatch(t *testing.T) {
	// Alternative A matches "a" and the choice commits, so the trailing
	// "c" fails against "b" even though alternative B would have parsed
	// the whole list. Later alternatives are never retried.
	body := Seq{
		Choice{
			{Tag: "A", Body: Token("a")},
			{Tag: "B", Body: Seq{Token("a"), Token("b")}},
		},
		Token("c"),
	}
	b := &treeBuilder{}
	_, err := matchRule(t, body, b, b.leaf("a", "a"), b.leaf("b", "b"), b.leaf("c", "c"))
	assert.Equal(t, ErrNoMatch, err)
}

func TestChoiceExhaustion(t *testing.T) {
	body := Choice{
		{Tag: "A", Body: Token("a")},
		{Tag: "B", Body: Token("b")},
	}
	b := &treeBuilder{}
	_, err := matchRule(t, body, b, b.leaf("z", "z"))
	assert.Equal(t, ErrNoMatch, err)
}

func TestRepeatZeroOccurrences(t *testing.T) {
	b := &treeBuilder{}
	value, err := matchRule(t, Repeat{Body: Token("w")}, b)
	require.NoError(t, err)
	assert.Equal(t, "[]", value.String())
}

func TestRepeat1ZeroOccurrencesFails(t *testing.T) {
	b := &treeBuilder{}
	_, err := matchRule(t, Repeat1{Body: Token("w")}, b)
	assert.Equal(t, ErrNoMatch, err)
}

func TestRepeatCollectsGreedily(t *testing.T) {
	b := &treeBuilder{}
	kids := []*tree.Node{b.leaf("w", "x"), b.leaf("w", "y"), b.leaf("w", "z")}
	value, err := matchRule(t, Repeat{Body: Token("w")}, b, kids...)
	require.NoError(t, err)
	assert.Equal(t, `["x", "y", "z"]`, value.String())

	b1 := &treeBuilder{}
	kids1 := []*tree.Node{b1.leaf("w", "x"), b1.leaf("w", "y"), b1.leaf("w", "z")}
	value1, err := matchRule(t, Repeat1{Body: Token("w")}, b1, kids1...)
	require.NoError(t, err)
	assert.Equal(t, value.String(), value1.String())
}

func TestRepetitionDoesNotBacktrack(t *testing.T) {
	// Greedy repetition consumes the only "a"; the trailing Token("a")
	// then fails, and the compiler does not retry with fewer repetitions.
	body := Seq{Repeat{Body: Token("a")}, Token("a")}
	b := &treeBuilder{}
	_, err := matchRule(t, body, b, b.leaf("a", "a"))
	assert.Equal(t, ErrNoMatch, err)
}

func TestOptional(t *testing.T) {
	body := Seq{Optional{Body: Token("-")}, Token("number")}

	b := &treeBuilder{}
	value, err := matchRule(t, body, b, b.leaf("number", "42"))
	require.NoError(t, err)
	assert.Equal(t, `(None, "42")`, value.String())

	b2 := &treeBuilder{}
	value, err = matchRule(t, body, b2, b2.leaf("-", "-"), b2.leaf("number", "42"))
	require.NoError(t, err)
	assert.Equal(t, `(Some("-"), "42")`, value.String())
}

func TestBlankBody(t *testing.T) {
	b := &treeBuilder{}
	value, err := matchRule(t, Blank{}, b)
	require.NoError(t, err)
	assert.Equal(t, ast.Blank{}, value)

	b2 := &treeBuilder{}
	_, err = matchRule(t, Blank{}, b2, b2.leaf("x", "x"))
	assert.Equal(t, ErrNoMatch, err)
}

func TestSequenceShortCircuits(t *testing.T) {
	body := Seq{Token("a"), Token("b")}
	b := &treeBuilder{}
	_, err := matchRule(t, body, b, b.leaf("b", "b"), b.leaf("b", "b"))
	assert.Equal(t, ErrNoMatch, err)
}

func TestSingleValueNotWrapped(t *testing.T) {
	// Flattening a one-value result yields the value itself, not a
	// one-element tuple.
	b := &treeBuilder{}
	n := b.leaf("x", "x")
	value, err := matchRule(t, Seq{Token("x")}, b, n)
	require.NoError(t, err)
	assert.IsType(t, ast.Token{}, value)
}

func TestChainCounts(t *testing.T) {
	p := &Parser{memoize: true, memoSize: defaultMemoLimit}
	c := &compiler{parser: p, grammar: &Grammar{}, entries: map[string]*ruleEntry{}}

	seq := c.compileBody(Seq{Token("a"), Blank{}, Token("b")}, chain{})
	assert.Equal(t, 2, seq.captured)
	assert.Equal(t, 2, seq.kept)

	// A choice is always one slot, regardless of alternative count.
	choice := c.compileBody(Choice{
		{Tag: "A", Body: Seq{Token("a"), Token("b")}},
		{Tag: "B", Body: Token("c")},
		{Tag: "C", Body: Blank{}},
	}, chain{})
	assert.Equal(t, 1, choice.captured)
	assert.Equal(t, 1, choice.kept)

	// The end-of-children marker is captured but never kept.
	end := chain{captured: 1, kept: 0, match: matchEnd}
	rep := c.compileBody(Repeat{Body: Token("a")}, end)
	assert.Equal(t, 2, rep.captured)
	assert.Equal(t, 1, rep.kept)

	nothing := c.compileBody(Blank{}, chain{})
	assert.Nil(t, nothing.match)
	assert.Zero(t, nothing.captured)
}

func TestFlatten(t *testing.T) {
	spine := ast.Pair{Head: ast.Token{Text: "a"}, Tail: ast.Pair{
		Head: ast.Token{Text: "b"}, Tail: ast.Pair{
			Head: ast.Blank{}, Tail: ast.Blank{},
		},
	}}
	assert.Equal(t, `("a", "b")`, flatten(spine, 3, 2).String())
	assert.Equal(t, `"a"`, flatten(spine, 3, 1).String())
	assert.Equal(t, ast.Blank{}, flatten(spine, 3, 0))
}
