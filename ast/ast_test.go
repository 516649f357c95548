package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{Token{Text: "1"}, `"1"`},
		{Token{Text: `a"b`}, `"a\"b"`},
		{Tuple{Token{Text: "a"}, Token{Text: "b"}}, `("a", "b")`},
		{List{}, "[]"},
		{List{Token{Text: "a"}}, `["a"]`},
		{Option{}, "None"},
		{Option{Value: Token{Text: "x"}}, `Some("x")`},
		{Variant{Tag: "Num", Value: Token{Text: "1"}}, `Num("1")`},
		{Variant{Tag: "Nil"}, "Nil"},
		{Variant{Tag: "Unit", Value: Blank{}}, "Unit"},
		{Variant{Tag: "Add", Value: Tuple{Token{Text: "1"}, Token{Text: "2"}}}, `Add("1", "2")`},
		{Blank{}, "()"},
		{Pair{Head: Token{Text: "a"}, Tail: Blank{}}, `("a" . ())`},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.value.String())
	}
}

func TestWalkOrder(t *testing.T) {
	value := Variant{Tag: "Add", Value: Tuple{
		Variant{Tag: "Num", Value: Token{Text: "1"}},
		Token{Text: "+"},
		List{Token{Text: "2"}},
	}}

	var visited []string
	err := Walk(value, func(v Value, next func() error) error {
		visited = append(visited, v.String())
		return next()
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`Add(Num("1"), "+", ["2"])`,
		`(Num("1"), "+", ["2"])`,
		`Num("1")`,
		`"1"`,
		`"+"`,
		`["2"]`,
		`"2"`,
	}, visited)
}

func TestWalkPrune(t *testing.T) {
	value := Tuple{
		Variant{Tag: "Num", Value: Token{Text: "1"}},
		Token{Text: "+"},
	}

	var visited []string
	err := Walk(value, func(v Value, next func() error) error {
		visited = append(visited, v.String())
		if _, ok := v.(Variant); ok {
			// Skip the variant's payload.
			return nil
		}
		return next()
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{`(Num("1"), "+")`, `Num("1")`, `"+"`}, visited)
}
