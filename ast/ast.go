// Package ast defines the typed values produced by compiled treebind
// matchers. The value model is deliberately small: leaves become Token,
// sequences become Tuple, choices become Variant, repetitions become List
// and optional elements become Option.
package ast

import (
	"strconv"
	"strings"

	"github.com/mafrosis/treebind/tree"
)

// Value is a typed parse result.
type Value interface {
	String() string
	value()
}

// Token is the value of a matched terminal: its source span and literal text.
type Token struct {
	Span tree.Span
	Text string
}

func (t Token) value()         {}
func (t Token) String() string { return strconv.Quote(t.Text) }

// Tuple is a flattened fixed-arity sequence result. Flattening never
// produces a one-element Tuple; a single value stands on its own.
type Tuple []Value

func (t Tuple) value()         {}
func (t Tuple) String() string { return "(" + join(t) + ")" }

// List is the result of Repeat or Repeat1. A zero-occurrence Repeat yields
// the empty, non-nil List.
type List []Value

func (l List) value()         {}
func (l List) String() string { return "[" + join(l) + "]" }

// Option is the result of Optional. A nil Value means the element was absent.
type Option struct {
	Value Value
}

func (o Option) value() {}

func (o Option) String() string {
	if o.Value == nil {
		return "None"
	}
	return "Some(" + o.Value.String() + ")"
}

// Variant is the result of an ordered choice: the tag of the committed
// alternative and the value its body produced.
type Variant struct {
	Tag   string
	Value Value
}

func (v Variant) value() {}

func (v Variant) String() string {
	switch inner := v.Value.(type) {
	case nil, Blank:
		return v.Tag
	case Tuple:
		return v.Tag + "(" + join(inner) + ")"
	default:
		return v.Tag + "(" + inner.String() + ")"
	}
}

// Blank is the value of a body that matches without consuming input. It is
// also the sentinel captured by the end-of-children marker, which the
// flattener drops.
type Blank struct{}

func (b Blank) value()         {}
func (b Blank) String() string { return "()" }

// Pair is the raw right-nested composition produced by a matcher chain
// before flattening: the head value of one element and the tail produced by
// the rest of the chain. Callers of the public API never see a Pair; the
// flattener collapses them into Tuple at rule and alternative boundaries.
type Pair struct {
	Head Value
	Tail Value
}

func (p Pair) value()         {}
func (p Pair) String() string { return "(" + p.Head.String() + " . " + p.Tail.String() + ")" }

func join(values []Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
