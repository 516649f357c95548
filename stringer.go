package treebind

import (
	"fmt"
	"strings"
)

// Body String() implementations render EBNF-ish notation. They appear in
// grammar reports, trace output and error messages.

func (s Symbol) String() string { return string(s) }

func (t Token) String() string {
	if isIdent(string(t)) {
		return string(t)
	}
	return fmt.Sprintf("%q", string(t))
}

func (Blank) String() string { return `""` }

func (s Seq) String() string {
	parts := make([]string, len(s))
	for i, b := range s {
		parts[i] = group(b)
	}
	return strings.Join(parts, " ")
}

func (c Choice) String() string {
	parts := make([]string, len(c))
	for i, alt := range c {
		parts[i] = group(alt.Body)
	}
	return strings.Join(parts, " | ")
}

func (r Repeat) String() string  { return "{ " + r.Body.String() + " }" }
func (r Repeat1) String() string { return group(r.Body) + " { " + r.Body.String() + " }" }
func (o Optional) String() string { return "[ " + o.Body.String() + " ]" }

// group parenthesises compound sub-bodies so precedence survives printing.
func group(b Body) string {
	switch b := b.(type) {
	case Seq:
		if len(b) > 1 {
			return "(" + b.String() + ")"
		}
	case Choice:
		if len(b) > 1 {
			return "(" + b.String() + ")"
		}
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
