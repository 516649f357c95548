package treebind

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned by ParseTree, ParseText and ParseFile when the
// input tree is not a derivation of the entrypoint rule. No further detail
// is attached: structural mismatches, exhausted choices, repetition
// shortfalls and leftover children all surface uniformly. Enable tracing to
// see where a parse stopped.
var ErrNoMatch = errors.New("no match")

// GrammarError reports a malformed grammar, from Validate or FromEBNF.
type GrammarError struct {
	// Rule the problem was found in, if any.
	Rule    string
	Message string
}

func (e *GrammarError) Error() string {
	if e.Rule == "" {
		return "grammar: " + e.Message
	}
	return fmt.Sprintf("grammar: rule %q: %s", e.Rule, e.Message)
}
