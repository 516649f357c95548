package tree

import (
	"strings"
)

// String renders the node as an s-expression of type tags, eg.
// (add (num) (num)). Useful when diagnosing why a typed parse failed.
func (n *Node) String() string {
	var sb strings.Builder
	n.sexp(&sb)
	return sb.String()
}

func (n *Node) sexp(sb *strings.Builder) {
	sb.WriteString("(")
	sb.WriteString(n.Type)
	for _, child := range n.Children {
		sb.WriteString(" ")
		child.sexp(sb)
	}
	sb.WriteString(")")
}
