// Package tree defines the generic, untyped syntax tree consumed by the
// treebind compiler, and the Parser interface implemented by the external
// incremental parser that produces such trees from source text.
//
// Nodes carry only a declared type tag, a source span and their children.
// Literal text is not stored on the node; it is extracted from the source
// buffer by span.
package tree

// Position is a location in a source buffer.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open [Start, End) range in a source buffer.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is a single node of the generic syntax tree.
type Node struct {
	Type     string  `json:"type"`
	Span     Span    `json:"span"`
	Children []*Node `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Text extracts the literal text covered by the node's span from src.
// Out-of-range spans yield the empty string.
func (n *Node) Text(src []byte) string {
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

// A Tree pairs a root node with the source buffer it was parsed from.
type Tree struct {
	Root   *Node  `json:"root"`
	Source []byte `json:"-"`
	// Label identifies the origin of the source, typically a file path.
	Label string `json:"label,omitempty"`
}

// Parser converts source text into a generic syntax tree. Implementations
// wrap an external incremental parser; treebind never parses text itself.
type Parser interface {
	Parse(src []byte, label string) (*Tree, error)
}
