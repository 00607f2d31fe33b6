// Package pattern implements the restricted path-pattern dialect used by
// SELinux file-context specifications.
//
// The dialect is a small subset of regular expressions: literal text,
// escapes, '.', character sets, '?', '+', '*' repetition, grouping, and
// alternation. The package parses one pattern into an AST, rewrites the AST
// into a normal form, and answers existence questions about it: either
// directly (when the pattern denotes a finite set of concrete paths) or by
// translating it into filesystem glob expressions. Patterns outside the
// decidable shapes yield an explicit "unknown", never a wrong answer.
package pattern

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a Node.
type Kind int

const (
	// KindText is a literal character sequence.
	KindText Kind = iota
	// KindDot matches exactly one arbitrary character.
	KindDot
	// KindCharset matches one character from an enumerated set.
	KindCharset
	// KindCharsetNot matches one character outside an enumerated set.
	KindCharsetNot
	// KindRepeat applies a repetition operator to its child.
	KindRepeat
	// KindOr is an ordered alternation of children.
	KindOr
	// KindParen is an ordered concatenation of children.
	KindParen
)

// RepeatOp is the repetition operator of a KindRepeat node.
type RepeatOp int

const (
	// RepeatQuestion matches the child zero or one time.
	RepeatQuestion RepeatOp = iota
	// RepeatPlus matches the child one or more times.
	RepeatPlus
	// RepeatStar matches the child zero or more times.
	RepeatStar
)

// symbol returns the source character of the operator.
func (op RepeatOp) symbol() string {
	switch op {
	case RepeatQuestion:
		return "?"
	case RepeatPlus:
		return "+"
	default:
		return "*"
	}
}

// Node is one AST node. Nodes are treated as immutable: normalization
// allocates new nodes instead of mutating existing ones, so a node may be
// safely shared between the input and output of a rewrite pass.
//
// Field usage by kind: Text holds the literal for KindText and the member
// characters for KindCharset/KindCharsetNot; Op and Child are set for
// KindRepeat; Children is set for KindOr and KindParen.
type Node struct {
	Kind     Kind
	Text     string
	Op       RepeatOp
	Child    *Node
	Children []*Node
}

func newText(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

func newDot() *Node {
	return &Node{Kind: KindDot}
}

func newCharset(chars string) *Node {
	return &Node{Kind: KindCharset, Text: chars}
}

func newCharsetNot(chars string) *Node {
	return &Node{Kind: KindCharsetNot, Text: chars}
}

func newRepeat(op RepeatOp, child *Node) *Node {
	return &Node{Kind: KindRepeat, Op: op, Child: child}
}

func newOr(children []*Node) *Node {
	return &Node{Kind: KindOr, Children: children}
}

func newParen(children []*Node) *Node {
	return &Node{Kind: KindParen, Children: children}
}

// String renders the node in a compact debug form: literals are quoted,
// alternation branches are joined with '|', concatenation with spaces.
func (n *Node) String() string {
	switch n.Kind {
	case KindText:
		return fmt.Sprintf("%q", n.Text)
	case KindDot:
		return "."
	case KindCharset:
		return "[" + n.Text + "]"
	case KindCharsetNot:
		return "[^" + n.Text + "]"
	case KindRepeat:
		return n.Child.String() + n.Op.symbol()
	case KindOr:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, "|") + ")"
	case KindParen:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "<invalid>"
	}
}

// ListString renders a node list the way String renders a single node.
func ListString(nodes []*Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}
