package pattern

import (
	"fmt"
	"strings"
)

// groupFrame accumulates the concatenation at one grouping depth. A '|' at
// this depth turns the frame into an alternation: completed branches move to
// branches and nodes starts collecting the next one.
type groupFrame struct {
	nodes       []*Node
	branches    [][]*Node
	alternating bool
}

func (f *groupFrame) append(n *Node) {
	f.nodes = append(f.nodes, n)
}

// close wraps the frame's content into a single node: an Or when the frame
// saw at least one '|', a Paren otherwise.
func (f *groupFrame) close() *Node {
	if !f.alternating {
		return newParen(f.nodes)
	}
	branches := append(f.branches, f.nodes)
	children := make([]*Node, len(branches))
	for i, b := range branches {
		children[i] = wrapBranch(b)
	}
	return newOr(children)
}

func wrapBranch(nodes []*Node) *Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	// Covers the empty branch too: Paren with no children matches "".
	return newParen(nodes)
}

// Parse scans one pattern string into its top-level node list. The input is
// expected to be a single whitespace-free token. Errors wrap ErrSyntax; the
// caller that knows the source line attaches the pattern text.
func Parse(input string) ([]*Node, error) {
	stack := []*groupFrame{{}}
	top := func() *groupFrame { return stack[len(stack)-1] }

	var (
		text      strings.Builder // pending literal characters
		charset   strings.Builder // pending charset body, valid while inCharset
		inCharset bool
		escaped   bool
	)
	flush := func() {
		if text.Len() > 0 {
			top().append(newText(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		c := input[i]

		if escaped {
			escaped = false
			if inCharset {
				charset.WriteByte(c)
			} else {
				text.WriteByte(c)
			}
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if inCharset {
			if c != ']' {
				charset.WriteByte(c)
				continue
			}
			inCharset = false
			top().append(closeCharset(charset.String()))
			charset.Reset()
			continue
		}

		switch c {
		case '[':
			flush()
			inCharset = true

		case '.':
			flush()
			top().append(newDot())

		case '(':
			flush()
			stack = append(stack, &groupFrame{})

		case ')':
			flush()
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: missing '('", ErrSyntax)
			}
			closed := top().close()
			stack = stack[:len(stack)-1]
			top().append(closed)

		case '?', '+', '*':
			op := repeatOpFor(c)
			if text.Len() > 0 {
				// Repetition binds to the last character only; any literal
				// prefix becomes its own Text node first.
				buf := text.String()
				text.Reset()
				if len(buf) > 1 {
					top().append(newText(buf[:len(buf)-1]))
					buf = buf[len(buf)-1:]
				}
				top().append(newRepeat(op, newText(buf)))
				continue
			}
			f := top()
			if len(f.nodes) == 0 {
				return nil, fmt.Errorf("%w: nothing before '%c'", ErrSyntax, c)
			}
			f.nodes[len(f.nodes)-1] = newRepeat(op, f.nodes[len(f.nodes)-1])

		case '|':
			flush()
			f := top()
			f.branches = append(f.branches, f.nodes)
			f.nodes = nil
			f.alternating = true

		default:
			text.WriteByte(c)
		}
	}

	if escaped {
		return nil, fmt.Errorf(`%w: missing character after '\'`, ErrSyntax)
	}
	if inCharset {
		return nil, fmt.Errorf("%w: missing ']'", ErrSyntax)
	}
	if len(stack) > 1 {
		return nil, fmt.Errorf("%w: missing ')'", ErrSyntax)
	}

	flush()
	root := stack[0]
	if root.alternating {
		return []*Node{root.close()}, nil
	}
	return root.nodes, nil
}

// closeCharset builds the node for a completed "[...]" body. A leading '^'
// marks the complement form.
func closeCharset(body string) *Node {
	if rest, ok := strings.CutPrefix(body, "^"); ok {
		return newCharsetNot(rest)
	}
	return newCharset(body)
}

func repeatOpFor(c byte) RepeatOp {
	switch c {
	case '?':
		return RepeatQuestion
	case '+':
		return RepeatPlus
	default:
		return RepeatStar
	}
}
