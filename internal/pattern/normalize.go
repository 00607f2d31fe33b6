package pattern

// maxNormalizePasses bounds the fixed-point rewrite loop. Real file-context
// patterns stabilize within a handful of passes; hitting the bound means the
// pattern is declared too complex rather than looping further.
const maxNormalizePasses = 10

// Normalize rewrites a parsed node list into normal form: character sets
// expanded into alternations, '?' repeats expanded, redundant grouping
// removed, adjacent literals merged, and literal/alternation adjacency
// distributed. It returns ErrTooComplex when the rewrite does not stabilize
// within maxNormalizePasses.
//
// The normal form guarantees: no Paren directly inside a concatenation list,
// no Or directly inside an Or, and no two adjacent Text nodes.
func Normalize(nodes []*Node) ([]*Node, error) {
	for pass := 0; pass < maxNormalizePasses; pass++ {
		changed := false
		nodes = expandList(nodes, &changed)
		nodes = flattenList(nodes, &changed)
		nodes = mergeList(nodes, &changed)
		nodes = distributeList(nodes, &changed)
		if !changed {
			return nodes, nil
		}
	}
	return nil, ErrTooComplex
}

// expandList applies local expansions to every node of a concatenation list.
func expandList(nodes []*Node, changed *bool) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = expandNode(n, changed)
	}
	return out
}

// expandNode performs the per-node rewrites: Charset becomes an Or of
// single-character literals, Repeat-question becomes an Or with an empty
// branch, single-child groups collapse. CharsetNot stays atomic: its
// complement is not enumerable.
func expandNode(n *Node, changed *bool) *Node {
	switch n.Kind {
	case KindCharset:
		*changed = true
		return newOr(expandCharset(n.Text))

	case KindRepeat:
		child := expandNode(n.Child, changed)
		if n.Op == RepeatQuestion {
			*changed = true
			branches := []*Node{newText("")}
			if child.Kind == KindOr {
				branches = append(branches, child.Children...)
			} else {
				branches = append(branches, child)
			}
			return newOr(branches)
		}
		if child != n.Child {
			return newRepeat(n.Op, child)
		}
		return n

	case KindParen:
		children := expandList(n.Children, changed)
		switch len(children) {
		case 0:
			*changed = true
			return newText("")
		case 1:
			*changed = true
			return children[0]
		}
		if listChanged(n.Children, children) {
			return newParen(children)
		}
		return n

	case KindOr:
		children := make([]*Node, 0, len(n.Children))
		spliced := false
		for _, c := range n.Children {
			c = expandNode(c, changed)
			if c.Kind == KindOr {
				// Keep unions flat: an Or child of an Or merges in place.
				children = append(children, c.Children...)
				spliced = true
				continue
			}
			children = append(children, c)
		}
		if spliced {
			*changed = true
			return newOr(children)
		}
		if listChanged(n.Children, children) {
			return newOr(children)
		}
		return n

	default:
		return n
	}
}

// expandCharset enumerates a charset body into single-character Text nodes,
// expanding x-y ranges in place.
func expandCharset(chars string) []*Node {
	var out []*Node
	for i := 0; i < len(chars); i++ {
		if i+2 < len(chars) && chars[i+1] == '-' && chars[i] <= chars[i+2] {
			for c := chars[i]; c <= chars[i+2]; c++ {
				out = append(out, newText(string(c)))
			}
			i += 2
			continue
		}
		out = append(out, newText(string(chars[i])))
	}
	return out
}

// flattenList splices grouping that sits directly in a concatenation list.
// Grouping under an Or branch survives (its children form that branch's
// concatenation) but is flattened internally.
func flattenList(nodes []*Node, changed *bool) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		n = flattenNode(n, changed)
		if n.Kind == KindParen {
			*changed = true
			out = append(out, n.Children...)
			continue
		}
		out = append(out, n)
	}
	return out
}

func flattenNode(n *Node, changed *bool) *Node {
	switch n.Kind {
	case KindParen:
		children := flattenList(n.Children, changed)
		if listChanged(n.Children, children) {
			return newParen(children)
		}
		return n
	case KindOr:
		children := make([]*Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = flattenNode(c, changed)
		}
		if listChanged(n.Children, children) {
			return newOr(children)
		}
		return n
	case KindRepeat:
		child := flattenNode(n.Child, changed)
		if child != n.Child {
			return newRepeat(n.Op, child)
		}
		return n
	default:
		return n
	}
}

// mergeList concatenates adjacent Text nodes.
func mergeList(nodes []*Node, changed *bool) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		n = mergeNode(n, changed)
		if last := len(out) - 1; last >= 0 && out[last].Kind == KindText && n.Kind == KindText {
			*changed = true
			out[last] = newText(out[last].Text + n.Text)
			continue
		}
		out = append(out, n)
	}
	return out
}

func mergeNode(n *Node, changed *bool) *Node {
	switch n.Kind {
	case KindParen:
		children := mergeList(n.Children, changed)
		if listChanged(n.Children, children) {
			return newParen(children)
		}
		return n
	case KindOr:
		children := make([]*Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = mergeNode(c, changed)
		}
		if listChanged(n.Children, children) {
			return newOr(children)
		}
		return n
	case KindRepeat:
		child := mergeNode(n.Child, changed)
		if child != n.Child {
			return newRepeat(n.Op, child)
		}
		return n
	default:
		return n
	}
}

// distributeList rewrites Text/Or adjacency in a concatenation list:
//
//	Text · Or(b1,b2) => Or(Text·b1, Text·b2)   (and symmetrically)
//	Or(a1,a2) · Or(b1,b2) => Or(a1·b1, a1·b2, a2·b1, a2·b2)
//
// Each product element is wrapped in a Paren pair; later passes flatten and
// merge the pairs down to literals where possible.
func distributeList(nodes []*Node, changed *bool) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		n = distributeNode(n, changed)
		if last := len(out) - 1; last >= 0 {
			prev := out[last]
			switch {
			case prev.Kind == KindText && n.Kind == KindOr:
				*changed = true
				out[last] = crossOr([]*Node{prev}, n.Children)
				continue
			case prev.Kind == KindOr && n.Kind == KindText:
				*changed = true
				out[last] = crossOr(prev.Children, []*Node{n})
				continue
			case prev.Kind == KindOr && n.Kind == KindOr:
				*changed = true
				out[last] = crossOr(prev.Children, n.Children)
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func distributeNode(n *Node, changed *bool) *Node {
	switch n.Kind {
	case KindParen:
		children := distributeList(n.Children, changed)
		if listChanged(n.Children, children) {
			return newParen(children)
		}
		return n
	case KindOr:
		children := make([]*Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = distributeNode(c, changed)
		}
		if listChanged(n.Children, children) {
			return newOr(children)
		}
		return n
	case KindRepeat:
		child := distributeNode(n.Child, changed)
		if child != n.Child {
			return newRepeat(n.Op, child)
		}
		return n
	default:
		return n
	}
}

// crossOr builds the alternation of every left×right concatenation pair.
func crossOr(left, right []*Node) *Node {
	branches := make([]*Node, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			branches = append(branches, newParen([]*Node{l, r}))
		}
	}
	return newOr(branches)
}

// listChanged reports whether any element of b differs from a by identity.
// Lengths are assumed equal by the callers that use it.
func listChanged(a, b []*Node) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
