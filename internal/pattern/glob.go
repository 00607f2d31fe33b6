package pattern

// Globs translates a normalized node list into candidate filesystem glob
// expressions. It reports ok=false when the list contains a construct globs
// cannot express; a pattern the oracle left undecided and Globs rejects is
// simply not decidable by this engine.
//
// Candidates grow left to right from the empty prefix: literals append to
// every candidate, groups and alternations multiply the candidate set, and
// wildcard leaves map through a fixed idiom table. The translation may
// over-approximate (globs can match more than the pattern) but never
// under-approximates.
func Globs(nodes []*Node) ([]string, bool) {
	candidates := []string{""}
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			for i := range candidates {
				candidates[i] += n.Text
			}

		case KindParen:
			inner, ok := Globs(n.Children)
			if !ok {
				return nil, false
			}
			candidates = crossStrings(candidates, inner)

		case KindOr:
			var merged []string
			for _, branch := range n.Children {
				inner, ok := Globs([]*Node{branch})
				if !ok {
					return nil, false
				}
				merged = append(merged, crossStrings(candidates, inner)...)
			}
			candidates = merged

		default:
			wildcard, ok := leafGlob(n)
			if !ok {
				return nil, false
			}
			for i := range candidates {
				candidates[i] += wildcard
			}
		}
	}
	return candidates, true
}

// leafGlob maps the wildcard idioms file-context patterns actually use onto
// glob syntax. "[^/]" and "." both become "?" even though "." can match a
// slash where the glob wildcard cannot; that only widens the glob relative
// to the path set, which is the safe direction. "+" repeats become "*?":
// globs cannot express "one or more of a class", so the class constraint is
// dropped and only the at-least-one-character floor is kept.
func leafGlob(n *Node) (string, bool) {
	switch n.Kind {
	case KindDot:
		return "?", true

	case KindCharsetNot:
		if n.Text == "/" {
			return "?", true
		}

	case KindRepeat:
		child := n.Child
		anyChar := child.Kind == KindDot ||
			(child.Kind == KindCharsetNot && child.Text == "/")
		if !anyChar {
			return "", false
		}
		switch n.Op {
		case RepeatStar:
			return "*", true
		case RepeatPlus:
			return "*?", true
		}
	}
	return "", false
}

// crossStrings concatenates every outer×inner pair, preserving order.
func crossStrings(outer, inner []string) []string {
	out := make([]string, 0, len(outer)*len(inner))
	for _, o := range outer {
		for _, i := range inner {
			out = append(out, o+i)
		}
	}
	return out
}
