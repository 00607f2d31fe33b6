package pattern

import "os"

// Existence is the three-valued answer of the direct existence check.
type Existence int

const (
	// ExistsNo means no path matched by the pattern exists.
	ExistsNo Existence = iota
	// ExistsYes means at least one matched path exists.
	ExistsYes
	// ExistsUnknown means the pattern shape cannot be decided directly;
	// callers fall back to glob translation.
	ExistsUnknown
)

// String returns the answer name for logs and test output.
func (e Existence) String() string {
	switch e {
	case ExistsNo:
		return "no"
	case ExistsYes:
		return "yes"
	default:
		return "unknown"
	}
}

// Exists decides, from a normalized node list, whether any path matched by
// the pattern exists on the live filesystem. Only two shapes are decidable:
// a single literal, and an alternation of literals. Everything else is
// ExistsUnknown; this stage never attempts partial matching.
func Exists(nodes []*Node) Existence {
	if len(nodes) != 1 {
		return ExistsUnknown
	}
	n := nodes[0]
	switch n.Kind {
	case KindText:
		if pathExists(n.Text) {
			return ExistsYes
		}
		return ExistsNo
	case KindOr:
		for _, c := range n.Children {
			if c.Kind != KindText {
				return ExistsUnknown
			}
		}
		for _, c := range n.Children {
			if pathExists(c.Text) {
				return ExistsYes
			}
		}
		return ExistsNo
	default:
		return ExistsUnknown
	}
}

// pathExists reports whether the path resolves on the live filesystem.
// Dangling symlinks count as absent, matching what a path lookup would see.
func pathExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
