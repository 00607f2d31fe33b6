// Package fcontext scans SELinux file-context definitions and decides
// whether any path they label exists on the running system. A module whose
// file contexts label no existing path is safe to leave unloaded.
package fcontext

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hollis/semtrim/internal/pattern"
)

// Scanner decides file-context usefulness. The zero value implements the
// standard semantics; ExtraTokens widens the set of pattern tokens treated
// as always existing.
type Scanner struct {
	// ExtraTokens are pattern tokens that short-circuit the scan to useful,
	// the way the built-in HOME_DIR token does. They come from configuration
	// for policies using site-specific substitution macros.
	ExtraTokens []string
}

// Useful reports whether any path labeled by the file-context text exists.
//
// Each significant line contributes its first field as a pattern. Patterns
// the oracle decides directly either short-circuit the scan (exists) or drop
// out (does not exist); undecided patterns are deferred and retried through
// glob translation after all lines are read. The first malformed pattern
// aborts the whole scan with an error naming it.
func (s *Scanner) Useful(text string) (bool, error) {
	var deferred [][]*pattern.Node

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || isM4Directive(line) {
			continue
		}

		pat := strings.Fields(line)[0]
		// m4 inserts `' as an empty-argument escape; it contributes nothing
		// to the path.
		pat = strings.ReplaceAll(pat, "`'", "")

		// "(/.*)?"/"/.*" suffixes cover a directory and everything below it;
		// the directory itself decides existence. An empty remainder means
		// the pattern labels the filesystem root.
		if rest, ok := strings.CutSuffix(pat, "(/.*)?"); ok {
			pat = rest
		} else if rest, ok := strings.CutSuffix(pat, "/.*"); ok {
			pat = rest
		}
		if pat == "" {
			return true, nil
		}

		if pat == "HOME_DIR" || s.alwaysExists(pat) {
			return true, nil
		}
		if strings.HasPrefix(pat, "HOME_DIR") {
			// Home directories are enumerable only against a live user
			// database; patterns below them are never decidable here.
			continue
		}

		nodes, err := pattern.Parse(pat)
		if err == nil {
			nodes, err = pattern.Normalize(nodes)
		}
		if err != nil {
			return false, fmt.Errorf("pattern %q: %w", pat, err)
		}

		switch pattern.Exists(nodes) {
		case pattern.ExistsYes:
			return true, nil
		case pattern.ExistsUnknown:
			deferred = append(deferred, nodes)
		}
	}

	for _, nodes := range deferred {
		globs, ok := pattern.Globs(nodes)
		if !ok {
			continue
		}
		for _, g := range globs {
			matches, err := filepath.Glob(g)
			if err == nil && len(matches) > 0 {
				return true, nil
			}
		}
	}
	return false, nil
}

// Useful applies the standard semantics without extra tokens.
func Useful(text string) (bool, error) {
	var s Scanner
	return s.Useful(text)
}

func (s *Scanner) alwaysExists(pat string) bool {
	for _, tok := range s.ExtraTokens {
		if pat == tok {
			return true
		}
	}
	return false
}

// isM4Directive reports whether the line belongs to m4 conditional or
// continuation syntax rather than a file-context rule.
func isM4Directive(line string) bool {
	return strings.HasPrefix(line, "ifdef(") ||
		strings.HasPrefix(line, "ifndef(") ||
		strings.HasPrefix(line, "`") ||
		strings.HasPrefix(line, "')")
}
