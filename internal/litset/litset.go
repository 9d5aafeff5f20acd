// Package litset detects patterns that are nothing but a flat alternation
// of fixed literal strings (`alpha|bravo|charlie|...`), the case the
// top-level regex package bypasses the NFA for entirely in favor of an
// Aho-Corasick automaton. With only two backends to choose between, the
// whole strategy decision reduces to one cut: "pure literal alternation"
// takes the automaton, everything else takes the NFA/PikeVM.
package litset

// Extract reports the literal branches of pattern if it is a bare
// alternation of escape-free literals with no other regex metacharacters:
// no groups, classes, quantifiers, dot, or anchors anywhere in the pattern.
// A single-branch "alternation" (no `|` at all) is not considered useful
// here and returns ok == false, since the NFA path handles plain literals
// just as well without the automaton's construction cost.
func Extract(pattern string) (branches []string, ok bool) {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '.', '*', '+', '?', '(', ')', '[', ']', '^', '$', '{', '}', '\\':
			return nil, false
		}
	}
	if pattern == "" {
		return nil, false
	}

	parts := splitTop(pattern)
	if len(parts) < 2 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

func splitTop(pattern string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '|' {
			parts = append(parts, pattern[start:i])
			start = i + 1
		}
	}
	parts = append(parts, pattern[start:])
	return parts
}
