// Package pikevm is a byte-oriented regular expression engine built on a
// Thompson-construction NFA and a Pike-style, backtracking-free simulator.
//
// The public surface below is deliberately shaped like stdlib regexp so
// existing code reads naturally against it, but the matching core
// underneath is the nfa package's Builder and PikeVM: literals, concatenation, alternation, the
// quantifiers (including bounded `{n,m}` and the lazy `??` and `*?`), character
// classes, the `^` `$` `\b` assertions, and capturing groups. See the nfa
// package for the wire-format contract between compiling a pattern and
// running it, and internal/syntax for how surface regex text becomes that
// wire format.
//
// Unicode beyond ASCII, lookaround, and backreferences are out of scope,
// matching the core engine's Non-goals.
package pikevm

import (
	"github.com/coregx/ahocorasick"

	"github.com/pikevm/pikevm/internal/litset"
	"github.com/pikevm/pikevm/internal/syntax"
	"github.com/pikevm/pikevm/nfa"
)

// Regex is a compiled regular expression. A Regex is safe for concurrent
// read-only use (MatchString, Find, ...) across goroutines: each call
// allocates its own nfa.PikeVM, and the underlying NFA graph is immutable
// once Compile returns.
type Regex struct {
	pattern     string
	nfa         *nfa.NFA
	numCaptures int

	// ac is set instead of nfa when the pattern is nothing but a flat
	// alternation of literal strings: Aho-Corasick finds the leftmost
	// match across the whole literal set in one linear pass, with no NFA
	// thread bookkeeping at all. See internal/litset.
	ac *ahocorasick.Automaton
}

// Compile parses and compiles a regular expression pattern. Syntax is
// documented in the internal/syntax package; it covers literals,
// concatenation, alternation, `?`/`*`/`+`/`{n,m}` quantifiers (greedy, plus
// lazy `??` and `*?`; `+?` and `{n,m}?` are accepted but match greedily),
// character classes with `\d\w\s` shorthand, `^`/`$`/`\b`
// assertions, and capturing/non-capturing groups.
func Compile(pattern string) (*Regex, error) {
	if branches, ok := litset.Extract(pattern); ok {
		builder := ahocorasick.NewBuilder()
		for _, b := range branches {
			builder.AddPattern([]byte(b))
		}
		if auto, err := builder.Build(); err == nil {
			return &Regex{pattern: pattern, ac: auto}, nil
		}
		// Automaton construction failed (e.g. a degenerate pattern the
		// builder rejects): fall through to the general NFA path below.
	}

	postfix, err := syntax.Compile(pattern)
	if err != nil {
		return nil, err
	}
	n, err := nfa.Build(postfix)
	if err != nil {
		return nil, err
	}
	return &Regex{pattern: pattern, nfa: n, numCaptures: n.CaptureCount()}, nil
}

// MustCompile is like Compile but panics if the pattern fails to compile.
// Intended for patterns fixed at program initialization time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("pikevm: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source pattern the Regex was compiled from.
func (r *Regex) String() string { return r.pattern }

// NumSubexp returns the number of capturing groups in the pattern. Unlike
// stdlib regexp, this does not count an implicit group 0: a pattern with
// no parenthesized groups reports 0, not 1.
func (r *Regex) NumSubexp() int { return r.numCaptures }

// Match reports whether the pattern matches anywhere in b.
func (r *Regex) Match(b []byte) bool {
	if r.ac != nil {
		return r.ac.IsMatch(b)
	}
	return nfa.NewPikeVM(r.nfa).Match(b)
}

// MatchString is Match for a string argument.
func (r *Regex) MatchString(s string) bool { return r.Match([]byte(s)) }

// FindIndex returns a two-element slice holding the start and end byte
// offsets of the leftmost match in b, or nil if there is no match.
func (r *Regex) FindIndex(b []byte) []int {
	if r.ac != nil {
		m := r.ac.Find(b, 0)
		if m == nil {
			return nil
		}
		return []int{m.Start, m.End}
	}
	vm := nfa.NewPikeVM(r.nfa)
	if !vm.Match(b) {
		return nil
	}
	start, end := vm.MatchSpan()
	return []int{start, end}
}

// FindStringIndex is FindIndex for a string argument.
func (r *Regex) FindStringIndex(s string) []int { return r.FindIndex([]byte(s)) }

// Find returns the leftmost match in b, or nil if there is no match.
func (r *Regex) Find(b []byte) []byte {
	idx := r.FindIndex(b)
	if idx == nil {
		return nil
	}
	return b[idx[0]:idx[1]]
}

// FindString is Find for a string argument.
func (r *Regex) FindString(s string) string {
	b := r.Find([]byte(s))
	if b == nil {
		return ""
	}
	return string(b)
}

// FindSubmatchIndex returns index pairs for the leftmost match and each of
// its capturing groups: result[0:2] is the overall match, result[2i:2i+2]
// is group i+1. An unentered group reports [-1,-1]. A pattern compiled via
// the Aho-Corasick literal-set fast path has no groups, so its result holds
// only the overall match pair. Returns nil if there is no match.
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	if r.ac != nil {
		idx := r.FindIndex(b)
		if idx == nil {
			return nil
		}
		return idx
	}

	vm := nfa.NewPikeVM(r.nfa)
	if !vm.Match(b) {
		return nil
	}
	start, end := vm.MatchSpan()
	result := make([]int, 2+2*r.numCaptures)
	result[0], result[1] = start, end
	for i := 0; i < r.numCaptures; i++ {
		s, e := vm.CaptureIndices(i)
		result[2+2*i], result[2+2*i+1] = s, e
	}
	return result
}

// FindStringSubmatchIndex is FindSubmatchIndex for a string argument.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}

// FindSubmatch is like FindSubmatchIndex, but returns the matched byte
// slices directly. Unmatched groups are nil.
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	idx := r.FindSubmatchIndex(b)
	if idx == nil {
		return nil
	}
	out := make([][]byte, len(idx)/2)
	for i := range out {
		s, e := idx[2*i], idx[2*i+1]
		if s < 0 || e < 0 {
			continue
		}
		out[i] = b[s:e]
	}
	return out
}

// FindStringSubmatch is FindSubmatch for a string argument.
func (r *Regex) FindStringSubmatch(s string) []string {
	groups := r.FindSubmatch([]byte(s))
	if groups == nil {
		return nil
	}
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}

// FindAllIndex returns the index pairs of every non-overlapping match of
// the pattern in b, in order. If n >= 0, at most n matches are returned.
// An empty match advances the search by one byte to guarantee progress.
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}

	var matches [][]int
	pos := 0
	for pos <= len(b) {
		idx := r.FindIndex(b[pos:])
		if idx == nil {
			break
		}
		start, end := pos+idx[0], pos+idx[1]
		matches = append(matches, []int{start, end})

		if end > pos {
			pos = end
		} else {
			pos++
		}
		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// FindAll returns the byte slices of every non-overlapping match of the
// pattern in b, in order. If n >= 0, at most n matches are returned.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	idxs := r.FindAllIndex(b, n)
	if idxs == nil {
		return nil
	}
	out := make([][]byte, len(idxs))
	for i, idx := range idxs {
		out[i] = b[idx[0]:idx[1]]
	}
	return out
}

// FindAllString is FindAll for a string argument.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.FindAll([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}
