package nfa

import (
	"github.com/pikevm/pikevm/internal/sparse"
	"github.com/pikevm/pikevm/simd"
)

// captures holds the byte offsets recorded for each capturing group during
// one thread's walk through the graph. A start or end of -1 means the
// group was never entered.
type captures struct {
	start []int
	end   []int
}

func newCaptures(n int) captures {
	c := captures{start: make([]int, n), end: make([]int, n)}
	for i := range c.start {
		c.start[i] = -1
		c.end[i] = -1
	}
	return c
}

// clone returns an independent copy. Simulator threads must copy, not
// alias, their capture snapshot on every branch so that two epsilon paths
// reaching different states never observe each other's writes.
func (c captures) clone() captures {
	start := make([]int, len(c.start))
	end := make([]int, len(c.end))
	copy(start, c.start)
	copy(end, c.end)
	return captures{start: start, end: end}
}

// thread is one live entry in a PikeVM state list: a state plus the
// capture snapshot that reached it.
type thread struct {
	state StateID
	caps  captures
}

// threadList is a dense, order-preserving list of threads for one
// generation, paired with a sparse set recording which states have
// already been admitted so addState never enqueues the same state twice
// in a single generation.
type threadList struct {
	threads []thread
	seen    *sparse.Set
}

func newThreadList(numStates int) *threadList {
	return &threadList{
		threads: make([]thread, 0, numStates),
		seen:    sparse.NewSet(uint32(numStates)),
	}
}

func (l *threadList) reset() {
	l.threads = l.threads[:0]
	l.seen.Clear()
}

// truncate drops every thread at index k and beyond. Once a Match thread is
// seen at k, the threads after it can only produce lower-priority matches,
// so they are cut; the threads before it may still extend the match.
func (l *threadList) truncate(k int) {
	l.threads = l.threads[:k]
}

// PikeVM simulates an NFA over a byte input without backtracking, tracking
// capture groups per thread. One PikeVM is bound to exactly one NFA; the
// generation side table below replaces a per-state "lastList" field so the
// same compiled graph could, in principle, back more than one simulator.
type PikeVM struct {
	nfa   *NFA
	clist *threadList
	nlist *threadList
	caps  captures
	input []byte

	// firstBytes is a prefilter computed once at construction time: the set
	// of bytes a match can possibly start with. When it is useful (see
	// FirstByteSet.IsUseful), run skips candidate start positions that
	// cannot possibly begin a match, using simd's memchr family for sets of
	// up to three bytes and a byte-membership scan otherwise, instead of
	// invoking addState at every position. This changes nothing observable:
	// a position outside the set can never seed a thread that reaches
	// Match, so skipping it cannot turn a match into a non-match.
	firstBytes *FirstByteSet
	// needles caches firstBytes' members when there are at most three, the
	// range simd's memchr family covers.
	needles []byte

	matchStart int
	matchEnd   int
}

// NewPikeVM builds a simulator bound to n.
func NewPikeVM(n *NFA) *PikeVM {
	numStates := n.States()
	v := &PikeVM{
		nfa:        n,
		clist:      newThreadList(numStates),
		nlist:      newThreadList(numStates),
		caps:       newCaptures(n.CaptureCount()),
		firstBytes: ExtractFirstBytes(n),
	}
	if v.firstBytes != nil && v.firstBytes.IsUseful() && v.firstBytes.Count() <= 3 {
		for b := 0; b < 256; b++ {
			if v.firstBytes.Contains(byte(b)) {
				v.needles = append(v.needles, byte(b))
			}
		}
	}
	return v
}

// isWord reports whether b is a word byte: alphanumeric ASCII or underscore.
func isWord(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	default:
		return false
	}
}

func assertionHolds(kind AssertionKind, input []byte, pos int) bool {
	switch kind {
	case AssertStartLine:
		return pos == 0
	case AssertEndLine:
		return pos == len(input)
	case AssertWordBoundary:
		var before, after bool
		if pos-1 >= 0 && pos-1 < len(input) {
			before = isWord(input[pos-1])
		}
		if pos >= 0 && pos < len(input) {
			after = isWord(input[pos])
		}
		return before != after
	default:
		return false
	}
}

// addState adds id and every state reachable from it via epsilon edges to
// l, honoring the greedy/non-greedy visit order on Split so that, when two
// threads reach Match in the same generation, the first one enqueued
// reflects the documented quantifier preference.
func (v *PikeVM) addState(l *threadList, id StateID, input []byte, pos int, c captures) {
	if id == InvalidState {
		return
	}
	if !l.seen.Add(uint32(id)) {
		return
	}

	s := v.nfa.State(id)
	if s == nil {
		return
	}

	switch s.Kind() {
	case StateSplit:
		out, out1, greedy := s.Split()
		if greedy {
			v.addState(l, out, input, pos, c.clone())
			v.addState(l, out1, input, pos, c.clone())
		} else {
			v.addState(l, out1, input, pos, c.clone())
			v.addState(l, out, input, pos, c.clone())
		}

	case StateAssertion:
		kind, out := s.Assertion()
		if assertionHolds(kind, input, pos) {
			v.addState(l, out, input, pos, c)
		}

	case StateCaptureStart:
		idx, out := s.Capture()
		if int(idx) < len(c.start) {
			c.start[idx] = pos
		}
		v.addState(l, out, input, pos, c)

	case StateCaptureEnd:
		idx, out := s.Capture()
		if int(idx) < len(c.end) {
			c.end[idx] = pos
		}
		v.addState(l, out, input, pos, c)

	case StateChar, StateCharClass, StateMatch:
		l.threads = append(l.threads, thread{state: id, caps: c})
	}
}

// Match reports whether any substring of input is accepted by the
// compiled pattern: an unanchored search tries every start position in
// turn and stops at the first one that matches.
func (v *PikeVM) Match(input []byte) bool {
	return v.run(input)
}

// run performs the unanchored search: for each candidate start position i,
// seed clist from the NFA's start state and step through the remaining
// input one byte at a time. The first i that yields a match wins
// (leftmost); within that i, whenever a generation contains a Match thread
// the match is recorded and every lower-priority thread is cut, while the
// higher-priority threads run on and may overwrite it with a longer one.
// A greedy quantifier orders its continue-thread above Match, so the span
// grows as far as the input allows; a lazy one orders Match first, which
// empties the list and commits the short span immediately.
func (v *PikeVM) run(input []byte) bool {
	v.input = input

	for i := 0; i <= len(input); i++ {
		i = v.skipToCandidate(input, i)
		if i > len(input) {
			break
		}

		v.clist.reset()
		v.addState(v.clist, v.nfa.Start(), input, i, newCaptures(v.nfa.CaptureCount()))

		var (
			matched bool
			best    captures
			bestEnd int
		)
		if caps, k, ok := v.findMatch(v.clist); ok {
			matched, best, bestEnd = true, caps, i
			v.clist.truncate(k)
		}

		for p := i; p < len(input) && len(v.clist.threads) > 0; p++ {
			v.nlist.reset()
			b := input[p]

			for _, t := range v.clist.threads {
				s := v.nfa.State(t.state)
				if s == nil {
					continue
				}
				switch s.Kind() {
				case StateChar:
					c, out := s.Char()
					if c == b {
						v.addState(v.nlist, out, input, p+1, t.caps)
					}
				case StateCharClass:
					class, out := s.Class()
					if class.Matches(b) {
						v.addState(v.nlist, out, input, p+1, t.caps)
					}
				}
			}

			v.clist, v.nlist = v.nlist, v.clist

			if caps, k, ok := v.findMatch(v.clist); ok {
				matched, best, bestEnd = true, caps, p+1
				v.clist.truncate(k)
			}
		}

		if matched {
			v.caps = best
			v.matchStart, v.matchEnd = i, bestEnd
			return true
		}
	}
	return false
}

// skipToCandidate advances i to the next position at or after i whose byte
// is in v.firstBytes, using simd's memchr family for the common cases of
// one, two, or three possible first bytes. It returns len(input)+1 (an
// out-of-range sentinel the caller's loop bound rejects) when no candidate
// remains, and returns i unchanged when the prefilter is not useful (e.g.
// the pattern can match the empty string) so every position is tried.
func (v *PikeVM) skipToCandidate(input []byte, i int) int {
	if v.firstBytes == nil || !v.firstBytes.IsUseful() || i >= len(input) {
		return i
	}

	rest := input[i:]
	var offset int
	switch len(v.needles) {
	case 1:
		offset = simd.Memchr(rest, v.needles[0])
	case 2:
		offset = simd.Memchr2(rest, v.needles[0], v.needles[1])
	case 3:
		offset = simd.Memchr3(rest, v.needles[0], v.needles[1], v.needles[2])
	default:
		offset = -1
		for p, b := range rest {
			if v.firstBytes.Contains(b) {
				offset = p
				break
			}
		}
	}
	if offset < 0 {
		return len(input) + 1
	}
	return i + offset
}

// findMatch scans a thread list for an admitted Match state, returning its
// captures and its index in the list. Thread order is the epsilon-closure visit
// order, so the first Match found already reflects the greedy/non-greedy
// preference baked into addState, and the index tells run which threads
// still outrank it.
func (v *PikeVM) findMatch(l *threadList) (captures, int, bool) {
	for k, t := range l.threads {
		s := v.nfa.State(t.state)
		if s != nil && s.IsMatch() {
			return t.caps, k, true
		}
	}
	return captures{}, 0, false
}

// Capture returns the substring captured by group index after a successful
// Match call, or the empty string if the group was never entered or index
// is out of range.
func (v *PikeVM) Capture(index int) string {
	if index < 0 || index >= len(v.caps.start) {
		return ""
	}
	start, end := v.caps.start[index], v.caps.end[index]
	if start < 0 || end < 0 || start > end || end > len(v.input) {
		return ""
	}
	return string(v.input[start:end])
}

// CaptureIndices returns the raw byte offsets recorded for capture group
// index, or (-1, -1) if the group was never entered or index is out of
// range. Capture already exposes the substring this spans; CaptureIndices
// supplements it for callers (the top-level regex package's
// FindSubmatchIndex) that need index pairs rather than copied text.
func (v *PikeVM) CaptureIndices(index int) (start, end int) {
	if index < 0 || index >= len(v.caps.start) {
		return -1, -1
	}
	s, e := v.caps.start[index], v.caps.end[index]
	if s < 0 || e < 0 || s > e || e > len(v.input) {
		return -1, -1
	}
	return s, e
}

// CaptureCount returns the number of capturing groups declared by the
// compiled pattern, propagated from the builder.
func (v *PikeVM) CaptureCount() int {
	return v.nfa.CaptureCount()
}

// MatchSpan returns the byte offsets of the overall match found by the most
// recent successful Match call. The core spec only requires per-group
// Capture; MatchSpan supplements it with the whole-match span (stdlib
// regexp's implicit group 0) that a Find-style caller needs.
func (v *PikeVM) MatchSpan() (start, end int) {
	return v.matchStart, v.matchEnd
}
