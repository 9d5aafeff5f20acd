package nfa

import (
	"fmt"

	"github.com/pikevm/pikevm/internal/conv"
)

// maxFragmentStack bounds the builder's fragment stack. A postfix stream
// that would push beyond this depth is rejected as malformed rather than
// growing without limit.
const maxFragmentStack = 1000

// slot identifies which outgoing edge of a state a patch site refers to.
type slot uint8

const (
	slotOut slot = iota
	slotOut1
)

// patchSite is a dangling output: a (state, slot) pair that has not yet
// been connected to a successor. Sites are addressed by StateID rather than
// by pointer so that growing the builder's state arena never invalidates
// them.
type patchSite struct {
	state StateID
	slot  slot
}

// PatchList is a list of dangling output sites awaiting connection.
type PatchList []patchSite

// appendPatch concatenates two patch lists without aliasing either input's
// backing array.
func appendPatch(a, b PatchList) PatchList {
	out := make(PatchList, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// Fragment is a subgraph under construction: an entry state plus the set of
// output sites still waiting to be wired to a successor.
type Fragment struct {
	start StateID
	out   PatchList
}

// Builder consumes a postfix token stream and assembles an NFA state graph.
// It owns every State it allocates; states are never freed individually,
// only retired wholesale if Build is never called.
type Builder struct {
	states      []State
	stack       []Fragment
	nextCapture uint32
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		states: make([]State, 0, 64),
		stack:  make([]Fragment, 0, 32),
	}
}

func (b *Builder) newState(st State) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	st.id = id
	b.states = append(b.states, st)
	return id
}

func (b *Builder) patch(list PatchList, target StateID) {
	for _, site := range list {
		s := &b.states[site.state]
		if site.slot == slotOut {
			s.out = target
		} else {
			s.out1 = target
		}
	}
}

func (b *Builder) push(f Fragment) error {
	if len(b.stack) >= maxFragmentStack {
		return &BuildError{Message: "fragment stack overflow", Pos: -1}
	}
	b.stack = append(b.stack, f)
	return nil
}

func (b *Builder) pop() (Fragment, error) {
	if len(b.stack) == 0 {
		return Fragment{}, &BuildError{Message: "fragment stack underflow", Pos: -1}
	}
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return f, nil
}

func singleSite(id StateID) Fragment {
	return Fragment{start: id, out: PatchList{{state: id, slot: slotOut}}}
}

// Build consumes postfix, a token stream in the postfix alphabet (literal
// bytes, `.|?~*@+#n-m()[...]^$B`, dispatched in the switch below), and
// produces the resulting NFA. On any malformed input it returns a
// *BuildError and no NFA.
func Build(postfix []byte) (*NFA, error) {
	b := NewBuilder()

	for i := 0; i < len(postfix); i++ {
		c := postfix[i]
		var err error

		switch c {
		case '.':
			err = b.doConcat()
		case '|':
			err = b.doAlternate()
		case '?':
			err = b.doOptional(true)
		case '~':
			err = b.doOptional(false)
		case '*':
			err = b.doStar(true)
		case '@':
			err = b.doStar(false)
		case '+':
			err = b.doPlus()
		case '#':
			var last int
			last, err = b.doBoundedQuantifier(postfix, i+1)
			i = last
		case '(':
			err = b.doCaptureStart()
		case ')':
			err = b.doCaptureEnd()
		case '^':
			err = b.pushAssertion(AssertStartLine)
		case '$':
			err = b.pushAssertion(AssertEndLine)
		case 'B':
			err = b.pushAssertion(AssertWordBoundary)
		case '[':
			var last int
			last, err = b.doCharClass(postfix, i+1)
			i = last
		default:
			err = b.pushLiteral(c)
		}

		if err != nil {
			return nil, err
		}
	}

	final, err := b.pop()
	if err != nil {
		return nil, err
	}
	if len(b.stack) != 0 {
		return nil, &BuildError{Message: fmt.Sprintf("%d unconsumed fragment(s) remain", len(b.stack)), Pos: -1}
	}

	match := b.newState(State{kind: StateMatch, out: InvalidState, out1: InvalidState})
	b.patch(final.out, match)

	return &NFA{
		states:       b.states,
		start:        final.start,
		captureCount: int(b.nextCapture),
	}, nil
}

func (b *Builder) pushLiteral(c byte) error {
	id := b.newState(State{kind: StateChar, char: c, out: InvalidState})
	return b.push(singleSite(id))
}

func (b *Builder) pushAssertion(kind AssertionKind) error {
	id := b.newState(State{kind: StateAssertion, assertion: kind, out: InvalidState})
	return b.push(singleSite(id))
}

func (b *Builder) doConcat() error {
	e2, err := b.pop()
	if err != nil {
		return err
	}
	e1, err := b.pop()
	if err != nil {
		return err
	}
	b.patch(e1.out, e2.start)
	return b.push(Fragment{start: e1.start, out: e2.out})
}

func (b *Builder) doAlternate() error {
	e2, err := b.pop()
	if err != nil {
		return err
	}
	e1, err := b.pop()
	if err != nil {
		return err
	}
	s := b.newState(State{kind: StateSplit, out: e1.start, out1: e2.start, greedy: true})
	return b.push(Fragment{start: s, out: appendPatch(e1.out, e2.out)})
}

// doOptional implements `?` (greedy=true) and `~` (greedy=false, i.e. `??`).
// Both variants share one layout: out enters the operand, out1 skips it. The
// greedy flag alone decides which branch the simulator walks first, so the
// lazy form needs no second construction path.
func (b *Builder) doOptional(greedy bool) error {
	e1, err := b.pop()
	if err != nil {
		return err
	}
	s := b.newState(State{kind: StateSplit, out: e1.start, out1: InvalidState, greedy: greedy})
	out := appendPatch(e1.out, PatchList{{state: s, slot: slotOut1}})
	return b.push(Fragment{start: s, out: out})
}

// doStar implements `*` (greedy=true) and `@` (greedy=false, i.e. `*?`).
// Same single layout as doOptional: out loops into the body, out1 exits,
// greedy picks the visit order.
func (b *Builder) doStar(greedy bool) error {
	e, err := b.pop()
	if err != nil {
		return err
	}
	s := b.newState(State{kind: StateSplit, out: e.start, out1: InvalidState, greedy: greedy})
	b.patch(e.out, s)
	return b.push(Fragment{start: s, out: PatchList{{state: s, slot: slotOut1}}})
}

// doPlus implements `+`: the fragment's start is e.start rather than the
// split, forcing one traversal of the operand before the loop-back split is
// reachable.
func (b *Builder) doPlus() error {
	e, err := b.pop()
	if err != nil {
		return err
	}
	s := b.newState(State{kind: StateSplit, out: e.start, out1: InvalidState, greedy: true})
	b.patch(e.out, s)
	return b.push(Fragment{start: e.start, out: PatchList{{state: s, slot: slotOut1}}})
}

func (b *Builder) doCaptureStart() error {
	idx := b.nextCapture
	b.nextCapture++
	s := b.newState(State{kind: StateCaptureStart, captureIndex: idx, out: InvalidState})
	return b.push(singleSite(s))
}

func (b *Builder) doCaptureEnd() error {
	content, err := b.pop()
	if err != nil {
		return err
	}
	opener, err := b.pop()
	if err != nil {
		return err
	}
	openState := b.states[opener.start]
	if openState.kind != StateCaptureStart {
		return &BuildError{Message: "unmatched capture close", Pos: -1}
	}
	end := b.newState(State{kind: StateCaptureEnd, captureIndex: openState.captureIndex, out: InvalidState})
	b.patch(opener.out, content.start)
	b.patch(content.out, end)
	return b.push(Fragment{start: opener.start, out: PatchList{{state: end, slot: slotOut}}})
}

// doCharClass parses a `[...]` body, with start the absolute index of the
// byte just past the opening bracket. It returns the absolute index of the
// closing `]`, which the caller assigns to its loop variable so the next
// iteration's increment lands just past it.
func (b *Builder) doCharClass(postfix []byte, start int) (int, error) {
	cc := NewCharClass()
	i := start

	if i < len(postfix) && postfix[i] == '^' {
		cc.Negate()
		i++
	}

	for i < len(postfix) && postfix[i] != ']' {
		if i+2 < len(postfix) && postfix[i+1] == '-' && postfix[i+2] != ']' {
			cc.AddRange(postfix[i], postfix[i+2])
			i += 3
		} else {
			cc.AddChar(postfix[i])
			i++
		}
	}

	if i >= len(postfix) {
		return 0, &BuildError{Message: "unterminated character class", Pos: start}
	}

	s := b.newState(State{kind: StateCharClass, class: cc, out: InvalidState})
	if err := b.push(singleSite(s)); err != nil {
		return 0, err
	}
	return i, nil
}

// doBoundedQuantifier parses the `n` or `n-m` following a `#` token, with
// start the absolute index of the first digit, and expands the most recent
// fragment via fragment cloning. It returns the absolute index of the last
// byte it consumed (the last digit of m, of n, or the `-` itself when m is
// left empty for "unbounded"); the caller assigns that to its loop
// variable so the next iteration's increment lands just past it.
func (b *Builder) doBoundedQuantifier(postfix []byte, start int) (int, error) {
	i := start
	nStart := i
	for i < len(postfix) && postfix[i] >= '0' && postfix[i] <= '9' {
		i++
	}
	if i == nStart {
		return 0, &BuildError{Message: "bounded quantifier missing count", Pos: start}
	}
	n := atoi(postfix[nStart:i])
	last := i - 1

	m := n
	if i < len(postfix) && postfix[i] == '-' {
		last = i
		i++
		mStart := i
		for i < len(postfix) && postfix[i] >= '0' && postfix[i] <= '9' {
			i++
		}
		if i == mStart {
			m = -1 // empty upper bound = unbounded
		} else {
			m = atoi(postfix[mStart:i])
			last = i - 1
		}
	}

	if m != -1 && m < n {
		return 0, &BuildError{Message: "bounded quantifier upper bound below lower bound", Pos: start}
	}

	e, err := b.pop()
	if err != nil {
		return 0, err
	}

	result, err := b.expandBounded(e, n, m)
	if err != nil {
		return 0, err
	}
	if err := b.push(result); err != nil {
		return 0, err
	}

	return last, nil
}

func atoi(digits []byte) int {
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}
	return n
}

// expandBounded implements the four-step clone expansion for `{n,m}`
// (m == -1 meaning unbounded).
func (b *Builder) expandBounded(e Fragment, n, m int) (Fragment, error) {
	var result Fragment

	if n == 0 {
		split := b.newState(State{kind: StateSplit, out: InvalidState, out1: InvalidState, greedy: true})
		result = Fragment{start: split, out: PatchList{
			{state: split, slot: slotOut},
			{state: split, slot: slotOut1},
		}}
	} else {
		first, err := b.cloneFragment(e)
		if err != nil {
			return Fragment{}, err
		}
		result = first
		for k := 1; k < n; k++ {
			next, err := b.cloneFragment(e)
			if err != nil {
				return Fragment{}, err
			}
			b.patch(result.out, next.start)
			result = Fragment{start: result.start, out: next.out}
		}
	}

	if m == -1 {
		loop, err := b.cloneFragment(e)
		if err != nil {
			return Fragment{}, err
		}
		split := b.newState(State{kind: StateSplit, out: loop.start, out1: InvalidState, greedy: true})
		b.patch(result.out, split)
		b.patch(loop.out, split)
		result = Fragment{start: result.start, out: PatchList{{state: split, slot: slotOut1}}}
	} else {
		tail := result.out
		for k := n; k < m; k++ {
			opt, err := b.cloneFragment(e)
			if err != nil {
				return Fragment{}, err
			}
			split := b.newState(State{kind: StateSplit, out: opt.start, out1: InvalidState, greedy: true})
			b.patch(tail, split)
			tail = appendPatch(opt.out, PatchList{{state: split, slot: slotOut1}})
		}
		result = Fragment{start: result.start, out: tail}
	}

	return result, nil
}
