package nfa

// cloneFragment performs a deep copy of the subgraph reachable from
// fragment.start, returning an equivalent fragment built from brand-new
// states. Bounded quantifiers use this to stamp out `n` independent copies
// of their operand instead of sharing a single back-edge, so each copy's
// Split states carry their own capture markers and greedy bit.
//
// The source subgraph may itself contain a cycle (e.g. cloning `(a*)` for
// `(a*){2,3}`): the translation table is populated for every node before
// its children are visited, so a back-edge encountered mid-traversal maps
// to the clone already allocated for it rather than recursing forever.
func (b *Builder) cloneFragment(f Fragment) (Fragment, error) {
	if f.start == InvalidState {
		return Fragment{start: InvalidState}, nil
	}

	oldToNew := make(map[StateID]StateID)
	var order []StateID

	var visit func(old StateID)
	visit = func(old StateID) {
		if old == InvalidState {
			return
		}
		if _, seen := oldToNew[old]; seen {
			return
		}
		newID := b.newState(State{})
		oldToNew[old] = newID
		order = append(order, old)

		// Copy by value before recursing: recursive newState calls below may
		// grow b.states and reallocate its backing array, so a pointer into
		// the slice taken before recursion is not safe to dereference after.
		s := b.states[old]
		switch s.kind {
		case StateSplit:
			visit(s.out)
			visit(s.out1)
		case StateChar, StateCharClass, StateAssertion, StateCaptureStart, StateCaptureEnd:
			visit(s.out)
		case StateMatch:
		}
	}
	visit(f.start)

	rewire := func(old StateID) StateID {
		if old == InvalidState {
			return InvalidState
		}
		if n, ok := oldToNew[old]; ok {
			return n
		}
		// Target lies outside the cloned subgraph: only reachable when the
		// site was genuinely dangling on the original fragment, which the
		// patch-list rewrite below handles separately.
		return old
	}

	for _, old := range order {
		orig := b.states[old]
		newID := oldToNew[old]
		clone := State{
			id:           newID,
			kind:         orig.kind,
			char:         orig.char,
			greedy:       orig.greedy,
			assertion:    orig.assertion,
			captureIndex: orig.captureIndex,
		}
		if orig.class != nil {
			cc := *orig.class
			clone.class = &cc
		}
		switch orig.kind {
		case StateSplit:
			clone.out = rewire(orig.out)
			clone.out1 = rewire(orig.out1)
		case StateChar, StateCharClass, StateAssertion, StateCaptureStart, StateCaptureEnd:
			clone.out = rewire(orig.out)
		}
		b.states[newID] = clone
	}

	newOut := make(PatchList, 0, len(f.out))
	for _, site := range f.out {
		newState, ok := oldToNew[site.state]
		if !ok {
			newOut = append(newOut, site)
			continue
		}
		newOut = append(newOut, patchSite{state: newState, slot: site.slot})
	}

	return Fragment{start: oldToNew[f.start], out: newOut}, nil
}
