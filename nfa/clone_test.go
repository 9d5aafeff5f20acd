package nfa

import "testing"

// TestCloneFragmentIndependence checks that a cloned fragment gets its own
// states rather than sharing the original's, so patching one never affects
// the other. This is what lets {n,m} stamp out independent repetitions.
func TestCloneFragmentIndependence(t *testing.T) {
	b := NewBuilder()
	id := b.newState(State{kind: StateChar, char: 'x', out: InvalidState})
	orig := singleSite(id)

	clone, err := b.cloneFragment(orig)
	if err != nil {
		t.Fatalf("cloneFragment returned error: %v", err)
	}
	if clone.start == orig.start {
		t.Fatalf("clone must allocate a new start state")
	}

	match := b.newState(State{kind: StateMatch})
	b.patch(clone.out, match)

	if b.states[orig.start].out == match {
		t.Errorf("patching the clone must not affect the original fragment")
	}
	if b.states[clone.start].out != match {
		t.Errorf("clone's dangling output should now point at match")
	}
}

// TestCloneFragmentCycle checks that cloning a fragment containing a back
// edge (e.g. the body of a nested `*`) terminates and preserves the cycle
// within the clone, rather than looping forever or leaking a reference back
// into the original subgraph.
func TestCloneFragmentCycle(t *testing.T) {
	b := NewBuilder()
	charID := b.newState(State{kind: StateChar, char: 'a', out: InvalidState})
	inner := singleSite(charID)

	split := b.newState(State{kind: StateSplit, out: inner.start, out1: InvalidState, greedy: true})
	b.patch(inner.out, split)
	star := Fragment{start: split, out: PatchList{{state: split, slot: slotOut1}}}

	clone, err := b.cloneFragment(star)
	if err != nil {
		t.Fatalf("cloneFragment returned error: %v", err)
	}
	if clone.start == star.start {
		t.Fatalf("clone must allocate a new split state")
	}

	clonedSplit := b.states[clone.start]
	if clonedSplit.kind != StateSplit {
		t.Fatalf("expected cloned start to be a Split state")
	}
	if clonedSplit.out == split {
		t.Errorf("cloned split's body must point into the clone, not the original")
	}
	// The back edge from the cloned char state must point back at the cloned
	// split, not the original one.
	clonedChar := b.states[clonedSplit.out]
	if clonedChar.out != clone.start {
		t.Errorf("cycle not preserved inside the clone: got %d, want %d", clonedChar.out, clone.start)
	}
}

func TestCloneFragmentInvalidStart(t *testing.T) {
	b := NewBuilder()
	clone, err := b.cloneFragment(Fragment{start: InvalidState})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clone.start != InvalidState {
		t.Errorf("cloning an empty fragment should yield InvalidState")
	}
}
