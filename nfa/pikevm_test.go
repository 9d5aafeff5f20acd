package nfa

import "testing"

func TestPikeVMUnanchoredSearch(t *testing.T) {
	n := mustBuild(t, "ab.c.")
	v := NewPikeVM(n)
	if !v.Match([]byte("xxxabcxxx")) {
		t.Fatalf("expected unanchored search to find the literal mid-string")
	}
}

func TestPikeVMDeterministic(t *testing.T) {
	n := mustBuild(t, "a*b.")
	v := NewPikeVM(n)
	want := v.Match([]byte("aaab"))
	for i := 0; i < 5; i++ {
		if got := v.Match([]byte("aaab")); got != want {
			t.Fatalf("Match is not idempotent across repeated calls: iteration %d got %v, want %v", i, got, want)
		}
	}
}

func TestPikeVMCaptureOutOfRange(t *testing.T) {
	n := mustBuild(t, "a")
	v := NewPikeVM(n)
	if !v.Match([]byte("a")) {
		t.Fatalf("expected match")
	}
	if got := v.Capture(5); got != "" {
		t.Errorf("Capture out of range should return empty string, got %q", got)
	}
	if got := v.Capture(-1); got != "" {
		t.Errorf("Capture with negative index should return empty string, got %q", got)
	}
}

func TestPikeVMCaptureCountPropagated(t *testing.T) {
	n := mustBuild(t, "a(b).(c).")
	v := NewPikeVM(n)
	if got := v.CaptureCount(); got != 2 {
		t.Errorf("CaptureCount() = %d, want 2", got)
	}
}

func TestPikeVMEndLineAssertion(t *testing.T) {
	n := mustBuild(t, "a$.")
	v := NewPikeVM(n)
	if !v.Match([]byte("ba")) {
		t.Fatalf("expected 'a' at end of string to satisfy $")
	}
	if v.Match([]byte("ab")) {
		t.Fatalf("did not expect 'a' not at end of string to satisfy $")
	}
}

func TestPikeVMNonGreedyOptional(t *testing.T) {
	// a~b. means a non-greedy optional `a` followed by `b`; either way it
	// must still match "ab" and "b".
	n := mustBuild(t, "a~b.")
	v := NewPikeVM(n)
	if !v.Match([]byte("ab")) {
		t.Fatalf("expected match on ab")
	}
	if !v.Match([]byte("b")) {
		t.Fatalf("expected match on b")
	}
}

func TestPikeVMGreedySpanExtends(t *testing.T) {
	n := mustBuild(t, "a*")
	v := NewPikeVM(n)
	if !v.Match([]byte("aaa")) {
		t.Fatalf("expected match")
	}
	if s, e := v.MatchSpan(); s != 0 || e != 3 {
		t.Errorf("MatchSpan() = [%d, %d), want [0, 3): greedy star should consume all repetitions", s, e)
	}
}

func TestPikeVMLazySpanStopsShort(t *testing.T) {
	n := mustBuild(t, "a@")
	v := NewPikeVM(n)
	if !v.Match([]byte("aaa")) {
		t.Fatalf("expected match")
	}
	if s, e := v.MatchSpan(); s != 0 || e != 0 {
		t.Errorf("MatchSpan() = [%d, %d), want [0, 0): lazy star should commit the empty match", s, e)
	}
}

func TestPikeVMAlternationPrefersLeft(t *testing.T) {
	// (a|ab): both branches can start a match at the same position; the
	// left one outranks the right, so its captures win.
	n := mustBuild(t, "(aab.|)")
	v := NewPikeVM(n)
	if !v.Match([]byte("ab")) {
		t.Fatalf("expected match")
	}
	if got := v.Capture(0); got != "a" {
		t.Errorf("Capture(0) = %q, want %q (left alternative has priority)", got, "a")
	}
}

func TestPikeVMNonGreedyStar(t *testing.T) {
	n := mustBuild(t, "a@b.")
	v := NewPikeVM(n)
	if !v.Match([]byte("aaab")) {
		t.Fatalf("expected non-greedy star to still accept aaab")
	}
	if !v.Match([]byte("b")) {
		t.Fatalf("expected non-greedy star to accept zero repetitions")
	}
}
