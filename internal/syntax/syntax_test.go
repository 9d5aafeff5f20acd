package syntax

import (
	"testing"

	"github.com/pikevm/pikevm/nfa"
)

func mustMatch(t *testing.T, pattern, input string, want bool) {
	t.Helper()
	postfix, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) returned error: %v", pattern, err)
	}
	n, err := nfa.Build(postfix)
	if err != nil {
		t.Fatalf("Compile(%q) -> %q, nfa.Build returned error: %v", pattern, postfix, err)
	}
	vm := nfa.NewPikeVM(n)
	if got := vm.Match([]byte(input)); got != want {
		t.Errorf("pattern %q (postfix %q) Match(%q) = %v, want %v", pattern, postfix, input, got, want)
	}
}

func TestCompileLiteralConcat(t *testing.T) {
	mustMatch(t, "abc", "xxabcxx", true)
	mustMatch(t, "abc", "ab", false)
}

func TestCompileAlternation(t *testing.T) {
	mustMatch(t, "cat|dog", "I have a cat", true)
	mustMatch(t, "cat|dog", "I have a dog", true)
	mustMatch(t, "cat|dog", "I have a fish", false)
}

func TestCompileStarPlusOptional(t *testing.T) {
	mustMatch(t, "ab*c", "ac", true)
	mustMatch(t, "ab*c", "abbbc", true)
	mustMatch(t, "ab+c", "ac", false)
	mustMatch(t, "ab+c", "abc", true)
	mustMatch(t, "colou?r", "color", true)
	mustMatch(t, "colou?r", "colour", true)
}

func TestCompileBoundedQuantifier(t *testing.T) {
	mustMatch(t, "a{2,3}", "aa", true)
	mustMatch(t, "a{2,3}", "a", false)
	mustMatch(t, "a{2,}", "aaaaa", true)
	mustMatch(t, "a{3}", "aaa", true)
	mustMatch(t, "a{3}", "aa", false)
}

func TestCompileCharClass(t *testing.T) {
	mustMatch(t, "[abc]", "b", true)
	mustMatch(t, "[abc]", "d", false)
	mustMatch(t, "[^abc]", "d", true)
	mustMatch(t, "[^abc]", "a", false)
	mustMatch(t, "[a-z]+", "hello", true)
}

func TestCompileShorthandClasses(t *testing.T) {
	mustMatch(t, `\d+`, "42", true)
	mustMatch(t, `\d+`, "abc", false)
	mustMatch(t, `\w+`, "abc_123", true)
	mustMatch(t, `\s`, " ", true)
	mustMatch(t, `[\d_]+`, "1_2", true)
}

func TestCompileAssertions(t *testing.T) {
	mustMatch(t, "^abc", "abc", true)
	mustMatch(t, "abc$", "xabc", true)
	mustMatch(t, `\bcat\b`, "a cat sat", true)
}

func TestCompileGroups(t *testing.T) {
	mustMatch(t, "(ab)+", "abab", true)
	mustMatch(t, "(?:ab)+", "abab", true)
	mustMatch(t, "a(b|c)d", "abd", true)
	mustMatch(t, "a(b|c)d", "acd", true)
	mustMatch(t, "a(b|c)d", "aed", false)
}

func TestCompileDotWildcard(t *testing.T) {
	mustMatch(t, "a.c", "abc", true)
	mustMatch(t, "a.c", "aXc", true)
}

func TestCompileEscapedOperatorLiteral(t *testing.T) {
	mustMatch(t, `a\.c`, "a.c", true)
	mustMatch(t, `a\.c`, "aXc", false)
	mustMatch(t, `a\*b`, "a*b", true)
}

func TestCompileCaptureIndices(t *testing.T) {
	postfix, err := Compile("(a)(b)")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	n, err := nfa.Build(postfix)
	if err != nil {
		t.Fatalf("nfa.Build returned error: %v", err)
	}
	if n.CaptureCount() != 2 {
		t.Errorf("CaptureCount() = %d, want 2", n.CaptureCount())
	}
	vm := nfa.NewPikeVM(n)
	if !vm.Match([]byte("ab")) {
		t.Fatalf("expected match")
	}
	if got := vm.Capture(0); got != "a" {
		t.Errorf("Capture(0) = %q, want %q", got, "a")
	}
	if got := vm.Capture(1); got != "b" {
		t.Errorf("Capture(1) = %q, want %q", got, "b")
	}
}

func TestCompileLiteralOperatorBytes(t *testing.T) {
	// These bytes are plain literals in surface syntax but operators in the
	// postfix alphabet; the compiler must shield them.
	mustMatch(t, "a@b", "x a@b y", true)
	mustMatch(t, "a@b", "ab", false)
	mustMatch(t, "x~y", "x~y", true)
	mustMatch(t, "n#1", "n#1", true)
	mustMatch(t, "aBc", "aBc", true)
	mustMatch(t, "aBc", "a c", false)
}

func TestCompileClassEscapedDash(t *testing.T) {
	mustMatch(t, `[a\-z]`, "-", true)
	mustMatch(t, `[a\-z]`, "a", true)
	mustMatch(t, `[a\-z]`, "z", true)
	mustMatch(t, `[a\-z]`, "m", false)
}

func TestCompileClassCaretMember(t *testing.T) {
	mustMatch(t, `[a^]`, "^", true)
	mustMatch(t, `[a^]`, "a", true)
	mustMatch(t, `[a^]`, "b", false)
	mustMatch(t, `[^a^]`, "b", true)
	mustMatch(t, `[^a^]`, "^", false)
}

func TestCompileClassOnlyCaretRejected(t *testing.T) {
	if _, err := Compile(`[\^]`); err == nil {
		t.Fatalf("expected error: a class containing only '^' cannot be encoded")
	}
}

func TestCompileClassLiteralBracketRejected(t *testing.T) {
	if _, err := Compile(`[\]]`); err == nil {
		t.Fatalf("expected error: literal ']' cannot be encoded in a class")
	}
}

func TestCompileUnterminatedClassIsError(t *testing.T) {
	if _, err := Compile("[abc"); err == nil {
		t.Fatalf("expected error for unterminated character class")
	}
}

func TestCompileTrailingBackslashIsError(t *testing.T) {
	if _, err := Compile(`a\`); err == nil {
		t.Fatalf("expected error for trailing backslash")
	}
}

func TestCompileLiteralCaretRejected(t *testing.T) {
	if _, err := Compile(`\^`); err == nil {
		t.Fatalf("expected error: literal '^' cannot be represented in the postfix alphabet")
	}
}
