package vm

import (
	"testing"

	"github.com/bregex/bregex/internal/ast"
	"github.com/bregex/bregex/internal/compiler"
)

func compileVM(t *testing.T, pattern string, maxSteps int) *VM {
	t.Helper()
	arena, root, groups, err := ast.Parse([]byte(pattern))
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", pattern, err)
	}
	prog := compiler.Compile(arena, root, groups)
	return New(prog, maxSteps)
}

func TestSearchLiteralMatch(t *testing.T) {
	m := compileVM(t, "abc", 0)
	res, err := m.Search([]byte("abc"), 0, false)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil {
		t.Fatal("expected a match")
	}
	if res.Slots[0] != 0 || res.Slots[1] != 3 {
		t.Fatalf("slots = %v, want [0 3 ...]", res.Slots)
	}
}

func TestSearchUnanchoredRestartsFromLaterOffset(t *testing.T) {
	m := compileVM(t, "cd", 0)
	res, err := m.Search([]byte("abcdef"), 0, false)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil {
		t.Fatal("expected a match")
	}
	if res.Slots[0] != 2 || res.Slots[1] != 4 {
		t.Fatalf("slots = %v, want [2 4]", res.Slots)
	}
}

func TestSearchAnchoredDoesNotRestart(t *testing.T) {
	m := compileVM(t, "cd", 0)
	res, err := m.Search([]byte("abcdef"), 0, true)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res != nil {
		t.Fatalf("expected no match when anchored at 0, got %v", res.Slots)
	}
}

func TestSearchNoMatchReturnsNil(t *testing.T) {
	m := compileVM(t, "xyz", 0)
	res, err := m.Search([]byte("abcdef"), 0, false)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res != nil {
		t.Fatalf("expected no match, got %v", res.Slots)
	}
}

func TestSearchGreedyQuantifierConsumesMaximally(t *testing.T) {
	m := compileVM(t, "a*", 0)
	res, err := m.Search([]byte("aaab"), 0, true)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil || res.Slots[1] != 3 {
		t.Fatalf("slots = %v, want end 3", res.Slots)
	}
}

func TestSearchLazyQuantifierConsumesMinimally(t *testing.T) {
	m := compileVM(t, "a*?", 0)
	res, err := m.Search([]byte("aaab"), 0, true)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil || res.Slots[1] != 0 {
		t.Fatalf("slots = %v, want end 0", res.Slots)
	}
}

func TestSearchAlternationFallsBackToRightBranch(t *testing.T) {
	m := compileVM(t, "cat|car", 0)
	res, err := m.Search([]byte("car"), 0, true)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil || res.Slots[1] != 3 {
		t.Fatalf("slots = %v, want full match of car via right branch", res.Slots)
	}
}

func TestSearchCaptureGroupsRoundTrip(t *testing.T) {
	m := compileVM(t, "(a+)(b+)", 0)
	res, err := m.Search([]byte("aaabb"), 0, true)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil {
		t.Fatal("expected a match")
	}
	// slots: [0]=start [1]=end [2,3]=group0 [4,5]=group1
	if res.Slots[2] != 0 || res.Slots[3] != 3 {
		t.Fatalf("group 0 = [%d,%d), want [0,3)", res.Slots[2], res.Slots[3])
	}
	if res.Slots[4] != 3 || res.Slots[5] != 5 {
		t.Fatalf("group 1 = [%d,%d), want [3,5)", res.Slots[4], res.Slots[5])
	}
}

func TestSearchCaptureInsideAlternationOnlyOneSideParticipates(t *testing.T) {
	m := compileVM(t, "(a)|(b)", 0)
	res, err := m.Search([]byte("b"), 0, true)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil {
		t.Fatal("expected a match")
	}
	if res.Slots[2] != -1 || res.Slots[3] != -1 {
		t.Fatalf("group 0 should not participate, got [%d,%d)", res.Slots[2], res.Slots[3])
	}
	if res.Slots[4] != 0 || res.Slots[5] != 1 {
		t.Fatalf("group 1 = [%d,%d), want [0,1)", res.Slots[4], res.Slots[5])
	}
}

func TestSearchNestedZeroWidthLoopTerminates(t *testing.T) {
	m := compileVM(t, "(a*)*", 10_000)
	res, err := m.Search([]byte("aaa"), 0, true)
	if err != nil {
		t.Fatalf("Search error: %v (zero-width loop likely did not terminate)", err)
	}
	if res == nil {
		t.Fatal("expected a match")
	}
	if res.Slots[1] != 3 {
		t.Fatalf("slots = %v, want end 3", res.Slots)
	}
}

func TestSearchStepLimitExceeded(t *testing.T) {
	m := compileVM(t, "a*", 2)
	_, err := m.Search([]byte("aaaaaaaaaa"), 0, true)
	if err != ErrStepLimitExceeded {
		t.Fatalf("err = %v, want ErrStepLimitExceeded", err)
	}
}

func TestSearchEndOfInputAnchor(t *testing.T) {
	m := compileVM(t, "c$", 0)
	if res, err := m.Search([]byte("abc"), 0, false); err != nil || res == nil {
		t.Fatalf("expected match at end of input, res=%v err=%v", res, err)
	}
	if res, err := m.Search([]byte("abcd"), 0, false); err != nil {
		t.Fatalf("Search error: %v", err)
	} else if res != nil {
		t.Fatalf("expected no match when c is not at end, got %v", res.Slots)
	}
}

func TestSearchCharClassAndRange(t *testing.T) {
	m := compileVM(t, "[a-c]+", 0)
	res, err := m.Search([]byte("xxabcx"), 0, false)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil || res.Slots[0] != 2 || res.Slots[1] != 5 {
		t.Fatalf("slots = %v, want [2 5]", res.Slots)
	}
}

func TestSearchNegatedCharClass(t *testing.T) {
	m := compileVM(t, "[^0-9]+", 0)
	res, err := m.Search([]byte("123abc456"), 0, false)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res == nil || res.Slots[0] != 3 || res.Slots[1] != 6 {
		t.Fatalf("slots = %v, want [3 6]", res.Slots)
	}
}
