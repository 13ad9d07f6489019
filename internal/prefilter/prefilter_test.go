package prefilter

import "testing"

func TestBytePrefilterNextCandidate(t *testing.T) {
	pf, ok := NewPrefix([]byte("x"))
	if !ok {
		t.Fatal("expected a prefilter for 1-byte prefix")
	}
	idx, found := pf.NextCandidate([]byte("abcxdef"), 0)
	if !found || idx != 3 {
		t.Fatalf("NextCandidate = (%d,%v), want (3,true)", idx, found)
	}
	if _, found := pf.NextCandidate([]byte("abcdef"), 0); found {
		t.Fatal("expected no candidate")
	}
}

func TestPrefixPrefilterNextCandidate(t *testing.T) {
	pf, ok := NewPrefix([]byte("cat"))
	if !ok {
		t.Fatal("expected a prefilter for multi-byte prefix")
	}
	idx, found := pf.NextCandidate([]byte("the cat sat"), 0)
	if !found || idx != 4 {
		t.Fatalf("NextCandidate = (%d,%v), want (4,true)", idx, found)
	}
}

func TestNewPrefixEmptyReturnsNone(t *testing.T) {
	if _, ok := NewPrefix(nil); ok {
		t.Fatal("expected no prefilter for empty prefix")
	}
}

func TestAlternationPrefilterNextCandidate(t *testing.T) {
	pf, ok := NewAlternation([][]byte{[]byte("cat"), []byte("dog")})
	if !ok {
		t.Fatal("expected an alternation prefilter")
	}
	idx, found := pf.NextCandidate([]byte("I have a dog"), 0)
	if !found || idx != 9 {
		t.Fatalf("NextCandidate = (%d,%v), want (9,true)", idx, found)
	}
	if _, found := pf.NextCandidate([]byte("no matches here"), 0); found {
		t.Fatal("expected no candidate")
	}
}

func TestNewAlternationSingleLiteralDeclines(t *testing.T) {
	if _, ok := NewAlternation([][]byte{[]byte("only")}); ok {
		t.Fatal("expected NewAlternation to decline a single literal")
	}
}
