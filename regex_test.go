package bregex

import (
	"reflect"
	"testing"
)

func TestCompileInvalidPatternReturnsCompileError(t *testing.T) {
	_, err := Compile(`(abc`)
	if err == nil {
		t.Fatal("expected an error for an unclosed group")
	}
	var ce *CompileError
	if _, ok := err.(*CompileError); !ok {
		t.Fatalf("err = %T, want *CompileError (%v)", err, ce)
	}
}

func TestMustCompilePanicsOnInvalidPattern(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected MustCompile to panic")
		}
	}()
	MustCompile(`[`)
}

func TestMatchAndMatchString(t *testing.T) {
	re := MustCompile(`\d+`)
	if !re.Match([]byte("age: 42")) {
		t.Fatal("expected a match")
	}
	if re.MatchString("no digits here") {
		t.Fatal("expected no match")
	}
}

func TestFindAndFindString(t *testing.T) {
	re := MustCompile(`\d+`)
	if got := re.FindString("age: 42!"); got != "42" {
		t.Fatalf("FindString = %q, want 42", got)
	}
	if got := re.Find([]byte("no digits")); got != nil {
		t.Fatalf("Find = %q, want nil", got)
	}
}

func TestFindIndex(t *testing.T) {
	re := MustCompile(`\d+`)
	loc := re.FindIndex([]byte("age: 42"))
	if !reflect.DeepEqual(loc, []int{5, 7}) {
		t.Fatalf("FindIndex = %v, want [5 7]", loc)
	}
}

func TestFindAllString(t *testing.T) {
	re := MustCompile(`\d+`)
	got := re.FindAllString("1 22 333", -1)
	want := []string{"1", "22", "333"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindAllString = %v, want %v", got, want)
	}
}

func TestFindAllStringWithLimit(t *testing.T) {
	re := MustCompile(`\d+`)
	got := re.FindAllString("1 22 333", 2)
	want := []string{"1", "22"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindAllString(n=2) = %v, want %v", got, want)
	}
}

func TestFindSubmatchAndGroups(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)`)
	got := re.FindStringSubmatch("user@example")
	want := []string{"user@example", "user", "example"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindStringSubmatch = %v, want %v", got, want)
	}
}

func TestFindSubmatchIndexUnmatchedGroup(t *testing.T) {
	re := MustCompile(`(a)|(b)`)
	idx := re.FindSubmatchIndex([]byte("b"))
	// idx layout: [start,end, g1start,g1end, g2start,g2end]
	if idx[2] != -1 || idx[3] != -1 {
		t.Fatalf("group 1 should be unmatched, got %v", idx)
	}
	if idx[4] != 0 || idx[5] != 1 {
		t.Fatalf("group 2 = %v, want [0 1]", idx[4:6])
	}
}

func TestNumSubexp(t *testing.T) {
	re := MustCompile(`(a)(b(c))`)
	if got := re.NumSubexp(); got != 3 {
		t.Fatalf("NumSubexp = %d, want 3", got)
	}
}

func TestStringReturnsSourcePattern(t *testing.T) {
	re := MustCompile(`\d+`)
	if re.String() != `\d+` {
		t.Fatalf("String() = %q", re.String())
	}
}

func TestPrefilterDoesNotChangeMatchResult(t *testing.T) {
	withPrefilter, err := Compile(`needle`)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.EnablePrefilter = false
	withoutPrefilter, err := CompileWithConfig(`needle`, cfg)
	if err != nil {
		t.Fatal(err)
	}

	haystack := "hay hay hay needle hay"
	a := withPrefilter.FindIndex([]byte(haystack))
	b := withoutPrefilter.FindIndex([]byte(haystack))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("prefilter changed the result: with=%v without=%v", a, b)
	}
}

func TestAlternationPrefilterDoesNotChangeMatchResult(t *testing.T) {
	re := MustCompile(`cat|dog|bird`)
	got := re.FindString("I have a dog and a cat")
	if got != "dog" {
		t.Fatalf("FindString = %q, want dog (leftmost)", got)
	}
}

func TestMaxStepsExceededSurfacesViaFindMatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSteps = 3
	re, err := CompileWithConfig(`a*`, cfg)
	if err != nil {
		t.Fatal(err)
	}
	_, err = re.FindMatch([]byte("aaaaaaaaaaaaaaaaaaaa"), 0)
	if err != ErrStepLimitExceeded {
		t.Fatalf("err = %v, want ErrStepLimitExceeded", err)
	}
}

func TestDebugTraceIsPopulatedWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug.Trace = true
	re, err := CompileWithConfig(`ab`, cfg)
	if err != nil {
		t.Fatal(err)
	}
	m, err := re.FindMatch([]byte("ab"), 0)
	if err != nil || m == nil {
		t.Fatalf("expected a match, err=%v", err)
	}
	if len(m.Trace()) == 0 {
		t.Fatal("expected a non-empty trace")
	}
}

func TestDebugTraceIsNilWhenDisabled(t *testing.T) {
	re := MustCompile(`ab`)
	m, err := re.FindMatch([]byte("ab"), 0)
	if err != nil || m == nil {
		t.Fatalf("expected a match, err=%v", err)
	}
	if m.Trace() != nil {
		t.Fatal("expected a nil trace when Debug.Trace is disabled")
	}
}

// group describes one expected capture group in a scenario below: Abs
// is true when the group is expected to have not participated.
type group struct {
	Abs bool
	Val string
}

func TestEndToEndScenarios(t *testing.T) {
	present := func(s string) group { return group{Val: s} }
	absent := group{Abs: true}

	tests := []struct {
		name    string
		pattern string
		input   string
		want    string
		groups  []group
	}{
		{
			name:    "literal",
			pattern: `a`,
			input:   "a",
			want:    "a",
		},
		{
			name:    "one_or_more_greedy",
			pattern: `a+`,
			input:   "aaaaaaa",
			want:    "aaaaaaa",
		},
		{
			name:    "optional_alternation_absent",
			pattern: `(a|b)?c`,
			input:   "c",
			want:    "c",
			groups:  []group{absent},
		},
		{
			name:    "nested_groups",
			pattern: `((.).)`,
			input:   "ab",
			want:    "ab",
			groups:  []group{present("ab"), present("a")},
		},
		{
			name:    "anchored_hex_literal_match",
			pattern: `0x[0-9a-f]+$`,
			input:   "0xdeadbeef",
			want:    "0xdeadbeef",
		},
		{
			name:    "lazy_one_or_more_in_tag",
			pattern: `<(.+?)>`,
			input:   "<html>xyz</html>",
			want:    "<html>",
			groups:  []group{present("html")},
		},
		{
			name:    "nested_zero_width_loop",
			pattern: `(a*)*`,
			input:   "aaaa",
			want:    "aaaa",
			groups:  []group{present("aaaa")},
		},
		{
			name:    "nested_zero_width_loop_empty_input",
			pattern: `(a*)*`,
			input:   "",
			want:    "",
			groups:  []group{absent},
		},
		{
			name:    "digits_then_wildcard_group",
			pattern: `\d+(...)`,
			input:   "12345abc",
			want:    "12345abc",
			groups:  []group{present("abc")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			re := MustCompile(tc.pattern)
			m, err := re.FindMatch([]byte(tc.input), 0)
			if err != nil {
				t.Fatalf("FindMatch error: %v", err)
			}
			if m == nil {
				t.Fatalf("expected a match for %q on %q", tc.pattern, tc.input)
			}
			if got := string(m.Whole()); got != tc.want {
				t.Fatalf("Whole() = %q, want %q", got, tc.want)
			}
			for i, g := range tc.groups {
				start, end, ok := m.GroupIndex(i + 1)
				if g.Abs {
					if ok {
						t.Fatalf("group %d = [%d,%d) %q, want absent", i+1, start, end, m.Group(i+1))
					}
					continue
				}
				if !ok {
					t.Fatalf("group %d absent, want %q", i+1, g.Val)
				}
				if got := string(m.Group(i + 1)); got != g.Val {
					t.Fatalf("group %d = %q, want %q", i+1, got, g.Val)
				}
			}
		})
	}
}

func TestUnanchoredHexLiteralNoMatch(t *testing.T) {
	re := MustCompile(`0x[0-9a-f]+$`)
	if re.MatchString("0xcodecafe") {
		t.Fatal("expected no match: 'o' is not a hex digit")
	}
}

func TestListAndAlternationMatchSameBytes(t *testing.T) {
	list := MustCompile(`[abc]`)
	alt := MustCompile(`a|b|c`)
	for _, b := range []string{"a", "b", "c", "d", "", "z"} {
		gotList := list.MatchString(b)
		gotAlt := alt.MatchString(b)
		if gotList != gotAlt {
			t.Fatalf("input %q: [abc]=%v a|b|c=%v, want equal", b, gotList, gotAlt)
		}
	}
}
