package bregex

import "github.com/bregex/bregex/internal/vm"

// Match holds the result of a successful search: the whole-match span
// and every capture group's span, plus an execution trace when the
// Regex was compiled with Config.Debug.Trace set.
type Match struct {
	haystack []byte
	slots    []int
	trace    []vm.TraceEntry
}

// Whole returns the bytes of the entire match.
func (m *Match) Whole() []byte {
	return m.haystack[m.slots[0]:m.slots[1]]
}

// Start returns the byte offset where the whole match begins.
func (m *Match) Start() int {
	return m.slots[0]
}

// End returns the byte offset one past the end of the whole match.
func (m *Match) End() int {
	return m.slots[1]
}

// NumGroups returns the number of explicit capture groups (not
// counting the whole match).
func (m *Match) NumGroups() int {
	return len(m.slots)/2 - 1
}

// Group returns the bytes captured by group n (1-based; group 0 is
// the whole match, equivalent to Whole). It returns nil if the group
// did not participate in the match.
func (m *Match) Group(n int) []byte {
	start, end, ok := m.GroupIndex(n)
	if !ok {
		return nil
	}
	return m.haystack[start:end]
}

// GroupIndex returns the byte offsets of group n (1-based; 0 is the
// whole match), and whether that group participated in the match.
func (m *Match) GroupIndex(n int) (start, end int, ok bool) {
	if n < 0 || n > m.NumGroups() {
		return 0, 0, false
	}
	start, end = m.slots[2*n], m.slots[2*n+1]
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// Groups returns the bytes of every explicit capture group (1-based),
// with a nil entry for a group that did not participate.
func (m *Match) Groups() [][]byte {
	out := make([][]byte, m.NumGroups())
	for i := range out {
		out[i] = m.Group(i + 1)
	}
	return out
}

// Trace returns the sequence of VM ops evaluated while producing this
// match, or nil if the Regex was not compiled with Config.Debug.Trace.
func (m *Match) Trace() []string {
	if m.trace == nil {
		return nil
	}
	lines := make([]string, len(m.trace))
	for i, e := range m.trace {
		lines[i] = e.Op
	}
	return lines
}

// FindMatch returns the leftmost match of the pattern in b at or
// after from, or nil if none exists. err is non-nil only when
// Config.MaxSteps was set and exhausted before a decision was
// reached.
func (r *Regex) FindMatch(b []byte, from int) (*Match, error) {
	res, trail, err := r.search(b, from)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	return &Match{haystack: b, slots: res.Slots, trace: trail}, nil
}

// Find returns the bytes of the leftmost match in b, or nil if none
// is found. A step-limit failure (see Config.MaxSteps) is reported as
// no match; use FindMatch to distinguish the two.
func (r *Regex) Find(b []byte) []byte {
	m, err := r.FindMatch(b, 0)
	if err != nil || m == nil {
		return nil
	}
	return m.Whole()
}

// FindString is Find for a string argument.
func (r *Regex) FindString(s string) string {
	b := r.Find([]byte(s))
	if b == nil {
		return ""
	}
	return string(b)
}

// FindIndex returns the [start, end) byte offsets of the leftmost
// match in b, or nil if none is found.
func (r *Regex) FindIndex(b []byte) []int {
	m, err := r.FindMatch(b, 0)
	if err != nil || m == nil {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// FindStringIndex is FindIndex for a string argument.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindSubmatch returns the whole match and every capture group's
// bytes, or nil if no match was found. Result[0] is the whole match;
// result[i] is the ith capture group (1-based), nil if it did not
// participate.
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	m, err := r.FindMatch(b, 0)
	if err != nil || m == nil {
		return nil
	}
	out := make([][]byte, m.NumGroups()+1)
	out[0] = m.Whole()
	copy(out[1:], m.Groups())
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
		if g != nil {
			out[i] = string(g)
		}
	}
	return out
}

// FindSubmatchIndex returns the [start, end) byte offset pairs for
// the whole match and every capture group, flattened as
// result[2*i:2*i+2]. An unmatched group has [-1, -1].
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	m, err := r.FindMatch(b, 0)
	if err != nil || m == nil {
		return nil
	}
	return append([]int(nil), m.slots...)
}

// FindStringSubmatchIndex is FindSubmatchIndex for a string argument.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}

// FindAll returns the bytes of every non-overlapping match in b, in
// order. If n >= 0, at most n matches are returned.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}
	var out [][]byte
	pos := 0
	for pos <= len(b) {
		m, err := r.FindMatch(b, pos)
		if err != nil || m == nil {
			break
		}
		out = append(out, m.Whole())
		if m.End() > pos {
			pos = m.End()
		} else {
			pos++
		}
		if n > 0 && len(out) >= n {
			break
		}
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
