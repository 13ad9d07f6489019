// Package vm executes a compiled bregex program against a byte slice.
// The executor is a non-recursive backtracking machine: an explicit
// stack of saved alternatives (pushed at every split) stands in for
// the call stack a recursive matcher would use, so pathological
// patterns never overflow Go's goroutine stack; when a step budget is
// set (see New) they fail by returning ErrStepLimitExceeded, and
// without one they run until the search completes. This mirrors the shape of the
// teacher's pikevm thread list (nfa/pikevm.go), adapted from a
// breadth-first Thompson simulation to the single-path backtracking
// walk spec.md requires.
package vm

import (
	"errors"

	"github.com/bregex/bregex/internal/compiler"
)

// ErrStepLimitExceeded is returned when a Config.MaxSteps budget (if
// set) is exhausted before a match decision is reached.
var ErrStepLimitExceeded = errors.New("vm: step limit exceeded")

// Result is the outcome of a successful match: byte offsets into the
// searched haystack. Slots holds 2 entries per capture group plus the
// 2 entries for the whole match (slots[0], slots[1]), using -1 for a
// group that did not participate.
type Result struct {
	Slots []int
}

// TraceEntry is one executed op, recorded when Search is run with
// trace enabled (bregex.DebugConfig.Trace).
type TraceEntry struct {
	Block int
	PC    int
	Pos   int
	Op    string
}

// state is the mutable, copy-on-write part of a thread: its capture
// slots and its zero-width-loop progress table. Two threads forked
// from the same split share one *state until either writes to it.
type state struct {
	caps     []int
	progress []int
}

func newState(numSlots, numProgress int) *state {
	s := &state{
		caps:     make([]int, numSlots),
		progress: make([]int, numProgress),
	}
	for i := range s.caps {
		s.caps[i] = -1
	}
	for i := range s.progress {
		s.progress[i] = -1
	}
	return s
}

func (s *state) clone() *state {
	caps := make([]int, len(s.caps))
	copy(caps, s.caps)
	progress := make([]int, len(s.progress))
	copy(progress, s.progress)
	return &state{caps: caps, progress: progress}
}

// thread is one point in the search: a program counter (block, pc), a
// haystack offset, and a possibly-shared state.
type thread struct {
	block int
	pc    int
	pos   int
	st    *state
	owns  bool // true once st is exclusively this thread's to mutate
}

// own returns a state this thread may safely mutate in place, cloning
// first if it is still shared with another thread from a prior split
// (the lazy clone-from-nearest-copied-ancestor discipline).
func (t *thread) own() *state {
	if !t.owns {
		t.st = t.st.clone()
		t.owns = true
	}
	return t.st
}

// VM executes one compiled Program against a haystack.
type VM struct {
	prog     *compiler.Program
	maxSteps int // 0 means unbounded
}

// New builds a VM for prog. maxSteps bounds the number of op
// evaluations per Search call; 0 disables the bound.
func New(prog *compiler.Program, maxSteps int) *VM {
	return &VM{prog: prog, maxSteps: maxSteps}
}

// outcome is what running one op against the current thread produced.
type outcome uint8

const (
	outcomeAdvance outcome = iota
	outcomeFail
	outcomeMatched
	outcomeSplit
)

// Search finds the leftmost match of the VM's program in haystack at
// or after from. If anchored is true, only a match starting exactly
// at from is considered. It returns (nil, nil) when no match exists
// and (nil, ErrStepLimitExceeded) when the step budget runs out first.
//
// The search loop is the four-way unwind of spec.md §4.4 collapsed
// into an explicit state machine: on failure it (1) pops the most
// recent saved split alternative, or (2) if the pattern is unanchored
// and haystack remains, advances match_from_index and starts a fresh
// attempt, or (3) reports no match.
func (m *VM) Search(haystack []byte, from int, anchored bool) (*Result, error) {
	res, _, err := m.SearchTraced(haystack, from, anchored, false)
	return res, err
}

// SearchTraced is Search with optional per-op tracing for
// bregex.DebugConfig.Trace. When trace is false the returned slice is
// always nil and no tracing overhead is incurred beyond the check.
func (m *VM) SearchTraced(haystack []byte, from int, anchored bool, trace bool) (*Result, []TraceEntry, error) {
	numSlots := 2 * (m.prog.NumGroups + 1)
	matchFrom := from

	var backtrack []thread
	var trail []TraceEntry
	cur := m.freshAttempt(matchFrom, numSlots)

	steps := 0
	for {
		if m.maxSteps > 0 {
			steps++
			if steps > m.maxSteps {
				return nil, trail, ErrStepLimitExceeded
			}
		}

		op := m.prog.Blocks[cur.block][cur.pc]
		if trace {
			trail = append(trail, TraceEntry{Block: cur.block, PC: cur.pc, Pos: cur.pos, Op: op.String()})
		}

		switch out, splitA, splitB := m.step(&cur, op, haystack); out {
		case outcomeMatched:
			st := cur.own()
			st.caps[1] = cur.pos
			return &Result{Slots: st.caps}, trail, nil

		case outcomeSplit:
			backtrack = append(backtrack, thread{block: splitB, pc: 0, pos: cur.pos, st: cur.st, owns: false})
			cur.owns = false
			cur.block = splitA
			cur.pc = 0

		case outcomeAdvance:
			// cur already updated in place by step.

		case outcomeFail:
			if len(backtrack) > 0 {
				cur = backtrack[len(backtrack)-1]
				backtrack = backtrack[:len(backtrack)-1]
				continue
			}
			if !anchored && matchFrom < len(haystack) {
				matchFrom++
				backtrack = backtrack[:0]
				cur = m.freshAttempt(matchFrom, numSlots)
				continue
			}
			return nil, trail, nil
		}
	}
}

func (m *VM) freshAttempt(pos int, numSlots int) thread {
	st := newState(numSlots, m.prog.NumProgress)
	st.caps[0] = pos
	return thread{block: 0, pc: 0, pos: pos, st: st, owns: true}
}

// step executes a single op against cur, consuming one byte of
// haystack for content ops. For OpSplit it reports both targets
// rather than mutating cur, leaving the caller to decide how to
// thread the saved alternative onto its backtrack stack.
func (m *VM) step(cur *thread, op compiler.Op, haystack []byte) (outcome, int, int) {
	switch op.Kind {
	case compiler.OpChar:
		if cur.pos >= len(haystack) || haystack[cur.pos] != op.Byte {
			return outcomeFail, 0, 0
		}
		cur.pos++
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpWildcard:
		if cur.pos >= len(haystack) {
			return outcomeFail, 0, 0
		}
		cur.pos++
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpRange:
		if cur.pos >= len(haystack) {
			return outcomeFail, 0, 0
		}
		b := haystack[cur.pos]
		if b < op.Byte || b > op.ByteHi {
			return outcomeFail, 0, 0
		}
		cur.pos++
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpWhitespace:
		return m.stepPredicate(cur, haystack, op.Negate, compiler.IsWhitespace)

	case compiler.OpWord:
		return m.stepPredicate(cur, haystack, op.Negate, compiler.IsWord)

	case compiler.OpDigit:
		return m.stepPredicate(cur, haystack, op.Negate, compiler.IsDigit)

	case compiler.OpList:
		if cur.pos >= len(haystack) {
			return outcomeFail, 0, 0
		}
		b := haystack[cur.pos]
		matched := false
		for _, item := range m.prog.CharClasses[op.ListIndex] {
			if item.Matches(b) {
				matched = true
				break
			}
		}
		if matched == op.Negate {
			return outcomeFail, 0, 0
		}
		cur.pos++
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpEndOfInput:
		if cur.pos != len(haystack) {
			return outcomeFail, 0, 0
		}
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpStartOfInput:
		if cur.pos != 0 {
			return outcomeFail, 0, 0
		}
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpStartCapture:
		st := cur.own()
		st.caps[2*op.Group+2] = cur.pos
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpEndCapture:
		st := cur.own()
		st.caps[2*op.Group+3] = cur.pos
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpJump:
		cur.block = op.Target
		cur.pc = 0
		return outcomeAdvance, 0, 0

	case compiler.OpSplit:
		return outcomeSplit, op.SplitA, op.SplitB

	case compiler.OpProgress:
		st := cur.own()
		if st.progress[op.ProgressID] == cur.pos {
			return outcomeFail, 0, 0
		}
		st.progress[op.ProgressID] = cur.pos
		cur.pc++
		return outcomeAdvance, 0, 0

	case compiler.OpEnd:
		return outcomeMatched, 0, 0

	default:
		return outcomeFail, 0, 0
	}
}

func (m *VM) stepPredicate(cur *thread, haystack []byte, negate bool, pred func(byte) bool) (outcome, int, int) {
	if cur.pos >= len(haystack) {
		return outcomeFail, 0, 0
	}
	if pred(haystack[cur.pos]) == negate {
		return outcomeFail, 0, 0
	}
	cur.pos++
	cur.pc++
	return outcomeAdvance, 0, 0
}
