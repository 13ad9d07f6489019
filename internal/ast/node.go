// Package ast builds an abstract syntax tree from a tokenized bregex
// pattern. Nodes reference each other by integer index into two
// parallel arenas rather than by pointer, so the whole tree can be
// freed in bulk once the compiler has lowered it (see Arena).
package ast

import "fmt"

// Kind discriminates the AST node variants of spec.md §3. Node is a
// tagged struct rather than an interface, mirroring the teacher's
// nfa.State/StateKind design: one flat type, a Kind field, and payload
// fields that are only meaningful for certain kinds.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindDigit
	KindWhitespace
	KindWord
	KindWildcard
	KindRange
	KindList
	KindAlternation
	KindGroup
	KindZeroOrOne
	KindZeroOrMore
	KindOneOrMore
	KindEndOfInput
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindDigit:
		return "digit"
	case KindWhitespace:
		return "whitespace"
	case KindWord:
		return "word"
	case KindWildcard:
		return "wildcard"
	case KindRange:
		return "range"
	case KindList:
		return "list"
	case KindAlternation:
		return "alternation"
	case KindGroup:
		return "group"
	case KindZeroOrOne:
		return "zero_or_one"
	case KindZeroOrMore:
		return "zero_or_more"
	case KindOneOrMore:
		return "one_or_more"
	case KindEndOfInput:
		return "end_of_input"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Node is one AST node. Which fields are meaningful depends on Kind —
// see the table in spec.md §3.
type Node struct {
	Kind Kind

	// KindLiteral, KindRange (low bound)
	Byte byte
	// KindRange (high bound)
	ByteHi byte

	// KindDigit, KindWhitespace, KindWord, KindList
	Negate bool

	// KindList, KindGroup: node_lists index of the children.
	// KindAlternation: node_lists index of the left branch.
	ListIndex int
	// KindAlternation: node_lists index of the right branch.
	AltRightIndex int

	// KindGroup: dense, zero-based capture-group number.
	GroupIndex int

	// KindZeroOrOne, KindZeroOrMore, KindOneOrMore
	Greedy      bool
	OrphanIndex int
}

// String renders a node for debug tracing (bregex.DebugConfig).
func (n Node) String() string {
	switch n.Kind {
	case KindLiteral:
		return fmt.Sprintf("literal(%q)", n.Byte)
	case KindDigit, KindWhitespace, KindWord:
		return fmt.Sprintf("%s(negate=%v)", n.Kind, n.Negate)
	case KindWildcard:
		return "wildcard"
	case KindRange:
		return fmt.Sprintf("range(%q,%q)", n.Byte, n.ByteHi)
	case KindList:
		return fmt.Sprintf("list(nodes=%d, negate=%v)", n.ListIndex, n.Negate)
	case KindAlternation:
		return fmt.Sprintf("alternation(left=%d, right=%d)", n.ListIndex, n.AltRightIndex)
	case KindGroup:
		return fmt.Sprintf("group(%d, nodes=%d)", n.GroupIndex, n.ListIndex)
	case KindZeroOrOne, KindZeroOrMore, KindOneOrMore:
		return fmt.Sprintf("%s(greedy=%v, orphan=%d)", n.Kind, n.Greedy, n.OrphanIndex)
	case KindEndOfInput:
		return "end_of_input"
	default:
		return "invalid"
	}
}
