package ast

import (
	"github.com/bregex/bregex/internal/token"
)

// ParseState is the parser's mutable per-scope context, pushed and
// popped around `(...)` and `[...]` exactly as spec.md §4.2 describes.
type ParseState struct {
	InAlternation    bool
	InList           bool
	IsNegative       bool
	AlternationIndex int
	GroupIndex       int
	Nodes            int // node_lists index new children are appended to
}

// Parser is a left-to-right, single-pass, state-stack parser. It never
// backtracks over tokens: each token is consumed exactly once.
type Parser struct {
	pattern        string
	stream         *token.Stream
	arena          *Arena
	current        ParseState
	stack          []ParseState
	nextGroupIndex int
}

// Parse tokenizes and parses pattern, returning the backing Arena, the
// node_lists index of the top-level child sequence, and the number of
// capture groups encountered (dense, zero-based).
//
// Resolved design decision: `^` outside a character class is parsed as
// a literal byte, not an anchor — spec.md §6 states this explicitly
// ("`^` is not currently an anchor outside a class"); spec.md §9 only
// flags it as worth recording, not as undecided.
func Parse(pattern []byte) (*Arena, int, int, error) {
	stream, err := token.Tokenize(pattern)
	if err != nil {
		return nil, 0, 0, &ParseError{Pattern: string(pattern), Err: err}
	}

	arena := &Arena{}
	root := arena.NewList()
	p := &Parser{
		pattern: string(pattern),
		stream:  stream,
		arena:   arena,
		current: ParseState{Nodes: root},
	}

	if err := p.run(); err != nil {
		return nil, 0, 0, err
	}
	if len(p.stack) != 0 {
		return nil, 0, 0, p.errorf(ErrOutOfBounds)
	}

	return arena, root, p.nextGroupIndex, nil
}

func (p *Parser) errorf(kind error) error {
	return &ParseError{Pattern: p.pattern, Err: kind}
}

func (p *Parser) run() error {
	for {
		tok, ok := p.stream.Consume()
		if !ok {
			break
		}
		if p.current.InList {
			if err := p.handleListToken(tok); err != nil {
				return err
			}
			continue
		}
		if err := p.handleTopToken(tok); err != nil {
			return err
		}
	}
	return nil
}

// handleTopToken dispatches a token outside of a character class.
func (p *Parser) handleTopToken(tok token.Token) error {
	switch tok.Kind {
	case token.KindLiteral, token.KindDash, token.KindCaret:
		p.appendAndWrap(Node{Kind: KindLiteral, Byte: tok.Value})
		return nil

	case token.KindDollar:
		p.appendAndWrap(Node{Kind: KindEndOfInput})
		return nil

	case token.KindWildcard:
		p.appendAndWrap(Node{Kind: KindWildcard})
		return nil

	case token.KindEscaped:
		n, err := p.escapeNode(tok)
		if err != nil {
			return err
		}
		p.appendAndWrap(n)
		return nil

	case token.KindLSquare:
		return p.openList()

	case token.KindRSquare:
		return p.errorf(ErrSyntax)

	case token.KindLParen:
		p.openGroup()
		return nil

	case token.KindRParen:
		return p.closeGroup()

	case token.KindAlternation:
		p.handleAlternation()
		return nil

	case token.KindZeroOrOne, token.KindZeroOrMore, token.KindOneOrMore:
		// Quantifiers are only ever consumed via the post-atom lookahead
		// in appendAndWrap/closeGroup/closeList; one reaching the main
		// dispatch does not directly follow an atom (it starts the
		// pattern or scope, or follows another quantifier).
		return p.errorf(ErrSyntax)

	default:
		return p.errorf(ErrSyntax)
	}
}

// escapeNode interprets a KindEscaped token per spec.md §4.2.
func (p *Parser) escapeNode(tok token.Token) (Node, error) {
	switch tok.Value {
	case 'd':
		return Node{Kind: KindDigit}, nil
	case 'D':
		return Node{Kind: KindDigit, Negate: true}, nil
	case 's':
		return Node{Kind: KindWhitespace}, nil
	case 'S':
		return Node{Kind: KindWhitespace, Negate: true}, nil
	case 'w':
		return Node{Kind: KindWord}, nil
	case 'W':
		return Node{Kind: KindWord, Negate: true}, nil
	case 'x':
		b := p.consumeHexByte()
		return Node{Kind: KindLiteral, Byte: b}, nil
	default:
		return Node{Kind: KindLiteral, Byte: tok.Value}, nil
	}
}

// consumeHexByte consumes one or two hex-digit tokens following `\x`.
// Missing digits default to '0', with a single present digit treated
// as the low nibble (per spec.md §4.2).
func (p *Parser) consumeHexByte() byte {
	var nibbles []byte
	for len(nibbles) < 2 {
		tok, ok := p.stream.Peek(0)
		if !ok || tok.Kind != token.KindLiteral {
			break
		}
		v, isHex := hexValue(tok.Value)
		if !isHex {
			break
		}
		p.stream.Consume()
		nibbles = append(nibbles, v)
	}
	switch len(nibbles) {
	case 0:
		return 0
	case 1:
		return nibbles[0]
	default:
		return nibbles[0]<<4 | nibbles[1]
	}
}

func hexValue(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// appendAndWrap appends n to the current scope and, if the next token
// is a quantifier, rewraps it per maybeWrapQuantifier.
func (p *Parser) appendAndWrap(n Node) {
	p.arena.Append(p.current.Nodes, n)
	p.maybeWrapQuantifier()
}

// maybeWrapQuantifier consumes a trailing `?`/`*`/`+` (optionally
// followed by `?` for the lazy form) and rewraps the node just
// appended to current.Nodes as a quantifier node whose sole child
// lives in the orphan arena.
func (p *Parser) maybeWrapQuantifier() {
	tok, ok := p.stream.Peek(0)
	if !ok {
		return
	}

	var kind Kind
	switch tok.Kind {
	case token.KindZeroOrOne:
		kind = KindZeroOrOne
	case token.KindZeroOrMore:
		kind = KindZeroOrMore
	case token.KindOneOrMore:
		kind = KindOneOrMore
	default:
		return
	}
	p.stream.Consume()

	greedy := true
	if next, ok := p.stream.Peek(0); ok && next.Kind == token.KindZeroOrOne {
		p.stream.Consume()
		greedy = false
	}

	child := p.arena.PopLast(p.current.Nodes)
	orphanIdx := p.arena.NewOrphan(child)
	p.arena.Append(p.current.Nodes, Node{Kind: kind, Greedy: greedy, OrphanIndex: orphanIdx})
}

// openList begins a `[...]` character class.
func (p *Parser) openList() error {
	p.stack = append(p.stack, p.current)
	newList := p.arena.NewList()
	p.current = ParseState{Nodes: newList, InList: true}

	if tok, ok := p.stream.Peek(0); ok && tok.Kind == token.KindCaret {
		p.stream.Consume()
		p.current.IsNegative = true
	}
	return nil
}

// handleListToken dispatches a token inside a character class.
func (p *Parser) handleListToken(tok token.Token) error {
	if tok.Kind == token.KindRSquare {
		return p.closeList()
	}

	if tok.Kind == token.KindEscaped {
		n, err := p.escapeNode(tok)
		if err != nil {
			return err
		}
		if n.Kind != KindLiteral {
			p.arena.Append(p.current.Nodes, n)
			return nil
		}
		return p.appendListByte(n.Byte)
	}

	// literal, dash, caret, dollar: all treated as a literal byte of
	// the class (spec.md §4.2).
	return p.appendListByte(tok.Value)
}

// appendListByte appends a single literal byte to the current class,
// first checking whether it begins a `byte-byte` range.
func (p *Parser) appendListByte(b byte) error {
	if dashTok, ok := p.stream.Peek(0); ok && dashTok.Kind == token.KindDash {
		if endTok, ok := p.stream.Peek(1); ok && endTok.Kind != token.KindRSquare {
			p.stream.Consume() // the dash
			p.stream.Consume() // the end token

			endByte, err := p.rangeEndByte(endTok)
			if err != nil {
				return err
			}
			if endByte < b {
				return p.errorf(ErrInvalidRange)
			}
			p.arena.Append(p.current.Nodes, Node{Kind: KindRange, Byte: b, ByteHi: endByte})
			return nil
		}
	}
	p.arena.Append(p.current.Nodes, Node{Kind: KindLiteral, Byte: b})
	return nil
}

// rangeEndByte resolves the end token of an `a-b` range to a literal
// byte value; `\d`/`\s`/`\w` shorthand cannot terminate a range.
func (p *Parser) rangeEndByte(tok token.Token) (byte, error) {
	if tok.Kind == token.KindEscaped {
		n, err := p.escapeNode(tok)
		if err != nil {
			return 0, err
		}
		if n.Kind != KindLiteral {
			return 0, p.errorf(ErrSyntax)
		}
		return n.Byte, nil
	}
	return tok.Value, nil
}

// closeList synthesizes the final `list` node and pops back to the
// enclosing scope.
func (p *Parser) closeList() error {
	if len(p.arena.Lists[p.current.Nodes]) == 0 {
		return p.errorf(ErrSyntax)
	}
	listNode := Node{Kind: KindList, ListIndex: p.current.Nodes, Negate: p.current.IsNegative}

	parent := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.current = parent

	p.appendAndWrap(listNode)
	return nil
}

// openGroup begins a `(...)` capturing group.
func (p *Parser) openGroup() {
	groupIndex := p.nextGroupIndex
	p.nextGroupIndex++

	p.stack = append(p.stack, p.current)
	newList := p.arena.NewList()
	p.current = ParseState{Nodes: newList, GroupIndex: groupIndex}
}

// closeGroup synthesizes the `group` node for the scope that `(`
// opened and pops back to the enclosing scope.
func (p *Parser) closeGroup() error {
	if len(p.stack) == 0 {
		return p.errorf(ErrSyntax)
	}

	src := p.current.Nodes
	if p.current.InAlternation {
		src = p.current.AlternationIndex
	}
	cloned := p.arena.CloneList(src)
	groupNode := Node{Kind: KindGroup, ListIndex: cloned, GroupIndex: p.current.GroupIndex}

	parent := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.current = parent

	p.appendAndWrap(groupNode)
	return nil
}

// handleAlternation implements the flat left-factoring scheme of
// spec.md §4.2: the scope's current tail list is turned in place into
// a single alternation node whose left branch is a clone of the tail's
// prior contents, and subsequent appends (including further `|`
// tokens) redirect to a fresh right branch.
func (p *Parser) handleAlternation() {
	tail := p.current.Nodes
	left := p.arena.CloneList(tail)
	right := p.arena.NewList()
	p.arena.Lists[tail] = []Node{{Kind: KindAlternation, ListIndex: left, AltRightIndex: right}}

	if !p.current.InAlternation {
		p.current.AlternationIndex = tail
		p.current.InAlternation = true
	}
	p.current.Nodes = right
}
