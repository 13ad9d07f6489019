package compiler

import (
	"github.com/bregex/bregex/internal/ast"
	"github.com/bregex/bregex/internal/conv"
	"github.com/bregex/bregex/internal/sparse"
)

// compiler accumulates the block and character-class arenas during a
// single post-order lowering pass. A fresh block is allocated by
// append, mirroring the teacher's nfa.Builder.states growth pattern.
type compiler struct {
	blocks      []Block
	charClasses [][]ListItem
	nextProgress int
}

// Compile lowers the AST rooted at node_lists index root (built by
// ast.Parse) into a Program. numGroups is the dense capture-group
// count the parser reported.
func Compile(arena *ast.Arena, root int, numGroups int) *Program {
	c := &compiler{}
	entry := c.createBlock()
	term := c.compileList(arena, root, entry)
	c.appendOp(term, Op{Kind: OpEnd})
	c.coalesceJumps()

	return &Program{
		Blocks:      c.blocks,
		CharClasses: c.charClasses,
		NumGroups:   numGroups,
		NumProgress: c.nextProgress,
	}
}

func (c *compiler) createBlock() int {
	c.blocks = append(c.blocks, nil)
	return len(c.blocks) - 1
}

func (c *compiler) createCharClass() int {
	c.charClasses = append(c.charClasses, nil)
	return len(c.charClasses) - 1
}

func (c *compiler) appendOp(block int, op Op) {
	c.blocks[block] = append(c.blocks[block], op)
}

// compileList lowers every node of the list at listIdx in sequence,
// threading the terminal block of one node into the next (spec.md
// §4.3 "regex(children)").
func (c *compiler) compileList(arena *ast.Arena, listIdx int, cur int) int {
	for _, n := range arena.Lists[listIdx] {
		cur = c.compileNode(arena, n, cur)
	}
	return cur
}

// compileNode lowers a single AST node starting at block cur and
// returns the block where control flow continues after it. Each case
// implements the corresponding lowering rule of spec.md §4.3 exactly.
func (c *compiler) compileNode(arena *ast.Arena, n ast.Node, cur int) int {
	switch n.Kind {
	case ast.KindLiteral:
		c.appendOp(cur, Op{Kind: OpChar, Byte: n.Byte})
		return cur

	case ast.KindDigit:
		c.appendOp(cur, Op{Kind: OpDigit, Negate: n.Negate})
		return cur

	case ast.KindWhitespace:
		c.appendOp(cur, Op{Kind: OpWhitespace, Negate: n.Negate})
		return cur

	case ast.KindWord:
		c.appendOp(cur, Op{Kind: OpWord, Negate: n.Negate})
		return cur

	case ast.KindWildcard:
		c.appendOp(cur, Op{Kind: OpWildcard})
		return cur

	case ast.KindRange:
		c.appendOp(cur, Op{Kind: OpRange, Byte: n.Byte, ByteHi: n.ByteHi})
		return cur

	case ast.KindEndOfInput:
		c.appendOp(cur, Op{Kind: OpEndOfInput})
		return cur

	case ast.KindList:
		return c.compileClass(arena, n, cur)

	case ast.KindGroup:
		return c.compileGroup(arena, n, cur)

	case ast.KindAlternation:
		return c.compileAlternation(arena, n, cur)

	case ast.KindOneOrMore:
		return c.compileOneOrMore(arena, n, cur)

	case ast.KindZeroOrOne:
		return c.compileZeroOrOne(arena, n, cur)

	case ast.KindZeroOrMore:
		return c.compileZeroOrMore(arena, n, cur)

	default:
		panic("compiler: unhandled AST node kind " + n.Kind.String())
	}
}

func (c *compiler) compileClass(arena *ast.Arena, n ast.Node, cur int) int {
	next := c.createBlock()
	idx := c.createCharClass()
	for _, child := range arena.Lists[n.ListIndex] {
		var item ListItem
		switch child.Kind {
		case ast.KindLiteral:
			item = ListItem{Kind: ItemChar, Byte: child.Byte}
		case ast.KindRange:
			item = ListItem{Kind: ItemRange, Byte: child.Byte, ByteHi: child.ByteHi}
		case ast.KindDigit:
			item = ListItem{Kind: ItemDigit, Negate: child.Negate}
		case ast.KindWhitespace:
			item = ListItem{Kind: ItemWhitespace, Negate: child.Negate}
		case ast.KindWord:
			item = ListItem{Kind: ItemWord, Negate: child.Negate}
		default:
			panic("compiler: illegal character class member " + child.Kind.String())
		}
		c.charClasses[idx] = append(c.charClasses[idx], item)
	}
	c.appendOp(cur, Op{Kind: OpList, ListIndex: idx, Negate: n.Negate})
	c.appendOp(cur, Op{Kind: OpJump, Target: next})
	return next
}

func (c *compiler) compileGroup(arena *ast.Arena, n ast.Node, cur int) int {
	content := c.createBlock()
	endCap := c.createBlock()
	next := c.createBlock()

	c.appendOp(cur, Op{Kind: OpStartCapture, Group: n.GroupIndex})
	c.appendOp(cur, Op{Kind: OpJump, Target: content})

	term := c.compileList(arena, n.ListIndex, content)
	c.appendOp(term, Op{Kind: OpJump, Target: endCap})

	c.appendOp(endCap, Op{Kind: OpEndCapture, Group: n.GroupIndex})
	c.appendOp(endCap, Op{Kind: OpJump, Target: next})
	return next
}

func (c *compiler) compileAlternation(arena *ast.Arena, n ast.Node, cur int) int {
	next := c.createBlock()
	left := c.createBlock()
	right := c.createBlock()

	termL := c.compileList(arena, n.ListIndex, left)
	c.appendOp(termL, Op{Kind: OpJump, Target: next})

	termR := c.compileList(arena, n.AltRightIndex, right)
	c.appendOp(termR, Op{Kind: OpJump, Target: next})

	c.appendOp(cur, Op{Kind: OpSplit, SplitA: left, SplitB: right})
	return next
}

func (c *compiler) compileOneOrMore(arena *ast.Arena, n ast.Node, cur int) int {
	child := arena.Orphans[n.OrphanIndex]

	content := c.createBlock()
	termC := c.compileNode(arena, child, content)
	c.appendOp(cur, Op{Kind: OpJump, Target: content})

	loop := c.createBlock()
	c.appendOp(termC, Op{Kind: OpJump, Target: loop})

	next := c.createBlock()
	if n.Greedy {
		c.appendOp(loop, Op{Kind: OpSplit, SplitA: content, SplitB: next})
	} else {
		c.appendOp(loop, Op{Kind: OpSplit, SplitA: next, SplitB: content})
	}
	return next
}

func (c *compiler) compileZeroOrOne(arena *ast.Arena, n ast.Node, cur int) int {
	child := arena.Orphans[n.OrphanIndex]

	q := c.createBlock()
	content := c.createBlock()
	next := c.createBlock()

	c.appendOp(cur, Op{Kind: OpJump, Target: q})
	if n.Greedy {
		c.appendOp(q, Op{Kind: OpSplit, SplitA: content, SplitB: next})
	} else {
		c.appendOp(q, Op{Kind: OpSplit, SplitA: next, SplitB: content})
	}

	termC := c.compileNode(arena, child, content)
	c.appendOp(termC, Op{Kind: OpJump, Target: next})
	return next
}

func (c *compiler) compileZeroOrMore(arena *ast.Arena, n ast.Node, cur int) int {
	child := arena.Orphans[n.OrphanIndex]

	q := c.createBlock()
	content := c.createBlock()
	next := c.createBlock()

	c.appendOp(cur, Op{Kind: OpJump, Target: q})

	termC := c.compileNode(arena, child, content)
	c.appendOp(termC, Op{Kind: OpJump, Target: q})

	pid := c.nextProgress
	c.nextProgress++
	c.appendOp(q, Op{Kind: OpProgress, ProgressID: pid})
	if n.Greedy {
		c.appendOp(q, Op{Kind: OpSplit, SplitA: content, SplitB: next})
	} else {
		c.appendOp(q, Op{Kind: OpSplit, SplitA: next, SplitB: content})
	}
	return next
}

// coalesceJumps implements the jump-coalescing optimization of
// spec.md §4.3/§9: every block that consists of nothing but a single
// jump(x) is a candidate for elision, and every jump/split target is
// rewritten to chase through such blocks. Dead single-jump blocks are
// left in place, matching spec.md's explicit note that a post-pass
// compaction is optional.
func (c *compiler) coalesceJumps() {
	redirect := make(map[int]int)
	for i, b := range c.blocks {
		if len(b) == 1 && b[0].Kind == OpJump {
			redirect[i] = b[0].Target
		}
	}
	if len(redirect) == 0 {
		return
	}

	for i := range c.blocks {
		for j := range c.blocks[i] {
			op := &c.blocks[i][j]
			switch op.Kind {
			case OpJump:
				op.Target = chase(redirect, op.Target, len(c.blocks))
			case OpSplit:
				op.SplitA = chase(redirect, op.SplitA, len(c.blocks))
				op.SplitB = chase(redirect, op.SplitB, len(c.blocks))
			}
		}
	}
}

// chase follows the redirect chain starting at start until it reaches
// a block that isn't a bare single jump, using a SparseSet (the
// teacher's internal/sparse, adapted) to detect and break cycles
// rather than looping forever on a pathological jump ring.
func chase(redirect map[int]int, start int, numBlocks int) int {
	seen := sparse.NewSparseSet(conv.IntToUint32(numBlocks))
	cur := start
	for {
		next, ok := redirect[cur]
		if !ok {
			return cur
		}
		curID := conv.IntToUint32(cur)
		if seen.Contains(curID) {
			return cur
		}
		seen.Insert(curID)
		cur = next
	}
}
