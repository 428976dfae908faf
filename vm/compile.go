package vm

import (
	"fmt"

	"github.com/coregx/posixre/syntax"
)

// Compile lowers a syntax tree into a bytecode program.
//
// The whole tree is wrapped in an implicit capture (slots 0 and 1, group 0)
// and a single Accept is appended, so the returned program always reports
// the full match span. Compile trusts the parser's invariants; an
// unrecognized node is an internal error and panics.
func Compile(root syntax.Node) *Prog {
	c := &compiler{}
	c.emit(Inst{Op: OpSave, X: 0})
	c.nextSlot = 2
	c.node(root)
	c.emit(Inst{Op: OpSave, X: 1})
	c.emit(Inst{Op: OpAccept})
	return &Prog{Insts: c.insts, NumCaptures: c.nextSlot / 2}
}

type compiler struct {
	insts    []Inst
	nextSlot int
}

// pos returns the address the next emitted instruction will occupy.
func (c *compiler) pos() int {
	return len(c.insts)
}

func (c *compiler) emit(inst Inst) int {
	c.insts = append(c.insts, inst)
	return len(c.insts) - 1
}

// node emits the code for one subtree. Split operand order encodes match
// priority: the X continuation is tried first.
func (c *compiler) node(n syntax.Node) {
	switch n := n.(type) {
	case *syntax.Empty:
		// Zero-length span; concatenation around it emits nothing.

	case *syntax.Literal:
		c.emit(Inst{Op: OpLiteral, R: n.R})

	case *syntax.AnyChar:
		c.emit(Inst{Op: OpAny})

	case *syntax.CharClass:
		c.emit(Inst{Op: OpClass, Class: n.Set.Searcher()})

	case *syntax.Concat:
		c.node(n.Left)
		c.node(n.Right)

	case *syntax.Alt:
		split := c.emit(Inst{Op: OpSplit})
		c.node(n.Left)
		jump := c.emit(Inst{Op: OpJump})
		c.insts[split].X = split + 1
		c.insts[split].Y = c.pos()
		c.node(n.Right)
		c.insts[jump].X = c.pos()

	case *syntax.Opt:
		split := c.emit(Inst{Op: OpSplit})
		c.node(n.Sub)
		c.setSplit(split, split+1, c.pos(), n.Greedy)

	case *syntax.Star:
		split := c.emit(Inst{Op: OpSplit})
		c.node(n.Sub)
		c.emit(Inst{Op: OpJump, X: split})
		c.setSplit(split, split+1, c.pos(), n.Greedy)

	case *syntax.Plus:
		body := c.pos()
		c.node(n.Sub)
		split := c.emit(Inst{Op: OpSplit})
		c.setSplit(split, body, c.pos(), n.Greedy)

	case *syntax.Capture:
		slot := c.nextSlot
		c.nextSlot += 2
		c.emit(Inst{Op: OpSave, X: slot})
		c.node(n.Sub)
		c.emit(Inst{Op: OpSave, X: slot + 1})

	case *syntax.StartAnchor:
		c.emit(Inst{Op: OpAssertStart})

	case *syntax.EndAnchor:
		c.emit(Inst{Op: OpAssertEnd})

	default:
		panic(fmt.Sprintf("vm: cannot compile node %T", n))
	}
}

// setSplit patches a split so the preferred continuation sits in X.
func (c *compiler) setSplit(at, preferred, fallback int, greedy bool) {
	if greedy {
		c.insts[at].X = preferred
		c.insts[at].Y = fallback
	} else {
		c.insts[at].X = fallback
		c.insts[at].Y = preferred
	}
}
