// Package vm compiles syntax trees into linear bytecode programs and runs
// them with a backtracking interpreter.
//
// A program is an ordered instruction sequence. Split encodes branch
// priority in its operand order, Save records capture boundaries, and the
// single trailing Accept reports success. Programs are immutable once
// compiled and safe for concurrent matching.
package vm

import (
	"fmt"
	"strings"

	"github.com/coregx/posixre/interval"
)

// Op is a bytecode opcode.
type Op uint8

const (
	// OpLiteral consumes one character equal to Inst.R.
	OpLiteral Op = iota

	// OpAny consumes any one character.
	OpAny

	// OpClass consumes one character contained in Inst.Class.
	OpClass

	// OpSplit forks execution: continuation X is tried first, Y only after
	// X's entire sub-path fails.
	OpSplit

	// OpJump continues unconditionally at X.
	OpJump

	// OpSave writes the current position into capture slot X.
	OpSave

	// OpAssertStart succeeds, consuming nothing, only at position 0.
	OpAssertStart

	// OpAssertEnd succeeds, consuming nothing, only at the subject end.
	OpAssertEnd

	// OpAccept halts with a successful match.
	OpAccept
)

var opNames = [...]string{
	OpLiteral:     "char",
	OpAny:         "any",
	OpClass:       "class",
	OpSplit:       "split",
	OpJump:        "jump",
	OpSave:        "save",
	OpAssertStart: "assert ^",
	OpAssertEnd:   "assert $",
	OpAccept:      "accept",
}

// String returns the mnemonic for the opcode.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Inst is one bytecode instruction. Which fields are meaningful depends on
// the opcode: X/Y are program addresses for OpSplit and OpJump, X is a slot
// index for OpSave, R carries the rune for OpLiteral, and Class the
// membership structure for OpClass.
type Inst struct {
	Op    Op
	X, Y  int
	R     rune
	Class *interval.Searcher
}

// String renders the instruction for program dumps.
func (i Inst) String() string {
	switch i.Op {
	case OpLiteral:
		return fmt.Sprintf("char %q", i.R)
	case OpClass:
		return fmt.Sprintf("class (%d ranges)", i.Class.NumRanges())
	case OpSplit:
		return fmt.Sprintf("split %d, %d", i.X, i.Y)
	case OpJump:
		return fmt.Sprintf("jump %d", i.X)
	case OpSave:
		return fmt.Sprintf("save %d", i.X)
	}
	return i.Op.String()
}

// Prog is a compiled program.
//
// NumCaptures counts capture groups including the implicit whole-match
// group 0, so a running machine needs 2*NumCaptures position slots. The
// last instruction is always OpAccept.
type Prog struct {
	Insts       []Inst
	NumCaptures int
}

// NumSlots returns the number of capture position slots a machine running
// the program must provide.
func (p *Prog) NumSlots() int {
	return 2 * p.NumCaptures
}

// String renders the whole program, one addressed instruction per line.
func (p *Prog) String() string {
	var b strings.Builder
	for pc, inst := range p.Insts {
		fmt.Fprintf(&b, "%3d  %s\n", pc, inst.String())
	}
	return b.String()
}
