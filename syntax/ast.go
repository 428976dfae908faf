// Package syntax parses POSIX extended regular expressions into syntax
// trees.
//
// The parser is a shift-reduce machine over a stack of items. Items are a
// closed sum of two families: permanent AST nodes (the Node interface) and
// transient markers recording an opening token ('(', '[', '{' or '|')
// together with its byte offset in the pattern. Markers exist only while
// parsing; a marker reaching a position that requires a finished operand is
// a structural error reported at the marker's offset, and no marker ever
// survives into the returned tree.
package syntax

import "github.com/coregx/posixre/interval"

// stackItem is anything the parser may push: a permanent AST node or a
// transient marker.
type stackItem interface {
	stackItem()
}

// Node is a permanent node of the syntax tree. Trees are immutable once
// returned by Parse; children are owned by their parent and shared nowhere.
type Node interface {
	stackItem
	astNode()
}

// Empty matches the zero-length string.
type Empty struct{}

// AnyChar matches any single character.
type AnyChar struct{}

// Literal matches exactly the rune R.
type Literal struct {
	R rune
}

// Concat matches Left followed by Right.
type Concat struct {
	Left, Right Node
}

// Alt matches Left or, failing that, Right. Left has match priority.
type Alt struct {
	Left, Right Node
}

// Opt matches Sub zero or one time.
type Opt struct {
	Sub    Node
	Greedy bool
}

// Star matches Sub zero or more times.
type Star struct {
	Sub    Node
	Greedy bool
}

// Plus matches Sub one or more times.
type Plus struct {
	Sub    Node
	Greedy bool
}

// CharClass matches any single character contained in Set.
type CharClass struct {
	Set *interval.Set
}

// Capture matches Sub and records the matched span as a capture group.
type Capture struct {
	Sub Node
}

// StartAnchor is the zero-width assertion for the subject start.
type StartAnchor struct{}

// EndAnchor is the zero-width assertion for the subject end.
type EndAnchor struct{}

func (*Empty) astNode()       {}
func (*AnyChar) astNode()     {}
func (*Literal) astNode()     {}
func (*Concat) astNode()      {}
func (*Alt) astNode()         {}
func (*Opt) astNode()         {}
func (*Star) astNode()        {}
func (*Plus) astNode()        {}
func (*CharClass) astNode()   {}
func (*Capture) astNode()     {}
func (*StartAnchor) astNode() {}
func (*EndAnchor) astNode()   {}

func (*Empty) stackItem()       {}
func (*AnyChar) stackItem()     {}
func (*Literal) stackItem()     {}
func (*Concat) stackItem()      {}
func (*Alt) stackItem()         {}
func (*Opt) stackItem()         {}
func (*Star) stackItem()        {}
func (*Plus) stackItem()        {}
func (*CharClass) stackItem()   {}
func (*Capture) stackItem()     {}
func (*StartAnchor) stackItem() {}
func (*EndAnchor) stackItem()   {}

// groupStart marks an unclosed '(' awaiting its ')'.
type groupStart struct {
	level int
	off   int
}

// classStart marks an unclosed '[' awaiting its ']'.
type classStart struct {
	level   int
	off     int
	negated bool
}

// boundStart marks an unclosed '{' awaiting its '}'.
type boundStart struct {
	off int
}

// altMark separates the alternatives of '|'. It sits directly above its
// reduced left operand on the stack.
type altMark struct {
	off int
}

// rangeDash is a meta '-' inside a character class, pending its bounds.
type rangeDash struct {
	off int
}

func (groupStart) stackItem() {}
func (classStart) stackItem() {}
func (boundStart) stackItem() {}
func (altMark) stackItem()    {}
func (rangeDash) stackItem()  {}

// cloneNode deep-copies a subtree. Bound expansion duplicates its operand,
// and the no-sharing invariant requires each copy to own its children.
func cloneNode(n Node) Node {
	switch n := n.(type) {
	case *Empty:
		return &Empty{}
	case *AnyChar:
		return &AnyChar{}
	case *Literal:
		return &Literal{R: n.R}
	case *Concat:
		return &Concat{Left: cloneNode(n.Left), Right: cloneNode(n.Right)}
	case *Alt:
		return &Alt{Left: cloneNode(n.Left), Right: cloneNode(n.Right)}
	case *Opt:
		return &Opt{Sub: cloneNode(n.Sub), Greedy: n.Greedy}
	case *Star:
		return &Star{Sub: cloneNode(n.Sub), Greedy: n.Greedy}
	case *Plus:
		return &Plus{Sub: cloneNode(n.Sub), Greedy: n.Greedy}
	case *CharClass:
		set := interval.NewSet()
		set.Union(n.Set)
		return &CharClass{Set: set}
	case *Capture:
		return &Capture{Sub: cloneNode(n.Sub)}
	case *StartAnchor:
		return &StartAnchor{}
	case *EndAnchor:
		return &EndAnchor{}
	}
	return n
}
