package syntax

import "github.com/coregx/posixre/interval"

// maxRepeat caps {m,n} bounds so a pathological pattern cannot explode the
// expanded tree.
const maxRepeat = 1000

// Parse parses a POSIX extended regular expression into its syntax tree.
// On failure the returned error is a *ParseError carrying the byte offset
// of the offending or unclosed token.
func Parse(pattern string) (Node, error) {
	p := &parser{lex: newLexer(pattern)}
	root, err := p.run()
	if err != nil {
		return nil, err
	}
	return root, nil
}

// parser is a shift-reduce machine. Leaf tokens push nodes; quantifiers
// rewrite the top of the stack; closers reduce everything back to their
// matching marker.
type parser struct {
	lex   *lexer
	stack []stackItem

	// level counts nesting depth: '(' and '[' increment it, their matching
	// closers decrement it. Group markers record the level at push time so
	// reducers can find the matching opener.
	level int
}

func (p *parser) errorAt(off int, msg string) *ParseError {
	return newError(p.lex.input, off, msg)
}

func (p *parser) push(it stackItem) {
	p.stack = append(p.stack, it)
}

func (p *parser) pop() stackItem {
	it := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return it
}

// run processes one token's worth of stack transformation until the input
// is exhausted, then performs a final alternation reduction and requires
// exactly one node to remain.
func (p *parser) run() (Node, *ParseError) {
	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokEOI {
			break
		}
		if err := p.step(tok); err != nil {
			return nil, err
		}
	}

	root, _, err := p.reduceAlternation(-1)
	if err != nil {
		return nil, err
	}
	if root == nil || len(p.stack) != 0 {
		return nil, p.errorAt(0, errMalformed)
	}
	return root, nil
}

func (p *parser) step(tok token) *ParseError {
	switch tok.kind {
	case tokLiteral:
		p.push(&Literal{R: tok.r})

	case tokClass:
		p.push(&CharClass{Set: tok.set})

	case tokAny:
		p.push(&AnyChar{})

	case tokStar, tokPlus, tokOpt:
		return p.quantify(tok)

	case tokCaret:
		p.push(&StartAnchor{})

	case tokDollar:
		p.push(&EndAnchor{})

	case tokLParen:
		p.push(groupStart{level: p.level, off: tok.off})
		p.level++

	case tokRParen:
		return p.reduceGroup(tok.off)

	case tokAlt:
		node, _, err := p.reduceAlternation(p.level - 1)
		if err != nil {
			return err
		}
		if node == nil {
			node = &Empty{}
		}
		p.push(node)
		p.push(altMark{off: tok.off})

	case tokLBracket:
		negated := p.lex.eatRaw('^')
		p.push(classStart{level: p.level, off: tok.off, negated: negated})
		p.level++
		p.lex.enterSet()

	case tokRBracket:
		p.level--
		if err := p.reduceClass(tok.off); err != nil {
			return err
		}
		p.lex.leaveSet()

	case tokDash:
		p.push(rangeDash{off: tok.off})

	case tokLBrace:
		p.push(boundStart{off: tok.off})
		p.lex.mode = modeBound

	case tokRBrace:
		if err := p.reduceBound(tok.off); err != nil {
			return err
		}
		p.lex.mode = modeNormal
	}
	return nil
}

// quantify wraps the node on top of the stack in Star, Plus or Opt. A raw
// '?' look-ahead marks the quantifier non-greedy.
func (p *parser) quantify(tok token) *ParseError {
	greedy := !p.lex.eatRaw('?')

	if len(p.stack) == 0 {
		return p.errorAt(tok.off, errDangling)
	}
	top := p.pop()
	if off, isMarker := markerOffset(top); isMarker {
		return p.errorAt(off, errMalformed)
	}
	node := top.(Node)

	switch tok.kind {
	case tokStar:
		p.push(&Star{Sub: node, Greedy: greedy})
	case tokPlus:
		p.push(&Plus{Sub: node, Greedy: greedy})
	default:
		p.push(&Opt{Sub: node, Greedy: greedy})
	}
	return nil
}

// markerOffset reports whether it is a transient marker, and if so the
// offset of its opening token.
func markerOffset(it stackItem) (int, bool) {
	switch m := it.(type) {
	case groupStart:
		return m.off, true
	case classStart:
		return m.off, true
	case boundStart:
		return m.off, true
	case altMark:
		return m.off, true
	case rangeDash:
		return m.off, true
	}
	return 0, false
}

// reduceAlternation folds the stack from the top into a single node,
// resolving concatenation and alternation markers, stopping at a capturing
// group start whose recorded level equals stopLevel (the marker is left in
// place) or at the stack bottom.
//
// Returns the folded node (nil for an empty span) and whether the group
// start was found. Any other marker in the span is a structural error
// reported at its opening offset.
func (p *parser) reduceAlternation(stopLevel int) (Node, bool, *ParseError) {
	var acc Node
	for len(p.stack) > 0 {
		switch it := p.stack[len(p.stack)-1].(type) {
		case groupStart:
			if it.level == stopLevel {
				return acc, true, nil
			}
			return nil, false, p.errorAt(it.off, errMalformed)

		case classStart:
			return nil, false, p.errorAt(it.off, errMalformed)

		case boundStart:
			return nil, false, p.errorAt(it.off, errMalformed)

		case rangeDash:
			return nil, false, p.errorAt(it.off, errMalformed)

		case altMark:
			p.pop()
			left, found, err := p.reduceAlternation(stopLevel)
			if err != nil {
				return nil, false, err
			}
			if left == nil {
				left = &Empty{}
			}
			if acc == nil {
				acc = &Empty{}
			}
			return &Alt{Left: left, Right: acc}, found, nil

		case Node:
			p.pop()
			if acc == nil {
				acc = it
			} else {
				acc = &Concat{Left: it, Right: acc}
			}
		}
	}
	return acc, false, nil
}

// reduceGroup handles ')': reduce back to the matching group start and wrap
// the span in a Capture.
func (p *parser) reduceGroup(off int) *ParseError {
	p.level--
	node, found, err := p.reduceAlternation(p.level)
	if err != nil {
		return err
	}
	if !found {
		return p.errorAt(off, errUnbalancedClose)
	}
	p.pop() // the groupStart marker
	if node == nil {
		node = &Empty{}
	}
	p.push(&Capture{Sub: node})
	return nil
}

// reduceClass handles ']': collect literals, ranges and nested class sets
// back to the matching class start and push a single CharClass. A singleton
// non-negated class collapses to a plain Literal; an empty class
// contributes no node at all.
func (p *parser) reduceClass(off int) *ParseError {
	set := interval.NewSet()

	var pending rune    // a literal waiting to become a singleton or range high end
	havePending := false
	rangeOpen := false  // a dash was seen below pending
	dashOff := 0

	for {
		if len(p.stack) == 0 {
			return p.errorAt(off, errUnbalancedClose)
		}
		switch it := p.pop().(type) {
		case classStart:
			if rangeOpen {
				// A dash directly after the class opening has no low bound.
				return p.errorAt(dashOff, errMalformedRange)
			}
			if havePending {
				set.AddRange(pending, pending)
			}
			p.pushClass(set, it.negated)
			return nil

		case *Literal:
			if rangeOpen {
				set.AddRange(it.R, pending)
				havePending = false
				rangeOpen = false
			} else {
				if havePending {
					set.AddRange(pending, pending)
				}
				pending = it.R
				havePending = true
			}

		case rangeDash:
			if !havePending || rangeOpen {
				return p.errorAt(it.off, errMalformedRange)
			}
			rangeOpen = true
			dashOff = it.off

		case *CharClass:
			if rangeOpen {
				// A class escape cannot serve as a range bound.
				return p.errorAt(dashOff, errMalformedRange)
			}
			if havePending {
				set.AddRange(pending, pending)
				havePending = false
			}
			set.Union(it.Set)

		default:
			return p.errorAt(off, errMalformed)
		}
	}
}

// pushClass pushes the reduced class, applying negation and the singleton
// collapse.
func (p *parser) pushClass(set *interval.Set, negated bool) {
	if negated {
		set = set.Negate()
		if !set.IsEmpty() {
			p.push(&CharClass{Set: set})
		}
		return
	}
	if set.IsEmpty() {
		return
	}
	if ranges := set.Ranges(); len(ranges) == 1 && ranges[0].Lo == ranges[0].Hi {
		p.push(&Literal{R: ranges[0].Lo})
		return
	}
	p.push(&CharClass{Set: set})
}

// reduceBound handles '}': read the digits back to the matching bound
// start, pop the preceding operand and push its expansion.
func (p *parser) reduceBound(off int) *ParseError {
	// Everything lexed in bound mode is a literal, so pop literals until
	// the marker, keeping them in textual order.
	var runes []rune
	var markOff int
	for {
		if len(p.stack) == 0 {
			return p.errorAt(off, errUnbalancedClose)
		}
		it := p.pop()
		if lit, ok := it.(*Literal); ok {
			runes = append([]rune{lit.R}, runes...)
			continue
		}
		bs, ok := it.(boundStart)
		if !ok {
			return p.errorAt(off, errMalformed)
		}
		markOff = bs.off
		break
	}

	min, max, open, err := parseBound(runes)
	if err != "" {
		return p.errorAt(markOff, err)
	}
	if !open && max < min {
		return p.errorAt(markOff, errMalformed)
	}
	if min > maxRepeat || (!open && max > maxRepeat) {
		return p.errorAt(markOff, errMalformed)
	}

	var operand Node = &Empty{}
	if len(p.stack) > 0 {
		if n, ok := p.stack[len(p.stack)-1].(Node); ok {
			p.pop()
			operand = n
		}
	}
	p.push(expandBound(operand, min, max, open))
	return nil
}

// parseBound interprets the digits of {m}, {m,}, {,n} and {m,n}.
// The returned message is empty on success.
func parseBound(runes []rune) (min, max int, open bool, msg string) {
	i := 0
	readNum := func() (int, bool) {
		n := 0
		seen := false
		for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
			n = n*10 + int(runes[i]-'0')
			if n > maxRepeat {
				n = maxRepeat + 1
			}
			i++
			seen = true
		}
		return n, seen
	}

	lo, haveLo := readNum()
	if i == len(runes) {
		if !haveLo {
			return 0, 0, false, errMalformed
		}
		return lo, lo, false, ""
	}
	if runes[i] != ',' {
		return 0, 0, false, errMalformed
	}
	i++

	hi, haveHi := readNum()
	if i != len(runes) || (!haveLo && !haveHi) {
		return 0, 0, false, errMalformed
	}
	if !haveHi {
		return lo, 0, true, ""
	}
	return lo, hi, false, ""
}

// expandBound lowers a repetition bound into concatenated copies:
// min mandatory copies, then either a greedy Plus tail (open bound) or
// non-greedy optional copies up to max.
func expandBound(n Node, min, max int, open bool) Node {
	if open {
		if min == 0 {
			return &Star{Sub: n, Greedy: true}
		}
		var acc Node
		for i := 0; i < min-1; i++ {
			acc = concatTo(acc, cloneNode(n))
		}
		return concatTo(acc, &Plus{Sub: n, Greedy: true})
	}

	if min == 0 && max == 0 {
		return &Empty{}
	}

	var acc Node
	for i := 0; i < min; i++ {
		acc = concatTo(acc, cloneNode(n))
	}
	for i := 0; i < max-min; i++ {
		acc = concatTo(acc, &Opt{Sub: cloneNode(n), Greedy: false})
	}
	return acc
}

// concatTo appends next to acc, treating a nil acc as the identity.
func concatTo(acc, next Node) Node {
	if acc == nil {
		return next
	}
	return &Concat{Left: acc, Right: next}
}
