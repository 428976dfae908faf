package syntax

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/posixre/interval"
)

// tokenKind discriminates the lexer's output.
type tokenKind int

const (
	tokLiteral  tokenKind = iota // a single literal character
	tokClass                     // a built-in class escape (\d \s \w \D \S \W)
	tokAny                       // .
	tokStar                      // *
	tokPlus                      // +
	tokOpt                       // ?
	tokLParen                    // (
	tokRParen                    // )
	tokLBracket                  // [
	tokRBracket                  // ] while in a class
	tokLBrace                    // {
	tokRBrace                    // } while in a bound
	tokCaret                     // ^
	tokDollar                    // $
	tokAlt                       // |
	tokDash                      // meta '-' inside a class
	tokEOI                       // end of input
)

// token is one lexed unit plus the byte offset of its first character.
type token struct {
	kind tokenKind
	r    rune          // tokLiteral
	set  *interval.Set // tokClass
	off  int
}

// lexMode selects which raw characters are meta versus literal.
type lexMode int

const (
	modeNormal lexMode = iota
	modeBound           // inside {m,n}
	modeSet             // inside [...]
)

// Characters that may follow a backslash in each mode. Anything else after
// a backslash is a lexing error.
const (
	metaNormal = `.*+?()[]{}|^$\`
	metaBound  = `{},\`
	metaSet    = `][^-\`
)

// lexer produces tokens under a mode that the parser switches as it enters
// and leaves bounds and character classes.
type lexer struct {
	input string
	pos   int
	mode  lexMode

	// prevMode is the mode to restore when the current class closes.
	prevMode lexMode
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

// enterSet switches to class lexing, remembering the mode to restore.
func (l *lexer) enterSet() {
	l.prevMode = l.mode
	l.mode = modeSet
}

// leaveSet restores the mode saved by enterSet.
func (l *lexer) leaveSet() {
	l.mode = l.prevMode
}

// eatRaw consumes the next byte if it equals c, ignoring the current mode.
// Quantifier greediness and class negation are decided with this raw
// look-ahead.
func (l *lexer) eatRaw(c byte) bool {
	if l.pos < len(l.input) && l.input[l.pos] == c {
		l.pos++
		return true
	}
	return false
}

// next returns the next token under the current mode.
func (l *lexer) next() (token, *ParseError) {
	if l.pos >= len(l.input) {
		return token{kind: tokEOI, off: l.pos}, nil
	}

	off := l.pos
	r, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += width

	if r == '\\' {
		return l.escape(off)
	}

	switch l.mode {
	case modeBound:
		if r == '}' {
			return token{kind: tokRBrace, off: off}, nil
		}
		return token{kind: tokLiteral, r: r, off: off}, nil

	case modeSet:
		switch r {
		case ']':
			return token{kind: tokRBracket, off: off}, nil
		case '-':
			return token{kind: tokDash, off: off}, nil
		}
		return token{kind: tokLiteral, r: r, off: off}, nil
	}

	switch r {
	case '.':
		return token{kind: tokAny, off: off}, nil
	case '*':
		return token{kind: tokStar, off: off}, nil
	case '+':
		return token{kind: tokPlus, off: off}, nil
	case '?':
		return token{kind: tokOpt, off: off}, nil
	case '(':
		return token{kind: tokLParen, off: off}, nil
	case ')':
		return token{kind: tokRParen, off: off}, nil
	case '[':
		return token{kind: tokLBracket, off: off}, nil
	case '{':
		return token{kind: tokLBrace, off: off}, nil
	case '|':
		return token{kind: tokAlt, off: off}, nil
	case '^':
		return token{kind: tokCaret, off: off}, nil
	case '$':
		return token{kind: tokDollar, off: off}, nil
	}
	// ']' and '}' are literal outside their modes.
	return token{kind: tokLiteral, r: r, off: off}, nil
}

// escape lexes the character following a backslash. A meta character under
// the current mode becomes a literal; d/s/w and their negations become
// built-in class tokens; anything else is an error at the escaped
// character. A trailing backslash is an error at the backslash itself.
func (l *lexer) escape(off int) (token, *ParseError) {
	if l.pos >= len(l.input) {
		return token{}, newError(l.input, off, errUnterminatedEscape)
	}

	eoff := l.pos
	r, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += width

	if l.mode != modeBound {
		if set := builtinClass(r); set != nil {
			return token{kind: tokClass, set: set, off: off}, nil
		}
	}

	meta := metaNormal
	switch l.mode {
	case modeBound:
		meta = metaBound
	case modeSet:
		meta = metaSet
	}
	if r < utf8.RuneSelf && strings.IndexByte(meta, byte(r)) >= 0 {
		return token{kind: tokLiteral, r: r, off: off}, nil
	}
	return token{}, newError(l.input, eoff, errUnknownEscape)
}

// builtinClass returns the range set for \d \s \w and their negated
// uppercase variants, or nil when r is not a class escape.
func builtinClass(r rune) *interval.Set {
	switch r {
	case 'd':
		return classDigit()
	case 'D':
		return classDigit().Negate()
	case 's':
		return classSpace()
	case 'S':
		return classSpace().Negate()
	case 'w':
		return classWord()
	case 'W':
		return classWord().Negate()
	}
	return nil
}

func classDigit() *interval.Set {
	s := interval.NewSet()
	s.AddRange('0', '9')
	return s
}

func classSpace() *interval.Set {
	s := interval.NewSet()
	s.AddRange('\t', '\r') // tab, newline, vertical tab, form feed, carriage return
	s.AddRange(' ', ' ')
	return s
}

func classWord() *interval.Set {
	s := interval.NewSet()
	s.AddRange('0', '9')
	s.AddRange('A', 'Z')
	s.AddRange('_', '_')
	s.AddRange('a', 'z')
	return s
}
