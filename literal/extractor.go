package literal

import (
	"unicode/utf8"

	"github.com/coregx/posixre/syntax"
)

// Config bounds the extraction so pathological patterns cannot blow up the
// literal set.
type Config struct {
	// MaxLiterals caps the number of alternative literals. Crossing the cap
	// during alternation abandons extraction; crossing it during
	// concatenation stops extending and keeps the prefixes found so far.
	MaxLiterals int

	// MaxLiteralLen caps the byte length of a single literal. Longer
	// literals are truncated and marked incomplete.
	MaxLiteralLen int

	// MaxClassSize caps the number of characters a class may contain and
	// still be expanded into alternatives (e.g. [ab] → "a", "b").
	MaxClassSize int
}

// DefaultConfig returns the extraction limits used by the engine.
func DefaultConfig() Config {
	return Config{
		MaxLiterals:   32,
		MaxLiteralLen: 16,
		MaxClassSize:  8,
	}
}

// Extractor computes prefix literal sequences from syntax trees.
type Extractor struct {
	cfg Config
}

// New creates an Extractor with the given limits.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// ExtractPrefixes returns a sequence of literals such that every match of n
// begins with one of them, or nil when no bounded set exists (e.g. the
// pattern can start with anything).
//
// A returned literal with Complete set is an entire match of n by itself.
func (e *Extractor) ExtractPrefixes(n syntax.Node) *Seq {
	return e.extract(n)
}

func (e *Extractor) extract(n syntax.Node) *Seq {
	switch n := n.(type) {
	case *syntax.Empty:
		s := NewSeq()
		s.Push(Literal{Bytes: []byte{}, Complete: true})
		return s

	case *syntax.StartAnchor, *syntax.EndAnchor:
		// Anchors are zero-width but constrain the position, which a literal
		// cannot express. The empty prefix stays valid; completeness does
		// not, so anchored patterns always reach the machine for
		// verification.
		s := NewSeq()
		s.Push(Literal{Bytes: []byte{}, Complete: false})
		return s

	case *syntax.Literal:
		s := NewSeq()
		s.Push(Literal{Bytes: encodeRune(n.R), Complete: true})
		return s

	case *syntax.CharClass:
		return e.extractClass(n)

	case *syntax.Capture:
		return e.extract(n.Sub)

	case *syntax.Concat:
		return e.extractConcat(n)

	case *syntax.Alt:
		return e.extractAlt(n)

	case *syntax.Opt:
		sub := e.extract(n.Sub)
		if sub == nil || sub.Len() >= e.cfg.MaxLiterals {
			return nil
		}
		sub.Push(Literal{Bytes: []byte{}, Complete: true})
		return sub

	case *syntax.Star:
		// Zero repetitions match everywhere; only the empty prefix is
		// guaranteed.
		s := NewSeq()
		s.Push(Literal{Bytes: []byte{}, Complete: false})
		return s

	case *syntax.Plus:
		sub := e.extract(n.Sub)
		if sub == nil {
			return nil
		}
		// One mandatory repetition, arbitrarily many more: the body's
		// prefixes hold but nothing is complete.
		sub.markIncomplete()
		return sub
	}
	// AnyChar and anything unrecognized: no bounded prefix set.
	return nil
}

func encodeRune(r rune) []byte {
	var buf [utf8.UTFMax]byte
	w := utf8.EncodeRune(buf[:], r)
	return append([]byte(nil), buf[:w]...)
}

// extractClass expands a small class into one single-character literal per
// member.
func (e *Extractor) extractClass(n *syntax.CharClass) *Seq {
	if n.Set.Size() > e.cfg.MaxClassSize {
		return nil
	}
	s := NewSeq()
	for _, r := range n.Set.Ranges() {
		for c := r.Lo; c <= r.Hi; c++ {
			s.Push(Literal{Bytes: encodeRune(c), Complete: true})
		}
	}
	return s
}

// extractConcat extends the left side's complete literals with the right
// side's alternatives. If the left side already has incomplete literals they
// stay valid prefixes of the concatenation, so extraction degrades to them
// rather than failing.
func (e *Extractor) extractConcat(n *syntax.Concat) *Seq {
	left := e.extract(n.Left)
	if left == nil {
		return nil
	}
	if !left.AllComplete() {
		left.markIncomplete()
		return left
	}

	right := e.extract(n.Right)
	if right == nil || left.Len()*right.Len() > e.cfg.MaxLiterals {
		left.markIncomplete()
		return left
	}

	out := NewSeq()
	for i := 0; i < left.Len(); i++ {
		la := left.Get(i)
		for j := 0; j < right.Len(); j++ {
			lb := right.Get(j)
			joined := make([]byte, 0, len(la.Bytes)+len(lb.Bytes))
			joined = append(joined, la.Bytes...)
			joined = append(joined, lb.Bytes...)
			complete := lb.Complete
			if len(joined) > e.cfg.MaxLiteralLen {
				joined = joined[:e.cfg.MaxLiteralLen]
				complete = false
			}
			out.Push(Literal{Bytes: joined, Complete: complete})
		}
	}
	return out
}

// extractAlt unions both branches. Dropping a branch would break the
// every-match-has-a-prefix invariant, so overflow abandons extraction.
func (e *Extractor) extractAlt(n *syntax.Alt) *Seq {
	left := e.extract(n.Left)
	if left == nil {
		return nil
	}
	right := e.extract(n.Right)
	if right == nil || left.Len()+right.Len() > e.cfg.MaxLiterals {
		return nil
	}
	for i := 0; i < right.Len(); i++ {
		left.Push(right.Get(i))
	}
	return left
}
