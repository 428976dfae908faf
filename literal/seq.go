// Package literal extracts literal byte sequences from parsed patterns.
//
// The extracted sequences feed prefilter construction: a pattern whose every
// match must begin with one of a small set of literals can skip the
// backtracking machine for most of the haystack and only verify at candidate
// positions found by fast substring search.
//
// Key concepts:
//   - A Literal is a concrete byte sequence with a completeness flag
//   - A Seq is a set of alternative literals (e.g. from foo|bar)
package literal

import "bytes"

// Literal is one extracted byte sequence. Complete reports whether the
// literal is an entire match of the pattern rather than just a required
// prefix.
//
// Example:
//   - hello        → Literal{[]byte("hello"), true}
//   - hello.*world → Literal{[]byte("hello"), false} (prefix only)
type Literal struct {
	Bytes    []byte
	Complete bool
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String renders the literal for debugging.
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is an ordered set of alternative literals extracted from a pattern.
//
// Invariant maintained by the extractor: every match of the originating
// pattern begins with one of the sequence's literals. A nil *Seq means no
// such finite set could be computed.
type Seq struct {
	lits []Literal
}

// NewSeq creates an empty sequence.
func NewSeq() *Seq {
	return &Seq{}
}

// Push appends a literal, dropping exact duplicates.
func (s *Seq) Push(lit Literal) {
	for i, have := range s.lits {
		if bytes.Equal(have.Bytes, lit.Bytes) {
			// An incomplete duplicate weakens the pair.
			if !lit.Complete {
				s.lits[i].Complete = false
			}
			return
		}
	}
	s.lits = append(s.lits, lit)
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	return len(s.lits)
}

// Get returns the i'th literal.
func (s *Seq) Get(i int) Literal {
	return s.lits[i]
}

// IsEmpty reports whether the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return len(s.lits) == 0
}

// HasEmpty reports whether any literal is the empty string. An empty
// literal matches everywhere, which makes the sequence useless for
// prefiltering.
func (s *Seq) HasEmpty() bool {
	for _, l := range s.lits {
		if len(l.Bytes) == 0 {
			return true
		}
	}
	return false
}

// AllComplete reports whether every literal is a complete match on its own.
func (s *Seq) AllComplete() bool {
	for _, l := range s.lits {
		if !l.Complete {
			return false
		}
	}
	return len(s.lits) > 0
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if len(s.lits) == 0 {
		return 0
	}
	min := s.lits[0].Len()
	for _, l := range s.lits[1:] {
		if l.Len() < min {
			min = l.Len()
		}
	}
	return min
}

// markIncomplete clears every Complete flag in place.
func (s *Seq) markIncomplete() {
	for i := range s.lits {
		s.lits[i].Complete = false
	}
}
