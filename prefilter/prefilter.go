// Package prefilter accelerates searching by scanning for literal prefixes
// before the backtracking machine runs.
//
// A prefilter rejects haystack positions that cannot start a match. Only
// candidate positions it reports are handed to the machine for
// verification, which turns a character-by-character scan into a substring
// search for patterns with extractable literal prefixes.
//
// The builder picks the cheapest strategy for the literal sequence:
//   - single one-byte literal → IndexByte scan
//   - single literal → Index (memmem) scan
//   - several literals → Aho-Corasick automaton
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/posixre/literal"
)

// Prefilter finds candidate match positions for a pattern's extracted
// literal prefixes.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start, or
	// -1 when none exists. A candidate is a position where one of the
	// literals occurs; unless IsComplete reports true the caller must
	// verify it with the full machine.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is already a full match, i.e.
	// the literal sequence is the pattern's entire language.
	IsComplete() bool

	// LiteralLen returns the fixed byte length of a complete match when
	// IsComplete is true and all literals share one length, else 0.
	LiteralLen() int
}

// FromSeq builds the best prefilter for the sequence, or nil when the
// sequence cannot prefilter (nil, empty, or containing the empty literal,
// which occurs everywhere).
func FromSeq(seq *literal.Seq) Prefilter {
	if seq == nil || seq.IsEmpty() || seq.HasEmpty() {
		return nil
	}

	complete := seq.AllComplete()
	litLen := fixedLen(seq)

	if seq.Len() == 1 {
		needle := seq.Get(0).Bytes
		if len(needle) == 1 {
			return &memchrFilter{b: needle[0], complete: complete}
		}
		return &memmemFilter{needle: needle, complete: complete}
	}

	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoFilter{auto: auto, complete: complete, litLen: litLen}
}

// fixedLen returns the shared literal length if the sequence is complete
// and uniform, else 0.
func fixedLen(seq *literal.Seq) int {
	if !seq.AllComplete() {
		return 0
	}
	n := seq.Get(0).Len()
	for i := 1; i < seq.Len(); i++ {
		if seq.Get(i).Len() != n {
			return 0
		}
	}
	return n
}

// memchrFilter scans for a single byte.
type memchrFilter struct {
	b        byte
	complete bool
}

func (f *memchrFilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	i := bytes.IndexByte(haystack[start:], f.b)
	if i < 0 {
		return -1
	}
	return start + i
}

func (f *memchrFilter) IsComplete() bool { return f.complete }

func (f *memchrFilter) LiteralLen() int {
	if f.complete {
		return 1
	}
	return 0
}

// memmemFilter scans for a single substring.
type memmemFilter struct {
	needle   []byte
	complete bool
}

func (f *memmemFilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	i := bytes.Index(haystack[start:], f.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

func (f *memmemFilter) IsComplete() bool { return f.complete }

func (f *memmemFilter) LiteralLen() int {
	if f.complete {
		return len(f.needle)
	}
	return 0
}

// ahoFilter scans for any of several substrings with an Aho-Corasick
// automaton.
type ahoFilter struct {
	auto     *ahocorasick.Automaton
	complete bool
	litLen   int
}

func (f *ahoFilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	m := f.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (f *ahoFilter) IsComplete() bool { return f.complete }

func (f *ahoFilter) LiteralLen() int { return f.litLen }
