// Package interval provides ordered, non-overlapping rune ranges used to
// represent character classes.
//
// A Set is the canonical builder form: a sorted slice of disjoint inclusive
// ranges supporting insertion, union and complement. A Searcher is the
// immutable match-time form derived from a Set, optimized for membership
// queries on the hot path.
package interval

import (
	"sort"
	"unicode"
)

// MinRune and MaxRune bound the character domain. Negation complements
// against [MinRune, MaxRune].
const (
	MinRune rune = 0
	MaxRune rune = unicode.MaxRune
)

// Range is a closed interval [Lo, Hi] of runes.
type Range struct {
	Lo, Hi rune
}

// Contains reports whether c lies within the range.
func (r Range) Contains(c rune) bool {
	return c >= r.Lo && c <= r.Hi
}

// Set is an ordered collection of disjoint inclusive rune ranges.
//
// Invariant: ranges are sorted ascending by Lo, never overlap, and are
// never adjacent (adjacent ranges are merged on insertion). The zero value
// is an empty set ready for use.
//
// A Set is a builder: once handed to another component it must not be
// mutated further. Negate and Searcher return fresh values and never alias
// the receiver's storage.
type Set struct {
	ranges []Range
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{}
}

// Add inserts the range r, merging it with any overlapping or adjacent
// existing ranges so the sorted-disjoint invariant is preserved.
// A reversed range (Lo > Hi) is normalized before insertion.
func (s *Set) Add(r Range) {
	if r.Lo > r.Hi {
		r.Lo, r.Hi = r.Hi, r.Lo
	}

	// First existing range that can merge with r: its Hi reaches at least
	// the position just before r.Lo.
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Hi >= r.Lo-1
	})

	// Absorb every range that overlaps or touches r.
	j := i
	for j < len(s.ranges) && s.ranges[j].Lo <= r.Hi+1 {
		if s.ranges[j].Lo < r.Lo {
			r.Lo = s.ranges[j].Lo
		}
		if s.ranges[j].Hi > r.Hi {
			r.Hi = s.ranges[j].Hi
		}
		j++
	}

	out := make([]Range, 0, len(s.ranges)-(j-i)+1)
	out = append(out, s.ranges[:i]...)
	out = append(out, r)
	out = append(out, s.ranges[j:]...)
	s.ranges = out
}

// AddRange inserts the inclusive range [lo, hi].
func (s *Set) AddRange(lo, hi rune) {
	s.Add(Range{Lo: lo, Hi: hi})
}

// Union folds every range of o into s. o is not modified.
func (s *Set) Union(o *Set) {
	for _, r := range o.ranges {
		s.Add(r)
	}
}

// Negate returns a new set holding the complement of s against the full
// domain [MinRune, MaxRune]. The empty set negates to the single
// full-domain range; the full-domain range negates to the empty set.
// The receiver is left untouched.
func (s *Set) Negate() *Set {
	out := &Set{}
	next := MinRune
	for _, r := range s.ranges {
		if r.Lo > next {
			out.ranges = append(out.ranges, Range{Lo: next, Hi: r.Lo - 1})
		}
		if r.Hi >= MaxRune {
			return out
		}
		next = r.Hi + 1
	}
	out.ranges = append(out.ranges, Range{Lo: next, Hi: MaxRune})
	return out
}

// Contains reports whether c is a member of the set.
func (s *Set) Contains(c rune) bool {
	// First range with Hi >= c; membership then reduces to a Lo check.
	i := sort.Search(len(s.ranges), func(i int) bool {
		return s.ranges[i].Hi >= c
	})
	return i < len(s.ranges) && s.ranges[i].Lo <= c
}

// IsEmpty reports whether the set contains no runes.
func (s *Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// Len returns the number of stored ranges.
func (s *Set) Len() int {
	return len(s.ranges)
}

// Size returns the total number of runes covered by the set.
func (s *Set) Size() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// Ranges returns a copy of the canonical sorted ranges.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}
