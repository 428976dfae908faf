package interval

import "sort"

// Searcher is the immutable match-time representation of a character class.
//
// It answers membership queries with an ASCII bitmap fast path and a binary
// search over the sorted ranges for everything else. A Searcher is derived
// from a Set and never shares storage with it, so the originating Set stays
// free to serve as a builder and the Searcher is safe for concurrent reads.
type Searcher struct {
	// ascii is a direct lookup table for runes below 0x80.
	ascii [128]bool

	// ranges is the full sorted-disjoint range list, consulted for runes
	// outside the ASCII table.
	ranges []Range

	// hasNonASCII is false when every range lies below 0x80, letting the
	// non-ASCII path fail without searching.
	hasNonASCII bool
}

// Searcher builds the membership structure for the set's current contents.
// The canonical ranges are copied, not aliased.
func (s *Set) Searcher() *Searcher {
	q := &Searcher{ranges: s.Ranges()}
	for _, r := range q.ranges {
		lo := r.Lo
		hi := r.Hi
		if hi > 127 {
			q.hasNonASCII = true
			hi = 127
		}
		for c := lo; c <= hi && c <= 127; c++ {
			q.ascii[c] = true
		}
	}
	return q
}

// Contains reports whether c is a member of the class.
func (q *Searcher) Contains(c rune) bool {
	if c >= 0 && c < 128 {
		return q.ascii[c]
	}
	if !q.hasNonASCII {
		return false
	}
	i := sort.Search(len(q.ranges), func(i int) bool {
		return q.ranges[i].Hi >= c
	})
	return i < len(q.ranges) && q.ranges[i].Lo <= c
}

// NumRanges returns the number of ranges backing the searcher.
func (q *Searcher) NumRanges() int {
	return len(q.ranges)
}
