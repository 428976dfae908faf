package posixre

// Match holds one match and its capture groups, bound to the subject it was
// found in.
//
// Example:
//
//	re := posixre.MustCompile(`(\w+)=(\w+)`)
//	m := re.FindMatch([]byte("key=value"))
//	m.Start()         // 0
//	m.GroupString(2)  // "value"
type Match struct {
	haystack []byte
	slots    []int
}

// FindMatch returns the leftmost match in b, or nil if there is none.
func (r *Regex) FindMatch(b []byte) *Match {
	return r.FindMatchAt(b, 0)
}

// FindMatchAt returns the leftmost match starting at or after byte offset
// at, or nil.
func (r *Regex) FindMatchAt(b []byte, at int) *Match {
	slots := r.engine.search(b, at)
	if slots == nil {
		return nil
	}
	return &Match{haystack: b, slots: slots}
}

// Start returns the byte offset where the match begins.
func (m *Match) Start() int {
	return m.slots[0]
}

// End returns the byte offset just past the match.
func (m *Match) End() int {
	return m.slots[1]
}

// Bytes returns the matched subject span. The slice aliases the subject.
func (m *Match) Bytes() []byte {
	return m.haystack[m.slots[0]:m.slots[1]]
}

// String returns the matched text.
func (m *Match) String() string {
	return string(m.Bytes())
}

// NumGroups returns the number of capture groups including the whole-match
// group 0.
func (m *Match) NumGroups() int {
	return len(m.slots) / 2
}

// GroupIndex returns the bounds of group i, or (-1, -1) when the group did
// not participate in the match.
func (m *Match) GroupIndex(i int) (start, end int) {
	return m.slots[2*i], m.slots[2*i+1]
}

// Group returns the text of group i, or nil when the group did not
// participate. The slice aliases the subject.
func (m *Match) Group(i int) []byte {
	s, e := m.GroupIndex(i)
	if s < 0 {
		return nil
	}
	return m.haystack[s:e]
}

// GroupString returns the text of group i, or "" when the group did not
// participate.
func (m *Match) GroupString(i int) string {
	return string(m.Group(i))
}
