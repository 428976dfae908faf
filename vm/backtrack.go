package vm

import "unicode/utf8"

// visitedMaxBytes caps the dense failure-memo bit vector. Above this the
// machine falls back to a hash set, trading speed for bounded memory.
const visitedMaxBytes = 256 * 1024

// Machine runs a compiled program over one subject at a time with a
// depth-first backtracking interpreter.
//
// A Machine is reusable across searches but not safe for concurrent use;
// callers wanting concurrency create one Machine per goroutine (or pool
// them) and share the immutable Prog.
type Machine struct {
	prog *Prog

	haystack []byte
	slots    []int

	// Failure memo, keyed by (pc, position). A state that failed once fails
	// always: execution depends only on pc and position, never on slot
	// contents, so a revisited state can be cut off immediately. Without
	// this, empty-matching alternatives loop forever at a fixed position.
	visited    []uint64
	visitedMap map[uint64]struct{}
}

// NewMachine creates a machine for prog.
func NewMachine(prog *Prog) *Machine {
	return &Machine{
		prog:  prog,
		slots: make([]int, prog.NumSlots()),
	}
}

// Search finds the leftmost match starting at or after byte offset at.
// It returns the capture slots (2 per group, -1 for a group that did not
// participate) or nil when no match exists. The returned slice is owned by
// the caller.
func (m *Machine) Search(haystack []byte, at int) []int {
	m.reset(haystack)
	for start := at; ; {
		if slots := m.try(start); slots != nil {
			return slots
		}
		if start >= len(haystack) {
			return nil
		}
		_, width := utf8.DecodeRune(haystack[start:])
		start += width
	}
}

// TryAt attempts a match anchored at exactly byte offset at. It returns the
// capture slots or nil.
func (m *Machine) TryAt(haystack []byte, at int) []int {
	m.reset(haystack)
	return m.try(at)
}

func (m *Machine) reset(haystack []byte) {
	m.haystack = haystack
	for i := range m.slots {
		m.slots[i] = -1
	}

	// One memo bit per (pc, position) pair, position ranging to len+1
	// inclusive. The memo survives across start offsets within one search:
	// states are start-independent.
	states := uint64(len(m.prog.Insts)) * uint64(len(haystack)+1)
	if states <= visitedMaxBytes*8 {
		words := (states + 63) / 64
		if uint64(cap(m.visited)) < words {
			m.visited = make([]uint64, words)
		} else {
			m.visited = m.visited[:words]
			for i := range m.visited {
				m.visited[i] = 0
			}
		}
		m.visitedMap = nil
	} else {
		m.visited = nil
		m.visitedMap = make(map[uint64]struct{})
	}
}

// seen marks the state and reports whether it was already marked.
func (m *Machine) seen(pc, pos int) bool {
	key := uint64(pc)*uint64(len(m.haystack)+1) + uint64(pos)
	if m.visitedMap != nil {
		if _, ok := m.visitedMap[key]; ok {
			return true
		}
		m.visitedMap[key] = struct{}{}
		return false
	}
	word, bit := key/64, key%64
	if m.visited[word]&(1<<bit) != 0 {
		return true
	}
	m.visited[word] |= 1 << bit
	return false
}

// try runs the program from pc 0 at the given start position and returns a
// copy of the slots on success.
func (m *Machine) try(start int) []int {
	if !m.run(0, start) {
		return nil
	}
	out := make([]int, len(m.slots))
	copy(out, m.slots)
	return out
}

// run is the interpreter core. It returns true on reaching Accept. Straight-
// line code iterates; OpSplit and OpSave recurse so that slot writes of an
// abandoned branch are rolled back before the alternative runs.
func (m *Machine) run(pc, pos int) bool {
	for {
		if m.seen(pc, pos) {
			return false
		}
		inst := &m.prog.Insts[pc]
		switch inst.Op {
		case OpLiteral:
			if pos >= len(m.haystack) {
				return false
			}
			r, width := utf8.DecodeRune(m.haystack[pos:])
			if r != inst.R {
				return false
			}
			pos += width
			pc++

		case OpAny:
			if pos >= len(m.haystack) {
				return false
			}
			_, width := utf8.DecodeRune(m.haystack[pos:])
			pos += width
			pc++

		case OpClass:
			if pos >= len(m.haystack) {
				return false
			}
			r, width := utf8.DecodeRune(m.haystack[pos:])
			if !inst.Class.Contains(r) {
				return false
			}
			pos += width
			pc++

		case OpSplit:
			if m.run(inst.X, pos) {
				return true
			}
			pc = inst.Y

		case OpJump:
			pc = inst.X

		case OpSave:
			old := m.slots[inst.X]
			m.slots[inst.X] = pos
			if m.run(pc+1, pos) {
				return true
			}
			m.slots[inst.X] = old
			return false

		case OpAssertStart:
			if pos != 0 {
				return false
			}
			pc++

		case OpAssertEnd:
			if pos != len(m.haystack) {
				return false
			}
			pc++

		case OpAccept:
			return true
		}
	}
}
