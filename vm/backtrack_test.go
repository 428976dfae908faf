package vm

import (
	"reflect"
	"strings"
	"testing"
)

func compile(t *testing.T, pattern string) *Prog {
	t.Helper()
	return Compile(mustParse(t, pattern))
}

func TestSearchBasic(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		haystack string
		at       int
		want     []int // group-0 bounds, nil for no match
	}{
		{"literal at start", "ab", "abc", 0, []int{0, 2}},
		{"literal inside", "bc", "abc", 0, []int{1, 3}},
		{"literal at end", "c", "abc", 0, []int{2, 3}},
		{"no match", "x", "abc", 0, nil},
		{"empty haystack", "a", "", 0, nil},
		{"search origin skips earlier match", "a", "aba", 1, []int{2, 3}},
		{"leftmost wins", "a+", "baaa", 0, []int{1, 4}},
		{"any char", "a.c", "azc", 0, []int{0, 3}},
		{"class", "[0-9]+", "ab123cd", 0, []int{2, 5}},
		{"negated class", "[^a]+", "aaxy", 0, []int{2, 4}},
		{"alternation", "cat|dog", "hotdog", 0, []int{3, 6}},
		{"greedy star", "a*", "aaa", 0, []int{0, 3}},
		{"non-greedy star", "a*?", "aaa", 0, []int{0, 0}},
		{"greedy takes all then backtracks", "a*ab", "aaab", 0, []int{0, 4}},
		{"opt present", "ab?c", "abc", 0, []int{0, 3}},
		{"opt absent", "ab?c", "ac", 0, []int{0, 2}},
		{"start anchor holds", "^ab", "abc", 0, []int{0, 2}},
		{"start anchor is absolute", "^a", "ba", 0, nil},
		{"end anchor", "c$", "abc", 0, []int{2, 3}},
		{"end anchor fails mid-string", "b$", "abc", 0, nil},
		{"both anchors", "^abc$", "abc", 0, []int{0, 3}},
		{"both anchors reject longer", "^abc$", "abcd", 0, nil},
		{"empty match at origin", "x*", "abc", 0, []int{0, 0}},
		{"unicode any is one rune", ".", "日本", 0, []int{0, 3}},
		{"unicode literal", "本", "日本", 0, []int{3, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(compile(t, tt.pattern))
			slots := m.Search([]byte(tt.haystack), tt.at)
			if tt.want == nil {
				if slots != nil {
					t.Fatalf("Search(%q, %q) = %v, want no match", tt.pattern, tt.haystack, slots)
				}
				return
			}
			if slots == nil {
				t.Fatalf("Search(%q, %q) = no match, want %v", tt.pattern, tt.haystack, tt.want)
			}
			if got := slots[:2]; !reflect.DeepEqual([]int(got), tt.want) {
				t.Errorf("Search(%q, %q) = %v, want %v", tt.pattern, tt.haystack, got, tt.want)
			}
		})
	}
}

func TestTryAt(t *testing.T) {
	m := NewMachine(compile(t, "ab"))
	if slots := m.TryAt([]byte("xab"), 0); slots != nil {
		t.Errorf("TryAt at 0 = %v, want nil", slots)
	}
	if slots := m.TryAt([]byte("xab"), 1); slots == nil || slots[0] != 1 || slots[1] != 3 {
		t.Errorf("TryAt at 1 = %v, want [1 3]", slots)
	}
}

func TestCaptures(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		haystack string
		want     []int
	}{
		{
			"simple group",
			"(b+)",
			"abbc",
			[]int{1, 3, 1, 3},
		},
		{
			"two groups",
			"(a+)(b+)",
			"aabb",
			[]int{0, 4, 0, 2, 2, 4},
		},
		{
			"nested groups",
			"((a)b)",
			"ab",
			[]int{0, 2, 0, 2, 0, 1},
		},
		{
			"unused branch group stays unset",
			"(a)|(b)",
			"b",
			[]int{0, 1, -1, -1, 0, 1},
		},
		{
			"backtracking rolls slots back",
			"(a*)(ab)",
			"aab",
			[]int{0, 3, 0, 1, 1, 3},
		},
		{
			"group in loop keeps last iteration",
			"(a|b)+",
			"ab",
			[]int{0, 2, 1, 2},
		},
		{
			"empty group",
			"a()b",
			"ab",
			[]int{0, 2, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(compile(t, tt.pattern))
			slots := m.Search([]byte(tt.haystack), 0)
			if !reflect.DeepEqual(slots, tt.want) {
				t.Errorf("Search(%q, %q) = %v, want %v", tt.pattern, tt.haystack, slots, tt.want)
			}
		})
	}
}

// TestAlternationPriority tests leftmost-first semantics: the first branch
// wins even when a later branch would match more.
func TestAlternationPriority(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		want     []int
	}{
		{"a|ab", "ab", []int{0, 1}},
		{"ab|a", "ab", []int{0, 2}},
		{"|a", "a", []int{0, 0}},
		{"a|", "b", []int{0, 0}},
	}
	for _, tt := range tests {
		m := NewMachine(compile(t, tt.pattern))
		slots := m.Search([]byte(tt.haystack), 0)
		if slots == nil || !reflect.DeepEqual(slots[:2], tt.want) {
			t.Errorf("Search(%q, %q) = %v, want %v", tt.pattern, tt.haystack, slots, tt.want)
		}
	}
}

// TestPathologicalTermination tests that failure memoization cuts off
// patterns that would otherwise loop or explode.
func TestPathologicalTermination(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		haystack string
		match    bool
	}{
		{"empty star loop", "(a*)*", "b", true},
		{"empty star loop no progress", "(|)*", "x", true},
		{"nested star blowup", "(a*)*x", strings.Repeat("a", 64), false},
		{"classic redos", "(a+)+$", strings.Repeat("a", 64) + "b", false},
		{"alternation blowup", "(a|a)*b$", strings.Repeat("a", 64), false},
		{"trailing anchor zero width", "(a|a)*$", strings.Repeat("a", 64) + "b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(compile(t, tt.pattern))
			slots := m.Search([]byte(tt.haystack), 0)
			if got := slots != nil; got != tt.match {
				t.Errorf("Search(%q, len %d) matched=%v, want %v",
					tt.pattern, len(tt.haystack), got, tt.match)
			}
		})
	}
}

// TestVisitedMapFallback drives the state space over the dense bit vector
// cap so the hash-set memo path runs.
func TestVisitedMapFallback(t *testing.T) {
	// ~20 instructions over a 150k haystack exceeds the 2M dense-state cap.
	pattern := "(a+)+bcdef$"
	haystack := strings.Repeat("a", 150_000)

	m := NewMachine(compile(t, pattern))
	if slots := m.Search([]byte(haystack), 0); slots != nil {
		t.Errorf("Search = %v, want no match", slots)
	}

	withSuffix := haystack + "bcdef"
	if slots := m.Search([]byte(withSuffix), 0); slots == nil || slots[0] != 0 || slots[1] != len(withSuffix) {
		t.Errorf("Search with suffix = %v, want [0 %d]", slots, len(withSuffix))
	}
}

// TestMachineReuse tests that one machine serves many searches without
// state bleeding across calls.
func TestMachineReuse(t *testing.T) {
	m := NewMachine(compile(t, "(a+)b"))

	if slots := m.Search([]byte("aab"), 0); !reflect.DeepEqual(slots, []int{0, 3, 0, 2}) {
		t.Fatalf("first search = %v", slots)
	}
	if slots := m.Search([]byte("zzz"), 0); slots != nil {
		t.Fatalf("second search = %v, want nil", slots)
	}
	if slots := m.Search([]byte("xab"), 0); !reflect.DeepEqual(slots, []int{1, 3, 1, 2}) {
		t.Fatalf("third search = %v", slots)
	}
}

// TestReturnedSlotsAreOwned tests that a returned slice is not clobbered by
// the next search on the same machine.
func TestReturnedSlotsAreOwned(t *testing.T) {
	m := NewMachine(compile(t, "a"))
	first := m.Search([]byte("xa"), 0)
	second := m.Search([]byte("a"), 0)
	if !reflect.DeepEqual(first, []int{1, 2}) {
		t.Errorf("first = %v, want [1 2]", first)
	}
	if !reflect.DeepEqual(second, []int{0, 1}) {
		t.Errorf("second = %v, want [0 1]", second)
	}
}

func TestBoundExpansionMatching(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		want     []int // group 0, nil for no match
	}{
		{"a{3}", "aaaa", []int{0, 3}},
		{"a{3}", "aa", nil},
		{"a{2,}", "aaaa", []int{0, 4}},
		{"a{2,}", "a", nil},
		{"^a{1,3}$", "aa", []int{0, 2}},
		{"^a{1,3}$", "aaaa", nil},
		{"a{0,2}b", "aab", []int{0, 3}},
		{"a{0,0}b", "b", []int{0, 1}},
	}
	for _, tt := range tests {
		m := NewMachine(compile(t, tt.pattern))
		slots := m.Search([]byte(tt.haystack), 0)
		if tt.want == nil {
			if slots != nil {
				t.Errorf("Search(%q, %q) = %v, want no match", tt.pattern, tt.haystack, slots)
			}
			continue
		}
		if slots == nil || !reflect.DeepEqual(slots[:2], tt.want) {
			t.Errorf("Search(%q, %q) = %v, want %v", tt.pattern, tt.haystack, slots, tt.want)
		}
	}
}
