package vm

import (
	"reflect"
	"strings"
	"testing"

	"github.com/coregx/posixre/syntax"
)

func mustParse(t *testing.T, pattern string) syntax.Node {
	t.Helper()
	root, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	return root
}

func ops(p *Prog) []Op {
	out := make([]Op, len(p.Insts))
	for i, inst := range p.Insts {
		out[i] = inst.Op
	}
	return out
}

func TestCompileShapes(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []Op
	}{
		{
			"literal sequence",
			"ab",
			[]Op{OpSave, OpLiteral, OpLiteral, OpSave, OpAccept},
		},
		{
			"any",
			".",
			[]Op{OpSave, OpAny, OpSave, OpAccept},
		},
		{
			"class",
			"[a-z]",
			[]Op{OpSave, OpClass, OpSave, OpAccept},
		},
		{
			"alternation",
			"a|b",
			[]Op{OpSave, OpSplit, OpLiteral, OpJump, OpLiteral, OpSave, OpAccept},
		},
		{
			"star",
			"a*",
			[]Op{OpSave, OpSplit, OpLiteral, OpJump, OpSave, OpAccept},
		},
		{
			"plus",
			"a+",
			[]Op{OpSave, OpLiteral, OpSplit, OpSave, OpAccept},
		},
		{
			"opt",
			"a?",
			[]Op{OpSave, OpSplit, OpLiteral, OpSave, OpAccept},
		},
		{
			"group",
			"(a)",
			[]Op{OpSave, OpSave, OpLiteral, OpSave, OpSave, OpAccept},
		},
		{
			"empty group emits only saves",
			"()",
			[]Op{OpSave, OpSave, OpSave, OpSave, OpAccept},
		},
		{
			"anchors",
			"^a$",
			[]Op{OpSave, OpAssertStart, OpLiteral, OpAssertEnd, OpSave, OpAccept},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := Compile(mustParse(t, tt.pattern))
			if got := ops(prog); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ops(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

// TestCompileSplitPriority tests that greediness is encoded purely in split
// operand order.
func TestCompileSplitPriority(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		splitPC int
		wantX   int
		wantY   int
	}{
		// 0 save, 1 split, 2 char, 3 jump->1, 4 save, 5 accept
		{"greedy star prefers body", "a*", 1, 2, 4},
		{"non-greedy star prefers exit", "a*?", 1, 4, 2},
		// 0 save, 1 split, 2 char, 3 save, 4 accept
		{"greedy opt prefers body", "a?", 1, 2, 3},
		{"non-greedy opt prefers skip", "a??", 1, 3, 2},
		// 0 save, 1 char, 2 split, 3 save, 4 accept
		{"greedy plus prefers loop", "a+", 2, 1, 3},
		{"non-greedy plus prefers exit", "a+?", 2, 3, 1},
		// 0 save, 1 split, 2 char a, 3 jump->5, 4 char b, 5 save, 6 accept
		{"alternation prefers first branch", "a|b", 1, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := Compile(mustParse(t, tt.pattern))
			inst := prog.Insts[tt.splitPC]
			if inst.Op != OpSplit {
				t.Fatalf("inst %d of %q = %s, want split", tt.splitPC, tt.pattern, inst.Op)
			}
			if inst.X != tt.wantX || inst.Y != tt.wantY {
				t.Errorf("%q split = (%d, %d), want (%d, %d)",
					tt.pattern, inst.X, inst.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestCompileCaptureCount(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"a", 1},
		{"(a)", 2},
		{"(a)(b)", 3},
		{"(a(b(c)))", 4},
		{"(a)|(b)", 3},
		{"(ab){2}", 3},
	}
	for _, tt := range tests {
		prog := Compile(mustParse(t, tt.pattern))
		if prog.NumCaptures != tt.want {
			t.Errorf("NumCaptures(%q) = %d, want %d", tt.pattern, prog.NumCaptures, tt.want)
		}
		if prog.NumSlots() != 2*tt.want {
			t.Errorf("NumSlots(%q) = %d, want %d", tt.pattern, prog.NumSlots(), 2*tt.want)
		}
	}
}

// TestCompileInvariants tests the structural contract: Accept exactly once
// and last, every branch target in range.
func TestCompileInvariants(t *testing.T) {
	patterns := []string{
		"a", "abc", "a|b|c", "(a*)(b+)c?", "((a|b)*c){2,4}",
		"[^x]*x", "^(foo|bar)+$", "a{3}", "(|a)*",
	}
	for _, pattern := range patterns {
		prog := Compile(mustParse(t, pattern))

		accepts := 0
		for pc, inst := range prog.Insts {
			switch inst.Op {
			case OpAccept:
				accepts++
			case OpSplit:
				if inst.X < 0 || inst.X >= len(prog.Insts) || inst.Y < 0 || inst.Y >= len(prog.Insts) {
					t.Errorf("%q: split at %d targets (%d, %d) out of range", pattern, pc, inst.X, inst.Y)
				}
			case OpJump:
				if inst.X < 0 || inst.X >= len(prog.Insts) {
					t.Errorf("%q: jump at %d targets %d out of range", pattern, pc, inst.X)
				}
			}
		}
		if accepts != 1 {
			t.Errorf("%q: %d accepts, want 1", pattern, accepts)
		}
		if last := prog.Insts[len(prog.Insts)-1]; last.Op != OpAccept {
			t.Errorf("%q: last instruction %s, want accept", pattern, last.Op)
		}
	}
}

func TestCompileUnknownNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Compile did not panic on unknown node")
		}
	}()
	Compile(nil)
}

func TestProgString(t *testing.T) {
	prog := Compile(mustParse(t, "a|b"))
	s := prog.String()
	for _, want := range []string{"save 0", `char 'a'`, `char 'b'`, "split", "jump", "accept"} {
		if !strings.Contains(s, want) {
			t.Errorf("Prog.String() missing %q:\n%s", want, s)
		}
	}
}
