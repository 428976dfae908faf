package posixre

import (
	"sync"

	"github.com/coregx/posixre/literal"
	"github.com/coregx/posixre/prefilter"
	"github.com/coregx/posixre/syntax"
	"github.com/coregx/posixre/vm"
)

// Config tunes compilation. The zero value disables literal prefiltering;
// use DefaultConfig for the standard limits.
type Config struct {
	// Literal bounds prefix literal extraction for the prefilter.
	Literal literal.Config

	// DisablePrefilter forces every search through the backtracking
	// machine, byte by byte. Mainly useful for testing and benchmarking.
	DisablePrefilter bool
}

// DefaultConfig returns the configuration used by Compile.
func DefaultConfig() Config {
	return Config{Literal: literal.DefaultConfig()}
}

// engine binds a compiled program to its search strategy: an optional
// literal prefilter, an anchored-start fast path, and a pool of reusable
// machines so concurrent searches don't contend.
type engine struct {
	prog     *vm.Prog
	filter   prefilter.Prefilter
	anchored bool
	pool     sync.Pool
}

func newEngine(root syntax.Node, cfg Config) *engine {
	prog := vm.Compile(root)
	e := &engine{
		prog:     prog,
		anchored: startAnchored(root),
	}
	if !cfg.DisablePrefilter && !e.anchored {
		if cfg.Literal.MaxLiterals > 0 {
			seq := literal.New(cfg.Literal).ExtractPrefixes(root)
			e.filter = prefilter.FromSeq(seq)
		}
	}
	e.pool.New = func() interface{} {
		return vm.NewMachine(prog)
	}
	return e
}

// startAnchored reports whether every match must begin at position 0, i.e.
// all paths through the tree start with '^'.
func startAnchored(n syntax.Node) bool {
	switch n := n.(type) {
	case *syntax.StartAnchor:
		return true
	case *syntax.Concat:
		return startAnchored(n.Left)
	case *syntax.Capture:
		return startAnchored(n.Sub)
	case *syntax.Alt:
		return startAnchored(n.Left) && startAnchored(n.Right)
	case *syntax.Plus:
		return startAnchored(n.Sub)
	}
	return false
}

// search finds the leftmost match starting at or after byte offset at and
// returns its capture slots, or nil. The returned slice is freshly
// allocated.
func (e *engine) search(b []byte, at int) []int {
	if at < 0 || at > len(b) {
		return nil
	}

	mach := e.pool.Get().(*vm.Machine)
	defer e.pool.Put(mach)

	if e.anchored {
		// '^' asserts absolute position 0, so any later start is futile.
		if at > 0 {
			return nil
		}
		return mach.TryAt(b, 0)
	}

	if e.filter == nil {
		return mach.Search(b, at)
	}

	// Exact literal patterns skip verification entirely. Only safe when the
	// match length is fixed and no inner groups need slots.
	if e.filter.IsComplete() && e.filter.LiteralLen() > 0 && e.prog.NumCaptures == 1 {
		pos := e.filter.Find(b, at)
		if pos < 0 {
			return nil
		}
		return []int{pos, pos + e.filter.LiteralLen()}
	}

	// Every match starts at a literal occurrence, so candidates can be
	// verified in order and the first hit is the leftmost match.
	for pos := at; ; {
		cand := e.filter.Find(b, pos)
		if cand < 0 {
			return nil
		}
		if slots := mach.TryAt(b, cand); slots != nil {
			return slots
		}
		// Overlapping literals may start one byte later.
		pos = cand + 1
		if pos > len(b) {
			return nil
		}
	}
}
