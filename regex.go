// Package posixre implements POSIX extended regular expressions (ERE) with
// capture groups.
//
// Patterns are parsed into a syntax tree, lowered to a small bytecode
// program, and executed by a backtracking virtual machine. Alternation is
// leftmost-first: the engine returns the leftmost match, preferring earlier
// branches at each alternation, like Perl-style engines (not POSIX
// leftmost-longest). Patterns with extractable literal prefixes are
// accelerated by substring prefilters, including an Aho-Corasick automaton
// for multi-literal alternations.
//
// The public API mirrors the standard library's regexp package where the
// feature sets overlap.
//
// Basic usage:
//
//	re, err := posixre.Compile(`(ab|cd)+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.MatchString("xxabcdxx") // true
//
//	re = posixre.MustCompile(`(\w+)@(\w+)`)
//	m := re.FindStringSubmatch("mail me: bob@example")
//	// m = ["bob@example", "bob", "example"]
//
// Supported syntax: literals, '.', character classes with ranges and
// negation, the escapes \d \D \s \S \w \W, grouping with capture,
// alternation, the quantifiers * + ? and {m,n} (each with a non-greedy '?'
// suffix), and the anchors ^ and $ matching the subject start and end.
package posixre

import (
	"fmt"
	"unicode/utf8"

	"github.com/coregx/posixre/syntax"
)

// Regex is a compiled regular expression. It is safe for concurrent use by
// multiple goroutines.
type Regex struct {
	pattern string
	engine  *engine

	// numCaps counts capture groups including the implicit whole-match
	// group 0.
	numCaps int
}

// Regexp is an alias for Regex, for call sites ported from the standard
// library.
type Regexp = Regex

// Compile parses a pattern and builds a matching engine for it.
// On failure the returned error is a *syntax.ParseError carrying the byte
// offset of the offending token.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig is Compile with explicit engine configuration.
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	root, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	e := newEngine(root, cfg)
	return &Regex{
		pattern: pattern,
		engine:  e,
		numCaps: e.prog.NumCaptures,
	}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be parsed.
// It simplifies safe initialization of global variables.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("posixre: Compile(%q): %v", pattern, err))
	}
	return re
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a
// regular expression matching the literal text.
//
// Example:
//
//	posixre.QuoteMeta("1+1=2") // `1\+1=2`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// NumSubexp returns the number of capture groups in the pattern, not
// counting the implicit whole-match group.
func (r *Regex) NumSubexp() int {
	return r.numCaps - 1
}

// Match reports whether b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.engine.search(b, 0) != nil
}

// MatchString reports whether s contains any match of the pattern.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns the leftmost match in b, or nil if there is none.
// A nil return is distinguishable from an empty match via FindIndex.
func (r *Regex) Find(b []byte) []byte {
	slots := r.engine.search(b, 0)
	if slots == nil {
		return nil
	}
	return b[slots[0]:slots[1]]
}

// FindString returns the leftmost match in s, or "" if there is none.
func (r *Regex) FindString(s string) string {
	return string(r.Find([]byte(s)))
}

// FindIndex returns the byte offsets [start, end) of the leftmost match in
// b, or nil.
func (r *Regex) FindIndex(b []byte) []int {
	slots := r.engine.search(b, 0)
	if slots == nil {
		return nil
	}
	return []int{slots[0], slots[1]}
}

// FindStringIndex returns the byte offsets of the leftmost match in s, or
// nil.
func (r *Regex) FindStringIndex(s string) []int {
	return r.FindIndex([]byte(s))
}

// FindSubmatchIndex returns the offsets of the leftmost match and its
// capture groups: slots 2i and 2i+1 hold the bounds of group i, -1 for a
// group that did not participate. Group 0 is the whole match.
func (r *Regex) FindSubmatchIndex(b []byte) []int {
	return r.engine.search(b, 0)
}

// FindStringSubmatchIndex is FindSubmatchIndex on a string subject.
func (r *Regex) FindStringSubmatchIndex(s string) []int {
	return r.FindSubmatchIndex([]byte(s))
}

// FindSubmatch returns the leftmost match and the text of each capture
// group. Group slices are nil when the group did not participate in the
// match.
//
// Example:
//
//	re := posixre.MustCompile(`(a)|(b)`)
//	m := re.FindSubmatch([]byte("b"))
//	// m[0] = "b", m[1] = nil, m[2] = "b"
func (r *Regex) FindSubmatch(b []byte) [][]byte {
	slots := r.engine.search(b, 0)
	if slots == nil {
		return nil
	}
	out := make([][]byte, r.numCaps)
	for i := 0; i < r.numCaps; i++ {
		if slots[2*i] >= 0 {
			out[i] = b[slots[2*i]:slots[2*i+1]]
		}
	}
	return out
}

// FindStringSubmatch is FindSubmatch on a string subject; groups that did
// not participate are empty strings.
func (r *Regex) FindStringSubmatch(s string) []string {
	m := r.FindSubmatch([]byte(s))
	if m == nil {
		return nil
	}
	out := make([]string, len(m))
	for i, g := range m {
		out[i] = string(g)
	}
	return out
}

// allMatches calls deliver for each successive non-overlapping match,
// at most n times when n > 0. Empty matches advance the scan by one rune,
// and an empty match starting exactly where the previous match ended is
// suppressed, like the standard library.
func (r *Regex) allMatches(b []byte, n int, deliver func(slots []int)) {
	if n < 0 {
		n = len(b) + 1
	}
	pos := 0
	prevMatchEnd := -1
	for count := 0; count < n && pos <= len(b); {
		slots := r.engine.search(b, pos)
		if slots == nil {
			break
		}
		accept := true
		if slots[0] == slots[1] {
			if slots[0] == prevMatchEnd {
				accept = false
			}
			if slots[1] >= len(b) {
				pos = len(b) + 1
			} else {
				_, w := utf8.DecodeRune(b[slots[1]:])
				pos = slots[1] + w
			}
		} else {
			pos = slots[1]
		}
		prevMatchEnd = slots[1]
		if accept {
			deliver(slots)
			count++
		}
	}
}

// FindAll returns all successive matches in b. If n > 0, at most n matches
// are returned; n <= 0 means all.
func (r *Regex) FindAll(b []byte, n int) [][]byte {
	if n == 0 {
		return nil
	}
	var out [][]byte
	r.allMatches(b, n, func(slots []int) {
		out = append(out, b[slots[0]:slots[1]])
	})
	return out
}

// FindAllString returns all successive matches in s.
func (r *Regex) FindAllString(s string, n int) []string {
	matches := r.FindAll([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = string(m)
	}
	return out
}

// FindAllIndex returns the offsets of all successive matches in b.
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	r.allMatches(b, n, func(slots []int) {
		out = append(out, []int{slots[0], slots[1]})
	})
	return out
}

// FindAllStringIndex returns the offsets of all successive matches in s.
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	return r.FindAllIndex([]byte(s), n)
}

// FindAllSubmatch returns all successive matches with their capture groups.
func (r *Regex) FindAllSubmatch(b []byte, n int) [][][]byte {
	if n == 0 {
		return nil
	}
	var out [][][]byte
	r.allMatches(b, n, func(slots []int) {
		m := make([][]byte, r.numCaps)
		for i := 0; i < r.numCaps; i++ {
			if slots[2*i] >= 0 {
				m[i] = b[slots[2*i]:slots[2*i+1]]
			}
		}
		out = append(out, m)
	})
	return out
}

// FindAllStringSubmatch returns all successive matches with their capture
// groups as strings.
func (r *Regex) FindAllStringSubmatch(s string, n int) [][]string {
	matches := r.FindAllSubmatch([]byte(s), n)
	if matches == nil {
		return nil
	}
	out := make([][]string, len(matches))
	for i, m := range matches {
		row := make([]string, len(m))
		for j, g := range m {
			row[j] = string(g)
		}
		out[i] = row
	}
	return out
}

// FindAllSubmatchIndex returns the capture slot vectors of all successive
// matches.
func (r *Regex) FindAllSubmatchIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	var out [][]int
	r.allMatches(b, n, func(slots []int) {
		out = append(out, slots)
	})
	return out
}

// FindAllStringSubmatchIndex is FindAllSubmatchIndex on a string subject.
func (r *Regex) FindAllStringSubmatchIndex(s string, n int) [][]int {
	return r.FindAllSubmatchIndex([]byte(s), n)
}

// Count returns the number of non-overlapping matches in b, at most n when
// n > 0.
func (r *Regex) Count(b []byte, n int) int {
	if n == 0 {
		return 0
	}
	count := 0
	r.allMatches(b, n, func([]int) { count++ })
	return count
}

// CountString returns the number of non-overlapping matches in s.
func (r *Regex) CountString(s string, n int) int {
	return r.Count([]byte(s), n)
}

// replaceAll rewrites src, passing each match's slots to emit, which
// appends the replacement for that match to dst.
func (r *Regex) replaceAll(src []byte, emit func(dst []byte, slots []int) []byte) []byte {
	var dst []byte
	lastEnd := 0
	r.allMatches(src, -1, func(slots []int) {
		dst = append(dst, src[lastEnd:slots[0]]...)
		dst = emit(dst, slots)
		lastEnd = slots[1]
	})
	dst = append(dst, src[lastEnd:]...)
	return dst
}

// ReplaceAll returns a copy of src with matches of the pattern replaced by
// repl. Inside repl, $0 is the whole match, $1 through $9 the capture
// groups (empty for a group that did not participate), and $$ a literal
// dollar sign.
//
// Example:
//
//	re := posixre.MustCompile(`(\w+)@(\w+)`)
//	re.ReplaceAll([]byte("bob@host"), []byte("$2: $1"))
//	// "host: bob"
func (r *Regex) ReplaceAll(src, repl []byte) []byte {
	return r.replaceAll(src, func(dst []byte, slots []int) []byte {
		return expand(dst, repl, src, slots)
	})
}

// ReplaceAllString is ReplaceAll on string arguments.
func (r *Regex) ReplaceAllString(src, repl string) string {
	return string(r.ReplaceAll([]byte(src), []byte(repl)))
}

// ReplaceAllLiteral returns a copy of src with matches replaced by repl,
// taken literally: no $ expansion.
func (r *Regex) ReplaceAllLiteral(src, repl []byte) []byte {
	return r.replaceAll(src, func(dst []byte, _ []int) []byte {
		return append(dst, repl...)
	})
}

// ReplaceAllLiteralString is ReplaceAllLiteral on string arguments.
func (r *Regex) ReplaceAllLiteralString(src, repl string) string {
	return string(r.ReplaceAllLiteral([]byte(src), []byte(repl)))
}

// ReplaceAllFunc returns a copy of src with each match replaced by the
// return value of repl applied to the matched bytes.
func (r *Regex) ReplaceAllFunc(src []byte, repl func([]byte) []byte) []byte {
	return r.replaceAll(src, func(dst []byte, slots []int) []byte {
		return append(dst, repl(src[slots[0]:slots[1]])...)
	})
}

// ReplaceAllStringFunc is ReplaceAllFunc on string arguments.
func (r *Regex) ReplaceAllStringFunc(src string, repl func(string) string) string {
	return string(r.ReplaceAllFunc([]byte(src), func(m []byte) []byte {
		return []byte(repl(string(m)))
	}))
}

// expand appends template to dst, substituting $0-$9 with the
// corresponding group text from src and $$ with a literal '$'. An
// unrecognized $ sequence is kept literally.
func expand(dst, template, src []byte, slots []int) []byte {
	i := 0
	for i < len(template) {
		if template[i] != '$' || i+1 >= len(template) {
			dst = append(dst, template[i])
			i++
			continue
		}
		next := template[i+1]

		if next >= '0' && next <= '9' {
			g := 2 * int(next-'0')
			if g+1 < len(slots) && slots[g] >= 0 {
				dst = append(dst, src[slots[g]:slots[g+1]]...)
			}
			i += 2
			continue
		}
		if next == '$' {
			dst = append(dst, '$')
			i += 2
			continue
		}
		dst = append(dst, '$')
		i++
	}
	return dst
}

// Split slices s into the substrings separated by matches of the pattern.
// If n > 0 the result has at most n elements, the last holding the
// unsplit remainder; n <= 0 means no limit.
//
// Example:
//
//	re := posixre.MustCompile(`[,;] *`)
//	re.Split("a, b;c", -1) // ["a", "b", "c"]
func (r *Regex) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}
	if len(r.pattern) > 0 && len(s) == 0 {
		return []string{""}
	}

	indices := r.FindAllStringIndex(s, n)
	result := make([]string, 0, len(indices)+1)
	beg := 0
	end := 0
	for _, idx := range indices {
		if n > 0 && len(result) >= n-1 {
			break
		}
		end = idx[0]
		// A separator ending at offset 0 would produce a leading empty
		// field with nothing consumed; drop it.
		if idx[1] != 0 {
			result = append(result, s[beg:end])
			beg = idx[1]
		}
	}
	if end != len(s) {
		result = append(result, s[beg:])
	}
	return result
}
