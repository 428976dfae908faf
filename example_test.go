package posixre_test

import (
	"fmt"

	"github.com/coregx/posixre"
)

// ExampleCompile demonstrates basic pattern compilation and matching.
func ExampleCompile() {
	re, err := posixre.Compile(`[0-9]+`)
	if err != nil {
		panic(err)
	}

	fmt.Println(re.Match([]byte("hello 123")))
	// Output: true
}

// ExampleMustCompile demonstrates panic-on-error compilation.
func ExampleMustCompile() {
	re := posixre.MustCompile(`hello`)
	fmt.Println(re.MatchString("hello world"))
	// Output: true
}

// ExampleCompile_error demonstrates the diagnostic carried by a parse
// failure.
func ExampleCompile_error() {
	_, err := posixre.Compile("ab(cd")
	fmt.Println(err)
	// Output: Malformed regular expression at offset 2 (remaining "(cd")
}

// ExampleRegex_FindString demonstrates finding the first match.
func ExampleRegex_FindString() {
	re := posixre.MustCompile(`[0-9]+`)
	fmt.Println(re.FindString("age: 42 years"))
	// Output: 42
}

// ExampleRegex_FindStringSubmatch demonstrates capture groups.
func ExampleRegex_FindStringSubmatch() {
	re := posixre.MustCompile(`(\w+)@(\w+)`)
	m := re.FindStringSubmatch("send to bob@example")
	fmt.Println(m[1], m[2])
	// Output: bob example
}

// ExampleRegex_FindAllString demonstrates iterating all matches.
func ExampleRegex_FindAllString() {
	re := posixre.MustCompile(`[0-9]+`)
	fmt.Println(re.FindAllString("1 22 333", -1))
	// Output: [1 22 333]
}

// ExampleRegex_ReplaceAllString demonstrates group references in
// replacements.
func ExampleRegex_ReplaceAllString() {
	re := posixre.MustCompile(`(\w+)=(\w+)`)
	fmt.Println(re.ReplaceAllString("mode=fast", "$2 <- $1"))
	// Output: fast <- mode
}

// ExampleRegex_Split demonstrates splitting on a pattern.
func ExampleRegex_Split() {
	re := posixre.MustCompile(`[,;] *`)
	fmt.Println(re.Split("a, b;c", -1))
	// Output: [a b c]
}

// ExampleQuoteMeta demonstrates escaping literal text.
func ExampleQuoteMeta() {
	fmt.Println(posixre.QuoteMeta("1+1=2"))
	// Output: 1\+1=2
}

// ExampleRegex_FindMatch demonstrates the Match accessor type.
func ExampleRegex_FindMatch() {
	re := posixre.MustCompile(`(\w+)-([0-9]+)`)
	m := re.FindMatch([]byte("ticket item-42 open"))
	fmt.Println(m.Start(), m.End(), m.GroupString(2))
	// Output: 7 14 42
}
