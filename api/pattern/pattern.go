// Package pattern compiles oEmbed URL schemes into matchers.
//
// A scheme is a URL in which `*` matches any run of characters, including an
// empty one. Every other character matches itself, case-sensitively, and the
// scheme must cover the whole URL.
package pattern

import (
	"regexp"
	"strings"
)

// Wildcard is the only special character in a scheme.
const Wildcard = "*"

// Matcher reports whether URLs fall under a single scheme
type Matcher struct {
	source string
	re     *regexp.Regexp
}

// Compile builds a Matcher for the given scheme.
// It never fails: every string is a valid scheme.
func Compile(scheme string) *Matcher {
	parts := strings.Split(scheme, Wildcard)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	expr := "^" + strings.Join(parts, ".*") + "$"

	return &Matcher{
		source: scheme,
		// (?s) lets the wildcard span newlines, so "*" really means any run.
		re: regexp.MustCompile("(?s)" + expr),
	}
}

// Matches reports whether url is covered by the scheme
func (m *Matcher) Matches(url string) bool {
	return m.re.MatchString(url)
}

// String returns the scheme the matcher was compiled from
func (m *Matcher) String() string {
	return m.source
}
