// Package pathfilter implements include/exclude matching of component source
// paths against glob and regular-expression pattern sets.
//
// A Matcher scopes a renderer to a subset of source files so that renderers
// sharing a file-type space (for example two JSX frameworks) can be
// disambiguated without probing. Matching is total: Test never panics and
// always returns a boolean for any input string.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is a single include or exclude rule: either a doublestar glob or a
// compiled regular expression. The zero value matches nothing.
type Pattern struct {
	glob string
	re   *regexp.Regexp
}

// Glob creates a glob pattern. The pattern syntax is doublestar's, so `**`
// crosses directory boundaries.
func Glob(pattern string) Pattern {
	return Pattern{glob: normalize(pattern)}
}

// Regexp creates a regular-expression pattern. Go regexps carry no match
// cursor between calls, so a single compiled pattern is safe to share across
// any number of Test calls.
func Regexp(re *regexp.Regexp) Pattern {
	return Pattern{re: re}
}

// Parse converts a configuration string into a Pattern. Strings wrapped in
// slashes (`/\.jsx$/`) compile as regular expressions; everything else is
// treated as a glob and validated eagerly so malformed patterns fail at
// setup time, not at render time.
func Parse(s string) (Pattern, error) {
	if len(s) > 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		re, err := regexp.Compile(s[1 : len(s)-1])
		if err != nil {
			return Pattern{}, err
		}
		return Regexp(re), nil
	}

	if !doublestar.ValidatePattern(normalize(s)) {
		return Pattern{}, doublestar.ErrBadPattern
	}
	return Glob(s), nil
}

// MustParse is Parse for statically-known patterns; it panics on error.
func MustParse(s string) Pattern {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) matches(path string) bool {
	if p.re != nil {
		return p.re.MatchString(path)
	}
	if p.glob == "" {
		return false
	}
	ok, err := doublestar.Match(p.glob, path)
	if err != nil {
		// Patterns are validated at construction; an error here means the
		// path itself defeated matching, which counts as no match.
		return false
	}
	return ok
}

// Matcher is an immutable include/exclude predicate over source paths. It is
// shared read-only across all render calls for the process lifetime.
type Matcher struct {
	include []Pattern
	exclude []Pattern
}

// New builds a Matcher. A nil or empty include set means "accept every
// non-excluded path"; exclude always wins over include.
func New(include, exclude []Pattern) *Matcher {
	m := &Matcher{
		include: make([]Pattern, len(include)),
		exclude: make([]Pattern, len(exclude)),
	}
	copy(m.include, include)
	copy(m.exclude, exclude)
	return m
}

// Test reports whether path passes the filter.
//
// Empty strings and strings containing a NUL byte are rejected outright:
// they are internal or virtual module identifiers, never legitimate source
// paths. Path separators are normalized to forward slashes before matching
// so filters behave identically across platforms.
func (m *Matcher) Test(path string) bool {
	if path == "" || strings.ContainsRune(path, '\x00') {
		return false
	}

	path = normalize(path)

	for _, p := range m.exclude {
		if p.matches(path) {
			return false
		}
	}

	for _, p := range m.include {
		if p.matches(path) {
			return true
		}
	}

	// No include patterns at all is pass-through mode.
	return len(m.include) == 0
}

func normalize(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
