// Package match implements the restricted glob dialect used to select
// secrets by name, plus the lookup indexes built over inventory listings.
//
// The dialect is deliberately small: '*' matches any run of characters
// (including none) and every other character is literal. Matching is
// case-insensitive and anchored to the whole candidate string. Full regular
// expressions are not exposed; users type shell-like patterns such as
// LMB_* or *metrics* and must never have a '.' or '+' in a secret name
// reinterpreted as an operator.
package match

import (
	"regexp"
	"strings"
)

// Pattern is a compiled glob pattern.
type Pattern struct {
	raw string
	re  *regexp.Regexp
}

// Compile translates a glob pattern into an anchored, case-insensitive
// regular expression. Literal runs between '*' wildcards are quoted so
// regex metacharacters in them stay literal.
func Compile(pattern string) (*Pattern, error) {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	for i, literal := range strings.Split(pattern, "*") {
		if i > 0 {
			sb.WriteString(".*")
		}
		sb.WriteString(regexp.QuoteMeta(literal))
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, err
	}
	return &Pattern{raw: pattern, re: re}, nil
}

// Match reports whether the candidate matches the whole pattern.
func (p *Pattern) Match(candidate string) bool {
	return p.re.MatchString(candidate)
}

// String returns the original glob text.
func (p *Pattern) String() string {
	return p.raw
}

// Match compiles pattern and tests candidate in one call.
func Match(pattern, candidate string) bool {
	p, err := Compile(pattern)
	if err != nil {
		return false
	}
	return p.Match(candidate)
}
