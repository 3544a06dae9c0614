package entities

import (
	"regexp"
	"strings"
)

// WildcardPattern matches names against a space-separated list of '*' wildcards.
// A name matches when it matches any of the terms as a whole.
type WildcardPattern struct {
	expression string
	compiled   *regexp.Regexp
}

// CompileWildcardPattern compiles expression. An empty expression matches nothing.
func CompileWildcardPattern(expression string) (*WildcardPattern, error) {
	terms := strings.Fields(expression)
	if len(terms) == 0 {
		return &WildcardPattern{expression: expression}, nil
	}

	alternatives := make([]string, 0, len(terms))
	for _, term := range terms {
		segments := strings.Split(term, "*")
		for i, segment := range segments {
			segments[i] = regexp.QuoteMeta(segment)
		}
		alternatives = append(alternatives, strings.Join(segments, ".*"))
	}

	compiled, err := regexp.Compile("^(?:" + strings.Join(alternatives, "|") + ")$")
	if err != nil {
		return nil, err
	}
	return &WildcardPattern{expression: expression, compiled: compiled}, nil
}

// MustCompileWildcardPattern is like CompileWildcardPattern but panics on error.
func MustCompileWildcardPattern(expression string) *WildcardPattern {
	pattern, err := CompileWildcardPattern(expression)
	if err != nil {
		panic(err)
	}
	return pattern
}

// Matches reports whether name matches one of the pattern's terms.
func (p *WildcardPattern) Matches(name string) bool {
	if p == nil || p.compiled == nil {
		return false
	}
	return p.compiled.MatchString(name)
}

func (p *WildcardPattern) String() string {
	if p == nil {
		return ""
	}
	return p.expression
}
