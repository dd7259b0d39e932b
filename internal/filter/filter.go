package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern is returned when a filter pattern is not a valid regular expression.
var ErrInvalidPattern = errors.New("invalid filter pattern")

// InvalidPatternError identifies the pattern that failed to compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid filter pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() []error { return []error{ErrInvalidPattern, e.Err} }

// Spec is the ordered list of raw patterns given by the user.
type Spec []string

// Parse splits raw on literal commas. Whitespace is kept as part of the pattern.
func Parse(raw string) Spec {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// Matchers is a compiled Spec. The zero value accepts every header name.
type Matchers []*regexp.Regexp

// Compile turns an optional comma-separated filter expression into matchers.
// A nil or empty expression yields no matchers.
func Compile(raw *string) (Matchers, error) {
	if raw == nil {
		return nil, nil
	}
	return CompileSpec(Parse(*raw))
}

// CompileSpec compiles every pattern as a case-insensitive regular expression.
func CompileSpec(spec Spec) (Matchers, error) {
	if len(spec) == 0 {
		return nil, nil
	}
	out := make(Matchers, 0, len(spec))
	for _, p := range spec {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, &InvalidPatternError{Pattern: p, Err: err}
		}
		out = append(out, re)
	}
	return out, nil
}

// Match reports whether name matches at least one pattern.
func (m Matchers) Match(name string) bool {
	if len(m) == 0 {
		return true
	}
	for _, re := range m {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
