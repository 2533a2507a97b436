package schema

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	kontrakt "github.com/kontrakt-dev/kontrakt"
)

// Matcher is a terminal schema leaf validated by rule instead of structural
// recursion. Implementations must be immutable after construction; the same
// matcher may be evaluated concurrently.
type Matcher interface {
	// Match reports the violations found for v at path. The engine never
	// recurses past a matcher; container-shaped matchers validate their
	// contents internally.
	Match(path string, v any) kontrakt.Violations
	// Sample returns one representative value accepted by the matcher.
	Sample() any
	// MatcherName identifies the matcher in snapshot documents.
	MatcherName() string
}

// ---- regex ----

type regexMatcher struct {
	re      *regexp.Regexp
	example string
}

// Regex returns a matcher requiring a string matching pattern. The example is
// used for sample generation and should itself match. The pattern must
// compile; a bad pattern is programmer misuse and panics.
func Regex(pattern, example string) Matcher {
	return regexMatcher{re: regexp.MustCompile(pattern), example: example}
}

func (m regexMatcher) Match(path string, v any) kontrakt.Violations {
	s, ok := v.(string)
	if !ok {
		return typeViolation(path, "string", v)
	}
	if m.re.MatchString(s) {
		return nil
	}
	return kontrakt.Violations{{
		Path:     path,
		Kind:     kontrakt.KindPatternMismatch,
		Message:  "value does not match pattern",
		Expected: m.re.String(),
		Actual:   s,
	}}
}

func (m regexMatcher) Sample() any         { return m.example }
func (m regexMatcher) MatcherName() string { return "regex" }

// ---- enum ----

type enumMatcher struct {
	values []string
}

// Enum returns a matcher requiring a string drawn from the given value set.
func Enum(values ...string) Matcher {
	vs := make([]string, len(values))
	copy(vs, values)
	return enumMatcher{values: vs}
}

func (m enumMatcher) Match(path string, v any) kontrakt.Violations {
	s, ok := v.(string)
	if !ok {
		return typeViolation(path, "string", v)
	}
	for _, val := range m.values {
		if val == s {
			return nil
		}
	}
	sorted := make([]string, len(m.values))
	copy(sorted, m.values)
	sort.Strings(sorted)
	return kontrakt.Violations{{
		Path:     path,
		Kind:     kontrakt.KindInvalidEnumValue,
		Message:  "value is not one of the allowed set",
		Expected: strings.Join(sorted, ", "),
		Actual:   s,
	}}
}

func (m enumMatcher) Sample() any {
	if len(m.values) == 0 {
		return ""
	}
	return m.values[0]
}
func (m enumMatcher) MatcherName() string { return "enum" }

// ---- numeric range ----

type rangeMatcher struct {
	min, max float64
}

// Range returns a matcher requiring a number within [min, max].
func Range(min, max float64) Matcher { return rangeMatcher{min: min, max: max} }

func (m rangeMatcher) Match(path string, v any) kontrakt.Violations {
	num, ok := asNumber(v)
	if !ok {
		return typeViolation(path, "number", v)
	}
	f, err := num.Float64()
	if err != nil {
		return typeViolation(path, "number", v)
	}
	if f < m.min || f > m.max {
		return kontrakt.Violations{{
			Path:     path,
			Kind:     kontrakt.KindOutOfRange,
			Message:  "value is out of range",
			Expected: "[" + formatFloat(m.min) + ", " + formatFloat(m.max) + "]",
			Actual:   num.String(),
		}}
	}
	return nil
}

func (m rangeMatcher) Sample() any         { return m.min }
func (m rangeMatcher) MatcherName() string { return "range" }

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ---- each-like ----

type eachLikeMatcher struct {
	elem *Node
	min  int
}

// EachLike returns a matcher requiring an array whose every element satisfies
// the embedded node, with at least min elements. The embedded validation runs
// inside the matcher; the engine itself treats the leaf as terminal.
func EachLike(elem *Node, min int) Matcher { return eachLikeMatcher{elem: elem, min: min} }

func (m eachLikeMatcher) Match(path string, v any) kontrakt.Violations {
	arr, ok := v.([]any)
	if !ok {
		return typeViolation(path, "array", v)
	}
	if len(arr) < m.min {
		return kontrakt.Violations{{
			Path:     path,
			Kind:     kontrakt.KindOutOfRange,
			Message:  "array has fewer elements than required",
			Expected: "at least " + strconv.Itoa(m.min) + " elements",
			Actual:   strconv.Itoa(len(arr)) + " elements",
		}}
	}
	var vs kontrakt.Violations
	for i, elem := range arr {
		elemPath := path + "[" + strconv.Itoa(i) + "]"
		vs = kontrakt.AppendViolations(vs, validateValue(m.elem, elem, elemPath, ValidateOpt{}, false)...)
	}
	return vs
}

func (m eachLikeMatcher) Sample() any {
	n := m.min
	if n < 1 {
		n = 1
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Sample(m.elem))
	}
	return out
}
func (m eachLikeMatcher) MatcherName() string { return "eachLike" }
