package contract

import (
	"fmt"
	"regexp"
	"strings"
)

// PathTemplate is a compiled endpoint path template. Every {name} segment
// matches exactly one non-slash path segment; matching is case-insensitive and
// anchored to the full path. Templates are immutable once compiled.
type PathTemplate struct {
	raw    string
	re     *regexp.Regexp
	params []string
}

// CompilePath compiles a path template such as "/users/{id}/orders/{orderId}".
// Literal characters are matched verbatim (escaped), parameters match [^/]+.
func CompilePath(template string) (*PathTemplate, error) {
	var pattern strings.Builder
	pattern.WriteString("(?i)^")
	var params []string
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			pattern.WriteString(regexp.QuoteMeta(rest))
			break
		}
		pattern.WriteString(regexp.QuoteMeta(rest[:open]))
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return nil, fmt.Errorf("contract: unclosed parameter in template %q", template)
		}
		name := rest[open+1 : open+end]
		if name == "" || strings.ContainsAny(name, "/{") {
			return nil, fmt.Errorf("contract: invalid parameter name %q in template %q", name, template)
		}
		// plain groups instead of named captures: duplicate names are legal
		// in a template and resolved last-wins at extraction
		params = append(params, name)
		pattern.WriteString("([^/]+)")
		rest = rest[open+end+1:]
	}
	pattern.WriteString("$")
	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("contract: compile template %q: %w", template, err)
	}
	return &PathTemplate{raw: template, re: re, params: params}, nil
}

// MustCompilePath is CompilePath panicking on error, for templates known good
// at construction time.
func MustCompilePath(template string) *PathTemplate {
	t, err := CompilePath(template)
	if err != nil {
		panic(err)
	}
	return t
}

// Raw returns the template string as written.
func (t *PathTemplate) Raw() string { return t.raw }

// Params returns the parameter names in declaration order.
func (t *PathTemplate) Params() []string {
	out := make([]string, len(t.params))
	copy(out, t.params)
	return out
}

// Matches reports whether the concrete path matches the template. Any query
// string or fragment is stripped first; trailing slashes are significant.
func (t *PathTemplate) Matches(path string) bool {
	return t.re.MatchString(stripQuery(path))
}

// ExtractParams returns the parameter values captured from the path, keyed by
// name in declaration order. A duplicated name keeps the last captured value.
// The map is empty (nil) when the path does not match.
func (t *PathTemplate) ExtractParams(path string) map[string]string {
	m := t.re.FindStringSubmatch(stripQuery(path))
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(t.params))
	for i, name := range t.params {
		out[name] = m[i+1]
	}
	return out
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path = path[:i]
	}
	return path
}
