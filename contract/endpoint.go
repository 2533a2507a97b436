package contract

import (
	"mime"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	kontrakt "github.com/kontrakt-dev/kontrakt"
	"github.com/kontrakt-dev/kontrakt/schema"
)

// HeaderExpectation declares one expected header. Pattern, when set, is an
// anchored regular expression the value must match; it must compile, or the
// first check panics.
type HeaderExpectation struct {
	Required bool
	Pattern  string
}

// QueryExpectation declares one expected query parameter.
type QueryExpectation struct {
	Required bool
	Pattern  string
}

// RequestExpectation describes the expected request body of an endpoint.
type RequestExpectation struct {
	ContentType string
	Schema      *schema.Node
	Required    bool // whether the body itself must be sent
	Headers     map[string]HeaderExpectation
	// Partial validation: Only restricts checking to the listed top-level
	// properties; Strict controls unexpected_field reporting.
	Only   []string
	Strict bool
}

// ResponseExpectation describes one expected response, keyed by status code.
type ResponseExpectation struct {
	Status      int
	ContentType string
	Schema      *schema.Node
	Headers     map[string]HeaderExpectation
}

// EndpointContract is one (path template, method) pair with its request and
// response expectations. Contracts are built once by an upstream loader and
// never mutated afterwards.
type EndpointContract struct {
	Method         string
	Path           *PathTemplate
	Request        *RequestExpectation
	Responses      []ResponseExpectation
	Headers        map[string]HeaderExpectation // request headers expected on every exchange
	Query          map[string]QueryExpectation
	Example        any      // optional example payload carried for documentation
	ProviderStates []string // states the provider must be in before verification
}

// Label renders the endpoint identity used in violations, e.g. "GET /users/{id}".
func (e *EndpointContract) Label() string { return e.Method + " " + e.Path.Raw() }

// Matches reports whether the concrete path and method select this endpoint.
// Method comparison is exact; path matching is delegated to the template.
func (e *EndpointContract) Matches(path, method string) bool {
	return method == e.Method && e.Path.Matches(path)
}

// ExtractPathParams delegates to the owned template.
func (e *EndpointContract) ExtractPathParams(path string) map[string]string {
	return e.Path.ExtractParams(path)
}

// FindResponse returns the first response expectation declared for the status
// code. Status lists are small; a linear scan in declaration order keeps the
// resolution rule obvious.
func (e *EndpointContract) FindResponse(status int) (*ResponseExpectation, bool) {
	for i := range e.Responses {
		if e.Responses[i].Status == status {
			return &e.Responses[i], true
		}
	}
	return nil, false
}

// RequestHeaders merges endpoint-level and request-level header expectations;
// request-level declarations win on collision.
func (e *EndpointContract) RequestHeaders() map[string]HeaderExpectation {
	out := make(map[string]HeaderExpectation, len(e.Headers))
	for name, h := range e.Headers {
		out[name] = h
	}
	if e.Request != nil {
		for name, h := range e.Request.Headers {
			out[name] = h
		}
	}
	return out
}

// CheckRequest validates an observed request (query, headers, body) against
// the endpoint's expectations and returns every violation found, in query,
// header, body order.
func (e *EndpointContract) CheckRequest(query url.Values, headers map[string]string, body []byte) kontrakt.ValidationResult {
	label := e.Label()
	var vs kontrakt.Violations
	vs = kontrakt.AppendViolations(vs, checkQuery(label, e.Query, query)...)
	vs = kontrakt.AppendViolations(vs, checkHeaders(label, e.RequestHeaders(), headers)...)
	if e.Request != nil {
		switch {
		case len(body) == 0:
			if e.Request.Required {
				vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
					Endpoint: label,
					Path:     "$",
					Kind:     kontrakt.KindMissingRequired,
					Message:  "required request body missing",
				})
			}
		case e.Request.Schema != nil:
			opt := schema.ValidateOpt{Only: e.Request.Only, Strict: e.Request.Strict}
			res := schema.ValidateJSON(e.Request.Schema, body, label, opt)
			vs = kontrakt.AppendViolations(vs, res.Violations()...)
		}
	}
	return kontrakt.NewResult(label, vs)
}

// CheckResponse validates an observed response against the expectation
// declared for its status code. An undeclared status code is a single
// unexpected_status_code violation; nothing further is checked.
func (e *EndpointContract) CheckResponse(status int, contentType string, headers map[string]string, body []byte) kontrakt.ValidationResult {
	label := e.Label()
	resp, ok := e.FindResponse(status)
	if !ok {
		return kontrakt.NewResult(label, kontrakt.Violations{{
			Endpoint: label,
			Path:     "$",
			Kind:     kontrakt.KindUnexpectedStatusCode,
			Message:  "response status code is not declared by the contract",
			Expected: declaredStatuses(e.Responses),
			Actual:   strconv.Itoa(status),
		}})
	}
	var vs kontrakt.Violations
	if resp.ContentType != "" && !contentTypeMatches(resp.ContentType, contentType) {
		vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
			Endpoint: label,
			Path:     "$",
			Kind:     kontrakt.KindInvalidContentType,
			Message:  "response content type does not match the contract",
			Expected: resp.ContentType,
			Actual:   contentType,
		})
	}
	vs = kontrakt.AppendViolations(vs, checkHeaders(label, resp.Headers, headers)...)
	if resp.Schema != nil {
		res := schema.ValidateJSON(resp.Schema, body, label)
		vs = kontrakt.AppendViolations(vs, res.Violations()...)
	}
	return kontrakt.NewResult(label, vs)
}

func checkHeaders(label string, expected map[string]HeaderExpectation, actual map[string]string) kontrakt.Violations {
	var vs kontrakt.Violations
	for _, name := range sortedHeaderNames(expected) {
		exp := expected[name]
		value, ok := lookupHeader(actual, name)
		if !ok {
			if exp.Required {
				vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
					Endpoint: label,
					Path:     "$",
					Kind:     kontrakt.KindMissingHeader,
					Message:  "required header missing",
					Expected: name,
				})
			}
			continue
		}
		if exp.Pattern != "" && !matchAnchored(exp.Pattern, value) {
			vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
				Endpoint: label,
				Path:     "$",
				Kind:     kontrakt.KindInvalidHeaderValue,
				Message:  "header value does not match the contract",
				Expected: exp.Pattern,
				Actual:   value,
			})
		}
	}
	return vs
}

func checkQuery(label string, expected map[string]QueryExpectation, actual url.Values) kontrakt.Violations {
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)
	var vs kontrakt.Violations
	for _, name := range names {
		exp := expected[name]
		if !actual.Has(name) {
			if exp.Required {
				vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
					Endpoint: label,
					Path:     "$",
					Kind:     kontrakt.KindMissingQueryParameter,
					Message:  "required query parameter missing",
					Expected: name,
				})
			}
			continue
		}
		if exp.Pattern != "" && !matchAnchored(exp.Pattern, actual.Get(name)) {
			vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
				Endpoint: label,
				Path:     "$",
				Kind:     kontrakt.KindInvalidQueryParameterValue,
				Message:  "query parameter value does not match the contract",
				Expected: exp.Pattern,
				Actual:   actual.Get(name),
			})
		}
	}
	return vs
}

func sortedHeaderNames(m map[string]HeaderExpectation) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookupHeader finds a header value case-insensitively.
func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// contentTypeMatches compares media types ignoring parameters, so
// "application/json; charset=utf-8" matches "application/json".
func contentTypeMatches(expected, actual string) bool {
	em, _, err := mime.ParseMediaType(expected)
	if err != nil {
		em = strings.TrimSpace(strings.ToLower(expected))
	}
	am, _, err := mime.ParseMediaType(actual)
	if err != nil {
		am = strings.TrimSpace(strings.ToLower(actual))
	}
	return em == am
}

// patternCache holds compiled expectation patterns; the same handful of
// patterns is checked on every exchange.
var patternCache sync.Map

// matchAnchored matches the whole value against the expectation pattern. An
// invalid pattern is a malformed contract and panics, so programmer misuse
// never surfaces as a value-mismatch violation.
func matchAnchored(pattern, value string) bool {
	if cached, ok := patternCache.Load(pattern); ok {
		return cached.(*regexp.Regexp).MatchString(value)
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		panic("contract: invalid expectation pattern " + strconv.Quote(pattern) + ": " + err.Error())
	}
	patternCache.Store(pattern, re)
	return re.MatchString(value)
}

func declaredStatuses(responses []ResponseExpectation) string {
	codes := make([]string, 0, len(responses))
	for _, r := range responses {
		codes = append(codes, strconv.Itoa(r.Status))
	}
	return strings.Join(codes, ", ")
}
