package schema

import (
	"bytes"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	kontrakt "github.com/kontrakt-dev/kontrakt"
)

// ValidateOpt bundles validation options. The zero value means full,
// lenient validation.
type ValidateOpt struct {
	// Only restricts required-field checking and recursion at the top-level
	// object to the listed property names. Empty means full validation.
	Only []string
	// Strict raises unexpected_field for actual keys absent from a closed
	// object's declared property set. Lenient mode never raises it.
	Strict bool
	// Overrides replaces the declared node of a top-level property with a
	// matcher. An override takes precedence over the declared schema.
	Overrides map[string]Matcher
}

// ValidateJSON validates raw JSON text against the node and returns the
// ordered violations found, labeled with the given endpoint. Malformed JSON
// never raises; it becomes a single invalid_format violation. The last
// ValidateOpt wins when several are passed. A nil node is programmer misuse
// and panics.
func ValidateJSON(n *Node, data []byte, endpoint string, opts ...ValidateOpt) kontrakt.ValidationResult {
	if n == nil {
		panic("schema: ValidateJSON called with nil node")
	}
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	v, err := decodeAny(data)
	if err != nil {
		vs := kontrakt.Violations{{
			Endpoint: endpoint,
			Path:     "$",
			Kind:     kontrakt.KindInvalidFormat,
			Message:  "malformed JSON: " + err.Error(),
			Expected: "well-formed JSON",
		}}
		return kontrakt.NewResult(endpoint, vs)
	}
	vs := validateValue(n, v, "$", opt, true)
	for i := range vs {
		vs[i].Endpoint = endpoint
	}
	return kontrakt.NewResult(endpoint, vs)
}

// ValidateValue validates an already-decoded JSON value (maps, slices,
// strings, json.Number or native numerics, bools, nil) against the node.
func ValidateValue(n *Node, v any, endpoint string, opts ...ValidateOpt) kontrakt.ValidationResult {
	if n == nil {
		panic("schema: ValidateValue called with nil node")
	}
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	vs := validateValue(n, v, "$", opt, true)
	for i := range vs {
		vs[i].Endpoint = endpoint
	}
	return kontrakt.NewResult(endpoint, vs)
}

// decodeAny parses JSON text preserving numbers as json.Number so that
// integer vs decimal discrimination is lossless. The input must hold exactly
// one JSON value; trailing content is a parse error.
func decodeAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var trailing any
	switch err := dec.Decode(&trailing); err {
	case io.EOF:
		return v, nil
	case nil:
		return nil, errors.New("unexpected data after top-level value")
	default:
		return nil, err
	}
}

// validateValue is the recursive preorder walk over (value, node). The root
// flag gates partial-validation options, which apply to the top-level object
// only. Violations come back without an endpoint label; callers stamp it.
func validateValue(n *Node, v any, path string, opt ValidateOpt, root bool) kontrakt.Violations {
	if v == nil {
		if n.Nullable {
			return nil
		}
		return kontrakt.Violations{{
			Path:     path,
			Kind:     kontrakt.KindUnexpectedNull,
			Message:  "unexpected null",
			Expected: n.Kind.String(),
			Actual:   "null",
		}}
	}

	switch n.Kind {
	case KindMatcher:
		return n.Matcher.Match(path, v)
	case KindObject:
		return validateObject(n, v, path, opt, root)
	case KindArray:
		return validateArray(n, v, path, opt)
	case KindString:
		return validateString(n, v, path)
	case KindInteger:
		return validateInteger(v, path)
	case KindNumber:
		if _, ok := asNumber(v); !ok {
			return typeViolation(path, "number", v)
		}
		return nil
	case KindBoolean:
		if _, ok := v.(bool); !ok {
			return typeViolation(path, "boolean", v)
		}
		return nil
	case KindVariant:
		return validateVariant(n, v, path, opt)
	}
	return nil
}

func validateObject(n *Node, v any, path string, opt ValidateOpt, root bool) kontrakt.Violations {
	m, ok := v.(map[string]any)
	if !ok {
		// kind mismatch is terminal for the subtree
		return typeViolation(path, "object", v)
	}
	var vs kontrakt.Violations
	partial := root && len(opt.Only) > 0
	for _, name := range n.sortedPropertyNames() {
		if partial && !containsName(opt.Only, name) {
			continue
		}
		prop := n.Properties[name]
		val, exists := m[name]
		if !exists {
			if prop.Required {
				vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
					Path:    path + "." + name,
					Kind:    kontrakt.KindMissingRequired,
					Message: "required property missing",
				})
			}
			continue
		}
		childPath := path + "." + name
		if override, ok := opt.Overrides[name]; root && ok {
			// an override takes precedence over the declared node, null
			// handling included
			vs = kontrakt.AppendViolations(vs, override.Match(childPath, val)...)
			continue
		}
		vs = kontrakt.AppendViolations(vs, validateValue(prop.Node, val, childPath, opt, false)...)
	}
	if !n.AllowAdditional && opt.Strict {
		vs = kontrakt.AppendViolations(vs, unexpectedKeys(n, m, path)...)
	}
	return vs
}

// unexpectedKeys reports actual keys absent from the declared property set, in
// key-sorted order for deterministic output.
func unexpectedKeys(n *Node, m map[string]any, path string) kontrakt.Violations {
	var extra []string
	for k := range m {
		if _, known := n.Properties[k]; !known {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	var vs kontrakt.Violations
	for _, k := range extra {
		vs = kontrakt.AppendViolations(vs, kontrakt.Violation{
			Path:    path + "." + k,
			Kind:    kontrakt.KindUnexpectedField,
			Message: "unexpected property",
			Actual:  k,
		})
	}
	return vs
}

func validateArray(n *Node, v any, path string, opt ValidateOpt) kontrakt.Violations {
	arr, ok := v.([]any)
	if !ok {
		return typeViolation(path, "array", v)
	}
	var vs kontrakt.Violations
	for i, elem := range arr {
		elemPath := path + "[" + strconv.Itoa(i) + "]"
		vs = kontrakt.AppendViolations(vs, validateValue(n.Item, elem, elemPath, opt, false)...)
	}
	return vs
}

func validateString(n *Node, v any, path string) kontrakt.Violations {
	s, ok := v.(string)
	if !ok {
		return typeViolation(path, "string", v)
	}
	if n.Format == "" {
		return nil
	}
	if ok, hint := checkFormat(n.Format, s); !ok {
		return kontrakt.Violations{{
			Path:     path,
			Kind:     kontrakt.KindInvalidFormat,
			Message:  hint,
			Expected: n.Format,
			Actual:   s,
		}}
	}
	return nil
}

func validateInteger(v any, path string) kontrakt.Violations {
	num, ok := asNumber(v)
	if !ok {
		return typeViolation(path, "integer", v)
	}
	if isWhole(num) {
		return nil
	}
	return kontrakt.Violations{{
		Path:     path,
		Kind:     kontrakt.KindInvalidType,
		Message:  "expected integer but got decimal",
		Expected: "integer",
		Actual:   "decimal",
	}}
}

func validateVariant(n *Node, v any, path string, opt ValidateOpt) kontrakt.Violations {
	if n.Discriminator != "" {
		return validateDiscriminated(n, v, path, opt)
	}
	// no discriminator: accept the first branch producing zero violations;
	// when every branch fails, report the first attempted branch's violations
	var first kontrakt.Violations
	for i, branch := range n.Branches {
		vs := validateValue(branch, v, path, opt, false)
		if len(vs) == 0 {
			return nil
		}
		if i == 0 {
			first = vs
		}
	}
	return first
}

func validateDiscriminated(n *Node, v any, path string, opt ValidateOpt) kontrakt.Violations {
	m, ok := v.(map[string]any)
	if !ok {
		return typeViolation(path, "object", v)
	}
	raw, exists := m[n.Discriminator]
	if !exists {
		// missing discriminator is reported as the plain required-field
		// violation; no mapping lookup is attempted
		return kontrakt.Violations{{
			Path:    path + "." + n.Discriminator,
			Kind:    kontrakt.KindMissingRequired,
			Message: "required property missing",
		}}
	}
	keys := make([]string, 0, len(n.Mapping))
	for key := range n.Mapping {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	tag, _ := raw.(string)
	if tag != "" {
		// sorted iteration keeps the hit deterministic when two mapped keys
		// fold to the same string
		for _, key := range keys {
			if strings.EqualFold(key, tag) {
				return validateValue(n.Mapping[key], v, path, opt, false)
			}
		}
	}
	return kontrakt.Violations{{
		Path:     path + "." + n.Discriminator,
		Kind:     kontrakt.KindDiscriminatorMismatch,
		Message:  "discriminator value matches no variant",
		Expected: strings.Join(keys, ", "),
		Actual:   renderScalar(raw),
	}}
}

func typeViolation(path, expected string, v any) kontrakt.Violations {
	return kontrakt.Violations{{
		Path:     path,
		Kind:     kontrakt.KindInvalidType,
		Message:  "expected " + expected + " but got " + kindName(v),
		Expected: expected,
		Actual:   kindName(v),
	}}
}

// kindName classifies a decoded JSON value for violation reporting.
func kindName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int32, int64:
		return "number"
	}
	return "unknown"
}

// asNumber widens the numeric representations a decoded payload may carry
// into json.Number.
func asNumber(v any) (json.Number, bool) {
	switch x := v.(type) {
	case json.Number:
		return x, true
	case float64:
		return json.Number(strconv.FormatFloat(x, 'f', -1, 64)), true
	case float32:
		return json.Number(strconv.FormatFloat(float64(x), 'f', -1, 32)), true
	case int:
		return json.Number(strconv.Itoa(x)), true
	case int32:
		return json.Number(strconv.FormatInt(int64(x), 10)), true
	case int64:
		return json.Number(strconv.FormatInt(x, 10)), true
	}
	return "", false
}

// isWhole reports whether the number carries a zero fractional part; "1.0"
// and "1e3" are whole, "1.5" is not.
func isWhole(num json.Number) bool {
	s := num.String()
	if !strings.ContainsAny(s, ".eE") {
		return true
	}
	f, err := num.Float64()
	if err != nil {
		return false
	}
	return f == math.Trunc(f)
}

func renderScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	}
	return kindName(v)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
