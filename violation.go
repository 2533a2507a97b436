package kontrakt

import (
	"errors"
	"fmt"
	"strings"
)

// Violation kinds (exported consts for IDE completion and type safety by convention)
const (
	KindMissingRequired            = "missing_required"
	KindInvalidType                = "invalid_type"
	KindInvalidFormat              = "invalid_format"
	KindOutOfRange                 = "out_of_range"
	KindInvalidEnumValue           = "invalid_enum_value"
	KindPatternMismatch            = "pattern_mismatch"
	KindUnexpectedStatusCode       = "unexpected_status_code"
	KindMissingHeader              = "missing_header"
	KindInvalidHeaderValue         = "invalid_header_value"
	KindUnexpectedNull             = "unexpected_null"
	KindUnexpectedField            = "unexpected_field"
	KindInvalidContentType         = "invalid_content_type"
	KindMissingQueryParameter      = "missing_query_parameter"
	KindInvalidQueryParameterValue = "invalid_query_parameter_value"
	KindDiscriminatorMismatch      = "discriminator_mismatch"
)

// Violation represents a single concrete mismatch between actual data and an
// expected contract.
type Violation struct {
	Endpoint string // Endpoint label (for example: "GET /users/{id}").
	Path     string // JSON path of the offending value (for example: $.items[2].price).
	Kind     string // One of the kinds listed above.
	Message  string
	Expected string // Optional: the expected type/format/value set.
	Actual   string // Optional: the offending value or its kind.
}

// Violations is a collection of contract violations that implements error.
type Violations []Violation

// Error summarizes the first few violations.
func (vs Violations) Error() string {
	if len(vs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(vs)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		v := vs[i]
		// e.g. invalid_type at $.id
		fmt.Fprintf(b, "%s at %s", v.Kind, v.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendViolations appends violations to the destination, initializing the
// slice when needed.
func AppendViolations(dst Violations, more ...Violation) Violations {
	if dst == nil {
		dst = Violations{}
	}
	dst = append(dst, more...)
	return dst
}

// AsViolations extracts Violations from an error using errors.As internally.
func AsViolations(err error) (Violations, bool) {
	if err == nil {
		return nil, false
	}
	var vs Violations
	if errors.As(err, &vs) {
		return vs, true
	}
	return nil, false
}
