package kontrakt

// ValidationResult pairs an endpoint label with the ordered violations found
// against it. A result is immutable once produced; constructors copy their
// input and accessors hand out copies.
type ValidationResult struct {
	endpoint   string
	violations Violations
}

// NewResult builds a ValidationResult owning a copy of the given violations.
func NewResult(endpoint string, violations Violations) ValidationResult {
	var vs Violations
	if len(violations) > 0 {
		vs = make(Violations, len(violations))
		copy(vs, violations)
	}
	return ValidationResult{endpoint: endpoint, violations: vs}
}

// Endpoint returns the endpoint label the result was produced for.
func (r ValidationResult) Endpoint() string { return r.endpoint }

// Valid reports whether no violations were found.
func (r ValidationResult) Valid() bool { return len(r.violations) == 0 }

// Violations returns the ordered violations as a fresh slice.
func (r ValidationResult) Violations() Violations {
	if len(r.violations) == 0 {
		return nil
	}
	out := make(Violations, len(r.violations))
	copy(out, r.violations)
	return out
}

// Err converts the result into an error for callers who prefer the
// raise-on-failure ergonomic. It returns nil when the result is valid; the
// data-first Violations accessor remains the primary API.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Violations()
}
