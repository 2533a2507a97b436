package diff

// Severity classifies how a contract change affects consumers.
type Severity int

const (
	Info     Severity = iota // additive or relaxing; cannot break a passing consumer
	Warning                  // suspicious but not proven breaking
	Breaking                 // can cause a previously-passing consumer to fail
)

// String renders the severity for reports.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Breaking:
		return "breaking"
	}
	return "unknown"
}

// Change kinds (exported consts for IDE completion and type safety by convention)
const (
	KindEndpointAdded   = "endpoint_added"
	KindEndpointRemoved = "endpoint_removed"

	KindStatusCodeAdded   = "status_code_added"
	KindStatusCodeRemoved = "status_code_removed"

	KindResponseBodyAdded     = "response_body_added"
	KindResponseBodyRemoved   = "response_body_removed"
	KindResponseBodyChanged   = "response_body_changed"
	KindResponseHeaderAdded   = "response_header_added"
	KindResponseHeaderRemoved = "response_header_removed"

	KindRequestBodyAdded       = "request_body_added"
	KindRequestBodyRemoved     = "request_body_removed"
	KindRequestBodyRequired    = "request_body_required"
	KindRequestBodyOptional    = "request_body_optional"
	KindRequestBodyTypeChanged = "request_body_type_changed"
	KindRequestHeaderAdded     = "request_header_added"
	KindRequestHeaderRemoved   = "request_header_removed"
	KindRequestHeaderRequired  = "request_header_required"
)

// Change is one classified difference between two contract snapshots.
type Change struct {
	Severity    Severity
	Kind        string
	Description string
	// Locator
	Method   string
	Path     string // raw template on the side the change was observed
	Location string // "endpoint", "request", "response", "header"
	Field    string // status code, header name, or empty
}
