package schema_test

import (
	"testing"

	kontrakt "github.com/kontrakt-dev/kontrakt"
	"github.com/kontrakt-dev/kontrakt/schema"
)

func TestStringFormats(t *testing.T) {
	cases := []struct {
		format string
		ok     string
		bad    string
	}{
		{"email", "user@example.com", "not-an-email"},
		{"uri", "https://example.com/x", "not a uri"},
		{"url", "http://example.com", "://nope"},
		{"uuid", "3f1f9a52-8f2b-4f19-9c87-5a2f4d6b1e0c", "not-a-uuid"},
		{"date-time", "2024-01-15T12:30:45Z", "2024-01-15"},
		{"date", "2024-01-15", "15/01/2024"},
		{"time", "12:30:45", "12:30"},
		{"ipv4", "192.0.2.1", "2001:db8::1"},
		{"ipv6", "2001:db8::1", "192.0.2.1"},
	}
	for _, tc := range cases {
		n := schema.String().WithFormat(tc.format)
		if res := schema.ValidateValue(n, tc.ok, "ep"); !res.Valid() {
			t.Fatalf("format %s should accept %q, got %v", tc.format, tc.ok, res.Violations())
		}
		res := schema.ValidateValue(n, tc.bad, "ep")
		vs := res.Violations()
		if len(vs) != 1 || vs[0].Kind != kontrakt.KindInvalidFormat {
			t.Fatalf("format %s should reject %q with invalid_format, got %v", tc.format, tc.bad, vs)
		}
	}
}

func TestUnrecognizedFormatAlwaysPasses(t *testing.T) {
	n := schema.String().WithFormat("hostname")
	if res := schema.ValidateValue(n, "anything goes", "ep"); !res.Valid() {
		t.Fatalf("unrecognized format must pass, got %v", res.Violations())
	}
}

func TestFormatOnNonString(t *testing.T) {
	n := schema.String().WithFormat("email")
	res := schema.ValidateValue(n, 42, "ep")
	vs := res.Violations()
	if len(vs) != 1 || vs[0].Kind != kontrakt.KindInvalidType {
		t.Fatalf("kind check comes before format check, got %v", vs)
	}
}
