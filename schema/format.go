package schema

import (
	"net"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recognized string formats. Anything else passes validation unchanged so
// that contracts written against a newer format vocabulary keep working.
const (
	FormatEmail    = "email"
	FormatURI      = "uri"
	FormatURL      = "url"
	FormatUUID     = "uuid"
	FormatDateTime = "date-time"
	FormatDate     = "date"
	FormatTime     = "time"
	FormatIPv4     = "ipv4"
	FormatIPv6     = "ipv6"
)

// checkFormat verifies s against a recognized format. Unrecognized formats
// report ok for forward compatibility.
func checkFormat(format, s string) (bool, string) {
	switch format {
	case FormatEmail:
		if _, err := mail.ParseAddress(s); err != nil {
			return false, "not a valid email address"
		}
	case FormatURI, FormatURL:
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" {
			return false, "not a valid URI"
		}
	case FormatUUID:
		if _, err := uuid.Parse(s); err != nil {
			return false, "not a valid UUID"
		}
	case FormatDateTime:
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return false, "not a valid RFC3339 date-time"
		}
	case FormatDate:
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return false, "not a valid date (expected yyyy-mm-dd)"
		}
	case FormatTime:
		if _, err := time.Parse("15:04:05", s); err != nil {
			return false, "not a valid time (expected hh:mm:ss)"
		}
	case FormatIPv4:
		ip := net.ParseIP(s)
		if ip == nil || ip.To4() == nil || !strings.Contains(s, ".") {
			return false, "not a valid IPv4 address"
		}
	case FormatIPv6:
		ip := net.ParseIP(s)
		if ip == nil || !strings.Contains(s, ":") {
			return false, "not a valid IPv6 address"
		}
	}
	return true, ""
}

// formatSample returns a literal example value for a recognized format, or ""
// when the format has no dedicated sample.
func formatSample(format string) string {
	switch format {
	case FormatEmail:
		return "user@example.com"
	case FormatURI, FormatURL:
		return "https://example.com/resource"
	case FormatUUID:
		return "3f1f9a52-8f2b-4f19-9c87-5a2f4d6b1e0c"
	case FormatDateTime:
		return "2024-01-15T12:30:45Z"
	case FormatDate:
		return "2024-01-15"
	case FormatTime:
		return "12:30:45"
	case FormatIPv4:
		return "192.0.2.1"
	case FormatIPv6:
		return "2001:db8::1"
	}
	return ""
}
