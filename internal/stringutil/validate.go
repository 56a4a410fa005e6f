// Package stringutil checks string values against the well-known formats
// asserted by the format keyword.
package stringutil

import (
	"net/netip"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail checks if s is a valid email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidDate checks s against the RFC 3339 full-date form (YYYY-MM-DD).
func IsValidDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}

// IsValidDateTime checks s against the RFC 3339 date-time form.
func IsValidDateTime(s string) bool {
	_, err := time.Parse(time.RFC3339Nano, s)
	return err == nil
}

// IsValidUUID checks s against the hyphenated 8-4-4-4-12 form.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsValidURI checks that s is an absolute URI with a scheme.
func IsValidURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// IsValidIPv4 checks s is a dotted-quad IPv4 address.
func IsValidIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// IsValidIPv6 checks s is an IPv6 address without a zone.
func IsValidIPv6(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is6() && addr.Zone() == ""
}

// CheckFormat reports whether s satisfies format. The second result is false
// when the format is not one this package knows.
func CheckFormat(format, s string) (valid, known bool) {
	var check func(string) bool
	switch format {
	case "email":
		check = IsValidEmail
	case "date":
		check = IsValidDate
	case "date-time":
		check = IsValidDateTime
	case "uuid":
		check = IsValidUUID
	case "uri":
		check = IsValidURI
	case "ipv4":
		check = IsValidIPv4
	case "ipv6":
		check = IsValidIPv6
	default:
		return true, false
	}
	return check(s), true
}
