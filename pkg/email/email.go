// Package email normalizes and sanity-checks addresses used for invitation matching.
package email

import (
	"strings"
)

const maxLength = 254

// Normalize trims and lowercases an address; invitation lookups compare normalized forms.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsPlausible performs a shape check only: one "@", non-empty local part, a dot in the
// domain, no whitespace. Deliverability is the identity provider's concern.
func IsPlausible(address string) bool {
	if address == "" || len(address) > maxLength || strings.ContainsAny(address, " \t\r\n") {
		return false
	}
	at := strings.IndexByte(address, '@')
	if at <= 0 || at != strings.LastIndexByte(address, '@') {
		return false
	}
	domain := address[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
