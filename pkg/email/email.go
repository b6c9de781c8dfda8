package email

import "strings"

// Normalize canonicalizes an email address for membership checks. Rosters
// treat addresses case-insensitively, so everything is stored lowercased.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Local returns the part before the @, or the whole string when no @ exists.
// Used for log-friendly identifiers without repeating the full address.
func Local(addr string) string {
	if at := strings.IndexByte(addr, '@'); at > 0 {
		return addr[:at]
	}
	return addr
}
