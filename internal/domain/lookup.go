package domain

import "strings"

// LookupKey is the opaque identifier addressing a student record: either a
// registration number or an order-stable rollCode-rollNumber composite. It
// is used verbatim in both the upstream request and the cache key.
type LookupKey string

func (k LookupKey) String() string { return string(k) }

// IsZero reports whether the key carries no identifier.
func (k LookupKey) IsZero() bool { return k == "" }

// RegistrationKey builds a lookup key from a registration number.
// Returns the zero key for blank input.
func RegistrationKey(registrationNumber string) LookupKey {
	return LookupKey(strings.TrimSpace(registrationNumber))
}

// RollKey builds the composite rollCode-rollNumber key. The order is fixed
// so the same pair always produces the same cache key. Returns the zero key
// unless both parts are present.
func RollKey(rollCode, rollNumber string) LookupKey {
	rollCode = strings.TrimSpace(rollCode)
	rollNumber = strings.TrimSpace(rollNumber)
	if rollCode == "" || rollNumber == "" {
		return ""
	}
	return LookupKey(rollCode + "-" + rollNumber)
}
