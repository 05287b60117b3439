package gst

import "regexp"

var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ValidGSTIN reports whether gstin is structurally valid and prefixed by a
// known state code. The check digit is not verified.
func ValidGSTIN(gstin string) bool {
	return gstinPattern.MatchString(gstin) && ValidStateCode(gstin[:2])
}

// GSTINState returns the state code a GSTIN is registered in, or "" when the
// GSTIN is invalid.
func GSTINState(gstin string) string {
	if !ValidGSTIN(gstin) {
		return ""
	}
	return gstin[:2]
}
