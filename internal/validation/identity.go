// Package validation holds the registration identity rules. Each rule is an
// independent pure predicate returning pass/fail plus the reason shown to the
// caller, so signup can run them in a fixed order and report the first miss.
package validation

import (
	"regexp"
	"strings"
)

// InstitutionEmailDomain is the only email domain accepted at registration.
const InstitutionEmailDomain = "@binus.ac.id"

var (
	nimPattern   = regexp.MustCompile(`^2\d{9}$`)
	phonePattern = regexp.MustCompile(`^08\d{8,10}$`)
)

// ValidateEmail checks that the address belongs to the institution domain,
// case-insensitively.
func ValidateEmail(email string) (bool, string) {
	if email == "" || !strings.HasSuffix(strings.ToLower(email), InstitutionEmailDomain) {
		return false, "Email must be a valid " + InstitutionEmailDomain + " address"
	}
	return true, ""
}

// ValidateNIM checks the student ID format: leading 2, ten digits total.
func ValidateNIM(nim string) (bool, string) {
	if !nimPattern.MatchString(nim) {
		return false, "NIM must start with 2 and be 10 digits total"
	}
	return true, ""
}

// ValidatePhone checks the phone format: leading 08, 10-12 digits total.
func ValidatePhone(phone string) (bool, string) {
	if !phonePattern.MatchString(phone) {
		return false, "Phone must start with 08 and be 10-12 digits"
	}
	return true, ""
}
