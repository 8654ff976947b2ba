package ledger

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
)

var codeValidator = validator.New()

// NameKey returns the duplicate-detection key for a name: case folded and trimmed.
func NameKey(first, last string) string {
	return strings.TrimSpace(cases.Fold().String(first + " " + last))
}

// PhoneDigits strips everything but digits from a phone number.
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether phone reduces to exactly ten digits.
func ValidPhone(phone string) bool {
	return len(PhoneDigits(phone)) == 10
}

// FormatPhone renders a ten-digit phone as "(555) 555-0100". Anything else is
// returned unchanged.
func FormatPhone(phone string) string {
	d := PhoneDigits(phone)
	if len(d) != 10 {
		return phone
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// ValidRating reports whether r is within 1..10.
func ValidRating(r int) bool {
	return r >= 1 && r <= 10
}

// ValidSignupCode reports whether code is exactly four ASCII digits.
func ValidSignupCode(code string) bool {
	return codeValidator.Var(code, "len=4,number") == nil
}
