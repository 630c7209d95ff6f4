package form

import "strings"

// DecimalSeparator is the decimal separator users type. Payloads sent to
// the prediction service use a period instead; see NormalizeDecimal.
const DecimalSeparator = ","

// FieldRule bounds the digit counts of a numeric input field.
// MaxDec == 0 marks an integer-only field.
type FieldRule struct {
	MaxInt int // maximum digits before the separator
	MaxDec int // maximum digits after the separator
}

// Digit count rules per prediction form field.
var (
	SizeRule    = FieldRule{MaxInt: 3, MaxDec: 2}
	RoomsRule   = FieldRule{MaxInt: 2, MaxDec: 1}
	ZipCodeRule = FieldRule{MaxInt: 5, MaxDec: 0}
	YearRule    = FieldRule{MaxInt: 4, MaxDec: 0}
)

// SanitizeNumeric applies a field rule to a proposed new input value.
// Characters outside the field grammar are stripped; if the cleaned value
// still violates the rule (a second separator, or a digit count over the
// cap) the edit is rejected and the previous value is returned unchanged.
func SanitizeNumeric(rule FieldRule, prev, next string) string {
	var clean string

	if rule.MaxDec > 0 {
		clean = stripNonDecimal(next)

		// A second separator rejects the edit outright
		if strings.Count(clean, DecimalSeparator) > 1 {
			return prev
		}
	} else {
		clean = stripNonDigits(next)
	}

	if strings.Contains(clean, DecimalSeparator) {
		parts := strings.SplitN(clean, DecimalSeparator, 2)
		if len(parts[0]) > rule.MaxInt {
			return prev
		}
		if len(parts[1]) > rule.MaxDec {
			return prev
		}
	} else if len(clean) > rule.MaxInt {
		return prev
	}

	return clean
}

// SanitizeCityName strips everything that is not a letter (including the
// German umlauts and ß), a space, or a hyphen. Unlike the numeric fields
// there is no length cap; over-long input is caught at validation time.
func SanitizeCityName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isCityLetter(r) || r == ' ' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDecimal converts a user-typed decimal string to the period
// notation the prediction API expects.
func NormalizeDecimal(s string) string {
	return strings.ReplaceAll(s, DecimalSeparator, ".")
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripNonDecimal(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || string(r) == DecimalSeparator {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isCityLetter(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	}
	switch r {
	case 'ä', 'ö', 'ü', 'Ä', 'Ö', 'Ü', 'ß':
		return true
	}
	return false
}
