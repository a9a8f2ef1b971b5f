// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// Formatter formats phone numbers using a default region for numbers without a country code.
type Formatter struct {
	region string
}

// NewFormatter creates a formatter. An empty region falls back to US.
func NewFormatter(region string) *Formatter {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultRegion
	}
	return &Formatter{region: region}
}

// E164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func (f *Formatter) E164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, f.region)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
