// Package phone normalizes customer contact numbers.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed local.
const defaultRegion = "VN"

// NormalizeE164 returns the number in E.164 form. Input that cannot be
// parsed or is not a valid number comes back trimmed but otherwise
// untouched; intake never rejects a claim over a phone number.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
