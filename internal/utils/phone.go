package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhoneNumber normalizes a phone number to E.164 format.
// region is the ISO 3166 country assumed when the number carries no country code.
func NormalizePhoneNumber(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)

	num, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizeOrKeep returns the E.164 form when phone parses as a valid number
// and the trimmed input otherwise. Guests may type anything in the phone field.
func NormalizeOrKeep(phone, region string) string {
	if normalized, err := NormalizePhoneNumber(phone, region); err == nil {
		return normalized
	}
	return strings.TrimSpace(phone)
}
