// Package identity canonicalizes the loosely formatted identifiers that
// upstream systems hand us: phone numbers, campaign IDs, PIN codes and state names.
package identity

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultCountryCode is prefixed to 10-digit numbers for deep links
const DefaultCountryCode = "91"

var nonDigits = regexp.MustCompile(`\D`)

// DigitsOnly strips everything except ASCII digits
func DigitsOnly(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// NormalizePhoneForLookup returns the digits of raw, dropping a leading "91"
// from 12-digit numbers so the result is the bare 10-digit local number.
func NormalizePhoneForLookup(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) == 12 && strings.HasPrefix(digits, DefaultCountryCode) {
		return digits[2:]
	}
	return digits
}

// PhoneToDeepLinkFormat converts raw into the international digit form used
// by outbound messaging links. It is never used for store lookups.
func PhoneToDeepLinkFormat(raw, countryCode string) string {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	digits := DigitsOnly(raw)
	switch {
	case len(digits) == 10:
		return countryCode + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	default:
		return digits
	}
}

// Last10Digits returns the trailing ten digits of raw, or all digits when shorter
func Last10Digits(raw string) string {
	digits := DigitsOnly(raw)
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// WhatsAppDeepLink builds https://wa.me/{digits}?text={message}
func WhatsAppDeepLink(phone, message, countryCode string) string {
	digits := PhoneToDeepLinkFormat(phone, countryCode)
	text := url.QueryEscape(message)
	if digits == "" {
		return "https://wa.me/?text=" + text
	}
	return "https://wa.me/" + digits + "?text=" + text
}
