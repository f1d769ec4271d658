// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "BR"

// ChatSuffix is the domain suffix of a canonical WhatsApp chat id.
const ChatSuffix = "@c.us"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// CanonicalChatID converts any phone-ish input into the canonical chat id
// used as the Contact key: digits followed by the chat domain suffix.
// Inputs already carrying the suffix keep it; everything non-numeric before
// the suffix is stripped.
func CanonicalChatID(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if i := strings.Index(trimmed, "@"); i >= 0 {
		trimmed = trimmed[:i]
	}

	digits := Digits(NormalizeE164(trimmed))
	if digits == "" {
		return ""
	}

	return digits + ChatSuffix
}

// Digits strips everything except decimal digits.
func Digits(input string) string {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
