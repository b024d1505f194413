package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var hex32 = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// NormalizeCampaignID strips hyphens. Master join and enrollment tables store
// campaign IDs in this form.
func NormalizeCampaignID(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "-", "")
}

// HyphenateCampaignID restores the 8-4-4-4-12 display form for UUID-like IDs.
// Anything that does not parse as a UUID is returned trimmed.
func HyphenateCampaignID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	norm := NormalizeCampaignID(trimmed)
	if !hex32.MatchString(norm) {
		return trimmed
	}
	id, err := uuid.Parse(norm)
	if err != nil {
		return trimmed
	}
	return id.String()
}

// IsCampaignUUID reports whether raw is a UUID in either form
func IsCampaignUUID(raw string) bool {
	return hex32.MatchString(NormalizeCampaignID(raw))
}

// CampaignIDForms returns the normalized form followed by the raw form when they differ
func CampaignIDForms(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return Dedupe([]string{NormalizeCampaignID(trimmed), trimmed}, strings.TrimSpace)
}

var campaignIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// ValidCampaignID rejects empty IDs and anything outside [A-Za-z0-9-]
func ValidCampaignID(raw string) bool {
	return campaignIDPattern.MatchString(strings.TrimSpace(raw))
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// TrailingDigits extracts the numeric suffix of token-style IDs such as "fieldrep_15"
func TrailingDigits(raw string) string {
	m := trailingDigits.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	return m[1]
}

// IsNumeric reports whether raw is a non-empty run of ASCII digits
func IsNumeric(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw != "" && DigitsOnly(raw) == raw
}
