package identity

import "strings"

// Dedupe applies normalize to each value and returns the non-empty results
// in first-seen order without duplicates.
func Dedupe(values []string, normalize func(string) string) []string {
	if normalize == nil {
		normalize = strings.TrimSpace
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}

// LowerEmail trims and lower-cases an email address
func LowerEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
