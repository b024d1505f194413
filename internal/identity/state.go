package identity

import (
	"regexp"
	"strings"
)

// StatesAndUTs is the canonical list of Indian states and union territories
var StatesAndUTs = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Andaman and Nicobar Islands",
	"Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi",
	"Jammu and Kashmir",
	"Ladakh",
	"Lakshadweep",
	"Puducherry",
}

// keys are stored after whitespace and ampersand normalization, lower-cased
var stateSynonyms = map[string]string{
	"nct of delhi":           "Delhi",
	"delhi nct":              "Delhi",
	"delhi ncr":              "Delhi",
	"orissa":                 "Odisha",
	"pondicherry":            "Puducherry",
	"dadra and nagar haveli": "Dadra and Nagar Haveli and Daman and Diu",
	"daman and diu":          "Dadra and Nagar Haveli and Daman and Diu",
	"andaman and nicobar":    "Andaman and Nicobar Islands",
}

var canonicalByLower = func() map[string]string {
	m := make(map[string]string, len(StatesAndUTs))
	for _, s := range StatesAndUTs {
		m[strings.ToLower(s)] = s
	}
	return m
}()

var whitespace = regexp.MustCompile(`\s+`)

// CanonicalState maps a state name or one of its known spellings onto
// StatesAndUTs. Unrecognized input is returned trimmed.
func CanonicalState(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(strings.ReplaceAll(s, "&", "and"))
	s = whitespace.ReplaceAllString(s, " ")

	key := strings.ToLower(s)
	if synonym, ok := stateSynonyms[key]; ok {
		return synonym
	}
	if canon, ok := canonicalByLower[key]; ok {
		return canon
	}
	return s
}

// IsCanonicalState reports whether s is exactly one of StatesAndUTs
func IsCanonicalState(s string) bool {
	canon, ok := canonicalByLower[strings.ToLower(s)]
	return ok && canon == s
}
