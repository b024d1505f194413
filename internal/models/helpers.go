package models

import "strings"

func trim(s string) string {
	return strings.TrimSpace(s)
}

func joinName(first, last string) string {
	return strings.Join(strings.Fields(trim(first)+" "+trim(last)), " ")
}
