package usecase

import "strings"

const countryCode = "254"

// NormalizePhone turns a login handle into the canonical phone form:
// whitespace is removed, a leading "0" becomes the country code and a
// leading "+" is dropped. Anything else is returned as is.
func NormalizePhone(phone string) string {
	p := strings.Join(strings.Fields(phone), "")
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "0"):
		return countryCode + p[1:]
	case strings.HasPrefix(p, "+"):
		return p[1:]
	default:
		return p
	}
}
