package competency

import "strings"

// NormalizeName is the identity key for categories, skills and roles:
// trimmed, internal whitespace collapsed to one space, lowercased.
// Whitespace means ASCII space, \t, \n, \v, \f and \r only, the same class the
// store's normalized-name expression uses; other Unicode spaces such as
// U+00A0 are kept as part of the name.
func NormalizeName(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(strings.Join(strings.FieldsFunc(s, isNameSpace), " "))
}

func isNameSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
