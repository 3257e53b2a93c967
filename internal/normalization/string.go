package normalization

import "strings"

// ParseInputString lower-cases and trims free-form input such as operating modes.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Token canonicalizes an enum token: surrounding whitespace is dropped and the
// value is upper-cased. Empty input stays empty.
func Token(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// Synonym maps a canonical token through a synonym table, returning the token
// unchanged when it has no entry.
func Synonym(token string, table map[string]string) string {
	if mapped, ok := table[token]; ok {
		return mapped
	}
	return token
}
