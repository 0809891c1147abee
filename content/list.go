package content

import "strings"

// SplitList turns the comma separated edit value of a list field into its
// items, trimming each one. Items are kept as typed, empty ones included,
// so "a, b," yields ["a" "b" ""]. An entirely blank value is an empty list.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// JoinList formats a list field for its text input.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
