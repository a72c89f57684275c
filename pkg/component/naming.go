package component

import (
	"strings"
)

// ToKebabCase lower-cases s and joins whitespace-separated words with "-".
// "Card 3D" -> "card-3d".
func ToKebabCase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// ToPascalCase upper-cases the first letter of every "-" separated word and
// joins them. The rest of each word is kept as is: "card-3d" -> "Card3d".
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, word := range strings.Split(s, "-") {
		b.WriteString(capitalize(word))
	}
	return b.String()
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
