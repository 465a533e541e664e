// Package naming derives identifiers for OpenAPI components from operation
// ids and security types.
package naming

import (
	"strconv"
	"strings"
	"unicode"
)

var initialisms = map[string]bool{
	"API":   true,
	"CSV":   true,
	"DNS":   true,
	"HTML":  true,
	"HTTP":  true,
	"HTTPS": true,
	"ID":    true,
	"IP":    true,
	"JSON":  true,
	"JWT":   true,
	"PDF":   true,
	"SKU":   true,
	"SQL":   true,
	"TLS":   true,
	"TTL":   true,
	"UI":    true,
	"UID":   true,
	"URI":   true,
	"URL":   true,
	"UTF8":  true,
	"UUID":  true,
	"XML":   true,
}

// PascalCase joins the words of s, upper-casing known initialisms:
// "get-user-id" becomes "GetUserID".
func PascalCase(s string) string {
	var b strings.Builder
	for _, word := range splitWords(s) {
		upper := strings.ToUpper(word)
		if initialisms[upper] {
			b.WriteString(upper)
		} else {
			b.WriteString(capitalize(word))
		}
	}
	return b.String()
}

// CamelCase is PascalCase with a lower-case first word.
func CamelCase(s string) string {
	var b strings.Builder
	for i, word := range splitWords(s) {
		if i == 0 {
			b.WriteString(strings.ToLower(word))
			continue
		}
		upper := strings.ToUpper(word)
		if initialisms[upper] {
			b.WriteString(upper)
		} else {
			b.WriteString(capitalize(word))
		}
	}
	return b.String()
}

// SchemaName names the component schema of an operation body,
// e.g. SchemaName("create-order", "Request") is "CreateOrderRequest".
func SchemaName(operationID, suffix string) string {
	name := PascalCase(operationID)
	if name == "" {
		name = "Schema"
	} else if unicode.IsDigit(rune(name[0])) {
		name = "X" + name
	}
	return name + suffix
}

// Unique returns name, or name with the smallest numeric suffix not yet in
// taken. The returned name is added to taken.
func Unique(name string, taken map[string]bool) string {
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	taken[candidate] = true
	return candidate
}

// splitWords splits on every rune that is not a letter or digit and on
// lower-to-upper case changes.
func splitWords(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	var prev rune
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()

	return words
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	for i := 1; i < len(runes); i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
