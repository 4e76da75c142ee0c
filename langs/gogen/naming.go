package gogen

import (
	"go/token"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// reservedFieldNames are taken by the generated record itself.
var reservedFieldNames = map[string]bool{
	"RowID":           true,
	"StaticTableID":   true,
	"TableID":         true,
	"Identifier":      true,
	"IdentifierField": true,
	"ReadOnlyFields":  true,
}

// GoFieldName turns a display name into an exported Go identifier:
// "Order Id" and "order-id" both become "OrderID".
func GoFieldName(display string) string {
	name := joinWords(splitWords(display))
	if name == "" {
		return "Field"
	}
	if !startsUpper(name) {
		name = "F" + name
	}
	return name
}

// TypeName is the record type name of a table.
func TypeName(display string) string {
	name := joinWords(splitWords(display))
	if name == "" {
		return "Table"
	}
	if !startsUpper(name) {
		name = "T" + name
	}
	return name
}

// PackageName turns a database name into a lower snake_case package name.
func PackageName(display string) string {
	words := splitWords(display)
	for i := range words {
		words[i] = strings.ToLower(words[i])
	}
	name := strings.Join(words, "_")
	switch {
	case name == "":
		return "db"
	case name[0] >= '0' && name[0] <= '9':
		name = "db_" + name
	case token.IsKeyword(name):
		name += "_db"
	}
	return name
}

// lowerFirst is used for unexported package level names:
// "Orders" -> "orders", "IDCards" -> "idCards".
func lowerFirst(s string) string {
	rs := []rune(s)
	n := 0
	for n < len(rs) && unicode.IsUpper(rs[n]) {
		n++
	}
	if n > 1 && n < len(rs) {
		n--
	}
	for i := 0; i < n; i++ {
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}

func joinWords(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalizeWord(w))
	}
	return b.String()
}

// capitalizeWord capitalizes a word with special handling for common abbreviations
func capitalizeWord(word string) string {
	switch strings.ToLower(word) {
	case "id":
		return "ID"
	case "url":
		return "URL"
	case "uri":
		return "URI"
	case "http":
		return "HTTP"
	case "api":
		return "API"
	case "json":
		return "JSON"
	case "xml":
		return "XML"
	case "uuid":
		return "UUID"
	case "ip":
		return "IP"
	case "db":
		return "DB"
	default:
		if word == "" {
			return ""
		}
		return cases.Title(language.Und).String(word)
	}
}

// splitWords breaks a display name on anything that is not a letter or a
// digit, and on lower-to-upper case changes. Accents are dropped first so
// "Café" and "Cafe" produce the same words.
func splitWords(display string) []string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, display)
	if err != nil {
		plain = display
	}

	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	rs := []rune(plain)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(current) > 0 && unicode.IsUpper(r) {
			prev := current[len(current)-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()

	return words
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
