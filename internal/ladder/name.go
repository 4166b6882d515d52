package ladder

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Names may contain letters, digits, underscores and whitespace. The accented
// letters cover the Scandinavian alphabet.
var namePattern = regexp.MustCompile(`^[0-9A-Za-z_ÆØÅæøå\s]+$`)

// ValidName reports whether a player or office name is acceptable: trimmed,
// 2-24 characters, limited to the allowed character set.
func ValidName(name string) bool {
	length := utf8.RuneCountInString(name)
	return length > 1 &&
		length < 25 &&
		strings.TrimSpace(name) == name &&
		namePattern.MatchString(name)
}
