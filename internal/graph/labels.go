package graph

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxLabelLength = 8164

// ValidLabel checks the generic label rule: not blank, printable, bounded.
func ValidLabel(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return validText(s)
}

// ValidLiteralLabel allows blank labels but keeps the length and control
// character rules.
func ValidLiteralLabel(s string) bool {
	return validText(s)
}

func validText(s string) bool {
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) > MaxLabelLength {
		return false
	}
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			continue
		}
		if unicode.IsControl(ch) {
			return false
		}
	}
	return true
}

// ValidDescription applies the label rule to optional descriptions. Absent
// descriptions are valid.
func ValidDescription(s *string) bool {
	return s == nil || ValidLabel(*s)
}

// IsAbsoluteURI reports whether s parses as a URI with a scheme.
func IsAbsoluteURI(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}
