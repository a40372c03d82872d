// utils/validation.go
package utils

import (
	"strings"
	"unicode"
)

// NormalizeDNI strips everything but digits ("30.111.222" -> "30111222").
func NormalizeDNI(dni string) string {
	return keepDigits(dni)
}

// NormalizePhone strips separators and keeps digits only.
func NormalizePhone(phone string) string {
	return keepDigits(phone)
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPersonName checks a trimmed name: letters and spaces only, at least
// two characters. Accented letters count as letters.
func ValidPersonName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
