// Package casing converts schema property names into the kebab-case input
// names used in action.yml.
package casing

import "strings"

// Kebab converts name to kebab-case.
//
// A hyphen is inserted before every maximal run of ASCII uppercase letters
// except at the start of the string, and the run is lowercased. When a run of
// two or more uppercase letters is followed by a lowercase letter, the last
// uppercase letter starts a new word: "HTTPServer" becomes "http-server" and
// "ABCdef" becomes "ab-cdef". Everything else is copied unchanged, so the
// conversion is idempotent on strings that are already kebab-case.
func Kebab(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	emit := func(offset int, word string) {
		if offset > 0 {
			b.WriteByte('-')
		}
		b.WriteString(strings.ToLower(word))
	}

	for i := 0; i < len(name); {
		if !isUpper(name[i]) {
			b.WriteByte(name[i])
			i++
			continue
		}

		j := i
		for j < len(name) && isUpper(name[j]) {
			j++
		}

		if j < len(name) && isLower(name[j]) {
			if j-i > 1 {
				emit(i, name[i:j-1])
			}
			emit(j-1, name[j-1:j])
		} else {
			emit(i, name[i:j])
		}
		i = j
	}

	return b.String()
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
