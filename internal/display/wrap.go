package display

import (
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

var firstUpper = cases.Title(language.Und, cases.NoLower)

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// Capitalize returns s with its first letter uppercased. The rest of s,
// player names included, is left untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return firstUpper.String(s[:size]) + s[size:]
}
