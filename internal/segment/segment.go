// Package segment splits text into Unicode word-boundary units (UAX #29)
// and decides which of them are words.
package segment

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"
)

// Hyphens join the parts of a compound ("well-known") instead of
// splitting it.
var joiners = &words.Joiners[[]byte]{
	Middle: []rune{'-', '‐'},
}

// Unit is one word-boundary unit of a text run.
type Unit struct {
	Text []byte
	Word bool // contains at least one letter, number or mark
}

// Units yields every boundary unit of text in order, separators included.
func Units(text []byte) iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		tokens := words.FromBytes(text)
		tokens.Joiners(joiners)
		for tokens.Next() {
			v := tokens.Value()
			if !yield(Unit{Text: v, Word: IsWord(v)}) {
				return
			}
		}
	}
}

// Count returns the number of word units in text.
func Count(text []byte) int {
	n := 0
	for u := range Units(text) {
		if u.Word {
			n++
		}
	}
	return n
}

// CountString is Count for strings.
func CountString(text string) int {
	return Count([]byte(text))
}

// IsWord reports whether unit carries letter, number or mark content.
// Whitespace, punctuation and symbol-only units (emoji included) are not
// words.
func IsWord(unit []byte) bool {
	for len(unit) > 0 {
		r, size := utf8.DecodeRune(unit)
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) {
			return true
		}
		unit = unit[size:]
	}
	return false
}
