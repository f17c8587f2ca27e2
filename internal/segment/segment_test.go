package segment

import (
	"strings"
	"testing"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \t\n  ", 0},
		{"simple", "Hello, world!", 2},
		{"contraction", "don't", 1},
		{"hyphenated", "well-known", 1},
		{"decimal", "3.14", 1},
		{"en dash is not a word", "Heading 2 – More Heading", 4},
		{"lone punctuation", "!", 0},
		{"em dash", "—", 0},
		{"emoji only", "\U0001F44D\U0001F436", 0},
		{"underscore only", "__", 0},
		{"identifier with underscore", "snake_case", 1},
		{"spaced hyphen", "a - b", 2},
		{"ellipsis", "Hello…", 1},
		{"accented", "café naïve", 2},
		{"combining mark", "café", 1},
		{"cyrillic", "Привет мир", 2},
		{"ideographs", "世界", 2},
		{"code", "fn main() {}", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountString(tt.text); got != tt.want {
				t.Errorf("CountString(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCount_WhitespaceRunsDoNotMatter(t *testing.T) {
	words := []string{"The", "quick", "brown", "fox", "jumps"}
	for _, sep := range []string{" ", "   ", "\t", "\n\n", " \t \n "} {
		text := sep + strings.Join(words, sep) + sep
		if got := CountString(text); got != len(words) {
			t.Errorf("separator %q: expected %d, got %d", sep, len(words), got)
		}
	}
}

func TestUnits_CoverInput(t *testing.T) {
	text := "Hello, wide world! 3.14 — ok"
	var b strings.Builder
	var wordsSeen []string
	for u := range Units([]byte(text)) {
		b.Write(u.Text)
		if u.Word {
			wordsSeen = append(wordsSeen, string(u.Text))
		}
	}
	if b.String() != text {
		t.Fatalf("units do not reassemble the input: got %q", b.String())
	}
	want := []string{"Hello", "wide", "world", "3.14", "ok"}
	if strings.Join(wordsSeen, "|") != strings.Join(want, "|") {
		t.Errorf("expected words %v, got %v", want, wordsSeen)
	}
}

func TestUnits_StopEarly(t *testing.T) {
	n := 0
	for range Units([]byte("one two three four")) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("expected iteration to stop after 2 units, got %d", n)
	}
}
