// Package tagscan tokenizes fragments of raw HTML into tags and text.
// It never interprets markup beyond that, and never fails: whatever it
// cannot read as a tag comes back as text.
package tagscan

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// TokenType classifies a scanned token.
type TokenType uint8

const (
	Text TokenType = iota + 1
	StartTag
	EndTag
	SelfClosingTag
)

// Token is one piece of scanned markup. Name is the lower-cased tag name
// for tags; Text is the decoded text for Text tokens. Attributes are
// never kept.
type Token struct {
	Type TokenType
	Name string
	Text []byte
}

// Scan tokenizes markup. Comments and doctypes are dropped, as is the
// content of script and style elements.
func Scan(markup []byte) []Token {
	var s Scanner
	return s.Scan(markup)
}

// Scanner tokenizes consecutive fragments of one document. A script or
// style element left open by one fragment keeps hiding the text of the
// next until its end tag arrives or Reset is called.
type Scanner struct {
	skipUntil string
}

// Skipping returns the name of the script or style element whose content
// is being dropped, or "".
func (s *Scanner) Skipping() string {
	return s.skipUntil
}

// Reset forgets any open script or style element.
func (s *Scanner) Reset() {
	s.skipUntil = ""
}

// Scan tokenizes the next fragment.
func (s *Scanner) Scan(markup []byte) []Token {
	var out []Token
	z := html.NewTokenizer(bytes.NewReader(markup))
	consumed := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) && consumed < len(markup) {
				// Unterminated tag: keep the remainder as literal text.
				if s.skipUntil == "" {
					out = append(out, Token{Type: Text, Text: markup[consumed:]})
				}
			}
			return out
		}
		consumed += len(z.Raw())

		switch tt {
		case html.TextToken:
			if s.skipUntil != "" {
				continue
			}
			out = append(out, Token{Type: Text, Text: append([]byte(nil), z.Text()...)})
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if s.skipUntil != "" {
				continue
			}
			if tag == "script" || tag == "style" {
				s.skipUntil = tag
			}
			out = append(out, Token{Type: StartTag, Name: tag})
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if s.skipUntil != "" {
				if tag != s.skipUntil {
					continue
				}
				s.skipUntil = ""
			}
			out = append(out, Token{Type: EndTag, Name: tag})
		case html.SelfClosingTagToken:
			if s.skipUntil != "" {
				continue
			}
			name, _ := z.TagName()
			out = append(out, Token{Type: SelfClosingTag, Name: string(name)})
		}
	}
}

// ExtractText returns only the text content of markup, in order.
func ExtractText(markup []byte) [][]byte {
	var out [][]byte
	for _, tok := range Scan(markup) {
		if tok.Type == Text {
			out = append(out, tok.Text)
		}
	}
	return out
}

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoid reports whether name is an HTML element that never has content
// or a closing tag.
func IsVoid(name string) bool {
	return voidElements[strings.ToLower(name)]
}
